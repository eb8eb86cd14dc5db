package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/canteen-api/controllers/response"
	"github.com/junaidrashid-git/canteen-api/services"
)

type CategoryInput struct {
	Name        *string `json:"name" binding:"omitempty,max=80"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	SortOrder   *int    `json:"sort_order"`
}

func CreateCategory(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, "Invalid input: "+err.Error())
			return
		}
		if input.Name == nil {
			response.BadRequest(c, "name is required")
			return
		}

		var description string
		if input.Description != nil {
			description = *input.Description
		}
		var sortOrder int
		if input.SortOrder != nil {
			sortOrder = *input.SortOrder
		}

		category, err := svc.CreateCategory(c.Request.Context(), *input.Name, description, sortOrder)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// GetAllCategoriesWithProducts is the public menu grouped by category.
func GetAllCategoriesWithProducts(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.ListCategories(c.Request.Context(), true)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GetAllCategories returns all categories.
func GetAllCategories(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.ListCategories(c.Request.Context(), false)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func UpdateCategory(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := response.IDParam(c, "id")
		if !ok {
			return
		}
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, "Invalid input: "+err.Error())
			return
		}

		category, err := svc.UpdateCategory(c.Request.Context(), id, input.Name, input.Description, input.SortOrder)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func DeleteCategory(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := response.IDParam(c, "id")
		if !ok {
			return
		}
		if err := svc.DeleteCategory(c.Request.Context(), id); err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
