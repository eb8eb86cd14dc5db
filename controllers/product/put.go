package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/junaidrashid-git/canteen-api/controllers/response"
	"github.com/junaidrashid-git/canteen-api/services"
)

// UpdateProductInput is a partial update: omitted fields keep their value.
type UpdateProductInput struct {
	Name        *string          `json:"name" binding:"omitempty,max=120"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price"`
	IsAvailable *bool            `json:"is_available"`
	ImageURL    *string          `json:"image_url"`
	CategoryID  *uint            `json:"category_id"`
}

// UpdateProduct also serves as the availability toggle:
// PUT /admin/products/:id {"is_available": false}
func UpdateProduct(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := response.IDParam(c, "id")
		if !ok {
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, "Invalid input: "+err.Error())
			return
		}

		product, err := svc.UpdateProduct(c.Request.Context(), id, services.ProductPatch{
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			IsAvailable: input.IsAvailable,
			ImageURL:    input.ImageURL,
			CategoryID:  input.CategoryID,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
