package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/canteen-api/controllers/response"
	"github.com/junaidrashid-git/canteen-api/middleware"
	"github.com/junaidrashid-git/canteen-api/services"
)

type UpdateUserInput struct {
	Name  *string `json:"name" binding:"omitempty,max=120"`
	Phone *string `json:"phone" binding:"omitempty,max=32"`
}

// GET /user
func GetUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.GetProfile(c.Request.Context(), middleware.Identity(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users?role=
func GetAllUsers(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.ListUsers(c.Request.Context(), c.Query("role"))
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// PUT /user
func UpdateUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, "Invalid input: "+err.Error())
			return
		}

		user, err := svc.SaveProfile(c.Request.Context(), middleware.Identity(c), services.ProfileInput{
			Name:  input.Name,
			Phone: input.Phone,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
