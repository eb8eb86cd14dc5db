package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/canteen-api/controllers/response"
	"github.com/junaidrashid-git/canteen-api/models"
	"github.com/junaidrashid-git/canteen-api/services"
)

// GetAllAdmins lists canteen staff who have signed in at least once.
func GetAllAdmins(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		admins, err := svc.ListUsers(c.Request.Context(), models.RoleAdmin)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, admins)
	}
}
