package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/junaidrashid-git/canteen-api/controllers/cart"
	userControllers "github.com/junaidrashid-git/canteen-api/controllers/user"
)

// SetupUserRoutes registers all “/user/*” endpoints except orders.
func SetupUserRoutes(userGroup *gin.RouterGroup, d Deps) {
	// ──────────────── User Profile ────────────────
	userGroup.GET("/", userControllers.GetUser(d.Users))    // GET /user/
	userGroup.PUT("/", userControllers.UpdateUser(d.Users)) // PUT /user/

	// ──────────────── Cart ────────────────
	cartGroup := userGroup.Group("/cart")
	{
		cartGroup.GET("", cartControllers.GetUserCart(d.Carts))                      // GET /user/cart
		cartGroup.DELETE("", cartControllers.ClearUserCart(d.Carts))                 // DELETE /user/cart
		cartGroup.POST("/items", cartControllers.AddCartItem(d.Carts))               // POST /user/cart/items
		cartGroup.PUT("/items/:item_id", cartControllers.UpdateCartItem(d.Carts))    // PUT /user/cart/items/:item_id
		cartGroup.DELETE("/items/:item_id", cartControllers.DeleteCartItem(d.Carts)) // DELETE /user/cart/items/:item_id
	}
}
