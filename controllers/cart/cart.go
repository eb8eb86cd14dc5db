package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/canteen-api/controllers/response"
	"github.com/junaidrashid-git/canteen-api/middleware"
	"github.com/junaidrashid-git/canteen-api/models"
	"github.com/junaidrashid-git/canteen-api/services"
)

type AddCartItemInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=99"`
	Notes     string `json:"notes" binding:"max=255"`
}

type UpdateCartItemInput struct {
	Quantity *int    `json:"quantity" binding:"required,max=99"`
	Notes    *string `json:"notes" binding:"omitempty,max=255"`
}

type cartView struct {
	*models.Cart
	Total string `json:"total"`
}

// GET /user/cart
func GetUserCart(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.GetCart(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView{Cart: cart, Total: cart.Total().StringFixed(2)})
	}
}

// POST /user/cart/items
func AddCartItem(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, "Invalid input: "+err.Error())
			return
		}

		item, err := svc.AddItem(c.Request.Context(), middleware.UserID(c), input.ProductID, input.Quantity, input.Notes)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// PUT /user/cart/items/:item_id
// A quantity of 0 removes the item.
func UpdateCartItem(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := response.IDParam(c, "item_id")
		if !ok {
			return
		}
		var input UpdateCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, "Invalid input: "+err.Error())
			return
		}

		item, err := svc.UpdateItem(c.Request.Context(), middleware.UserID(c), itemID, *input.Quantity, input.Notes)
		if err != nil {
			response.Error(c, err)
			return
		}
		if item == nil {
			c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /user/cart/items/:item_id
func DeleteCartItem(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := response.IDParam(c, "item_id")
		if !ok {
			return
		}
		if err := svc.RemoveItem(c.Request.Context(), middleware.UserID(c), itemID); err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// DELETE /user/cart
func ClearUserCart(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), middleware.UserID(c)); err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
