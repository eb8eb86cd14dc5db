package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/junaidrashid-git/canteen-api/controllers/order"
)

func SetupOrderRoutes(userGroup, adminGroup *gin.RouterGroup, d Deps) {
	orders := userGroup.Group("/orders")
	{
		// Turn the cart into an order
		orders.POST("", orderControllers.PlaceOrderHandler(d.Orders))

		// Own orders, newest first
		orders.GET("", orderControllers.GetUserOrdersHandler(d.Orders))
		orders.GET("/:id", orderControllers.GetOrderByIDHandler(d.Orders))

		// Pending orders only
		orders.POST("/:id/cancel", orderControllers.CancelOrderHandler(d.Orders))
	}

	kitchen := adminGroup.Group("/orders")
	{
		kitchen.GET("", orderControllers.GetAllOrdersHandler(d.Orders))

		// websocket endpoint for real-time order updates
		kitchen.GET("/ws", d.Hub.Handler())

		kitchen.GET("/:id", orderControllers.GetAdminOrderHandler(d.Orders))
		kitchen.PUT("/:id/status", orderControllers.UpdateOrderStatusHandler(d.Orders))
	}
}
