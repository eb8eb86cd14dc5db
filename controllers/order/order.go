package orderControllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/junaidrashid-git/canteen-api/controllers/response"
	"github.com/junaidrashid-git/canteen-api/middleware"
	"github.com/junaidrashid-git/canteen-api/models"
	"github.com/junaidrashid-git/canteen-api/services"
)

// -------- Request Structs --------
type PlaceOrderRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes" binding:"max=500"`
}

// -------- Helpers --------

// orderFilter reads ?page=&page_size=&status= and, for admins, ?user_id=.
func orderFilter(c *gin.Context) (services.OrderFilter, bool) {
	var f services.OrderFilter

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			response.BadRequest(c, "Invalid page")
			return f, false
		}
		f.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			response.BadRequest(c, "Invalid page_size")
			return f, false
		}
		f.PageSize = size
	}
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			response.BadRequest(c, "Invalid status")
			return f, false
		}
		f.Status = status
	}
	return f, true
}

// -------- Customer Handlers --------

// POST /user/orders
func PlaceOrderHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(c, "Invalid input: "+err.Error())
			return
		}

		order, err := svc.CreateFromCart(c.Request.Context(), middleware.UserID(c), req.Notes)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// GET /user/orders
func GetUserOrdersHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := orderFilter(c)
		if !ok {
			return
		}
		page, err := svc.ListForUser(c.Request.Context(), middleware.UserID(c), f)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GET /user/orders/:id
func GetOrderByIDHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := response.IDParam(c, "id")
		if !ok {
			return
		}
		order, err := svc.GetByID(c.Request.Context(), id, middleware.UserID(c), false)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// POST /user/orders/:id/cancel
func CancelOrderHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := response.IDParam(c, "id")
		if !ok {
			return
		}
		order, err := svc.Cancel(c.Request.Context(), id, middleware.UserID(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// -------- Admin Handlers --------

// GET /admin/orders
func GetAllOrdersHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := orderFilter(c)
		if !ok {
			return
		}
		f.UserID = c.Query("user_id")

		page, err := svc.ListAll(c.Request.Context(), f)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GET /admin/orders/:id
func GetAdminOrderHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := response.IDParam(c, "id")
		if !ok {
			return
		}
		order, err := svc.GetByID(c.Request.Context(), id, middleware.UserID(c), true)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:id/status
func UpdateOrderStatusHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := response.IDParam(c, "id")
		if !ok {
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid input: "+err.Error())
			return
		}
		status, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		order, err := svc.UpdateStatus(c.Request.Context(), id, status, middleware.UserID(c), req.Notes)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
