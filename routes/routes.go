package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/junaidrashid-git/canteen-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/canteen-api/controllers/product"
	"github.com/junaidrashid-git/canteen-api/middleware"
	"github.com/junaidrashid-git/canteen-api/services"
)

// Deps is everything the handlers need, built once in main.
type Deps struct {
	DB        *gorm.DB
	JWTSecret []byte

	Users   *services.UserService
	Catalog *services.CatalogService
	Carts   *services.CartService
	Orders  *services.OrderService
	Hub     *orderControllers.Hub
}

// SetupRoutes is the single entry-point that wires up the public menu, User,
// and Admin route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	auth := middleware.ValidateToken(d.JWTSecret)

	// 1️⃣ Public routes (no middleware)
	r.GET("/health", health(d.DB))
	menu := r.Group("/menu")
	{
		menu.GET("/products", productcontroller.GetProducts(d.Catalog, false))
		menu.GET("/products/:id", productcontroller.GetProductByID(d.Catalog))
		menu.GET("/categories", productcontroller.GetAllCategoriesWithProducts(d.Catalog))
	}

	// 2️⃣ User routes (JWT-protected)
	userGroup := r.Group("/user", auth)
	SetupUserRoutes(userGroup, d)

	// 3️⃣ Admin routes (JWT with the admin role)
	adminGroup := r.Group("/admin", auth, middleware.RequireAdmin())
	SetupAdminRoutes(adminGroup, d)

	// order routes live under both groups
	SetupOrderRoutes(userGroup, adminGroup, d)
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			middleware.Logger(c).WithError(err).Error("database ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
