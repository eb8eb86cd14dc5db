package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/junaidrashid-git/canteen-api/controllers/admin"
	productcontroller "github.com/junaidrashid-git/canteen-api/controllers/product"
	userControllers "github.com/junaidrashid-git/canteen-api/controllers/user"
)

// SetupAdminRoutes registers the “/admin/*” catalog and user endpoints.
func SetupAdminRoutes(adminGroup *gin.RouterGroup, d Deps) {
	// ─────────── Admin & User Management ───────────
	adminGroup.GET("/admins", adminController.GetAllAdmins(d.Users))
	adminGroup.GET("/users", userControllers.GetAllUsers(d.Users))

	// ─────────── Product Management ───────────
	productAdmin := adminGroup.Group("/products")
	{
		productAdmin.POST("", productcontroller.CreateProduct(d.Catalog))
		productAdmin.PUT("/:id", productcontroller.UpdateProduct(d.Catalog))
		productAdmin.GET("", productcontroller.GetProducts(d.Catalog, true))
		productAdmin.DELETE("/:id", productcontroller.DeleteProduct(d.Catalog))
		productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.Catalog))
		productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.Catalog))
	}

	// ─────────── Category Management ───────────
	categoryAdmin := adminGroup.Group("/categories")
	{
		categoryAdmin.POST("", productcontroller.CreateCategory(d.Catalog))
		categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(d.Catalog))
		categoryAdmin.GET("", productcontroller.GetAllCategories(d.Catalog))
		categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(d.Catalog))
	}
}
