package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/junaidrashid-git/canteen-api/controllers/response"
	"github.com/junaidrashid-git/canteen-api/middleware"
	"github.com/junaidrashid-git/canteen-api/services"
)

type CreateProductInput struct {
	Name        string           `json:"name" binding:"required,max=120"`
	Description string           `json:"description" binding:"max=1000"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	IsAvailable *bool            `json:"is_available"`
	ImageURL    string           `json:"image_url" binding:"omitempty,url"`
	CategoryID  *uint            `json:"category_id"`
}

// CreateProduct adds a product to the menu. Products are available unless
// the request says otherwise.
func CreateProduct(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, "Invalid input: "+err.Error())
			return
		}

		available := true
		if input.IsAvailable != nil {
			available = *input.IsAvailable
		}

		product, err := svc.CreateProduct(c.Request.Context(), services.ProductInput{
			Name:        input.Name,
			Description: input.Description,
			Price:       *input.Price,
			IsAvailable: available,
			ImageURL:    input.ImageURL,
			CategoryID:  input.CategoryID,
		})
		if err != nil {
			response.Error(c, err)
			return
		}

		middleware.Logger(c).WithField("product_id", product.ID).Info("product created by admin")
		c.JSON(http.StatusCreated, product)
	}
}
