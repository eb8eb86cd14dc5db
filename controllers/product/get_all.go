package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/junaidrashid-git/canteen-api/controllers/response"
	"github.com/junaidrashid-git/canteen-api/services"
)

// GetProducts lists the menu. Public callers only ever see available
// products; the admin listing passes includeUnavailable.
func GetProducts(svc *services.CatalogService, includeUnavailable bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1️⃣ Filtering & sorting params
		f := services.ProductFilter{
			Search:        c.Query("search"),
			SortBy:        c.DefaultQuery("sort_by", "created_at"),
			Order:         c.DefaultQuery("order", "desc"),
			AvailableOnly: !includeUnavailable || c.Query("available") == "true",
		}

		// 2️⃣ Price range
		for param, dst := range map[string]**decimal.Decimal{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
			raw := c.Query(param)
			if raw == "" {
				continue
			}
			v, err := decimal.NewFromString(raw)
			if err != nil {
				response.BadRequest(c, "Invalid "+param)
				return
			}
			*dst = &v
		}

		// 3️⃣ Category
		if raw := c.Query("category_id"); raw != "" {
			cid, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				response.BadRequest(c, "Invalid category_id")
				return
			}
			id := uint(cid)
			f.CategoryID = &id
		}

		products, err := svc.ListProducts(c.Request.Context(), f)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
