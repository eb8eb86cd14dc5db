package productcontroller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/canteen-api/controllers/response"
	"github.com/junaidrashid-git/canteen-api/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func ExportProductsToExcel(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Buffer first so a failure can still be reported as JSON.
		var buf bytes.Buffer
		if err := svc.ExportProducts(c.Request.Context(), &buf); err != nil {
			response.Error(c, err)
			return
		}

		filename := fmt.Sprintf("products_%s.xlsx", time.Now().Format("20060102_150405"))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}
