package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/canteen-api/controllers/response"
	"github.com/junaidrashid-git/canteen-api/services"
)

const maxImportSize = 10 << 20

// ImportProductsFromExcel takes a multipart "file" in the export layout.
func ImportProductsFromExcel(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			response.BadRequest(c, "Excel file is required")
			return
		}
		if excelFileHeader.Size > maxImportSize {
			response.BadRequest(c, "Excel file is too large")
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			response.Error(c, err)
			return
		}
		defer file.Close()

		result, err := svc.ImportProducts(c.Request.Context(), file, excelFileHeader.Size)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Import completed",
			"result":  result,
		})
	}
}
