package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func TestExportProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.product(t, "Pretzel", "1.90", true)
	gone := f.product(t, "Gone", "1.00", true)
	require.NoError(t, f.catalog.DeleteProduct(ctx, gone.ID))

	var buf bytes.Buffer
	require.NoError(t, f.catalog.ExportProducts(ctx, &buf))

	book, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, book.Sheets, 1)
	sheet := book.Sheets[0]
	require.Equal(t, 2, sheet.MaxRow)

	assert.Equal(t, "Name", sheet.Rows[0].Cells[1].String())
	row := sheet.Rows[1]
	assert.Equal(t, "1", row.Cells[0].String())
	assert.Equal(t, "Pretzel", row.Cells[1].String())
	assert.Equal(t, "1.90", row.Cells[3].String())
	assert.Equal(t, "yes", row.Cells[4].String())
}

func TestImportProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	existing := f.product(t, "Pretzel", "1.90", true)

	book := xlsx.NewFile()
	sheet, err := book.AddSheet("Products")
	require.NoError(t, err)
	addRow := func(cells ...string) {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetValue(c)
		}
	}
	addRow(productSheetHeaders...)
	addRow("1", "Pretzel XL", "", "2.40", "no", "", "")
	addRow("", "Samosa", "spicy", "3.00", "yes", "", "")
	addRow("", "", "", "1.00", "yes", "", "")
	addRow("", "Free lunch", "", "abc", "yes", "", "")
	addRow("", "Veggie bowl", "", "6.50", "Y", "x", "")

	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))

	result, err := f.catalog.ImportProducts(ctx, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Created: 1, Updated: 1, Skipped: 3}, result)

	updated, err := f.catalog.GetProduct(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pretzel XL", updated.Name)
	assert.False(t, updated.IsAvailable)
	assert.True(t, decimal.RequireFromString("2.40").Equal(updated.Price))

	products, err := f.catalog.ListProducts(ctx, ProductFilter{Search: "samosa"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].IsAvailable)
	assert.Equal(t, "spicy", products[0].Description)
}

func TestImportProductsRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	data := []byte("not a workbook")

	_, err := f.catalog.ImportProducts(context.Background(), bytes.NewReader(data), int64(len(data)))
	requireKind(t, err, KindValidation)
}
