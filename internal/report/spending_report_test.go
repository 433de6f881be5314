package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"github.com/creatorflow/apigateway/internal/domain"
)

func TestBuildSpendingReport(t *testing.T) {
	entries := []domain.Spending{
		{ItemName: "Ring light", Category: "Equipment", Quantity: 1, CostPrice: 40, ShippingFee: 5, TotalSpending: 45, CostPerItem: 45},
		{ItemName: "SD cards", Category: "Equipment", Quantity: 3, CostPrice: 10, ShippingFee: 0, TotalSpending: 30, CostPerItem: 10},
	}

	buf, err := BuildSpendingReport(entries, nil)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	assert.NoError(t, err)
	defer f.Close()

	sheet := "Spending"
	header, err := f.GetCellValue(sheet, "A2")
	assert.NoError(t, err)
	assert.Equal(t, "Item", header)

	item, err := f.GetCellValue(sheet, "A3")
	assert.NoError(t, err)
	assert.Equal(t, "Ring light", item)

	total, err := f.GetCellValue(sheet, "F5")
	assert.NoError(t, err)
	assert.Equal(t, "75", total)

	label, err := f.GetCellValue(sheet, "A5")
	assert.NoError(t, err)
	assert.Equal(t, "Grand Total", label)
}

func TestLoadLayoutMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")
	yamlContent := `
sheet: "Finances"
columns:
  - header: "Product"
    width: 40
  - {}
  - header: "Qty"
`
	assert.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	layout, err := LoadLayout(path)
	assert.NoError(t, err)
	assert.Equal(t, "Finances", layout.Sheet)
	assert.Equal(t, "Spending Report", layout.Title)
	assert.Equal(t, "Product", layout.Columns[0].Header)
	assert.Equal(t, 40.0, layout.Columns[0].Width)
	assert.Equal(t, "Category", layout.Columns[1].Header)
	assert.Equal(t, "Qty", layout.Columns[2].Header)
	assert.Equal(t, 12.0, layout.Columns[2].Width)
	assert.Len(t, layout.Columns, 7)
}

func TestLoadLayoutMissingFile(t *testing.T) {
	_, err := LoadLayout(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
