package report

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"

	"github.com/creatorflow/apigateway/internal/domain"
)

// ColumnLayout overrides the header text and width of one report column.
type ColumnLayout struct {
	Header string  `yaml:"header"`
	Width  float64 `yaml:"width"`
}

// Layout is the YAML-configurable shape of the spending export. Columns
// are positional and map onto the fixed spending fields; omitted entries
// keep their defaults.
type Layout struct {
	Sheet   string         `yaml:"sheet"`
	Title   string         `yaml:"title"`
	Columns []ColumnLayout `yaml:"columns"`
}

// DefaultLayout returns the built-in report shape.
func DefaultLayout() *Layout {
	return &Layout{
		Sheet: "Spending",
		Title: "Spending Report",
		Columns: []ColumnLayout{
			{Header: "Item", Width: 30},
			{Header: "Category", Width: 20},
			{Header: "Quantity", Width: 12},
			{Header: "Cost Price", Width: 14},
			{Header: "Shipping Fee", Width: 14},
			{Header: "Total", Width: 14},
			{Header: "Cost Per Item", Width: 14},
		},
	}
}

// LoadLayout reads a YAML layout file and merges it over the defaults.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report layout: %w", err)
	}

	var override Layout
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse report layout: %w", err)
	}

	layout := DefaultLayout()
	if override.Sheet != "" {
		layout.Sheet = override.Sheet
	}
	if override.Title != "" {
		layout.Title = override.Title
	}
	for i, col := range override.Columns {
		if i >= len(layout.Columns) {
			break
		}
		if col.Header != "" {
			layout.Columns[i].Header = col.Header
		}
		if col.Width > 0 {
			layout.Columns[i].Width = col.Width
		}
	}
	return layout, nil
}

// BuildSpendingReport renders the entries into an xlsx workbook: a title
// row, a header row, one row per entry, and a grand-total row.
func BuildSpendingReport(entries []domain.Spending, layout *Layout) (*bytes.Buffer, error) {
	if layout == nil {
		layout = DefaultLayout()
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := layout.Sheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	title := fmt.Sprintf("%s — %s", layout.Title, time.Now().Format(domain.DateLayout))
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}

	for i, col := range layout.Columns {
		name, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, name, col.Header); err != nil {
			return nil, err
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, colName, colName, col.Width); err != nil {
			return nil, err
		}
	}

	grandTotal := 0.0
	for row, e := range entries {
		values := []interface{}{
			e.ItemName,
			e.Category,
			e.Quantity,
			e.CostPrice,
			e.ShippingFee,
			e.TotalSpending,
			e.CostPerItem,
		}
		for col, v := range values {
			name, err := excelize.CoordinatesToCellName(col+1, row+3)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, name, v); err != nil {
				return nil, err
			}
		}
		grandTotal += e.TotalSpending
	}

	totalRow := len(entries) + 3
	labelCell, err := excelize.CoordinatesToCellName(1, totalRow)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, labelCell, "Grand Total"); err != nil {
		return nil, err
	}
	totalCell, err := excelize.CoordinatesToCellName(6, totalRow)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, totalCell, grandTotal); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}
