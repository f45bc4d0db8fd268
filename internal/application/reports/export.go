package reports

import (
	"fmt"

	"supplies-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	LowStockSheet = "Low Stock"
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var lowStockHeadings = []string{"ID", "Description", "Type", "Color", "Unit", "Stock", "Threshold"}

// LowStockWorkbook renders the low-stock report as a single-sheet workbook.
func LowStockWorkbook(rows []domain.SupplyView, threshold decimal.Decimal) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", LowStockSheet); err != nil {
		return nil, err
	}

	for i, h := range lowStockHeadings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(LowStockSheet, cell, h); err != nil {
			return nil, err
		}
	}

	limit, _ := threshold.Float64()
	for i, r := range rows {
		stock, _ := r.StockActual.Float64()
		row := i + 2
		values := []interface{}{
			r.ID,
			r.Description,
			deref(r.TypeName),
			deref(r.ColorName),
			deref(r.UomDescription),
			stock,
			limit,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(LowStockSheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}
	return f, nil
}

// Filename names an export by the date it was produced on.
func Filename(date string) string {
	return "low-stock-" + date + ".xlsx"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
