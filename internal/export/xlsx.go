// Package export turns collection snapshots into spreadsheet and chart
// artifacts for offline review.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dealhawk/deal-service/internal/feed"
)

const sheetName = "Deals"

var columns = []string{
	"Local ID", "Keyword", "ASIN", "Title", "Rewritten Title",
	"Discount %", "Original Price", "Current Price", "Coupon",
	"Rating", "Reviews", "URL",
}

// Workbook builds an xlsx workbook from a collection snapshot, one row per
// deal in collection order. The caller owns closing the file.
func Workbook(deals []feed.Deal) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, d := range deals {
		values := []interface{}{
			d.LocalID, d.Keyword, d.ASIN, d.Title, d.Rewritten,
			d.Discount, d.OriginalPrice, d.CurrentPrice, d.ResolveCoupon(),
			d.Rating, d.ReviewCount, d.URL,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	return f, nil
}

// WriteXLSX streams the workbook for the given snapshot to w.
func WriteXLSX(deals []feed.Deal, w io.Writer) error {
	f, err := Workbook(deals)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook for the given snapshot to path.
func SaveXLSX(deals []feed.Deal, path string) error {
	f, err := Workbook(deals)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
