package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Applications"

// ContentType is the MIME type of the workbook written by WriteApplications.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var header = []interface{}{"ID", "Profile ID", "Purpose", "Amount Requested", "Status", "Applied On"}

// ApplicationRow is one line of the reviewer export.
type ApplicationRow struct {
	ID              string
	ProfileID       string
	Purpose         string
	AmountRequested int64
	Status          string
	CreatedAt       time.Time
}

// WriteApplications renders rows as an xlsx workbook.
func WriteApplications(w io.Writer, rows []ApplicationRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.ID,
			r.ProfileID,
			r.Purpose,
			r.AmountRequested,
			r.Status,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "B", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "C", "C", 40); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
