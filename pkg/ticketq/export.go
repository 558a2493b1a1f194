package ticketq

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/goatkit/ticketq/pkg/models"
)

// exportColumns is the fixed export schema, shared by CSV and XLSX.
var exportColumns = []string{
	"id", "status", "team", "description", "created",
	"days_since_created", "updated", "days_since_updated", "url",
}

const exportTimeLayout = "2006-01-02 15:04:05"

func exportRow(t *models.Ticket, includeFullDescription bool) []string {
	description := t.Description
	if !includeFullDescription {
		description = t.ShortDescription()
	}
	return []string{
		t.ID,
		t.Status,
		t.TeamName,
		description,
		t.CreatedAt.Format(exportTimeLayout),
		strconv.Itoa(t.DaysSinceCreated()),
		t.UpdatedAt.Format(exportTimeLayout),
		strconv.Itoa(t.DaysSinceUpdated()),
		t.URL,
	}
}

// WriteCSV writes tickets to w in the fixed column order. Quoting is
// the writer's problem; descriptions with delimiters round-trip through
// any standard CSV reader.
func WriteCSV(w io.Writer, tickets []*models.Ticket, includeFullDescription bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return err
	}
	for _, t := range tickets {
		if err := cw.Write(exportRow(t, includeFullDescription)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes tickets to a CSV file at path.
func (l *Library) ExportCSV(tickets []*models.Ticket, path string, includeFullDescription bool) error {
	l.report("Writing CSV...")
	f, err := os.Create(path)
	if err != nil {
		return models.NewValidationError(
			fmt.Sprintf("cannot create export file %s", path), "path", err,
			"Check the directory exists and is writable")
	}
	defer f.Close()

	if err := WriteCSV(f, tickets, includeFullDescription); err != nil {
		return models.NewValidationError(
			fmt.Sprintf("cannot write export file %s", path), "path", err)
	}
	return f.Close()
}

// ExportXLSX writes tickets to an Excel workbook at path, same schema
// as the CSV export plus a frozen, bold header row.
func (l *Library) ExportXLSX(tickets []*models.Ticket, path string, includeFullDescription bool) error {
	l.report("Writing XLSX...")
	wb := excelize.NewFile()
	defer wb.Close()

	const sheet = "Tickets"
	index, err := wb.NewSheet(sheet)
	if err != nil {
		return err
	}
	wb.SetActiveSheet(index)
	if err := wb.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for col, name := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := wb.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	headerStyle, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
		wb.SetCellStyle(sheet, "A1", last, headerStyle)
	}
	if err := wb.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}

	for row, t := range tickets {
		values := exportRow(t, includeFullDescription)
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			// Keep timestamps as real date cells so spreadsheet
			// sorting works on them.
			switch col {
			case 4, 6:
				ts, perr := time.Parse(exportTimeLayout, v)
				if perr == nil {
					err = wb.SetCellValue(sheet, cell, ts)
				} else {
					err = wb.SetCellValue(sheet, cell, v)
				}
			case 5, 7:
				n, _ := strconv.Atoi(v)
				err = wb.SetCellValue(sheet, cell, n)
			default:
				err = wb.SetCellValue(sheet, cell, v)
			}
			if err != nil {
				return err
			}
		}
	}

	if err := wb.SaveAs(path); err != nil {
		return models.NewValidationError(
			fmt.Sprintf("cannot write export file %s", path), "path", err,
			"Check the directory exists and is writable")
	}
	return nil
}
