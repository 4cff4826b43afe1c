package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/Burmese-AI/Fyndora-sub003/internal/models"
	"github.com/Burmese-AI/Fyndora-sub003/internal/remittance"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// RemittanceReport is the flattened export of an organization's remittance
// position: one row per remittance plus the aggregated summary.
type RemittanceReport struct {
	GeneratedAt time.Time
	Summary     RemittanceSummary
	Rows        []RemittanceReportRow
}

type RemittanceReportRow struct {
	Workspace string
	Team      string
	Due       string
	Paid      string
	Remaining string
	Status    string
}

var reportColumns = []string{"Workspace", "Team", "Due Amount", "Paid Amount", "Remaining", "Status"}

func BuildRemittanceReport(organizationID uuid.UUID, workspaceID *uuid.UUID) (*RemittanceReport, error) {
	summary, err := GetRemittanceSummary(organizationID, workspaceID)
	if err != nil {
		return nil, err
	}

	rems, err := remittance.List(remittance.Filter{
		OrganizationID: organizationID,
		WorkspaceID:    workspaceID,
	})
	if err != nil {
		return nil, err
	}

	rep := &RemittanceReport{
		GeneratedAt: time.Now(),
		Summary:     *summary,
		Rows:        make([]RemittanceReportRow, 0, len(rems)),
	}
	for i := range rems {
		rep.Rows = append(rep.Rows, reportRow(&rems[i]))
	}
	return rep, nil
}

func reportRow(r *models.Remittance) RemittanceReportRow {
	return RemittanceReportRow{
		Workspace: r.WorkspaceTeam.Workspace.Title,
		Team:      r.WorkspaceTeam.Team.Title,
		Remaining: r.RemainingAmount().StringFixed(2),
		Due:       r.DueAmount.StringFixed(2),
		Paid:      r.PaidAmount.StringFixed(2),
		Status:    string(r.Status),
	}
}

// WriteCSV renders the report as CSV: header, rows, then the summary block.
func WriteCSV(w io.Writer, rep *RemittanceReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(reportColumns); err != nil {
		return err
	}
	for _, row := range rep.Rows {
		record := []string{row.Workspace, row.Team, row.Due, row.Paid, row.Remaining, row.Status}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	summaryRecords := [][]string{
		{},
		{"Total Due", rep.Summary.TotalDue.StringFixed(2)},
		{"Total Paid", rep.Summary.TotalPaid.StringFixed(2)},
		{"Overdue Amount", rep.Summary.OverdueAmount.StringFixed(2)},
		{"Remaining Due", rep.Summary.RemainingDue.StringFixed(2)},
	}
	for _, record := range summaryRecords {
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX renders the report as a single-sheet spreadsheet.
func WriteXLSX(w io.Writer, rep *RemittanceReport) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for col, header := range reportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for i, row := range rep.Rows {
		values := []string{row.Workspace, row.Team, row.Due, row.Paid, row.Remaining, row.Status}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	summaryStart := len(rep.Rows) + 3
	summaryRows := [][2]string{
		{"Total Due", rep.Summary.TotalDue.StringFixed(2)},
		{"Total Paid", rep.Summary.TotalPaid.StringFixed(2)},
		{"Overdue Amount", rep.Summary.OverdueAmount.StringFixed(2)},
		{"Remaining Due", rep.Summary.RemainingDue.StringFixed(2)},
	}
	for i, pair := range summaryRows {
		labelCell := fmt.Sprintf("A%d", summaryStart+i)
		valueCell := fmt.Sprintf("B%d", summaryStart+i)
		if err := f.SetCellValue(sheet, labelCell, pair[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, valueCell, pair[1]); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
