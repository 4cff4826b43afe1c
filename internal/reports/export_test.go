package reports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/Burmese-AI/Fyndora-sub003/internal/models"
)

func TestWriteCSV(t *testing.T) {
	rep := &RemittanceReport{
		GeneratedAt: time.Now(),
		Summary: RemittanceSummary{
			TotalDue:      d("1000"),
			TotalPaid:     d("400"),
			OverdueAmount: d("0"),
			RemainingDue:  d("600"),
		},
		Rows: []RemittanceReportRow{
			{Workspace: "Alpha", Team: "Falcons", Due: "1000.00", Paid: "400.00", Remaining: "600.00", Status: "partial"},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rep); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	r := csv.NewReader(strings.NewReader(buf.String()))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}

	if len(records) < 2 {
		t.Fatalf("expected header plus rows, got %d records", len(records))
	}
	if records[0][0] != "Workspace" || records[0][5] != "Status" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][1] != "Falcons" || records[1][4] != "600.00" {
		t.Errorf("unexpected data row: %v", records[1])
	}

	out := buf.String()
	for _, want := range []string{"Total Due,1000.00", "Remaining Due,600.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary line %q missing from output", want)
		}
	}
}

func TestBuildRemittanceReport(t *testing.T) {
	setupTestDB(t)
	f := newReportFixture(t)

	f.addRemittance(t, "1000", "400", models.RemittanceStatusPartial, nil)

	rep, err := BuildRemittanceReport(f.Org.ID, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(rep.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rep.Rows))
	}
	if rep.Rows[0].Remaining != "600.00" || rep.Rows[0].Status != "partial" {
		t.Errorf("unexpected row: %+v", rep.Rows[0])
	}
	if !rep.Summary.TotalDue.Equal(d("1000")) {
		t.Errorf("summary total_due=%s, want 1000", rep.Summary.TotalDue)
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, rep); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("xlsx output is empty")
	}
}
