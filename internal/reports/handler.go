package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type scopeParams struct {
	OrganizationID uuid.UUID
	WorkspaceID    *uuid.UUID
}

func parseScope(c *fiber.Ctx) (scopeParams, error) {
	orgID, err := uuid.Parse(c.Params("orgID"))
	if err != nil {
		return scopeParams{}, fiber.NewError(fiber.StatusBadRequest, "Invalid organization id")
	}
	scope := scopeParams{OrganizationID: orgID}
	if ws := c.Query("workspace_id"); ws != "" {
		id, err := uuid.Parse(ws)
		if err != nil {
			return scopeParams{}, fiber.NewError(fiber.StatusBadRequest, "Invalid workspace id")
		}
		scope.WorkspaceID = &id
	}
	return scope, nil
}

// GetRemittanceSummaryHandler GET /api/organizations/:orgID/reports/remittances
func GetRemittanceSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := parseScope(c)
		if err != nil {
			return err
		}

		summary, err := GetRemittanceSummary(scope.OrganizationID, scope.WorkspaceID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to build remittance summary")
		}
		return c.JSON(summary)
	}
}

// GetEntryCountsHandler GET /api/organizations/:orgID/reports/entries
func GetEntryCountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := parseScope(c)
		if err != nil {
			return err
		}

		counts, err := GetEntryCounts(scope.OrganizationID, scope.WorkspaceID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to count entries")
		}
		return c.JSON(counts)
	}
}

// ExportRemittancesHandler GET /api/organizations/:orgID/reports/remittances/export?format=csv|xlsx
func ExportRemittancesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := parseScope(c)
		if err != nil {
			return err
		}

		format := c.Query("format", "csv")
		if format != "csv" && format != "xlsx" {
			return fiber.NewError(fiber.StatusBadRequest, "Format must be csv or xlsx")
		}

		rep, err := BuildRemittanceReport(scope.OrganizationID, scope.WorkspaceID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to build remittance report")
		}

		filename := fmt.Sprintf("remittances_%s.%s", time.Now().Format("2006-01-02"), format)
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

		var buf bytes.Buffer
		switch format {
		case "csv":
			c.Set("Content-Type", "text/csv")
			err = WriteCSV(&buf, rep)
		default:
			c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			err = WriteXLSX(&buf, rep)
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to render report")
		}
		return c.Send(buf.Bytes())
	}
}
