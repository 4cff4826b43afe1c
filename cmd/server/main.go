package main

import (
	"log"
	"strings"

	"github.com/Burmese-AI/Fyndora-sub003/internal/audit"
	"github.com/Burmese-AI/Fyndora-sub003/internal/auth"
	"github.com/Burmese-AI/Fyndora-sub003/internal/config"
	"github.com/Burmese-AI/Fyndora-sub003/internal/database"
	"github.com/Burmese-AI/Fyndora-sub003/internal/entries"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"
	"github.com/Burmese-AI/Fyndora-sub003/internal/organizations"
	"github.com/Burmese-AI/Fyndora-sub003/internal/remittance"
	"github.com/Burmese-AI/Fyndora-sub003/internal/reports"
	"github.com/Burmese-AI/Fyndora-sub003/internal/workspaces"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-owner", auth.RegisterOwnerHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Organizations
	protected.Post("/organizations", organizations.CreateOrganizationHandler())
	protected.Get("/organizations", organizations.ListOrganizationsHandler())
	protected.Get("/organizations/:id", organizations.GetOrganizationHandler())
	protected.Put("/organizations/:id", organizations.UpdateOrganizationHandler())
	protected.Delete("/organizations/:id", auth.RequireRole(models.RoleOrgOwner), organizations.DeleteOrganizationHandler())

	// Workspaces and teams
	protected.Post("/organizations/:orgID/workspaces", workspaces.CreateWorkspaceHandler())
	protected.Get("/organizations/:orgID/workspaces", workspaces.ListWorkspacesHandler())
	protected.Get("/workspaces/:id", workspaces.GetWorkspaceHandler())
	protected.Put("/workspaces/:id", workspaces.UpdateWorkspaceHandler())
	protected.Delete("/workspaces/:id", workspaces.DeleteWorkspaceHandler())
	protected.Post("/organizations/:orgID/teams", workspaces.CreateTeamHandler())
	protected.Get("/organizations/:orgID/teams", workspaces.ListTeamsHandler())
	protected.Delete("/teams/:id", workspaces.DeleteTeamHandler())
	protected.Post("/workspaces/:id/teams", workspaces.AddTeamToWorkspaceHandler())
	protected.Get("/workspaces/:id/teams", workspaces.ListWorkspaceTeamsHandler())
	protected.Delete("/workspaces/:id/teams/:teamID", workspaces.RemoveTeamFromWorkspaceHandler())

	// Entries
	protected.Post("/entries", entries.CreateEntryHandler())
	protected.Get("/organizations/:orgID/entries", entries.ListEntriesHandler())
	protected.Get("/organizations/:orgID/entries/stats", entries.GetEntryStatsHandler())
	protected.Get("/entries/:id", entries.GetEntryHandler())
	protected.Put("/entries/:id/review", entries.ReviewEntryHandler())
	protected.Delete("/entries/:id", entries.DeleteEntryHandler())

	// Remittances
	protected.Get("/organizations/:orgID/remittances", remittance.ListRemittancesHandler())
	protected.Get("/remittances/:id", remittance.GetRemittanceHandler())
	protected.Post("/remittances/:id/payments", remittance.RecordPaymentHandler())
	protected.Post("/remittances/:id/confirm", remittance.ConfirmRemittanceHandler())
	protected.Post("/remittances/:id/cancel", remittance.CancelRemittanceHandler())
	protected.Post("/organizations/:orgID/remittances/sweep-overdue", remittance.SweepOverdueHandler())

	// Reports
	protected.Get("/organizations/:orgID/reports/remittances", reports.GetRemittanceSummaryHandler())
	protected.Get("/organizations/:orgID/reports/remittances/export", reports.ExportRemittancesHandler())
	protected.Get("/organizations/:orgID/reports/entries", reports.GetEntryCountsHandler())

	// Audit trail
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Printf("Server listening on :%s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
