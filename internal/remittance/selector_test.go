package remittance

import (
	"testing"
	"time"

	"github.com/Burmese-AI/Fyndora-sub003/internal/database"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"
)

// listFixture builds one organization with two workspaces sharing a team
// plus a second team, giving three pairings with one remittance each.
type listFixture struct {
	Org        models.Organization
	Alpha      models.Workspace
	Beta       models.Workspace
	Falcons    models.Team
	Owls       models.Team
	AlphaFalc  models.WorkspaceTeam
	AlphaOwls  models.WorkspaceTeam
	BetaFalc   models.WorkspaceTeam
	Remittance map[string]*models.Remittance
}

func newListFixture(t *testing.T) listFixture {
	t.Helper()

	user := models.User{Name: "owner", Email: "list-owner@test.local", PasswordHash: "x", Role: models.RoleOrgOwner}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	org := models.Organization{Title: "Listing Org", OwnerID: user.ID}
	if err := database.DB.Create(&org).Error; err != nil {
		t.Fatalf("create org: %v", err)
	}

	mkWS := func(title string) models.Workspace {
		ws := models.Workspace{
			OrganizationID: org.ID,
			Title:          title,
			Status:         models.WorkspaceStatusActive,
			RemittanceRate: d("90"),
			StartDate:      time.Now().AddDate(0, -1, 0),
		}
		if err := database.DB.Create(&ws).Error; err != nil {
			t.Fatalf("create workspace: %v", err)
		}
		return ws
	}
	mkTeam := func(title string) models.Team {
		team := models.Team{OrganizationID: org.ID, Title: title}
		if err := database.DB.Create(&team).Error; err != nil {
			t.Fatalf("create team: %v", err)
		}
		return team
	}
	mkPair := func(ws models.Workspace, team models.Team, due string) (models.WorkspaceTeam, *models.Remittance) {
		wt := models.WorkspaceTeam{WorkspaceID: ws.ID, TeamID: team.ID}
		if err := database.DB.Create(&wt).Error; err != nil {
			t.Fatalf("create pairing: %v", err)
		}
		rem, err := Create(wt.ID, d(due))
		if err != nil {
			t.Fatalf("create remittance: %v", err)
		}
		return wt, rem
	}

	f := listFixture{Org: org, Remittance: map[string]*models.Remittance{}}
	f.Alpha = mkWS("Alpha Project")
	f.Beta = mkWS("Beta Project")
	f.Falcons = mkTeam("Falcons")
	f.Owls = mkTeam("Night Owls")

	f.AlphaFalc, f.Remittance["alpha-falcons"] = mkPair(f.Alpha, f.Falcons, "100")
	f.AlphaOwls, f.Remittance["alpha-owls"] = mkPair(f.Alpha, f.Owls, "200")
	f.BetaFalc, f.Remittance["beta-falcons"] = mkPair(f.Beta, f.Falcons, "300")

	return f
}

func TestListFiltersCombineWithAnd(t *testing.T) {
	setupTestDB(t)
	f := newListFixture(t)

	all, err := List(Filter{OrganizationID: f.Org.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 remittances, got %d", len(all))
	}

	byWS, err := List(Filter{OrganizationID: f.Org.ID, WorkspaceID: &f.Alpha.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byWS) != 2 {
		t.Errorf("alpha workspace should have 2 remittances, got %d", len(byWS))
	}

	both, err := List(Filter{OrganizationID: f.Org.ID, WorkspaceID: &f.Alpha.ID, TeamID: &f.Falcons.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(both) != 1 {
		t.Fatalf("workspace+team filter should narrow to 1, got %d", len(both))
	}
	if both[0].ID != f.Remittance["alpha-falcons"].ID {
		t.Error("wrong remittance returned for combined filter")
	}

	partial := models.RemittanceStatusPartial
	none, err := List(Filter{OrganizationID: f.Org.ID, Status: &partial})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("no partial remittances exist, got %d", len(none))
	}
	if none == nil {
		t.Error("empty result must be a slice, not nil")
	}
}

func TestListSearch(t *testing.T) {
	setupTestDB(t)
	f := newListFixture(t)

	// Case-insensitive match on workspace title.
	got, err := List(Filter{OrganizationID: f.Org.ID, Search: "ALPHA"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("search alpha should match 2, got %d", len(got))
	}

	// Team title matches across workspaces.
	got, err = List(Filter{OrganizationID: f.Org.ID, Search: "falcons"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("search falcons should match 2, got %d", len(got))
	}

	// Status text is searchable too.
	got, err = List(Filter{OrganizationID: f.Org.ID, Search: "pend"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("all remittances are pending, got %d", len(got))
	}

	got, err = List(Filter{OrganizationID: f.Org.ID, Search: "no such thing"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}

func TestListSearchCombinesWithFilters(t *testing.T) {
	setupTestDB(t)
	f := newListFixture(t)

	got, err := List(Filter{OrganizationID: f.Org.ID, WorkspaceID: &f.Alpha.ID, Search: "falcons"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1, got %d", len(got))
	}
	if got[0].ID != f.Remittance["alpha-falcons"].ID {
		t.Error("search within workspace returned the wrong row")
	}
}

func TestListExcludesSoftDeleted(t *testing.T) {
	setupTestDB(t)
	f := newListFixture(t)

	if err := database.DB.Delete(f.Remittance["alpha-owls"]).Error; err != nil {
		t.Fatalf("delete remittance: %v", err)
	}
	if err := database.DB.Delete(&f.Beta).Error; err != nil {
		t.Fatalf("delete workspace: %v", err)
	}

	got, err := List(Filter{OrganizationID: f.Org.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// alpha-owls is deleted directly, beta-falcons through its workspace.
	if len(got) != 1 {
		t.Fatalf("expected 1 visible remittance, got %d", len(got))
	}
	if got[0].ID != f.Remittance["alpha-falcons"].ID {
		t.Error("wrong remittance survived soft deletion")
	}
}

func TestListOrdering(t *testing.T) {
	setupTestDB(t)
	f := newListFixture(t)

	got, err := List(Filter{OrganizationID: f.Org.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Fatal("listing must be newest first")
		}
	}
}
