package remittance

import (
	"errors"
	"testing"
	"time"

	"github.com/Burmese-AI/Fyndora-sub003/internal/database"
	"github.com/Burmese-AI/Fyndora-sub003/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fixture struct {
	Org  models.Organization
	WS   models.Workspace
	Team models.Team
	WT   models.WorkspaceTeam
}

// newFixture creates an organization with one workspace-team pairing. The
// workspace uses the given rate; a non-nil customRate overrides it on the team.
func newFixture(t *testing.T, rate string, customRate *string, endDate *time.Time) fixture {
	t.Helper()

	user := models.User{Name: "owner", Email: uuid.NewString() + "@test.local", PasswordHash: "x", Role: models.RoleOrgOwner}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	org := models.Organization{Title: "Org " + uuid.NewString(), OwnerID: user.ID}
	if err := database.DB.Create(&org).Error; err != nil {
		t.Fatalf("create org: %v", err)
	}

	ws := models.Workspace{
		OrganizationID: org.ID,
		Title:          "Workspace " + uuid.NewString(),
		Status:         models.WorkspaceStatusActive,
		RemittanceRate: d(rate),
		StartDate:      time.Now().AddDate(0, -1, 0),
		EndDate:        endDate,
	}
	if err := database.DB.Create(&ws).Error; err != nil {
		t.Fatalf("create workspace: %v", err)
	}

	team := models.Team{OrganizationID: org.ID, Title: "Team " + uuid.NewString()}
	if customRate != nil {
		cr := d(*customRate)
		team.CustomRemittanceRate = &cr
	}
	if err := database.DB.Create(&team).Error; err != nil {
		t.Fatalf("create team: %v", err)
	}

	wt := models.WorkspaceTeam{WorkspaceID: ws.ID, TeamID: team.ID}
	if err := database.DB.Create(&wt).Error; err != nil {
		t.Fatalf("create workspace team: %v", err)
	}

	return fixture{Org: org, WS: ws, Team: team, WT: wt}
}

func incomeEntry(f fixture, amount string) *models.Entry {
	return &models.Entry{
		OrganizationID:  f.Org.ID,
		WorkspaceID:     f.WS.ID,
		WorkspaceTeamID: f.WT.ID,
		Type:            models.EntryTypeIncome,
		Amount:          d(amount),
		Status:          models.EntryStatusPendingReview,
		OccurredAt:      time.Now(),
	}
}

func TestCreateRejectsDuplicate(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t, "90", nil, nil)

	if _, err := Create(f.WT.ID, d("100")); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := Create(f.WT.ID, d("50"))
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Message != "A remittance already exists for this workspace team" {
		t.Errorf("unexpected message: %q", verr.Message)
	}
}

func TestCreateUnknownPairing(t *testing.T) {
	setupTestDB(t)

	if _, err := Create(uuid.New(), d("100")); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordPaymentProgression(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t, "90", nil, nil)

	rem, err := Create(f.WT.ID, d("1000"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rem.Status != models.RemittanceStatusPending {
		t.Fatalf("new remittance should be pending, got %q", rem.Status)
	}

	rem, err = RecordPayment(rem.ID, d("400"))
	if err != nil {
		t.Fatalf("partial payment: %v", err)
	}
	if rem.Status != models.RemittanceStatusPartial {
		t.Errorf("after 400/1000 expected partial, got %q", rem.Status)
	}

	rem, err = RecordPayment(rem.ID, d("600"))
	if err != nil {
		t.Fatalf("final payment: %v", err)
	}
	if rem.Status != models.RemittanceStatusPaid {
		t.Errorf("after 1000/1000 expected paid, got %q", rem.Status)
	}
	if rem.IsOverpaid {
		t.Error("exact payment must not flag overpaid")
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t, "90", nil, nil)

	rem, err := Create(f.WT.ID, d("100"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var verr *models.ValidationError

	if _, err := RecordPayment(rem.ID, d("0")); !errors.As(err, &verr) {
		t.Fatalf("zero payment should fail, got %v", err)
	}

	_, err = RecordPayment(rem.ID, d("150"))
	if !errors.As(err, &verr) {
		t.Fatalf("overpayment should fail, got %v", err)
	}
	if verr.Message != "Paid amount cannot exceed the due amount" {
		t.Errorf("unexpected message: %q", verr.Message)
	}

	// Failed payment must not mutate the row.
	got, err := Get(rem.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.PaidAmount.IsZero() || got.Status != models.RemittanceStatusPending {
		t.Errorf("rejected payment leaked state: paid=%s status=%q", got.PaidAmount, got.Status)
	}
}

func TestCancel(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t, "90", nil, nil)

	rem, err := Create(f.WT.ID, d("500"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rem, err = Cancel(rem.ID)
	if err != nil {
		t.Fatalf("cancel with no payments: %v", err)
	}
	if rem.Status != models.RemittanceStatusCanceled {
		t.Fatalf("expected canceled, got %q", rem.Status)
	}

	// Canceled is terminal.
	if _, err := RecordPayment(rem.ID, d("100")); err == nil {
		t.Error("payment on a canceled remittance must fail")
	}
}

func TestCancelWithPaymentsRejected(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t, "90", nil, nil)

	rem, err := Create(f.WT.ID, d("500"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := RecordPayment(rem.ID, d("200")); err != nil {
		t.Fatalf("payment: %v", err)
	}

	_, err = Cancel(rem.ID)
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Message != "Cannot cancel a remittance that has payments recorded" {
		t.Errorf("unexpected message: %q", verr.Message)
	}
}

func TestConfirm(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t, "90", nil, nil)

	user := models.User{Name: "reviewer", Email: "reviewer@test.local", PasswordHash: "x", Role: models.RoleOrgOwner}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	rem, err := Create(f.WT.ID, d("300"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := Confirm(rem.ID, user.ID, "checked"); err == nil {
		t.Fatal("confirming an unpaid remittance must fail")
	}

	if _, err := RecordPayment(rem.ID, d("300")); err != nil {
		t.Fatalf("payment: %v", err)
	}

	rem, err = Confirm(rem.ID, user.ID, "checked")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if rem.ConfirmedByID == nil || *rem.ConfirmedByID != user.ID {
		t.Error("confirmed_by not recorded")
	}
	if rem.ConfirmedAt == nil {
		t.Error("confirmed_at not recorded")
	}
}

func TestApplyIncomeEntryRates(t *testing.T) {
	setupTestDB(t)

	// Workspace rate applies when the team has no override.
	f := newFixture(t, "90", nil, nil)
	rem, err := applyInTx(incomeEntry(f, "750"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !rem.DueAmount.Equal(d("675")) {
		t.Errorf("750 at 90%% should owe 675, got %s", rem.DueAmount)
	}

	// Team override wins over the workspace rate.
	custom := "15"
	f2 := newFixture(t, "90", &custom, nil)
	rem, err = applyInTx(incomeEntry(f2, "1000"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !rem.DueAmount.Equal(d("150")) {
		t.Errorf("1000 at 15%% should owe 150, got %s", rem.DueAmount)
	}
}

func TestApplyIncomeEntryAccumulates(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t, "90", nil, nil)

	if _, err := applyInTx(incomeEntry(f, "500")); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	rem, err := applyInTx(incomeEntry(f, "300"))
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}

	if !rem.DueAmount.Equal(d("720")) {
		t.Errorf("500+300 at 90%% should owe 720, got %s", rem.DueAmount)
	}

	// Both entries landed on the single remittance for the pairing.
	var count int64
	database.DB.Model(&models.Remittance{}).Where("workspace_team_id = ?", f.WT.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected one remittance per pairing, got %d", count)
	}
}

func TestApplyIncomeEntryIgnoresNonIncome(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t, "90", nil, nil)

	entry := incomeEntry(f, "500")
	entry.Type = models.EntryTypeDisbursement
	rem, err := applyInTx(entry)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if rem != nil {
		t.Error("disbursement entries must not accrue remittance")
	}
}

func TestApplyIncomeEntryRejectsCanceled(t *testing.T) {
	setupTestDB(t)
	f := newFixture(t, "90", nil, nil)

	rem, err := Create(f.WT.ID, d("0"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := Cancel(rem.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err = applyInTx(incomeEntry(f, "1000"))
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("income on a canceled remittance should fail, got %v", err)
	}
	if verr.Message != "Cannot accrue income on a canceled remittance" {
		t.Errorf("unexpected message: %q", verr.Message)
	}

	// The canceled row is untouched.
	got, err := Get(rem.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.DueAmount.IsZero() || got.Status != models.RemittanceStatusCanceled {
		t.Errorf("canceled remittance mutated: due=%s status=%q", got.DueAmount, got.Status)
	}
}

func TestSweepOverdue(t *testing.T) {
	setupTestDB(t)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)

	ended := newFixture(t, "90", nil, &yesterday)
	running := newFixture(t, "90", nil, &tomorrow)

	if _, err := Create(ended.WT.ID, d("100")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := Create(running.WT.ID, d("100")); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Separate organizations; sweep only the ended one.
	flipped, err := SweepOverdue(ended.Org.ID)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if flipped != 1 {
		t.Fatalf("expected 1 flipped, got %d", flipped)
	}

	rem, err := GetByWorkspaceTeam(ended.WT.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rem.PaidWithinDeadlines {
		t.Error("ended workspace remittance should be flagged overdue")
	}

	rem, err = GetByWorkspaceTeam(running.WT.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !rem.PaidWithinDeadlines {
		t.Error("running workspace remittance must stay within deadlines")
	}

	// A second sweep finds nothing left to flip.
	flipped, err = SweepOverdue(ended.Org.ID)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if flipped != 0 {
		t.Errorf("expected 0 flipped on repeat sweep, got %d", flipped)
	}
}

func TestSweepOverdueSkipsPaid(t *testing.T) {
	setupTestDB(t)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	f := newFixture(t, "90", nil, &yesterday)

	rem, err := Create(f.WT.ID, d("100"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := RecordPayment(rem.ID, d("100")); err != nil {
		t.Fatalf("payment: %v", err)
	}

	flipped, err := SweepOverdue(f.Org.ID)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if flipped != 0 {
		t.Errorf("paid remittance must not be flagged, flipped=%d", flipped)
	}
}

func applyInTx(entry *models.Entry) (*models.Remittance, error) {
	var rem *models.Remittance
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		rem, err = ApplyIncomeEntry(tx, entry)
		return err
	})
	return rem, err
}
