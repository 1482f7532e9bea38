package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deal-desk/domain"
	"deal-desk/repository"
)

type failingSnapshotRepository struct {
	repository.SnapshotRepository
}

func (failingSnapshotRepository) Save(domain.DealSnapshot) error {
	return errors.New("disk full")
}

type failingLenderRepository struct{}

func (failingLenderRepository) List(string) ([]domain.LenderProfile, error) {
	return nil, errors.New("catalog offline")
}

func (failingLenderRepository) Put(string, []domain.LenderProfile) error {
	return errors.New("catalog offline")
}

type dealServiceFixture struct {
	service   *DealService
	lenders   *repository.LenderRepositoryMemory
	snapshots *repository.SnapshotRepositoryMemory
}

func newDealServiceFixture(t *testing.T) dealServiceFixture {
	t.Helper()

	settings := repository.NewSettingsRepositoryMemory()
	require.NoError(t, settings.Put(scenarioSettings()))

	lenders := repository.NewLenderRepositoryMemory()
	require.NoError(t, lenders.Put("dealer-1", []domain.LenderProfile{
		primeLender(),
		singleTierLender("L9", 600, "9.9"),
	}))

	snapshots := repository.NewSnapshotRepositoryMemory()
	svc := NewDealService(settings, lenders, snapshots, nil)

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	return dealServiceFixture{service: svc, lenders: lenders, snapshots: snapshots}
}

func homeStateDeal() domain.DealRecord {
	rec := validDealRecord()
	rec.RegistrationState = "TX"
	return rec
}

func TestDealService_Quote(t *testing.T) {
	f := newDealServiceFixture(t)

	quote, err := f.service.Quote("dealer-1", homeStateDeal(), domain.CustomerRecord{CreditScore: floatPtr(720)})
	require.NoError(t, err)

	assertDecimal(t, "30300", quote.Resolved.AmountToFinance)
	assertDecimal(t, "516.44", quote.Resolved.MonthlyPayment)
	assert.Equal(t, []string{"L1", "L9"}, lenderIDs(quote.Eligibility))
	assert.Equal(t, "B", quote.Eligibility[0].MatchedTier.Name)
	assertDecimal(t, "108.21", *quote.Eligibility[0].LTV)
	assert.Empty(t, quote.CeilingNotes)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 1, 0, 0, time.UTC), quote.CalculatedAt)
}

func TestDealService_QuoteWithoutStoredSettings(t *testing.T) {
	f := newDealServiceFixture(t)

	quote, err := f.service.Quote("dealer-2", homeStateDeal(), domain.CustomerRecord{})
	require.NoError(t, err)

	assertDecimal(t, "0", quote.Resolved.DocFee)
	assertDecimal(t, "29600", quote.Resolved.AmountToFinance)
	require.NotNil(t, quote.Eligibility)
	assert.Empty(t, quote.Eligibility)
}

func TestDealService_QuoteErrors(t *testing.T) {
	f := newDealServiceFixture(t)

	_, err := f.service.Quote(" ", homeStateDeal(), domain.CustomerRecord{})
	assert.ErrorIs(t, err, ErrMissingDealer)

	bad := homeStateDeal()
	bad.DownPayment = -100
	_, err = f.service.Quote("dealer-1", bad, domain.CustomerRecord{})
	var malformed *MalformedDealInputsError
	assert.ErrorAs(t, err, &malformed)

	_, err = f.service.Quote("dealer-1", homeStateDeal(), domain.CustomerRecord{CreditScore: floatPtr(950)})
	assert.ErrorAs(t, err, &malformed)

	svc := NewDealService(repository.NewSettingsRepositoryMemory(), failingLenderRepository{}, f.snapshots, nil)
	_, err = svc.Quote("dealer-1", homeStateDeal(), domain.CustomerRecord{})
	assert.EqualError(t, err, "load lenders for dealer dealer-1: catalog offline")
}

func TestDealService_CeilingNotes(t *testing.T) {
	f := newDealServiceFixture(t)

	quote, err := f.service.Quote("dealer-1", homeStateDeal(), domain.CustomerRecord{
		MaxPrice:   floatPtr(25000),
		MaxPayment: floatPtr(500),
		MaxMileage: floatPtr(10000),
		MaxOTDLTV:  floatPtr(110),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Selling price 30000.00 exceeds customer max 25000.00",
		"Monthly payment 516.44 exceeds customer max 500.00",
		"Mileage 42000 exceeds customer max 10000",
		"OTD LTV 117.14% exceeds customer max 110%",
	}, quote.CeilingNotes)
	assert.Len(t, quote.Eligibility, 2, "ceilings never remove lenders")
}

func TestDealService_OTDLTVCeilingUsesExactRatio(t *testing.T) {
	f := newDealServiceFixture(t)

	// 32800 / 28000 is 117.1428...%, which is above a 117.14% ceiling.
	quote, err := f.service.Quote("dealer-1", homeStateDeal(), domain.CustomerRecord{MaxOTDLTV: floatPtr(117.14)})
	require.NoError(t, err)
	assert.Equal(t, []string{"OTD LTV 117.15% exceeds customer max 117.14%"}, quote.CeilingNotes)

	quote, err = f.service.Quote("dealer-1", homeStateDeal(), domain.CustomerRecord{MaxOTDLTV: floatPtr(117.15)})
	require.NoError(t, err)
	assert.Empty(t, quote.CeilingNotes)
}

func TestDealService_SaveAndHistory(t *testing.T) {
	f := newDealServiceFixture(t)
	customer := domain.CustomerRecord{CreditScore: floatPtr(720)}

	first, err := f.service.Save("dealer-1", homeStateDeal(), customer)
	require.NoError(t, err)
	second, err := f.service.Save("dealer-1", homeStateDeal(), customer)
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "dealer-1", first.DealerID)
	assert.Equal(t, "dealer-1", first.Settings.DealerID)
	assert.Len(t, first.Lenders, 2)

	stored, err := f.service.Snapshot(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assertDecimal(t, "516.44", stored.Resolved.MonthlyPayment)

	history, err := f.service.History("dealer-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)

	_, err = f.service.History("")
	assert.ErrorIs(t, err, ErrMissingDealer)

	_, err = f.service.Snapshot("missing")
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)
}

func TestDealService_SaveFailure(t *testing.T) {
	f := newDealServiceFixture(t)
	f.service.snapshots = failingSnapshotRepository{}

	_, err := f.service.Save("dealer-1", homeStateDeal(), domain.CustomerRecord{})
	assert.EqualError(t, err, "save deal snapshot: disk full")
}

func TestDealService_RecalculateUsesFrozenCollaborators(t *testing.T) {
	f := newDealServiceFixture(t)

	saved, err := f.service.Save("dealer-1", homeStateDeal(), domain.CustomerRecord{CreditScore: floatPtr(720)})
	require.NoError(t, err)

	require.NoError(t, f.lenders.Put("dealer-1", nil))

	report, err := f.service.Recalculate(saved.ID)
	require.NoError(t, err)

	assert.False(t, report.Drifted)
	assert.Equal(t, saved.ID, report.SnapshotID)
	assert.Equal(t, []string{"L1", "L9"}, lenderIDs(report.Current.Eligibility))
	assert.True(t, report.Current.CalculatedAt.After(report.Frozen.CalculatedAt))
}

func TestDealService_RecalculateDetectsDrift(t *testing.T) {
	f := newDealServiceFixture(t)

	saved, err := f.service.Save("dealer-1", homeStateDeal(), domain.CustomerRecord{})
	require.NoError(t, err)

	tampered := saved
	tampered.ID = "tampered"
	tampered.Resolved.MonthlyPayment = dec("499.99")
	require.NoError(t, f.snapshots.Save(tampered))

	report, err := f.service.Recalculate("tampered")
	require.NoError(t, err)

	assert.True(t, report.Drifted)
	assertDecimal(t, "499.99", report.Frozen.Resolved.MonthlyPayment)
	assertDecimal(t, "516.44", report.Current.Resolved.MonthlyPayment)

	_, err = f.service.Recalculate("missing")
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)
}

func TestDealService_PaymentGrid(t *testing.T) {
	f := newDealServiceFixture(t)

	grid, err := f.service.PaymentGrid("dealer-1", homeStateDeal(), domain.CustomerRecord{MaxPayment: floatPtr(600)}, nil)
	require.NoError(t, err)

	assertDecimal(t, "30300", grid.AmountToFinance)
	assert.Equal(t, 60, grid.RecommendedTerm)

	_, err = f.service.PaymentGrid("", homeStateDeal(), domain.CustomerRecord{}, nil)
	assert.ErrorIs(t, err, ErrMissingDealer)
}
