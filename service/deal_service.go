package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"deal-desk/domain"
	"deal-desk/repository"
)

// ErrMissingDealer is returned when a request carries no dealer id.
var ErrMissingDealer = errors.New("dealer id is required")

// DealService is the entry point for deal requests. It loads the dealer's
// settings and lender catalog, runs the engine and keeps saved snapshots.
type DealService struct {
	resolver  *DealFinancialResolver
	ranker    *EligibilityRanker
	grid      *PaymentGridService
	settings  repository.SettingsRepository
	lenders   repository.LenderRepository
	snapshots repository.SnapshotRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewDealService creates a DealService over the given collaborators.
func NewDealService(
	settings repository.SettingsRepository,
	lenders repository.LenderRepository,
	snapshots repository.SnapshotRepository,
	logger *slog.Logger,
) *DealService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DealService{
		resolver:  NewDealFinancialResolver(),
		ranker:    NewEligibilityRanker(NewLenderRuleEvaluator(logger), logger),
		grid:      NewPaymentGridService(),
		settings:  settings,
		lenders:   lenders,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

// Quote resolves the deal and ranks the dealer's lenders against it.
func (s *DealService) Quote(
	dealerID string,
	deal domain.DealRecord,
	customer domain.CustomerRecord,
) (domain.DealQuote, error) {
	quote, _, _, err := s.quote(dealerID, deal, customer)
	return quote, err
}

// Save quotes the deal and persists the inputs, the collaborator data and the
// result together as one immutable snapshot.
func (s *DealService) Save(
	dealerID string,
	deal domain.DealRecord,
	customer domain.CustomerRecord,
) (domain.DealSnapshot, error) {

	quote, settings, lenders, err := s.quote(dealerID, deal, customer)
	if err != nil {
		return domain.DealSnapshot{}, err
	}

	snapshot := domain.DealSnapshot{
		ID:        uuid.NewString(),
		DealerID:  dealerID,
		Settings:  settings,
		Lenders:   lenders,
		DealQuote: quote,
	}
	if err := s.snapshots.Save(snapshot); err != nil {
		return domain.DealSnapshot{}, fmt.Errorf("save deal snapshot: %w", err)
	}

	s.logger.Info("deal snapshot saved",
		"snapshot_id", snapshot.ID,
		"dealer_id", dealerID,
		"amount_to_finance", quote.Resolved.AmountToFinance.String(),
		"eligible_lenders", countEligible(quote.Eligibility),
	)
	return snapshot, nil
}

// Snapshot returns a saved deal.
func (s *DealService) Snapshot(id string) (domain.DealSnapshot, error) {
	return s.snapshots.Get(id)
}

// History lists a dealer's saved deals, newest first.
func (s *DealService) History(dealerID string) ([]domain.DealSnapshot, error) {
	if strings.TrimSpace(dealerID) == "" {
		return nil, ErrMissingDealer
	}
	return s.snapshots.ListByDealer(dealerID)
}

// Recalculate reruns the engine on a snapshot's stored inputs, settings and
// lenders and reports whether the result differs from the frozen one.
func (s *DealService) Recalculate(id string) (domain.DriftReport, error) {
	snapshot, err := s.snapshots.Get(id)
	if err != nil {
		return domain.DriftReport{}, err
	}

	current, err := s.compute(snapshot.Inputs, snapshot.Customer, snapshot.Settings, snapshot.Lenders)
	if err != nil {
		return domain.DriftReport{}, fmt.Errorf("recalculate snapshot %s: %w", id, err)
	}

	drifted, err := quotesDiffer(snapshot.DealQuote, current)
	if err != nil {
		return domain.DriftReport{}, err
	}
	if drifted {
		s.logger.Warn("deal snapshot drifted on recalculation", "snapshot_id", id)
	}

	return domain.DriftReport{
		SnapshotID: id,
		Drifted:    drifted,
		Frozen:     snapshot.DealQuote,
		Current:    current,
	}, nil
}

// PaymentGrid resolves the deal and quotes it across the given terms.
func (s *DealService) PaymentGrid(
	dealerID string,
	deal domain.DealRecord,
	customer domain.CustomerRecord,
	terms []int,
) (domain.PaymentGrid, error) {

	inputs, profile, settings, err := s.prepare(dealerID, deal, customer)
	if err != nil {
		return domain.PaymentGrid{}, err
	}
	resolved, err := s.resolver.Resolve(inputs, settings)
	if err != nil {
		return domain.PaymentGrid{}, err
	}
	return s.grid.Build(resolved, profile, terms)
}

func (s *DealService) quote(
	dealerID string,
	deal domain.DealRecord,
	customer domain.CustomerRecord,
) (domain.DealQuote, domain.DealerSettings, []domain.LenderProfile, error) {

	inputs, profile, settings, err := s.prepare(dealerID, deal, customer)
	if err != nil {
		return domain.DealQuote{}, domain.DealerSettings{}, nil, err
	}

	lenders, err := s.lenders.List(dealerID)
	if err != nil {
		return domain.DealQuote{}, domain.DealerSettings{}, nil, fmt.Errorf("load lenders for dealer %s: %w", dealerID, err)
	}

	quote, err := s.compute(inputs, profile, settings, lenders)
	if err != nil {
		return domain.DealQuote{}, domain.DealerSettings{}, nil, err
	}
	return quote, settings, lenders, nil
}

func (s *DealService) prepare(
	dealerID string,
	deal domain.DealRecord,
	customer domain.CustomerRecord,
) (domain.DealInputs, domain.CustomerProfile, domain.DealerSettings, error) {

	if strings.TrimSpace(dealerID) == "" {
		return domain.DealInputs{}, domain.CustomerProfile{}, domain.DealerSettings{}, ErrMissingDealer
	}

	inputs, err := MapDealRecord(deal)
	if err != nil {
		return domain.DealInputs{}, domain.CustomerProfile{}, domain.DealerSettings{}, err
	}
	profile, err := MapCustomerRecord(customer)
	if err != nil {
		return domain.DealInputs{}, domain.CustomerProfile{}, domain.DealerSettings{}, err
	}

	settings, err := s.settings.Get(dealerID)
	switch {
	case errors.Is(err, repository.ErrDealerNotFound):
		s.logger.Debug("no dealer settings stored, using zero defaults", "dealer_id", dealerID)
		settings = domain.DealerSettings{DealerID: dealerID}
	case err != nil:
		return domain.DealInputs{}, domain.CustomerProfile{}, domain.DealerSettings{}, fmt.Errorf("load settings for dealer %s: %w", dealerID, err)
	}

	return inputs, profile, settings, nil
}

// compute is the atomic resolve-then-rank unit; both halves see the same
// inputs.
func (s *DealService) compute(
	inputs domain.DealInputs,
	customer domain.CustomerProfile,
	settings domain.DealerSettings,
	lenders []domain.LenderProfile,
) (domain.DealQuote, error) {

	resolved, err := s.resolver.Resolve(inputs, settings)
	if err != nil {
		return domain.DealQuote{}, err
	}

	return domain.DealQuote{
		Inputs:       inputs,
		Customer:     customer,
		Resolved:     resolved,
		Eligibility:  s.ranker.Rank(resolved, lenders, customer),
		CeilingNotes: ceilingNotes(resolved, customer),
		CalculatedAt: s.now().UTC(),
	}, nil
}

// ceilingNotes lists the customer's advisory ceilings the deal exceeds.
func ceilingNotes(resolved domain.ResolvedDeal, customer domain.CustomerProfile) []string {
	var notes []string

	if customer.MaxPrice != nil && resolved.SellingPrice.GreaterThan(*customer.MaxPrice) {
		notes = append(notes, fmt.Sprintf("Selling price %s exceeds customer max %s",
			resolved.SellingPrice.StringFixed(2), customer.MaxPrice.StringFixed(2)))
	}
	if customer.MaxPayment != nil && resolved.MonthlyPayment.GreaterThan(*customer.MaxPayment) {
		notes = append(notes, fmt.Sprintf("Monthly payment %s exceeds customer max %s",
			resolved.MonthlyPayment.StringFixed(2), customer.MaxPayment.StringFixed(2)))
	}
	if customer.MaxMileage != nil && resolved.Mileage > *customer.MaxMileage {
		notes = append(notes, fmt.Sprintf("Mileage %d exceeds customer max %d",
			resolved.Mileage, *customer.MaxMileage))
	}
	if customer.MaxOTDLTV != nil {
		if !resolved.RetailBookValue.IsPositive() {
			notes = append(notes, "OTD LTV cannot be evaluated: no retail book value")
		} else {
			otdLTV := resolved.OutTheDoorPrice.Mul(hundred).Div(resolved.RetailBookValue)
			if otdLTV.GreaterThan(*customer.MaxOTDLTV) {
				notes = append(notes, fmt.Sprintf("OTD LTV %s%% exceeds customer max %s%%",
					overCeiling(otdLTV, *customer.MaxOTDLTV), customer.MaxOTDLTV.String()))
			}
		}
	}

	return notes
}

func quotesDiffer(frozen, current domain.DealQuote) (bool, error) {
	// CalculatedAt is expected to differ.
	frozen.CalculatedAt = time.Time{}
	current.CalculatedAt = time.Time{}

	a, err := json.Marshal(frozen)
	if err != nil {
		return false, fmt.Errorf("encode frozen quote: %w", err)
	}
	b, err := json.Marshal(current)
	if err != nil {
		return false, fmt.Errorf("encode current quote: %w", err)
	}
	return string(a) != string(b), nil
}

func countEligible(results []domain.EligibilityResult) int {
	n := 0
	for _, r := range results {
		if r.Eligible {
			n++
		}
	}
	return n
}
