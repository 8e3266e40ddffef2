package interview

import (
	"context"
	"errors"
	"fmt"

	"github.com/YvodeRooij/casecoach/pkg/store"
)

// peiCatalogYear is the year suffix in the canonical PEI case id
// convention (pei_standard_<firm>_<year>).
const peiCatalogYear = "2025"

// SelectionPolicy decides which case a user should run next and records
// completions back into their progress.
type SelectionPolicy struct {
	catalog store.Catalog
	users   store.Users
	logger  Logger
}

// NewSelectionPolicy creates a selection policy over the given catalog and
// user store.
func NewSelectionPolicy(catalog store.Catalog, users store.Users, logger Logger) *SelectionPolicy {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &SelectionPolicy{catalog: catalog, users: users, logger: logger}
}

// PEICaseID returns the canonical PEI case id for a firm.
func PEICaseID(firm string) string {
	return fmt.Sprintf("pei_standard_%s_%s", firm, peiCatalogYear)
}

// SelectCase picks the case the user should run, in priority order:
//
//  1. the requested case, if given and not already completed;
//  2. the firm's canonical PEI case, if the PEI is not completed — when
//     that case is missing from the catalog, the PEI is treated as
//     completed for this session only (nothing persisted) and selection
//     falls through;
//  3. the first standard case for the firm not yet completed.
//
// Firm matching is case-insensitive; the firm filter and completed-set
// exclusion apply together. Returns ErrNoEligibleCase when nothing fits.
func (p *SelectionPolicy) SelectCase(ctx context.Context, user *store.User, requestedCaseID string) (*store.CaseStudy, error) {
	firm := user.SelectedFirm()
	if firm == "" {
		return nil, fmt.Errorf("user %s has no selected firm", user.UserID)
	}

	progress := user.FirmProgress(firm)

	if requestedCaseID != "" && !progress.HasCompleted(requestedCaseID) {
		c, err := p.catalog.FindCase(ctx, store.CaseFilter{CaseID: requestedCaseID, Firm: firm})
		if err == nil {
			p.logger.Info("Selected requested case", "case", c.CaseID, "firm", firm)
			return c, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		p.logger.Info("Requested case not found for firm, falling back",
			"case", requestedCaseID, "firm", firm)
	}

	peiCompleted := progress.PEICompleted
	if !peiCompleted {
		peiID := PEICaseID(firm)
		c, err := p.catalog.FindCase(ctx, store.CaseFilter{CaseID: peiID, Firm: firm})
		if err == nil {
			p.logger.Info("Selected PEI case", "case", c.CaseID, "firm", firm)
			return c, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		// Soft skip: treat the PEI as done for this session only, so a
		// standard case can be selected. Not persisted.
		p.logger.Info("PEI case not in catalog, skipping to standard cases",
			"case", peiID, "firm", firm)
		peiCompleted = true
	}

	if peiCompleted {
		c, err := p.catalog.FindCase(ctx, store.CaseFilter{
			Firm:        firm,
			ExcludeType: store.CaseTypePEI,
			ExcludeIDs:  progress.CompletedCaseIDs,
		})
		if err == nil {
			p.logger.Info("Selected standard case", "case", c.CaseID, "firm", firm)
			return c, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("firm %s: %w", firm, ErrNoEligibleCase)
}

// RecordCompletion updates the user's progress after a session reaches the
// terminated state: the PEI flag for PEI cases, otherwise the case id is
// added to the firm's completed set. Idempotent. Must be invoked exactly
// once per successful session, never on failure.
func (p *SelectionPolicy) RecordCompletion(ctx context.Context, userID, firm string, c *store.CaseStudy) error {
	if c.IsPEI() {
		if err := p.users.SetPEICompleted(ctx, userID, firm); err != nil {
			return fmt.Errorf("record PEI completion: %w", err)
		}
		p.logger.Info("Marked PEI completed", "user", userID, "firm", firm)
		return nil
	}

	if err := p.users.AddCompletedCase(ctx, userID, firm, c.CaseID); err != nil {
		return fmt.Errorf("record case completion: %w", err)
	}
	p.logger.Info("Recorded case completion", "user", userID, "firm", firm, "case", c.CaseID)
	return nil
}
