package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/clipsentry/clipsentry/internal/audit"
	"github.com/clipsentry/clipsentry/internal/models"
	"github.com/clipsentry/clipsentry/internal/policy"
)

// RuleRepository defines the rule lookups needed by the ValidationService.
type RuleRepository interface {
	ActiveDomainRules(ctx context.Context, orgID string) ([]models.DomainRule, error)
	ActiveApplicationRules(ctx context.Context, orgID string) ([]models.ApplicationRule, error)
}

// Identity is the authenticated caller a validation runs for.
type Identity struct {
	UserID   string
	OrgID    string
	DeviceID string
}

// ValidationService evaluates paste destinations against the organization's
// rules and records every decision in the audit chain.
type ValidationService struct {
	rules RuleRepository
	chain *audit.Chain
	log   *zap.Logger
}

// NewValidationService constructs a ValidationService.
func NewValidationService(rules RuleRepository, chain *audit.Chain, log *zap.Logger) *ValidationService {
	return &ValidationService{rules: rules, chain: chain, log: log}
}

// ValidatePaste decides whether the paste is allowed and appends exactly one
// allow/block audit entry for the decision.
//
// Rule lookups that fail are treated as "no rules" (fail open) rather
// than silently denying; the decision is
// still audited. An audit append failure is the one error that surfaces to
// the caller: a paste decision without its audit record undermines the
// chain's purpose.
func (s *ValidationService) ValidatePaste(ctx context.Context, id Identity, dest policy.Destination, contentHash string) (policy.Verdict, error) {
	domainRules, appRules, err := s.fetchRules(ctx, id.OrgID)
	if err != nil {
		s.log.Warn("rule lookup failed, failing open",
			zap.String("org_id", id.OrgID), zap.Error(err))
		domainRules, appRules = nil, nil
	}

	verdict := policy.EvaluatePaste(domainRules, appRules, dest)

	action := models.ActionAllow
	status := models.StatusSuccess
	if !verdict.Allowed {
		action = models.ActionBlock
		status = models.StatusBlocked
	}

	_, err = s.chain.Append(ctx, audit.Draft{
		ActorUserID:       id.UserID,
		DeviceID:          id.DeviceID,
		Action:            action,
		TargetDomain:      dest.Domain,
		TargetApplication: dest.Application,
		ContentHash:       contentHash,
		Status:            status,
	})
	if err != nil {
		return verdict, fmt.Errorf("audit paste decision: %w", err)
	}
	return verdict, nil
}

func (s *ValidationService) fetchRules(ctx context.Context, orgID string) ([]models.DomainRule, []models.ApplicationRule, error) {
	domainRules, err := s.rules.ActiveDomainRules(ctx, orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", policy.ErrEvaluation, err)
	}
	appRules, err := s.rules.ActiveApplicationRules(ctx, orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", policy.ErrEvaluation, err)
	}
	return domainRules, appRules, nil
}

// ActiveRules returns the organization's active rule sets for the dashboard.
func (s *ValidationService) ActiveRules(ctx context.Context, orgID string) ([]models.DomainRule, []models.ApplicationRule, error) {
	return s.fetchRules(ctx, orgID)
}
