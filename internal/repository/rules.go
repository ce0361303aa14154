package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clipsentry/clipsentry/internal/models"
)

// PostgresRuleRepository loads active paste rules for an organization.
type PostgresRuleRepository struct {
	DB *sql.DB
}

// NewPostgresRuleRepository creates a rule repository over the provided *sql.DB.
func NewPostgresRuleRepository(db *sql.DB) *PostgresRuleRepository {
	return &PostgresRuleRepository{DB: db}
}

// ActiveDomainRules returns the organization's active domain rules.
func (r *PostgresRuleRepository) ActiveDomainRules(ctx context.Context, orgID string) ([]models.DomainRule, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, organization_id, pattern, rule_type, is_active
		FROM domain_rules
		WHERE organization_id = $1 AND is_active = true
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("%w: active domain rules: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var rules []models.DomainRule
	for rows.Next() {
		var dr models.DomainRule
		if err := rows.Scan(&dr.ID, &dr.OrganizationID, &dr.Pattern, &dr.RuleType, &dr.IsActive); err != nil {
			return nil, fmt.Errorf("%w: scan domain rule: %v", ErrPersistence, err)
		}
		rules = append(rules, dr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate domain rules: %v", ErrPersistence, err)
	}
	return rules, nil
}

// ActiveApplicationRules returns the organization's active application rules.
func (r *PostgresRuleRepository) ActiveApplicationRules(ctx context.Context, orgID string) ([]models.ApplicationRule, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, organization_id, pattern, rule_type, is_active
		FROM application_rules
		WHERE organization_id = $1 AND is_active = true
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("%w: active application rules: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var rules []models.ApplicationRule
	for rows.Next() {
		var ar models.ApplicationRule
		if err := rows.Scan(&ar.ID, &ar.OrganizationID, &ar.Pattern, &ar.RuleType, &ar.IsActive); err != nil {
			return nil, fmt.Errorf("%w: scan application rule: %v", ErrPersistence, err)
		}
		rules = append(rules, ar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate application rules: %v", ErrPersistence, err)
	}
	return rules, nil
}
