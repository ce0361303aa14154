package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/clipsentry/clipsentry/internal/models"
)

func setupRuleMock(t *testing.T) (*PostgresRuleRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresRuleRepository(db)
	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func TestActiveDomainRules(t *testing.T) {
	repo, mock, cleanup := setupRuleMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM domain_rules`)).
		WithArgs("org1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "pattern", "rule_type", "is_active"}).
			AddRow("r1", "org1", "evil.com", "blacklist", true).
			AddRow("r2", "org1", "ok.com", "whitelist", true))

	rules, err := repo.ActiveDomainRules(context.Background(), "org1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("len = %d; want 2", len(rules))
	}
	if rules[0].RuleType != models.RuleBlacklist || rules[0].Pattern != "evil.com" {
		t.Errorf("unexpected rule: %+v", rules[0])
	}
}

func TestActiveDomainRules_Error(t *testing.T) {
	repo, mock, cleanup := setupRuleMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM domain_rules`)).
		WillReturnError(errors.New("query fail"))

	_, err := repo.ActiveDomainRules(context.Background(), "org1")
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("err = %v; want ErrPersistence", err)
	}
}

func TestActiveApplicationRules(t *testing.T) {
	repo, mock, cleanup := setupRuleMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM application_rules`)).
		WithArgs("org1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "pattern", "rule_type", "is_active"}).
			AddRow("r3", "org1", "slack", "blacklist", true))

	rules, err := repo.ActiveApplicationRules(context.Background(), "org1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 1 || rules[0].Pattern != "slack" {
		t.Errorf("unexpected rules: %+v", rules)
	}
}
