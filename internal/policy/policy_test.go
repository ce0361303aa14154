package policy

import (
	"testing"

	"github.com/clipsentry/clipsentry/internal/models"
)

func domainRule(pattern string, rt models.RuleType, active bool) models.DomainRule {
	return models.DomainRule{ID: pattern, Pattern: pattern, RuleType: rt, IsActive: active}
}

func appRule(pattern string, rt models.RuleType, active bool) models.ApplicationRule {
	return models.ApplicationRule{ID: pattern, Pattern: pattern, RuleType: rt, IsActive: active}
}

func TestEvaluatePaste_FailOpenWithoutRules(t *testing.T) {
	v := EvaluatePaste(nil, nil, Destination{Domain: "anywhere.com", Application: "AnyApp"})
	if !v.Allowed || v.Reason != ReasonNoRules {
		t.Errorf("verdict = %+v; want allowed with %q", v, ReasonNoRules)
	}
}

func TestEvaluatePaste_InactiveRulesIgnored(t *testing.T) {
	rules := []models.DomainRule{domainRule("evil.com", models.RuleBlacklist, false)}
	v := EvaluatePaste(rules, nil, Destination{Domain: "evil.com"})
	if !v.Allowed || v.Reason != ReasonNoRules {
		t.Errorf("inactive blacklist rule still applied: %+v", v)
	}
}

func TestEvaluatePaste_BlacklistDenies(t *testing.T) {
	rules := []models.DomainRule{domainRule("evil.com", models.RuleBlacklist, true)}

	v := EvaluatePaste(rules, nil, Destination{Domain: "evil.com"})
	if v.Allowed || v.Reason != ReasonBlacklisted {
		t.Errorf("verdict = %+v; want blacklisted deny", v)
	}

	// Substring match: a subdomain of a blacklisted domain is denied too.
	v = EvaluatePaste(rules, nil, Destination{Domain: "paste.evil.com"})
	if v.Allowed {
		t.Errorf("subdomain of blacklisted domain allowed: %+v", v)
	}
}

func TestEvaluatePaste_BlacklistPrecedesWhitelist(t *testing.T) {
	rules := []models.DomainRule{
		domainRule("both.com", models.RuleWhitelist, true),
		domainRule("both.com", models.RuleBlacklist, true),
	}
	v := EvaluatePaste(rules, nil, Destination{Domain: "both.com"})
	if v.Allowed || v.Reason != ReasonBlacklisted {
		t.Errorf("verdict = %+v; want blacklist to win over whitelist", v)
	}
}

func TestEvaluatePaste_WhitelistExclusivity(t *testing.T) {
	rules := []models.DomainRule{domainRule("a.com", models.RuleWhitelist, true)}

	v := EvaluatePaste(rules, nil, Destination{Domain: "b.com"})
	if v.Allowed || v.Reason != ReasonNotWhitelisted {
		t.Errorf("verdict for b.com = %+v; want not-whitelisted deny", v)
	}

	v = EvaluatePaste(rules, nil, Destination{Domain: "a.com"})
	if !v.Allowed {
		t.Errorf("verdict for a.com = %+v; want allowed", v)
	}
}

func TestEvaluatePaste_ApplicationCaseInsensitive(t *testing.T) {
	rules := []models.ApplicationRule{appRule("slack", models.RuleBlacklist, true)}
	v := EvaluatePaste(nil, rules, Destination{Application: "Slack Desktop"})
	if v.Allowed || v.Reason != ReasonBlacklisted {
		t.Errorf("verdict = %+v; want blacklisted deny", v)
	}
}

func TestEvaluatePaste_EitherDimensionVetoes(t *testing.T) {
	domainRules := []models.DomainRule{domainRule("ok.com", models.RuleWhitelist, true)}
	appRules := []models.ApplicationRule{appRule("notepad", models.RuleBlacklist, true)}

	// Domain passes its whitelist, application hits the blacklist: deny.
	v := EvaluatePaste(domainRules, appRules, Destination{Domain: "ok.com", Application: "Notepad"})
	if v.Allowed {
		t.Errorf("application blacklist did not veto: %+v", v)
	}

	// Both dimensions pass: allow.
	v = EvaluatePaste(domainRules, appRules, Destination{Domain: "ok.com", Application: "Terminal"})
	if !v.Allowed || v.Reason != ReasonDefaultAllow {
		t.Errorf("verdict = %+v; want default allow", v)
	}
}

func TestEvaluatePaste_EmptyDimensionNotChecked(t *testing.T) {
	// Whitelist rules exist for domains, but the paste has no domain at all.
	rules := []models.DomainRule{domainRule("a.com", models.RuleWhitelist, true)}
	v := EvaluatePaste(rules, nil, Destination{Application: "Editor"})
	if !v.Allowed {
		t.Errorf("empty domain dimension was checked against domain rules: %+v", v)
	}
}
