// Package policy decides whether a clipboard paste to a destination domain
// or application is allowed under the organization's whitelist/blacklist
// rules. Evaluation is pure; recording the decision is the caller's job.
package policy

import (
	"errors"
	"strings"

	"github.com/clipsentry/clipsentry/internal/models"
)

// ErrEvaluation indicates a malformed rule set. Callers treat it as
// "no rules", i.e. allow, and must still record an audit entry.
var ErrEvaluation = errors.New("policy evaluation failed")

// Decision reasons. Blacklist is checked before whitelist, so a destination
// present in both lists is denied.
const (
	ReasonNoRules        = "no organization rules"
	ReasonDefaultAllow   = "default allow"
	ReasonBlacklisted    = "blacklisted"
	ReasonNotWhitelisted = "not whitelisted"
)

// Destination is where the paste is headed. Either field may be empty;
// an empty dimension is not checked.
type Destination struct {
	Domain      string
	Application string
}

// Verdict is the outcome of a paste evaluation.
type Verdict struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// EvaluatePaste applies the organization's active rules to the destination.
//
// With no active rules at all the paste is allowed ("fail open" — preserved
// from the observed product behavior). Otherwise the domain and application
// dimensions are checked independently and either can veto: a matching
// blacklist rule denies, and if whitelist rules exist for a dimension but
// none matches, that dimension denies too.
func EvaluatePaste(domainRules []models.DomainRule, appRules []models.ApplicationRule, dest Destination) Verdict {
	activeDomain := activeDomainRules(domainRules)
	activeApp := activeAppRules(appRules)

	if len(activeDomain) == 0 && len(activeApp) == 0 {
		return Verdict{Allowed: true, Reason: ReasonNoRules}
	}

	if dest.Domain != "" {
		if v, denied := evaluateDomain(activeDomain, dest.Domain); denied {
			return v
		}
	}
	if dest.Application != "" {
		if v, denied := evaluateApplication(activeApp, dest.Application); denied {
			return v
		}
	}
	return Verdict{Allowed: true, Reason: ReasonDefaultAllow}
}

func evaluateDomain(rules []models.DomainRule, domain string) (Verdict, bool) {
	var whitelistExists, whitelistMatch bool
	for _, r := range rules {
		// Exact match or the destination containing the pattern, e.g.
		// pattern "evil.com" matches "sub.evil.com".
		match := r.Pattern == domain || strings.Contains(domain, r.Pattern)
		switch r.RuleType {
		case models.RuleBlacklist:
			if match {
				return Verdict{Allowed: false, Reason: ReasonBlacklisted}, true
			}
		case models.RuleWhitelist:
			whitelistExists = true
			if match {
				whitelistMatch = true
			}
		}
	}
	if whitelistExists && !whitelistMatch {
		return Verdict{Allowed: false, Reason: ReasonNotWhitelisted}, true
	}
	return Verdict{}, false
}

func evaluateApplication(rules []models.ApplicationRule, application string) (Verdict, bool) {
	app := strings.ToLower(application)
	var whitelistExists, whitelistMatch bool
	for _, r := range rules {
		match := strings.Contains(app, strings.ToLower(r.Pattern))
		switch r.RuleType {
		case models.RuleBlacklist:
			if match {
				return Verdict{Allowed: false, Reason: ReasonBlacklisted}, true
			}
		case models.RuleWhitelist:
			whitelistExists = true
			if match {
				whitelistMatch = true
			}
		}
	}
	if whitelistExists && !whitelistMatch {
		return Verdict{Allowed: false, Reason: ReasonNotWhitelisted}, true
	}
	return Verdict{}, false
}

func activeDomainRules(rules []models.DomainRule) []models.DomainRule {
	out := rules[:0:0]
	for _, r := range rules {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out
}

func activeAppRules(rules []models.ApplicationRule) []models.ApplicationRule {
	out := rules[:0:0]
	for _, r := range rules {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out
}
