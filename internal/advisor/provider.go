// Package advisor turns a computed risk assessment into a short
// human-readable explanation.
//
// Providers receive only pre-computed facts. They articulate a verdict;
// they never compute or change one.
package advisor

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/walletmom/internal/model"
)

// Facts is everything a provider is allowed to see.
type Facts struct {
	Item             string
	Cost             decimal.Decimal
	Status           model.RiskStatus
	Reason           string
	RemainingBalance decimal.Decimal
	Currency         string
}

// Provider produces explanation text for a set of facts.
type Provider interface {
	Name() string
	Explain(ctx context.Context, f Facts) (string, error)
}

// TemplateProvider renders fixed text keyed on the status. It never
// fails and never touches the network.
type TemplateProvider struct{}

// TemplateName identifies the template provider in logs and the journal.
const TemplateName = "template"

// Name implements Provider.
func (TemplateProvider) Name() string { return TemplateName }

// Explain implements Provider.
func (TemplateProvider) Explain(_ context.Context, f Facts) (string, error) {
	return Template(f), nil
}

// Template renders the deterministic explanation for f.
func Template(f Facts) string {
	cur := f.Currency
	if cur == "" {
		cur = model.DefaultCurrency
	}
	item := f.Item
	if item == "" {
		item = "item"
	}
	cost := cur + f.Cost.StringFixed(2)
	left := cur + f.RemainingBalance.StringFixed(2)

	switch f.Status {
	case model.RiskDanger:
		return fmt.Sprintf("I strongly advise against buying the %s (%s).\n\n"+
			"Why? %s\n"+
			"Buying this would leave you with %s, which is financially dangerous.\n\n"+
			"Recommendation: wait until next month or look for a cheaper alternative.",
			item, cost, f.Reason, left)
	case model.RiskCaution:
		return fmt.Sprintf("Proceed with caution on the %s (%s).\n\n"+
			"Why? %s\n"+
			"You can afford it, but it stretches your budget. You will have %s left.\n\n"+
			"Recommendation: if this is a Want, sleep on it for 24 hours.",
			item, cost, f.Reason, left)
	case model.RiskSafe:
		return fmt.Sprintf("This purchase of the %s (%s) is within your budget.\n\n"+
			"Analysis: %s\n"+
			"You will still have %s available.\n\n"+
			"Recommendation: enjoy your purchase guilt-free!",
			item, cost, f.Reason, left)
	}
	return "I cannot assess this purchase without a valid risk status."
}
