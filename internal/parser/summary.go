package parser

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// SummaryRule extracts one summary figure from the whole document text.
type SummaryRule struct {
	Name    string
	Extract func(text string) (decimal.Decimal, bool)
}

// SummaryRules holds the ordered rules for each summary field. For every
// field the rules are tried in order and the first success wins.
type SummaryRules struct {
	Balance         []SummaryRule
	PaymentsCredits []SummaryRule
	Purchases       []SummaryRule
}

// ExtractSummary applies the profile's summary rules to the full document text.
// Fields with no matching rule stay null. Payments/credits are stored as a magnitude.
func ExtractSummary(p Profile, text string) models.Summary {
	rules := p.SummaryRules()
	var s models.Summary
	if v, ok := firstRule(rules.Balance, text); ok {
		s.StatementBalance = decimal.NewNullDecimal(v)
	}
	if v, ok := firstRule(rules.PaymentsCredits, text); ok {
		s.PaymentsCredits = decimal.NewNullDecimal(v.Abs())
	}
	if v, ok := firstRule(rules.Purchases, text); ok {
		s.Purchases = decimal.NewNullDecimal(v)
	}
	return s
}

func firstRule(rules []SummaryRule, text string) (decimal.Decimal, bool) {
	for _, r := range rules {
		if v, ok := r.Extract(text); ok {
			return v, true
		}
	}
	return decimal.Zero, false
}

// summaryAmount is the amount capture used inside summary label patterns.
const summaryAmount = `([\d,]+\.\d{2})`

// labeled builds a rule from a pattern whose first group is the amount.
// The pattern is compiled case-insensitive and multi-line.
func labeled(name, pattern string) SummaryRule {
	re := regexp.MustCompile(`(?im)` + pattern)
	return SummaryRule{
		Name: name,
		Extract: func(text string) (decimal.Decimal, bool) {
			m := re.FindStringSubmatch(text)
			if m == nil {
				return decimal.Zero, false
			}
			v, err := ParseAmount(m[1])
			if err != nil {
				return decimal.Zero, false
			}
			return v, true
		},
	}
}

// summed adds up every sub-pattern that matches. It succeeds when at least
// one of them matches, e.g. "Payments" plus "Other Credits".
func summed(name string, patterns ...string) SummaryRule {
	parts := make([]SummaryRule, len(patterns))
	for i, p := range patterns {
		parts[i] = labeled(name, p)
	}
	return SummaryRule{
		Name: name,
		Extract: func(text string) (decimal.Decimal, bool) {
			total := decimal.Zero
			found := false
			for _, part := range parts {
				if v, ok := part.Extract(text); ok {
					total = total.Add(v)
					found = true
				}
			}
			return total, found
		},
	}
}

// trailingTotal finds the first line matching label and takes the last
// currency token on that line, sign included.
func trailingTotal(name, label string) SummaryRule {
	re := regexp.MustCompile(`(?im)^.*` + label + `.*$`)
	return SummaryRule{
		Name: name,
		Extract: func(text string) (decimal.Decimal, bool) {
			for _, line := range re.FindAllString(text, -1) {
				tokens := amountPattern.FindAllString(line, -1)
				if len(tokens) == 0 {
					continue
				}
				v, err := ParseAmount(tokens[len(tokens)-1])
				if err != nil {
					continue
				}
				return v, true
			}
			return decimal.Zero, false
		},
	}
}
