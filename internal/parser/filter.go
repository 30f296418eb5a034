package parser

import (
	"regexp"
	"strings"
)

// Rejection reasons reported in debug lines.
const (
	ReasonInvalidMerchant = "invalid_merchant"
	ReasonBoilerplate     = "boilerplate"
	ReasonRemittance      = "remittance"
)

// filterRule rejects a candidate description, returning a reason when it does.
type filterRule func(desc string) (reason string, reject bool)

var (
	// nothing but digits, punctuation, underscores and spaces
	noLettersPattern = regexp.MustCompile(`^[\d\W_]+$`)
	// runs of anything that is not a lowercase letter
	nonLetterRun = regexp.MustCompile(`[^a-z]+`)
)

// Summary lines that look like rows but describe statement-level facts.
var boilerplateKeywords = []string{
	"statement balance",
	"new balance",
	"previous balance",
	"balance as of",
	"minimum payment",
	"payment due",
	"late payment",
	"account summary",
	"account ending",
	"credit limit",
	"available credit",
	"total fees",
	"total interest",
	"interest charged",
	"finance charge",
	"cash advance",
}

// Payments made to the card. Matched as substrings of the letters-only text,
// so "ach" also catches words such as "coach".
var remittanceKeywords = []string{
	"payment",
	"thank you",
	"autopay",
	"payment received",
	"ach",
}

func invalidMerchant(desc string) (string, bool) {
	desc = strings.TrimSpace(desc)
	if desc == "" || noLettersPattern.MatchString(desc) || len([]rune(desc)) < 3 {
		return ReasonInvalidMerchant, true
	}
	return "", false
}

func boilerplate(desc string) (string, bool) {
	lower := strings.ToLower(desc)
	for _, kw := range boilerplateKeywords {
		if strings.Contains(lower, kw) {
			return ReasonBoilerplate, true
		}
	}
	return "", false
}

func remittance(desc string) (string, bool) {
	letters := strings.TrimSpace(nonLetterRun.ReplaceAllString(strings.ToLower(desc), " "))
	for _, kw := range remittanceKeywords {
		if strings.Contains(letters, kw) {
			return ReasonRemittance, true
		}
	}
	return "", false
}

// filterRules returns the active rules in evaluation order.
func filterRules(keepRemittances bool) []filterRule {
	rules := []filterRule{invalidMerchant, boilerplate}
	if !keepRemittances {
		rules = append(rules, remittance)
	}
	return rules
}

// rejectReason runs desc through rules and returns the first rejection reason.
func rejectReason(rules []filterRule, desc string) (string, bool) {
	for _, rule := range rules {
		if reason, reject := rule(desc); reject {
			return reason, true
		}
	}
	return "", false
}
