package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// detectRule maps a label predicate to an issuer.
type detectRule struct {
	issuer models.Issuer
	match  func(label string) bool
}

var (
	// month name glued to a year, e.g. "Jan2024" or "December2023"
	monthYearGlued = regexp.MustCompile(`(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\d{4}`)
	// month name, whitespace, year, e.g. "Jan 2024"
	monthYearSpaced = regexp.MustCompile(`(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\s+\d{4}`)
)

// detectRules is evaluated top to bottom and the first match wins. The order
// matters: labels routinely contain keywords for more than one rule.
var detectRules = []detectRule{
	{models.IssuerCapitalOne, keywords("venture", "capitalone", "capital_one", "capital one")},
	{models.IssuerBarclays, keywords("barclays", "creditcardstatement")},
	{models.IssuerBankOfAmerica, keywords("estmt", "bankofamerica", "bank_of_america", "boa")},
	{models.IssuerAmex, keywords("amex", "americanexpress", "american_express")},
	{models.IssuerApple, keywords("applecard", "apple")},
	{models.IssuerCiti, keywords("citi")},
	{models.IssuerDiscover, keywords("discover")},
	{models.IssuerCiti, monthYearGlued.MatchString},
	{models.IssuerDiscover, monthYearSpaced.MatchString},
}

func keywords(needles ...string) func(string) bool {
	return func(label string) bool {
		for _, needle := range needles {
			if strings.Contains(label, needle) {
				return true
			}
		}
		return false
	}
}

// Detect classifies a document by issuer from its label. It never fails:
// labels that match no rule get the generic profile.
func Detect(label string) models.Issuer {
	name := strings.ToLower(label)
	for _, rule := range detectRules {
		if rule.match(name) {
			return rule.issuer
		}
	}
	return models.IssuerGeneric
}

// ParseIssuer resolves an explicit issuer name such as "capital_one",
// "capitalone" or "Bank of America".
func ParseIssuer(s string) (models.Issuer, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "capitalone", "c1":
		return models.IssuerCapitalOne, nil
	case "barclays":
		return models.IssuerBarclays, nil
	case "bankofamerica", "boa", "bofa":
		return models.IssuerBankOfAmerica, nil
	case "citi", "citibank":
		return models.IssuerCiti, nil
	case "discover":
		return models.IssuerDiscover, nil
	case "amex", "americanexpress":
		return models.IssuerAmex, nil
	case "apple", "applecard":
		return models.IssuerApple, nil
	case "generic":
		return models.IssuerGeneric, nil
	default:
		return "", fmt.Errorf("unsupported issuer: %q", s)
	}
}
