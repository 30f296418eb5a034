package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

var creditKeywords = []string{
	"payment",
	"credit",
	"refund",
	"return",
	"credit adjustment",
	"thank you",
}

// Classify assigns a kind to a candidate and fixes the amount's sign so that
// credit records are never positive and spend records are always positive.
// The sign is checked before the keywords, so a negative credit-like row is
// never negated twice. A zero amount is a credit.
func Classify(desc string, amount decimal.Decimal) (models.Kind, decimal.Decimal) {
	if !amount.IsPositive() {
		return models.KindCredit, amount
	}
	if isCreditDescription(desc) {
		return models.KindCredit, amount.Neg()
	}
	return models.KindSpend, amount
}

func isCreditDescription(desc string) bool {
	lower := strings.ToLower(desc)
	for _, kw := range creditKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
