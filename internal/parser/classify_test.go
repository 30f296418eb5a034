package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		desc       string
		amount     string
		wantKind   models.Kind
		wantAmount string
	}{
		{"STARBUCKS #123", "5.25", models.KindSpend, "5.25"},
		{"AMAZON REFUND", "12.00", models.KindCredit, "-12.00"},
		{"STATEMENT CREDIT", "25", models.KindCredit, "-25"},
		{"RETURNED ITEM", "-15.00", models.KindCredit, "-15.00"},
		{"ONLINE PAYMENT THANK YOU", "-200.00", models.KindCredit, "-200.00"},
		{"MERCHANT ADJUSTMENT", "0.00", models.KindCredit, "0"},
		{"UNKNOWN MERCHANT", "-3.10", models.KindCredit, "-3.10"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			kind, amount := Classify(tt.desc, decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.wantKind, kind)
			assertDecimal(t, tt.wantAmount, amount)
		})
	}
}

func TestClassify_KindMatchesSign(t *testing.T) {
	descs := []string{"COFFEE SHOP", "REFUND FROM STORE", "PAYMENT", "GROCERY RETURN", "BOOKS"}
	amounts := []string{"-100.00", "-0.01", "0", "0.01", "12.34", "9999.99"}

	for _, d := range descs {
		for _, a := range amounts {
			kind, amount := Classify(d, decimal.RequireFromString(a))
			assert.Equal(t, kind == models.KindCredit, !amount.IsPositive(), "%s %s", d, a)
		}
	}
}
