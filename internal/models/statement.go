package models

import "github.com/shopspring/decimal"

// Provenance records where a summary figure came from.
type Provenance string

const (
	ProvenanceExtracted Provenance = "extracted"
	ProvenanceComputed  Provenance = "computed"
	ProvenanceNone      Provenance = "none"
)

// Summary holds the statement-level totals. Any field may be null.
// PaymentsCredits is reported as a positive magnitude.
type Summary struct {
	StatementBalance decimal.NullDecimal `json:"statementBalance"`
	PaymentsCredits  decimal.NullDecimal `json:"paymentsCredits"`
	Purchases        decimal.NullDecimal `json:"purchases"`
}

// Sources records the provenance of each reconciled summary field.
type Sources struct {
	StatementBalance Provenance `json:"statementBalance"`
	PaymentsCredits  Provenance `json:"paymentsCredits"`
	Purchases        Provenance `json:"purchases"`
}

// StatementResult is the parsed output for one statement document.
type StatementResult struct {
	Label        string        `json:"label"`
	Issuer       Issuer        `json:"issuer"`
	Transactions []Transaction `json:"transactions"`
	Summary      Summary       `json:"summary"`
	Extracted    Summary       `json:"extracted"`
	Sources      Sources       `json:"sources"`
	DebugLines   []DebugLine   `json:"debugLines,omitempty"`
}

// SpendTotal sums the amounts of all spend-kind transactions.
func (r *StatementResult) SpendTotal() decimal.Decimal {
	total := decimal.Zero
	for _, txn := range r.Transactions {
		if txn.Kind == KindSpend {
			total = total.Add(txn.Amount)
		}
	}
	return total
}

// CreditTotal returns the magnitude of all credit-kind transactions.
func (r *StatementResult) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, txn := range r.Transactions {
		if txn.Kind == KindCredit {
			total = total.Add(txn.Amount)
		}
	}
	return total.Abs()
}
