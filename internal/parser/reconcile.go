package parser

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// Reconcile resolves the authoritative summary. Extracted figures win; when a
// figure is missing, purchases fall back to the spend total and payments/credits
// to the magnitude of the credit total. The statement balance has no fallback.
func Reconcile(extracted models.Summary, txns []models.Transaction) (models.Summary, models.Sources) {
	spend, credit := decimal.Zero, decimal.Zero
	for _, txn := range txns {
		switch txn.Kind {
		case models.KindSpend:
			spend = spend.Add(txn.Amount)
		case models.KindCredit:
			credit = credit.Add(txn.Amount)
		}
	}

	out := models.Summary{}
	src := models.Sources{
		StatementBalance: models.ProvenanceNone,
		PaymentsCredits:  models.ProvenanceComputed,
		Purchases:        models.ProvenanceComputed,
	}

	if extracted.StatementBalance.Valid {
		out.StatementBalance = extracted.StatementBalance
		src.StatementBalance = models.ProvenanceExtracted
	}

	if extracted.PaymentsCredits.Valid {
		out.PaymentsCredits = extracted.PaymentsCredits
		src.PaymentsCredits = models.ProvenanceExtracted
	} else {
		out.PaymentsCredits = decimal.NewNullDecimal(credit.Abs())
	}

	if extracted.Purchases.Valid {
		out.Purchases = extracted.Purchases
		src.Purchases = models.ProvenanceExtracted
	} else {
		out.Purchases = decimal.NewNullDecimal(spend)
	}

	return out, src
}
