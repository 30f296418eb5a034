package parser

import (
	"regexp"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// AmexProfile handles American Express statements.
//
// Amex prints the merchant on one line and the location and amount on the
// next, so rows are stitched. A stitched row looks like:
//
//	01/15/24* DELTA AIR LINES ATLANTA GA 00612345678 $412.60
//
// The trailing asterisk marks a charge by an additional card member, and the
// long digit run before the amount is a reference number.
type AmexProfile struct{}

var amexRowPattern = regexp.MustCompile(
	`^(?P<date>` + rowSlashMD + `/\d{2})\*?\s+(?P<desc>.+?)(?:\s+(?P<reference>\d{6,}))?\s+(?P<amount>` + rowDollar + `)\s*$`,
)

var amexSummary = SummaryRules{
	Balance: []SummaryRule{
		labeled("new_balance", `New Balance\s*:?\s*\$`+summaryAmount),
	},
	PaymentsCredits: []SummaryRule{
		labeled("payments_credits", `Payments/Credits\s*-\s*\$`+summaryAmount),
		trailingTotal("total_payments_and_credits", `^\s*Total Payments and Credits`),
	},
	Purchases: []SummaryRule{
		labeled("new_charges", `New Charges\s+\+?\s*\$`+summaryAmount),
		trailingTotal("total_new_charges", `^\s*Total New Charges`),
	},
}

func (p *AmexProfile) Issuer() models.Issuer { return models.IssuerAmex }

func (p *AmexProfile) Name() string { return "American Express" }

func (p *AmexProfile) Stitching() bool { return true }

func (p *AmexProfile) MatchRow(line string) (Candidate, bool) {
	g := matchNamed(amexRowPattern, line)
	if g == nil {
		return Candidate{}, false
	}
	return candidateFromGroups(g, "reference"), true
}

func (p *AmexProfile) SummaryRules() SummaryRules { return amexSummary }
