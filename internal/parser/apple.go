package parser

import (
	"regexp"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// AppleProfile handles Apple Card statements.
//
// Rows use four-digit years and show the Daily Cash rate and amount before
// the transaction amount:
//
//	01/15/2024 APPLE STORE R102 CUPERTINO CA 3% $2.97 $99.00
//	01/31/2024 ACH DEPOSIT INTERNET TRANSFER -$500.00
type AppleProfile struct{}

var appleRowPattern = regexp.MustCompile(
	`^(?P<date>` + rowSlashMD + `/\d{4})\s+(?P<desc>.+?)` +
		`(?:\s+(?P<daily_cash_rate>\d{1,2})%\s+(?P<daily_cash>-?\$[\d,]+\.\d{2}))?` +
		`\s+(?P<amount>` + rowDollar + `)$`,
)

var appleSummary = SummaryRules{
	Balance: []SummaryRule{
		labeled("total_balance", `Total Balance\s*:?\s*\$`+summaryAmount),
		labeled("new_balance", `New Balance\s*:?\s*\$`+summaryAmount),
	},
	PaymentsCredits: []SummaryRule{
		labeled("payments", `Payments\s*-\s*\$`+summaryAmount),
	},
	Purchases: []SummaryRule{
		labeled("purchases", `Purchases\s*\+?\s*\$`+summaryAmount),
		trailingTotal("total_charges", `Total charges`),
	},
}

func (p *AppleProfile) Issuer() models.Issuer { return models.IssuerApple }

func (p *AppleProfile) Name() string { return "Apple Card" }

func (p *AppleProfile) Stitching() bool { return false }

func (p *AppleProfile) MatchRow(line string) (Candidate, bool) {
	g := matchNamed(appleRowPattern, line)
	if g == nil {
		return Candidate{}, false
	}
	return candidateFromGroups(g, "daily_cash_rate", "daily_cash"), true
}

func (p *AppleProfile) SummaryRules() SummaryRules { return appleSummary }
