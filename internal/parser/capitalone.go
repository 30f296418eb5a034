package parser

import (
	"regexp"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// CapitalOneProfile handles Capital One card statements.
//
// Transactions list the transaction and post dates as "Mon DD":
//
//	Jan 15 Jan 16 STARBUCKS STORE 1234 SEATTLE WA $5.25
//	Jan 20 Jan 20 CAPITAL ONE MOBILE PYMT - $200.00
type CapitalOneProfile struct{}

var capitalOneRowPattern = regexp.MustCompile(
	`(?i)^(?P<date>` + rowMonthDay + `)\s+(?P<post>` + rowMonthDay + `)\s+` +
		`(?P<desc>.+?)\s+(?P<amount>` + rowDollar + `)$`,
)

var capitalOneSummary = SummaryRules{
	Balance: []SummaryRule{
		labeled("new_balance", `New Balance\s*=?\s*\$`+summaryAmount),
	},
	PaymentsCredits: []SummaryRule{
		summed("payments_and_credits",
			`Payments\s+-\s*\$`+summaryAmount,
			`Other Credits\s+-?\s*\$`+summaryAmount,
		),
	},
	Purchases: []SummaryRule{
		labeled("transactions", `Transactions\s*\+\s*\$`+summaryAmount),
		labeled("purchases", `Purchases\s*\+?\s*\$`+summaryAmount),
	},
}

func (p *CapitalOneProfile) Issuer() models.Issuer { return models.IssuerCapitalOne }

func (p *CapitalOneProfile) Name() string { return "Capital One" }

func (p *CapitalOneProfile) Stitching() bool { return false }

func (p *CapitalOneProfile) MatchRow(line string) (Candidate, bool) {
	g := matchNamed(capitalOneRowPattern, line)
	if g == nil {
		return Candidate{}, false
	}
	return candidateFromGroups(g), true
}

func (p *CapitalOneProfile) SummaryRules() SummaryRules { return capitalOneSummary }
