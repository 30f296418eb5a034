package parser

import (
	"regexp"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// BarclaysProfile handles Barclays US card statements.
//
// Rows carry transaction and post dates as "Mon DD", then the description,
// the reward points earned and the amount:
//
//	Jan 15 Jan 16 AMAZON MKTPLACE PMTS 26 $25.99
//	Jan 22 Jan 22 Payment Received -$150.00
//
// Points are missing on payment and credit rows.
type BarclaysProfile struct{}

var barclaysRowPattern = regexp.MustCompile(
	`(?i)^(?P<date>` + rowMonthDay + `)\s+(?P<post>` + rowMonthDay + `)\s+` +
		`(?P<desc>.+?)\s+(?:(?P<points>[\d,]+)\s+)?(?P<amount>` + rowDollar + `)$`,
)

var barclaysSummary = SummaryRules{
	Balance: []SummaryRule{
		labeled("new_balance", `New Balance\s*:?\s*\$`+summaryAmount),
		labeled("statement_balance", `Statement Balance\s*:?\s*\$`+summaryAmount),
	},
	PaymentsCredits: []SummaryRule{
		summed("payments_and_credits",
			`Payments.*?\$`+summaryAmount,
			`Other Credits.*?\$`+summaryAmount,
		),
	},
	Purchases: []SummaryRule{
		labeled("purchases", `Purchases\s+\+?\$`+summaryAmount),
	},
}

func (p *BarclaysProfile) Issuer() models.Issuer { return models.IssuerBarclays }

func (p *BarclaysProfile) Name() string { return "Barclays" }

func (p *BarclaysProfile) Stitching() bool { return false }

func (p *BarclaysProfile) MatchRow(line string) (Candidate, bool) {
	g := matchNamed(barclaysRowPattern, line)
	if g == nil {
		return Candidate{}, false
	}
	return candidateFromGroups(g, "points"), true
}

func (p *BarclaysProfile) SummaryRules() SummaryRules { return barclaysSummary }
