package parser

import (
	"regexp"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// CitiProfile handles Citi card statements.
//
// Citi rows wrap the merchant name across lines, so they are stitched first.
// A stitched row starts with one or two MM/DD dates and ends with the amount:
//
//	01/15 01/16 UBER TRIP HELP.UBER.COM SAN FRANCISCO CA $12.34
//
// The description is the line with every date and amount token removed.
type CitiProfile struct{}

var citiRowPattern = regexp.MustCompile(
	`^(?P<date>` + rowSlashMD + `)(?:\s+(?P<post>` + rowSlashMD + `))?\s+.*?(?P<amount>` + rowBareAmount + `)$`,
)

var citiSummary = SummaryRules{
	Balance: []SummaryRule{
		labeled("new_balance", `New balance\s*:?\s*\$`+summaryAmount),
		labeled("statement_balance", `Statement Balance\s*:?\s*\$`+summaryAmount),
	},
	PaymentsCredits: []SummaryRule{
		summed("payments_and_credits",
			`Payments\s*-\$`+summaryAmount,
			`Credits\s*-\$`+summaryAmount,
		),
	},
	Purchases: []SummaryRule{
		labeled("purchases", `Purchases\s*\+\$`+summaryAmount),
	},
}

func (p *CitiProfile) Issuer() models.Issuer { return models.IssuerCiti }

func (p *CitiProfile) Name() string { return "Citi" }

func (p *CitiProfile) Stitching() bool { return true }

func (p *CitiProfile) MatchRow(line string) (Candidate, bool) {
	g := matchNamed(citiRowPattern, line)
	if g == nil {
		return Candidate{}, false
	}
	desc := amountPattern.ReplaceAllString(line, " ")
	desc = dateTokenPattern.ReplaceAllString(desc, " ")
	return Candidate{
		Date:        g["date"],
		PostDate:    g["post"],
		Description: cleanDescription(desc),
		Amount:      g["amount"],
	}, true
}

func (p *CitiProfile) SummaryRules() SummaryRules { return citiSummary }
