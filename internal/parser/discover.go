package parser

import (
	"regexp"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// DiscoverProfile handles Discover card statements.
//
// Rows use MM/DD/YY dates; the post date is optional:
//
//	01/15/24 TARGET 00012345 MINNEAPOLIS MN $42.10
//	01/18/24 01/19/24 INTERNET PAYMENT - THANK YOU -$300.00
type DiscoverProfile struct{}

var discoverRowPattern = regexp.MustCompile(
	`^(?P<date>` + rowSlashMD + `/\d{2})(?:\s+(?P<post>` + rowSlashMD + `/\d{2}))?\s+` +
		`(?P<desc>.+?)\s+(?P<amount>` + rowDollar + `)$`,
)

var discoverSummary = SummaryRules{
	// The first "New Balance" is the account summary figure; later ones are
	// projections in the minimum payment warning.
	Balance: []SummaryRule{
		labeled("new_balance", `New\s*Balance\s*:?\s*\$`+summaryAmount),
	},
	PaymentsCredits: []SummaryRule{
		labeled("payments_and_credits", `Payments and Credits\s*-\s*\$`+summaryAmount),
		labeled("first_negative", `-\s*\$`+summaryAmount),
	},
	Purchases: []SummaryRule{
		labeled("purchases", `Purchases\s*\+?\s*\$`+summaryAmount),
	},
}

func (p *DiscoverProfile) Issuer() models.Issuer { return models.IssuerDiscover }

func (p *DiscoverProfile) Name() string { return "Discover" }

func (p *DiscoverProfile) Stitching() bool { return false }

func (p *DiscoverProfile) MatchRow(line string) (Candidate, bool) {
	g := matchNamed(discoverRowPattern, line)
	if g == nil {
		return Candidate{}, false
	}
	return candidateFromGroups(g), true
}

func (p *DiscoverProfile) SummaryRules() SummaryRules { return discoverSummary }
