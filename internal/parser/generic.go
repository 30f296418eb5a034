package parser

import (
	"strings"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// GenericProfile is the fallback for labels that match no known issuer.
//
// There is no fixed grammar: any line with a date token and an amount is a
// candidate. The amount is the last currency token, the date is the leading
// date token (or the first field when the line does not start with a date),
// and the description is what remains.
type GenericProfile struct{}

var genericSummary = SummaryRules{
	Balance: []SummaryRule{
		labeled("new_balance", `(?:New|Statement) Balance\s*:?\s*\$`+summaryAmount),
	},
	PaymentsCredits: []SummaryRule{
		labeled("payments_and_credits", `Payments(?: and (?:Other )?Credits)?\s*-\s*\$`+summaryAmount),
	},
	Purchases: []SummaryRule{
		labeled("purchases", `Purchases\s*\+?\s*\$`+summaryAmount),
	},
}

func (p *GenericProfile) Issuer() models.Issuer { return models.IssuerGeneric }

func (p *GenericProfile) Name() string { return "Generic" }

func (p *GenericProfile) Stitching() bool { return false }

func (p *GenericProfile) MatchRow(line string) (Candidate, bool) {
	if !dateTokenPattern.MatchString(line) {
		return Candidate{}, false
	}

	var date, rest string
	if prefix := datePrefixPattern.FindString(line); prefix != "" {
		date, rest = prefix, line[len(prefix):]
	} else {
		fields := strings.SplitN(line, " ", 2)
		date = fields[0]
		if len(fields) == 2 {
			rest = fields[1]
		}
	}

	locs := amountPattern.FindAllStringIndex(rest, -1)
	if len(locs) == 0 {
		return Candidate{}, false
	}
	last := locs[len(locs)-1]

	return Candidate{
		Date:        date,
		Description: cleanDescription(rest[:last[0]] + " " + rest[last[1]:]),
		Amount:      strings.TrimSpace(rest[last[0]:last[1]]),
	}, true
}

func (p *GenericProfile) SummaryRules() SummaryRules { return genericSummary }
