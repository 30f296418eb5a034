package parser

import (
	"regexp"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// BankOfAmericaProfile handles Bank of America eStatements.
//
// Rows have MM/DD dates, a 4-digit reference number, the last four digits of
// the account and an amount without a currency symbol:
//
//	01/15 01/16 STARBUCKS STORE 00123 SEATTLE WA 2451 5678 5.25
//	01/20 01/20 PAYMENT - THANK YOU 9123 5678 -200.00
type BankOfAmericaProfile struct{}

var bankOfAmericaRowPattern = regexp.MustCompile(
	`^(?P<date>` + rowSlashMD + `)\s+(?P<post>` + rowSlashMD + `)\s+(?P<desc>.+?)\s+` +
		`(?P<reference>\d{4})\s+(?P<account>\d{4})\s+(?P<amount>` + rowBareAmount + `)$`,
)

var bankOfAmericaSummary = SummaryRules{
	Balance: []SummaryRule{
		labeled("new_balance_total", `New Balance Total\s*\$`+summaryAmount),
		labeled("new_balance", `New Balance\s*:?\s*\$`+summaryAmount),
	},
	PaymentsCredits: []SummaryRule{
		labeled("payments_and_other_credits", `Payments and Other Credits\s*-\$`+summaryAmount),
	},
	Purchases: []SummaryRule{
		labeled("purchases_and_adjustments", `Purchases and Adjustments\s*\$`+summaryAmount),
	},
}

func (p *BankOfAmericaProfile) Issuer() models.Issuer { return models.IssuerBankOfAmerica }

func (p *BankOfAmericaProfile) Name() string { return "Bank of America" }

func (p *BankOfAmericaProfile) Stitching() bool { return false }

func (p *BankOfAmericaProfile) MatchRow(line string) (Candidate, bool) {
	g := matchNamed(bankOfAmericaRowPattern, line)
	if g == nil {
		return Candidate{}, false
	}
	return candidateFromGroups(g, "reference", "account"), true
}

func (p *BankOfAmericaProfile) SummaryRules() SummaryRules { return bankOfAmericaSummary }
