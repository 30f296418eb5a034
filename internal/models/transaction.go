package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Issuer identifies the card issuer whose statement layout applies.
type Issuer string

const (
	IssuerCapitalOne    Issuer = "capital_one"
	IssuerBarclays      Issuer = "barclays"
	IssuerBankOfAmerica Issuer = "bank_of_america"
	IssuerCiti          Issuer = "citi"
	IssuerDiscover      Issuer = "discover"
	IssuerAmex          Issuer = "amex"
	IssuerApple         Issuer = "apple"
	IssuerGeneric       Issuer = "generic"
)

// Issuers lists every supported issuer tag.
var Issuers = []Issuer{
	IssuerCapitalOne,
	IssuerBarclays,
	IssuerBankOfAmerica,
	IssuerCiti,
	IssuerDiscover,
	IssuerAmex,
	IssuerApple,
	IssuerGeneric,
}

// Kind is the polarity of a transaction.
type Kind string

const (
	KindSpend  Kind = "spend"
	KindCredit Kind = "credit"
)

// Transaction represents a single card statement transaction.
// Amount is positive for spend and zero or negative for credit.
type Transaction struct {
	Date     *time.Time      `json:"date"` // nil when the date token could not be parsed
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
	Kind     Kind            `json:"kind"`
	Issuer   Issuer          `json:"issuer"`
	Source   string          `json:"source"`
}

// DebugLine captures what the parser did with each logical input line.
// LineNum is the 1-based position among logical lines, counted after blank
// lines are dropped and wrapped rows are stitched, so it is not a physical
// line number in the extracted text.
type DebugLine struct {
	LineNum int    `json:"lineNum"`
	Text    string `json:"text"`
	Result  string `json:"result"` // "parsed", "unmatched", "bad_amount", or a filter reason
}
