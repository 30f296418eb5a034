package parser

import (
	"fmt"
	"regexp"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// Fragments shared by the row grammars.
const (
	rowMonthDay   = `(?:` + monthDay + `)`
	rowSlashMD    = `\d{1,2}/\d{1,2}`
	rowDollar     = `-?\s?\$[\d,]+\.\d{2}`
	rowBareAmount = `-?\$?[\d,]+\.\d{2}`
)

// Candidate is a line that matched a row grammar but has not been filtered yet.
type Candidate struct {
	Date        string
	PostDate    string
	Description string
	Amount      string
	// Extras holds issuer-specific fields (reference codes, reward points).
	// They are captured for debugging and never copied into a record.
	Extras map[string]string
}

// Profile binds an issuer to its row grammar, stitching policy and summary rules.
type Profile interface {
	// Issuer returns the issuer tag this profile handles.
	Issuer() models.Issuer
	// Name returns the human-readable issuer name.
	Name() string
	// Stitching reports whether wrapped lines must be joined before matching.
	Stitching() bool
	// MatchRow applies the row grammar to one logical line.
	MatchRow(line string) (Candidate, bool)
	// SummaryRules returns the ordered whole-document extraction rules.
	SummaryRules() SummaryRules
}

// ProfileFor returns the format profile for the given issuer.
func ProfileFor(issuer models.Issuer) (Profile, error) {
	switch issuer {
	case models.IssuerCapitalOne:
		return &CapitalOneProfile{}, nil
	case models.IssuerBarclays:
		return &BarclaysProfile{}, nil
	case models.IssuerBankOfAmerica:
		return &BankOfAmericaProfile{}, nil
	case models.IssuerCiti:
		return &CitiProfile{}, nil
	case models.IssuerDiscover:
		return &DiscoverProfile{}, nil
	case models.IssuerAmex:
		return &AmexProfile{}, nil
	case models.IssuerApple:
		return &AppleProfile{}, nil
	case models.IssuerGeneric:
		return &GenericProfile{}, nil
	default:
		return nil, fmt.Errorf("unsupported issuer: %q", issuer)
	}
}

// matchNamed applies pat to line and returns the named groups, or nil.
func matchNamed(pat *regexp.Regexp, line string) map[string]string {
	m := pat.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	groups := make(map[string]string, len(m))
	for i, name := range pat.SubexpNames() {
		if name != "" && i < len(m) {
			groups[name] = m[i]
		}
	}
	return groups
}

// candidateFromGroups builds a candidate from the standard named groups
// (date, post, desc, amount) and copies the listed extras.
func candidateFromGroups(g map[string]string, extras ...string) Candidate {
	c := Candidate{
		Date:        g["date"],
		PostDate:    g["post"],
		Description: cleanDescription(g["desc"]),
		Amount:      g["amount"],
	}
	for _, name := range extras {
		if v := g[name]; v != "" {
			if c.Extras == nil {
				c.Extras = make(map[string]string, len(extras))
			}
			c.Extras[name] = v
		}
	}
	return c
}
