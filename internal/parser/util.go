package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Common token patterns found in US card statements.
var (
	// -$1,234.56, $12.00, - $200.00, 5.25
	amountPattern = regexp.MustCompile(`-?\s?\$?(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}\b`)
	// MM/DD, MM/DD/YY, MM/DD/YYYY (optionally starred) or Mon DD at the start of a line
	datePrefixPattern = regexp.MustCompile(`(?i)^(?:` + slashDate + `\b\*?|` + monthDay + `\b)`)
	// same tokens anywhere in a line
	dateTokenPattern = regexp.MustCompile(`(?i)\b(?:` + slashDate + `|` + monthDay + `)\b`)
)

const (
	slashDate = `\d{1,2}/\d{1,2}(?:/\d{2}(?:\d{2})?)?`
	monthName = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
	monthDay  = monthName + `\.?\s+\d{1,2}`
)

// ErrEmptyAmount is returned when an amount token has no digits left after cleaning.
var ErrEmptyAmount = errors.New("empty amount")

// ParseAmount converts a token like "$1,234.56" or "-$200.00" to a signed decimal.
// Parenthesised amounts such as "(12.00)" are not treated as negative and fail to parse.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '$' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, ErrEmptyAmount
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// Layouts are tried in order. Layouts without a year take the year from the clock.
var dateLayouts = []struct {
	layout  string
	hasYear bool
}{
	{"1/2/2006", true},
	{"1/2/06", true},
	{"1/2", false},
	{"Jan 2", false},
	{"January 2", false},
}

// ParseDate parses MM/DD/YYYY, MM/DD/YY, MM/DD or Mon DD tokens.
// It returns nil when no layout matches; callers keep the record either way.
func ParseDate(token string, now time.Time) *time.Time {
	token = strings.TrimRight(strings.TrimSpace(token), "*")
	token = strings.Join(strings.Fields(strings.ReplaceAll(token, ".", " ")), " ")
	if token == "" {
		return nil
	}
	if len(token) > 4 && strings.EqualFold(token[:5], "sept ") {
		token = "Sep" + token[4:]
	}

	for _, l := range dateLayouts {
		t, err := time.Parse(l.layout, token)
		if err != nil {
			continue
		}
		if !l.hasYear {
			month, day := t.Month(), t.Day()
			t = time.Date(now.Year(), month, day, 0, 0, 0, 0, time.UTC)
			// Feb 29 outside a leap year would roll into March.
			if t.Month() != month || t.Day() != day {
				return nil
			}
		}
		return &t
	}
	return nil
}

// startsWithDate checks if a line begins with a date token.
func startsWithDate(line string) bool {
	return datePrefixPattern.MatchString(strings.TrimSpace(line))
}

// hasAmount checks if a line contains a currency amount anywhere.
func hasAmount(line string) bool {
	return amountPattern.MatchString(line)
}

// cleanDescription trims and collapses internal whitespace.
func cleanDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitLines breaks document text into trimmed, non-empty physical lines.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = normalizeLine(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// normalizeLine cleans up common PDF extraction artifacts.
func normalizeLine(line string) string {
	line = strings.ReplaceAll(line, "\u200B", "")
	line = strings.ReplaceAll(line, "\u00A0", " ")
	line = strings.ReplaceAll(line, "\t", " ")
	return strings.TrimSpace(line)
}
