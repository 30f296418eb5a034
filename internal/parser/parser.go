package parser

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// ErrMissingLabel is returned when a document has no label. It is the only
// fatal input error; malformed text yields an empty or partial result instead.
var ErrMissingLabel = errors.New("document label is required")

// Document is one statement's extracted text plus the label used for detection,
// typically the source filename.
type Document struct {
	Label string
	Text  string
}

// Parser turns statement documents into transaction records and a reconciled
// summary. It holds no per-document state and is safe for concurrent use.
type Parser struct {
	log             zerolog.Logger
	now             func() time.Time
	keepRemittances bool
	debug           bool
	issuer          models.Issuer
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for drop and summary diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// WithClock sets the clock that supplies the year for dates printed without one.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithKeepRemittances disables the remittance filter, so payments made to the
// card are kept as credit records.
func WithKeepRemittances(keep bool) Option {
	return func(p *Parser) { p.keepRemittances = keep }
}

// WithDebug records what happened to every logical line in the result.
func WithDebug(debug bool) Option {
	return func(p *Parser) { p.debug = debug }
}

// WithIssuer skips label detection and always uses the given issuer.
func WithIssuer(issuer models.Issuer) Option {
	return func(p *Parser) { p.issuer = issuer }
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParsePages joins per-page text and parses it as one document.
func (p *Parser) ParsePages(label string, pages []string) (*models.StatementResult, error) {
	return p.Parse(Document{Label: label, Text: strings.Join(pages, "\n")})
}

// Parse runs detection, stitching, row matching, filtering, classification,
// summary extraction and reconciliation over one document.
func (p *Parser) Parse(doc Document) (*models.StatementResult, error) {
	label := strings.TrimSpace(doc.Label)
	if label == "" {
		return nil, ErrMissingLabel
	}

	issuer := p.issuer
	if issuer == "" {
		issuer = Detect(label)
	}
	profile, err := ProfileFor(issuer)
	if err != nil {
		return nil, err
	}

	log := p.log.With().Str("label", label).Str("issuer", string(issuer)).Logger()

	result := &models.StatementResult{
		Label:        label,
		Issuer:       issuer,
		Transactions: []models.Transaction{},
		Sources: models.Sources{
			StatementBalance: models.ProvenanceNone,
			PaymentsCredits:  models.ProvenanceNone,
			Purchases:        models.ProvenanceNone,
		},
	}

	lines := splitLines(doc.Text)
	if len(lines) == 0 {
		log.Warn().Msg("document has no text")
		return result, nil
	}
	if profile.Stitching() {
		lines = Stitch(lines)
	}

	now := p.now()
	rules := filterRules(p.keepRemittances)
	for i, line := range lines {
		txn, outcome := p.parseLine(profile, rules, line, now)
		if outcome != "parsed" {
			log.Debug().Str("line", line).Str("result", outcome).Msg("line dropped")
		} else {
			txn.Source = label
			result.Transactions = append(result.Transactions, txn)
		}
		if p.debug {
			result.DebugLines = append(result.DebugLines, models.DebugLine{
				LineNum: i + 1,
				Text:    line,
				Result:  outcome,
			})
		}
	}

	result.Extracted = ExtractSummary(profile, doc.Text)
	result.Summary, result.Sources = Reconcile(result.Extracted, result.Transactions)

	log.Info().
		Int("transactions", len(result.Transactions)).
		Int("lines", len(lines)).
		Str("balance_source", string(result.Sources.StatementBalance)).
		Str("purchases_source", string(result.Sources.Purchases)).
		Str("payments_source", string(result.Sources.PaymentsCredits)).
		Msg("statement parsed")

	return result, nil
}

// parseLine turns one logical line into a record. The second return value is
// "parsed" on success, otherwise the reason the line was dropped.
func (p *Parser) parseLine(profile Profile, rules []filterRule, line string, now time.Time) (models.Transaction, string) {
	c, ok := profile.MatchRow(line)
	if !ok {
		return models.Transaction{}, "unmatched"
	}
	if reason, reject := rejectReason(rules, c.Description); reject {
		return models.Transaction{}, reason
	}

	amount, err := ParseAmount(c.Amount)
	if err != nil {
		return models.Transaction{}, "bad_amount"
	}
	kind, amount := Classify(c.Description, amount)

	return models.Transaction{
		Date:     ParseDate(c.Date, now),
		Merchant: c.Description,
		Amount:   amount,
		Kind:     kind,
		Issuer:   profile.Issuer(),
	}, "parsed"
}
