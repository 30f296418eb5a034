// Package batch parses many statements in parallel and collects per-label
// summaries. Documents share no state, so the only coordination is gathering
// results.
package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/card-statement-parser/internal/models"
	"github.com/insightdelivered/card-statement-parser/internal/parser"
)

// Entry is the outcome of one document. Key is the document's key in the
// report maps: its label, suffixed "#2", "#3" and so on when an earlier
// document in the same batch carried the same label.
type Entry struct {
	Label  string                  `json:"label"`
	Key    string                  `json:"key,omitempty"`
	Result *models.StatementResult `json:"result,omitempty"`
	Err    error                   `json:"-"`
	Error  string                  `json:"error,omitempty"`
}

// Report holds batch results in input order plus per-label summary maps.
type Report struct {
	ID              uuid.UUID                      `json:"id"`
	Results         []Entry                        `json:"results"`
	Balances        map[string]decimal.NullDecimal `json:"balances"`
	PaymentsCredits map[string]decimal.NullDecimal `json:"paymentsCredits"`
	Purchases       map[string]decimal.NullDecimal `json:"purchases"`
	Issuers         map[string]models.Issuer       `json:"issuers"`
}

// NewReport returns an empty report with a fresh ID.
func NewReport() *Report {
	return &Report{
		ID:              uuid.New(),
		Balances:        make(map[string]decimal.NullDecimal),
		PaymentsCredits: make(map[string]decimal.NullDecimal),
		Purchases:       make(map[string]decimal.NullDecimal),
		Issuers:         make(map[string]models.Issuer),
	}
}

// Run parses docs with up to workers documents in flight. A document that
// fails to parse is recorded on its entry and does not stop the batch; only
// context cancellation does.
func Run(ctx context.Context, p *parser.Parser, docs []parser.Document, workers int) (*Report, error) {
	if workers < 1 {
		workers = 1
	}

	entries := make([]Entry, len(docs))
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := p.Parse(doc)
			entries[i] = Entry{Label: doc.Label, Result: res, Err: err}
			if err != nil {
				entries[i].Error = err.Error()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	report := NewReport()
	seen := make(map[string]int)
	for _, e := range entries {
		if e.Result != nil {
			e.Key = uniqueKey(seen, e.Result.Label)
		}
		report.add(e)
	}
	return report, nil
}

// uniqueKey keeps statements that share a file name from overwriting each
// other's figures.
func uniqueKey(seen map[string]int, label string) string {
	seen[label]++
	if n := seen[label]; n > 1 {
		return fmt.Sprintf("%s#%d", label, n)
	}
	return label
}

func (r *Report) add(e Entry) {
	r.Results = append(r.Results, e)
	if e.Result == nil {
		return
	}
	label := e.Key
	if label == "" {
		label = e.Result.Label
	}
	r.Balances[label] = e.Result.Summary.StatementBalance
	r.PaymentsCredits[label] = e.Result.Summary.PaymentsCredits
	r.Purchases[label] = e.Result.Summary.Purchases
	r.Issuers[label] = e.Result.Issuer
}

// Merge folds other into r. For a key present in both, other wins.
func (r *Report) Merge(other *Report) {
	for _, e := range other.Results {
		r.add(e)
	}
}

// Failed returns the entries whose document could not be parsed.
func (r *Report) Failed() []Entry {
	var failed []Entry
	for _, e := range r.Results {
		if e.Err != nil {
			failed = append(failed, e)
		}
	}
	return failed
}

// TotalBalance sums every known statement balance.
func (r *Report) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, b := range r.Balances {
		if b.Valid {
			total = total.Add(b.Decimal)
		}
	}
	return total
}

// TotalPurchases sums the reconciled purchases of every statement.
func (r *Report) TotalPurchases() decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.Purchases {
		if p.Valid {
			total = total.Add(p.Decimal)
		}
	}
	return total
}
