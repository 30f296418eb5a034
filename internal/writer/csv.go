package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-parser/internal/models"
)

// CSVWriter writes parsed statements to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes results to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, results ...*models.StatementResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, results...)
}

// Write writes results in CSV format: optional summary metadata rows per
// statement, one column header, then every transaction in order.
func (w *CSVWriter) Write(out io.Writer, results ...*models.StatementResult) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		for _, res := range results {
			for _, row := range metadataRows(res) {
				if err := writer.Write(row); err != nil {
					return fmt.Errorf("failed to write CSV metadata: %w", err)
				}
			}
		}
	}

	header := []string{"Date", "Merchant", "Kind", "Amount", "Issuer", "Source"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, res := range results {
		for _, txn := range res.Transactions {
			row := []string{
				formatDate(txn),
				guardFormula(SanitizeText(txn.Merchant)),
				string(txn.Kind),
				txn.Amount.StringFixed(2),
				string(txn.Issuer),
				guardFormula(SanitizeText(txn.Source)),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func metadataRows(res *models.StatementResult) [][]string {
	return [][]string{
		{"# Label", guardFormula(SanitizeText(res.Label))},
		{"# Issuer", string(res.Issuer)},
		{"# Statement Balance", formatSummary(res.Summary.StatementBalance, res.Sources.StatementBalance)},
		{"# Purchases", formatSummary(res.Summary.Purchases, res.Sources.Purchases)},
		{"# Payments/Credits", formatSummary(res.Summary.PaymentsCredits, res.Sources.PaymentsCredits)},
	}
}

func formatSummary(v decimal.NullDecimal, src models.Provenance) string {
	if !v.Valid {
		return ""
	}
	return fmt.Sprintf("%s (%s)", v.Decimal.StringFixed(2), src)
}

func formatDate(txn models.Transaction) string {
	if txn.Date == nil {
		return ""
	}
	return txn.Date.Format("2006-01-02")
}
