package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/card-statement-parser/internal/batch"
	"github.com/insightdelivered/card-statement-parser/internal/config"
	"github.com/insightdelivered/card-statement-parser/internal/models"
)

const genericText = `Statement Balance $5.25
01/15/2025 STARBUCKS $5.25
01/16/2025 ONLINE PAYMENT THANK YOU -$200.00`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeStatement(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestDetectCommand(t *testing.T) {
	out, _, err := run(t, "detect", "citi_Mar2024.pdf", "random.pdf")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "citi_Mar2024.pdf\tciti\tCiti", lines[0])
	assert.Equal(t, "random.pdf\tgeneric\tGeneric", lines[1])
}

func TestParseCommand_DefaultCSVOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "statement.txt", genericText)

	_, stderr, err := run(t, "parse", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Found 1 transaction(s)")

	data, err := os.ReadFile(filepath.Join(dir, "statement.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Label,statement.txt")
	assert.Contains(t, string(data), "2025-01-15,STARBUCKS,spend,5.25,generic,statement.txt")
	assert.NotContains(t, string(data), "ONLINE PAYMENT")
}

func TestParseCommand_JSONKeepPayments(t *testing.T) {
	path := writeStatement(t, t.TempDir(), "statement.txt", genericText)

	out, _, err := run(t, "parse", "--format", "json", "-o", "-", "--keep-payments", "--label", "my_card.pdf", path)
	require.NoError(t, err)

	var res models.StatementResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "my_card.pdf", res.Label)
	assert.Equal(t, models.IssuerGeneric, res.Issuer)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, models.KindCredit, res.Transactions[1].Kind)
	assert.Equal(t, "-200.00", res.Transactions[1].Amount.StringFixed(2))
	assert.Equal(t, models.ProvenanceExtracted, res.Sources.StatementBalance)
}

func TestParseCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	a := writeStatement(t, dir, "a.txt", genericText)
	b := writeStatement(t, dir, "b.txt", genericText)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown format", []string{"parse", "--format", "xml", a}, "unknown format"},
		{"label with many files", []string{"parse", "--label", "x.pdf", a, b}, "--label"},
		{"unknown issuer", []string{"parse", "--issuer", "monzo", a}, "unsupported issuer"},
		{"missing file", []string{"parse", filepath.Join(dir, "missing.txt")}, "extracting"},
		{"unsupported type", []string{"parse", filepath.Join(dir, "a.docx")}, "unsupported file type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBatchCommand_JSONReport(t *testing.T) {
	dir := t.TempDir()
	a := writeStatement(t, dir, "citi_Jan2025.txt", "Purchases +$636.18\n01/15 UBER TRIP $12.34")
	b := writeStatement(t, dir, "statement.txt", genericText)

	out, stderr, err := run(t, "batch", "--format", "json", "--workers", "2", a, b)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Total purchases:")

	var report batch.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Results, 2)
	assert.Equal(t, "citi_Jan2025.txt", report.Results[0].Label)
	assert.Equal(t, models.IssuerCiti, report.Issuers["citi_Jan2025.txt"])
	assert.Equal(t, "636.18", report.Purchases["citi_Jan2025.txt"].Decimal.StringFixed(2))
	assert.Equal(t, models.IssuerGeneric, report.Issuers["statement.txt"])
}

func TestBatchCommand_CSV(t *testing.T) {
	dir := t.TempDir()
	a := writeStatement(t, dir, "a.txt", genericText)
	b := writeStatement(t, dir, "b.txt", genericText)
	out := filepath.Join(dir, "all.csv")

	_, _, err := run(t, "batch", "--header=false", "-o", out, a, b)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Merchant,Kind,Amount,Issuer,Source", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ",a.txt"))
	assert.True(t, strings.HasSuffix(lines[2], ",b.txt"))
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement-parser.yaml")

	out, _, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, _, err = run(t, "config", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = run(t, "config", "init", "--force", path)
	require.NoError(t, err)
}

func TestBatchCommand_DuplicateFileNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	a := writeStatement(t, filepath.Join(dir, "a"), "statement.txt", "New Balance $100.00\n01/15/2025 COFFEE SHOP $5.00")
	b := writeStatement(t, filepath.Join(dir, "b"), "statement.txt", "New Balance $250.00\n01/16/2025 BOOKSHOP $20.00")

	out, stderr, err := run(t, "batch", "--format", "json", a, b)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Total balance: 350.00")

	var report batch.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Balances, 2)
	assert.Contains(t, report.Balances, "statement.txt#2")
}
