// Package extractor turns statement files into page text for the parser.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/card-statement-parser/internal/logger"
)

var (
	// ErrUnreadable is returned when no method produced text that looks like a statement.
	ErrUnreadable = errors.New("no readable text could be extracted")
	// ErrUnsupported is returned for file types other than PDF and plain text.
	ErrUnsupported = errors.New("unsupported file type")
)

// Extractor reads statement files. The zero value is usable and logs nothing.
type Extractor struct {
	log zerolog.Logger
	// pdftotext is the poppler binary used as a fallback; empty disables it.
	pdftotext string
}

// New creates an Extractor that falls back to pdftotext when it is installed.
func New(log zerolog.Logger) *Extractor {
	e := &Extractor{log: log}
	if path, err := exec.LookPath("pdftotext"); err == nil {
		e.pdftotext = path
	}
	return e
}

// Pages returns the text of each page of a .pdf, or the whole content of a
// .txt file as a single page.
func (e *Extractor) Pages(ctx context.Context, path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return e.pdfPages(ctx, path)
	case ".txt", ".text":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return []string{string(data)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

// logFor prefers a logger carried by ctx, such as one tagged with a request ID.
func (e *Extractor) logFor(ctx context.Context) zerolog.Logger {
	if l := logger.FromContext(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return e.log
}

func (e *Extractor) pdfPages(ctx context.Context, path string) ([]string, error) {
	log := e.logFor(ctx)
	pages, libErr := readWithLibrary(path)
	if libErr == nil && IsReadable(pages) {
		return pages, nil
	}
	log.Debug().Err(libErr).Str("file", path).Msg("pdf library text unusable, trying pdftotext")

	if e.pdftotext != "" {
		pages, err := e.readWithPdftotext(ctx, path)
		if err == nil && IsReadable(pages) {
			return pages, nil
		}
		if err != nil {
			log.Debug().Err(err).Str("file", path).Msg("pdftotext failed")
		}
	}

	if libErr != nil {
		return nil, fmt.Errorf("%w from %s: %v", ErrUnreadable, filepath.Base(path), libErr)
	}
	return nil, fmt.Errorf("%w from %s: the file may be scanned or use custom font encodings", ErrUnreadable, filepath.Base(path))
}

// readWithLibrary uses ledongthuc/pdf, first row by row and then by
// rebuilding rows from text coordinates.
func readWithLibrary(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	n := r.NumPage()
	if n == 0 {
		return nil, errors.New("pdf has no pages")
	}

	pages = pagesByRow(r, n)
	if IsReadable(pages) {
		return pages, nil
	}
	return pagesByContent(r, n), nil
}

func pagesByRow(r *pdf.Reader, n int) []string {
	var pages []string
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, w := range row.Content {
				words = append(words, w.S)
			}
			if line := strings.TrimSpace(strings.Join(words, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// pagesByContent groups text runs by rounded Y (top to bottom) and orders
// each row by X. Wide gaps become a column break so amounts stay separate.
func pagesByContent(r *pdf.Reader, n int) []string {
	type run struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows := make(map[int][]run)
		for _, t := range page.Content().Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], run{x: t.X, s: t.S})
		}

		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		lines := make([]string, 0, len(ys))
		for _, y := range ys {
			runs := rows[y]
			sort.Slice(runs, func(a, b int) bool { return runs[a].x < runs[b].x })

			var b strings.Builder
			for j, rn := range runs {
				if j > 0 && rn.x-runs[j-1].x > 15 {
					b.WriteString(" ")
				}
				b.WriteString(rn.s)
			}
			if line := strings.TrimSpace(b.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// readWithPdftotext runs poppler's pdftotext page by page so page
// boundaries survive.
func (e *Extractor) readWithPdftotext(ctx context.Context, path string) ([]string, error) {
	n := 1
	if out, err := exec.CommandContext(ctx, "pdfinfo", path).Output(); err == nil {
		n = pageCount(string(out))
	}

	var pages []string
	for i := 1; i <= n; i++ {
		p := strconv.Itoa(i)
		out, err := exec.CommandContext(ctx, e.pdftotext, "-layout", "-f", p, "-l", p, path, "-").Output()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return nil, errors.New("pdftotext produced no output")
	}
	return pages, nil
}

// pageCount reads "Pages: N" from pdfinfo output, defaulting to 1.
func pageCount(info string) int {
	for _, line := range strings.Split(info, "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:"))); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

// statementWords appear on virtually every card statement.
var statementWords = []string{
	"balance", "payment", "statement", "account", "purchases",
	"credit", "transaction", "total", "due", "card", "date",
}

// IsReadable reports whether pages look like real statement text rather than
// undecoded glyphs: more than 50 characters, mostly printable ASCII, and at
// least one word every statement carries.
func IsReadable(pages []string) bool {
	joined := strings.Join(pages, "\n")
	if len(strings.TrimSpace(joined)) <= 50 {
		return false
	}
	if asciiRatio(joined) <= 0.6 {
		return false
	}
	lower := strings.ToLower(joined)
	for _, w := range statementWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// asciiRatio is the share of runes that are ASCII letters, digits, spaces or
// punctuation. Accented letters count as unreadable since identity-encoded
// fonts tend to decode into them.
func asciiRatio(s string) float64 {
	total, ok := 0, 0
	for _, r := range s {
		total++
		if r < unicode.MaxASCII && (unicode.IsPrint(r) || unicode.IsSpace(r)) {
			ok++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(ok) / float64(total)
}
