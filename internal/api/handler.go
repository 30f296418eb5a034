// Package api serves the statement parser over HTTP.
package api

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-parser/internal/buildinfo"
	"github.com/insightdelivered/card-statement-parser/internal/extractor"
	"github.com/insightdelivered/card-statement-parser/internal/logger"
	"github.com/insightdelivered/card-statement-parser/internal/models"
	"github.com/insightdelivered/card-statement-parser/internal/parser"
	"github.com/insightdelivered/card-statement-parser/internal/writer"
)

// pageBreak separates pages in client-side extracted text.
const pageBreak = "\n---PAGE_BREAK---\n"

// ParseRequest is the JSON body of /api/parse.
type ParseRequest struct {
	Label  string `json:"label"`
	Text   string `json:"text"`
	Issuer string `json:"issuer,omitempty"`
}

// ParseResponse is the JSON response from /api/parse and /api/convert.
type ParseResponse struct {
	Success     bool                    `json:"success"`
	Error       string                  `json:"error,omitempty"`
	RequestID   string                  `json:"requestId,omitempty"`
	Result      *models.StatementResult `json:"result,omitempty"`
	CSV         string                  `json:"csv,omitempty"`
	SpendTotal  decimal.Decimal         `json:"spendTotal"`
	CreditTotal decimal.Decimal         `json:"creditTotal"`
	Count       int                     `json:"count"`
	Cached      bool                    `json:"cached"`
}

// Options configures a Handler.
type Options struct {
	Logger       zerolog.Logger
	Extractor    *extractor.Extractor
	CacheTTL     time.Duration
	KeepPayments bool
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	log          zerolog.Logger
	extractor    *extractor.Extractor
	cache        *cache.Cache
	keepPayments bool
}

// NewHandler creates a Handler. A zero CacheTTL disables result caching.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		log:          opts.Logger,
		extractor:    opts.Extractor,
		keepPayments: opts.KeepPayments,
	}
	if h.extractor == nil {
		h.extractor = extractor.New(opts.Logger)
	}
	if opts.CacheTTL > 0 {
		h.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return h
}

// NewApp builds the fiber app with recovery, request IDs and the API routes.
func NewApp(h *Handler, maxUploadMB int) *fiber.App {
	if maxUploadMB < 1 {
		maxUploadMB = 50
	}
	app := fiber.New(fiber.Config{
		AppName:               "statement-parser " + buildinfo.Version,
		BodyLimit:             maxUploadMB << 20,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(fiberrecover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(h.withRequestLogger)
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", HandleHealth)
	app.Post("/api/parse", h.HandleParse)
	app.Post("/api/convert", h.HandleConvert)
}

// withRequestLogger stores a logger tagged with the request ID in the user
// context, where the parser and extractor pick it up.
func (h *Handler) withRequestLogger(c *fiber.Ctx) error {
	log := logger.WithFields(h.log, map[string]interface{}{"request_id": requestID(c)})
	c.SetUserContext(logger.WithContext(c.UserContext(), log))
	return c.Next()
}

// HandleHealth reports liveness and the running version.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": buildinfo.Version,
	})
}

// HandleParse parses statement text that was already extracted by the caller.
func (h *Handler) HandleParse(c *fiber.Ctx) error {
	var req ParseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
	}
	res, cached, err := h.parse(c, req.Label, req.Issuer, req.Text)
	if err != nil {
		return err
	}
	return h.respond(c, res, cached, false)
}

// HandleConvert accepts a multipart upload in field "file". The optional
// "extractedText" field carries client-side extracted pages and skips
// server-side extraction; "header=false" omits the CSV metadata rows.
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" && ext != ".txt" {
		return fiber.NewError(fiber.StatusBadRequest, "Only PDF or text files are supported.")
	}

	var pages []string
	if extracted := c.FormValue("extractedText"); extracted != "" {
		for _, page := range strings.Split(extracted, pageBreak) {
			if page = strings.TrimSpace(page); page != "" {
				pages = append(pages, page)
			}
		}
	}

	if len(pages) == 0 {
		tmp, err := os.MkdirTemp("", "statement-*")
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create temp dir.")
		}
		defer os.RemoveAll(tmp)

		path := filepath.Join(tmp, "upload"+ext)
		if err := c.SaveFile(fh, path); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save uploaded file.")
		}
		pages, err = h.extractor.Pages(c.UserContext(), path)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("Extraction failed: %v", err))
		}
	}

	res, cached, err := h.parse(c, fh.Filename, c.FormValue("issuer"), strings.Join(pages, "\n"))
	if err != nil {
		return err
	}
	includeHeader := c.FormValue("header") != "false"
	return h.respond(c, res, cached, includeHeader)
}

// parse runs the parser, serving repeated uploads of the same document from
// the cache. Returned errors are *fiber.Error values.
func (h *Handler) parse(c *fiber.Ctx, label, issuerName, text string) (*models.StatementResult, bool, error) {
	label = writer.SanitizeText(label)
	if label == "" {
		return nil, false, fiber.NewError(fiber.StatusBadRequest, parser.ErrMissingLabel.Error())
	}

	opts := []parser.Option{
		parser.WithLogger(logger.FromContext(c.UserContext())),
		parser.WithKeepRemittances(h.keepPayments),
	}
	if issuerName != "" {
		issuer, err := parser.ParseIssuer(issuerName)
		if err != nil {
			return nil, false, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		opts = append(opts, parser.WithIssuer(issuer))
	}

	key := cacheKey(label, issuerName, text)
	if h.cache != nil {
		if v, ok := h.cache.Get(key); ok {
			return v.(*models.StatementResult), true, nil
		}
	}

	res, err := parser.New(opts...).Parse(parser.Document{Label: label, Text: text})
	if err != nil {
		if errors.Is(err, parser.ErrMissingLabel) {
			return nil, false, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return nil, false, fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("Parsing failed: %v", err))
	}

	if h.cache != nil {
		h.cache.Set(key, res, cache.DefaultExpiration)
	}
	return res, false, nil
}

func (h *Handler) respond(c *fiber.Ctx, res *models.StatementResult, cached, includeHeader bool) error {
	var buf bytes.Buffer
	if err := (&writer.CSVWriter{IncludeHeader: includeHeader}).Write(&buf, res); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	log := logger.FromContext(c.UserContext())
	log.Info().
		Str("label", res.Label).
		Str("issuer", string(res.Issuer)).
		Int("transactions", len(res.Transactions)).
		Bool("cached", cached).
		Msg("statement served")

	return c.JSON(ParseResponse{
		Success:     true,
		RequestID:   requestID(c),
		Result:      res,
		CSV:         buf.String(),
		SpendTotal:  res.SpendTotal(),
		CreditTotal: res.CreditTotal(),
		Count:       len(res.Transactions),
		Cached:      cached,
	})
}

// cacheKey hashes everything that influences a parse result.
func cacheKey(label, issuer, text string) string {
	sum := sha256.New()
	for _, part := range []string{label, issuer, text} {
		sum.Write([]byte(strconv.Itoa(len(part))))
		sum.Write([]byte{0})
		sum.Write([]byte(part))
	}
	return hex.EncodeToString(sum.Sum(nil))
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(ParseResponse{
		Success:   false,
		Error:     err.Error(),
		RequestID: requestID(c),
	})
}
