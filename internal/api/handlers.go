package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/promotoria-nhamunda/controle-prazos/internal/assistant"
	"github.com/promotoria-nhamunda/controle-prazos/internal/cache"
	"github.com/promotoria-nhamunda/controle-prazos/internal/config"
	"github.com/promotoria-nhamunda/controle-prazos/internal/database"
	"github.com/promotoria-nhamunda/controle-prazos/internal/extraction"
	"github.com/promotoria-nhamunda/controle-prazos/internal/metrics"
	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
	"github.com/promotoria-nhamunda/controle-prazos/internal/store"
	"github.com/promotoria-nhamunda/controle-prazos/pkg/logger"
)

var errBadRequest = errors.New("invalid request body")

// ImportRecorder keeps the log of import attempts
type ImportRecorder interface {
	RecordImport(log *database.ImportLog) error
	RecentImports(collection string, limit int) ([]database.ImportLog, error)
}

// Handlers holds all HTTP handlers
type Handlers struct {
	store     *store.Store
	extractor extraction.Extractor
	assistant *assistant.Assistant
	imports   ImportRecorder
	cache     cache.Cache
	logger    *logger.Logger
	cfg       *config.Config
}

// NewHandlers creates a new handlers instance. The assistant and the
// import recorder may be nil.
func NewHandlers(st *store.Store, extractor extraction.Extractor, asst *assistant.Assistant, imports ImportRecorder, cache cache.Cache, logger *logger.Logger, cfg *config.Config) *Handlers {
	return &Handlers{
		store:     st,
		extractor: extractor,
		assistant: asst,
		imports:   imports,
		cache:     cache,
		logger:    logger,
		cfg:       cfg,
	}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	extractor := "none"
	if h.extractor != nil {
		extractor = h.extractor.Name()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"office":    h.cfg.ProsecutorOffice,
		"extractor": extractor,
		"assistant": h.assistant != nil,
	})
}

// Dashboard returns the summary counters
func (h *Handlers) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": h.store.Summary(),
	})
}

// CacheStats returns extraction cache statistics
func (h *Handlers) CacheStats(c *gin.Context) {
	if h.cache == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "stats": cache.CacheStats{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   h.cache.Stats(),
	})
}

// ListImports returns the most recent import attempts
func (h *Handlers) ListImports(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.respondError(c, fmt.Errorf("limit %q: %w", v, store.ErrInvalidValue))
			return
		}
		limit = n
	}

	if h.imports == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "count": 0, "imports": []database.ImportLog{}})
		return
	}

	logs, err := h.imports.RecentImports(c.Query("collection"), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(logs),
		"imports": logs,
	})
}

// respondError maps domain errors to status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrArchiveBlocked):
		status = http.StatusConflict
	case errors.Is(err, store.ErrMissingField),
		errors.Is(err, store.ErrInvalidValue),
		errors.Is(err, assistant.ErrEmptyMessage),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
		message = fmt.Sprintf("Document exceeds %d bytes", tooLarge.Limit)
	case errors.Is(err, extraction.ErrNotConfigured):
		status = http.StatusServiceUnavailable
		message = "AI service is not configured"
	default:
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
		message = "Internal server error"
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// respondUpstream reports a failed AI call without leaking its details
func (h *Handlers) respondUpstream(c *gin.Context, err error) {
	if errors.Is(err, extraction.ErrNotConfigured) ||
		errors.Is(err, assistant.ErrEmptyMessage) ||
		errors.Is(err, store.ErrMissingField) {
		h.respondError(c, err)
		return
	}

	status := http.StatusBadGateway
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   "Failed to process the document. Please try again.",
	})
}

// importRequest carries pasted text. Format "html" marks a copied listing.
type importRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

// readDocument reads a multipart "file" upload or a JSON text body
func (h *Handlers) readDocument(c *gin.Context) (extraction.Document, error) {
	if h.cfg.MaxDocumentBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxDocumentBytes)
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return extraction.Document{}, err
			}
			return extraction.Document{}, fmt.Errorf("file: %w", store.ErrMissingField)
		}

		f, err := header.Open()
		if err != nil {
			return extraction.Document{}, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return extraction.Document{}, fmt.Errorf("failed to read upload: %w", err)
		}
		return extraction.FileDocument(header.Filename, header.Header.Get("Content-Type"), data), nil
	}

	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return extraction.Document{}, err
		}
		return extraction.Document{}, badRequest(err)
	}
	if strings.TrimSpace(req.Text) == "" {
		return extraction.Document{}, fmt.Errorf("text: %w", store.ErrMissingField)
	}
	if strings.EqualFold(req.Format, "html") {
		return extraction.FileDocument("listagem.html", "text/html", []byte(req.Text)), nil
	}
	return extraction.TextDocument(req.Text), nil
}

// runImport extracts candidates from the request document and applies
// them to the store. Every attempt is logged.
func runImport[C any](
	h *Handlers,
	c *gin.Context,
	collection string,
	extract func(ctx context.Context, doc extraction.Document) ([]C, *extraction.GroupMetadata, error),
	apply func([]C) (store.ImportResult, error),
) {
	if h.extractor == nil {
		h.respondError(c, extraction.ErrNotConfigured)
		return
	}

	doc, err := h.readDocument(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entry := &database.ImportLog{
		Collection: collection,
		Source:     doc.Name,
		Extractor:  h.extractor.Name(),
		IPAddress:  c.ClientIP(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.ExtractionTimeout)
	defer cancel()

	start := time.Now()
	candidates, meta, err := extract(ctx, doc)
	metrics.ObserveExtraction(collection, time.Since(start), err)
	if err != nil {
		h.logger.Error("Extraction failed", "collection", collection, "document", doc.Name, "error", err)
		entry.ErrorMessage = err.Error()
		h.recordImport(entry)
		h.respondUpstream(c, err)
		return
	}

	entry.Found = len(candidates)
	if len(candidates) == 0 {
		entry.Success = true
		h.recordImport(entry)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "No records found in the document",
			"result":  store.ImportResult{},
		})
		return
	}

	result, err := apply(candidates)
	if err != nil {
		entry.ErrorMessage = err.Error()
		h.recordImport(entry)
		h.respondError(c, err)
		return
	}

	entry.Imported = result.Imported
	entry.Skipped = result.Skipped
	entry.Success = true
	h.recordImport(entry)
	metrics.ObserveImport(collection, result.Imported, result.Skipped)

	resp := gin.H{
		"success": true,
		"result":  result,
	}
	if meta != nil {
		resp["groupMetadata"] = meta
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) recordImport(entry *database.ImportLog) {
	if h.imports == nil {
		return
	}
	if err := h.imports.RecordImport(entry); err != nil {
		h.logger.Warn("Failed to record import", "collection", entry.Collection, "error", err)
	}
}

// decodeBody reads a single record with the storage date rules
func decodeBody[T any](c *gin.Context, decode func([]byte) (T, error)) (T, error) {
	var zero T
	data, err := c.GetRawData()
	if err != nil {
		return zero, badRequest(err)
	}
	v, err := decode(data)
	if err != nil {
		return zero, badRequest(err)
	}
	return v, nil
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

// queryDate parses an optional date query parameter
func queryDate(c *gin.Context, name string) (*time.Time, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil, nil
	}
	t, err := records.ParseDate(v, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", name, v, store.ErrInvalidValue)
	}
	return &t, nil
}
