package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/promotoria-nhamunda/controle-prazos/pkg/logger"
)

// PatternExtractor reads deadlines from HTML listings and pasted text with
// regular expressions. It is used when no AI key is configured and cannot
// read PDFs, hearings or administrative processes.
type PatternExtractor struct {
	rows   RowSource
	now    func() time.Time
	logger *logger.Logger
}

// NewPatternExtractor creates the regular-expression extractor
func NewPatternExtractor(rows RowSource, logger *logger.Logger) *PatternExtractor {
	return &PatternExtractor{
		rows:   rows,
		now:    time.Now,
		logger: logger,
	}
}

func (p *PatternExtractor) Name() string {
	return "pattern"
}

// ExtractDeadlines parses listing rows from the whole document, with no
// inline size limit
func (p *PatternExtractor) ExtractDeadlines(ctx context.Context, doc Document) (*DeadlineResult, error) {
	content := string(doc.Data)

	var rows []string
	switch {
	case doc.IsHTML():
		var err error
		if rows, err = p.rows.Rows(ctx, content); err != nil {
			return nil, fmt.Errorf("failed to read listing rows: %w", err)
		}
	case doc.IsText():
		rows = strings.Split(content, "\n")
	default:
		return nil, fmt.Errorf("%s documents need the AI extractor: %w", doc.MIMEType, ErrNotConfigured)
	}

	candidates := ParseRows(rows, p.now())
	p.logger.Debug("Pattern extraction finished", "document", doc.Name, "rows", len(rows), "found", len(candidates))
	return &DeadlineResult{Deadlines: candidates}, nil
}

func (p *PatternExtractor) ExtractAudiences(ctx context.Context, doc Document) (*AudienceResult, error) {
	return nil, fmt.Errorf("hearing extraction: %w", ErrNotConfigured)
}

func (p *PatternExtractor) ExtractAdministrative(ctx context.Context, doc Document) (*AdministrativeResult, error) {
	return nil, fmt.Errorf("administrative extraction: %w", ErrNotConfigured)
}
