// Package extraction turns documents into candidate records.
package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/promotoria-nhamunda/controle-prazos/internal/gemini"
	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
)

// ErrNotConfigured is returned when a document kind needs the AI extractor
// and no API key is configured
var ErrNotConfigured = gemini.ErrNotConfigured

// Kind names the collection a document is extracted for
type Kind string

const (
	KindDeadlines      Kind = "deadlines"
	KindAudiences      Kind = "audiences"
	KindAdministrative Kind = "administrative"
)

// maxMarkupChars bounds the HTML or text sent inline in a prompt
const maxMarkupChars = 500000

// Document is an uploaded file or pasted text
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// TextDocument wraps pasted text
func TextDocument(text string) Document {
	return Document{Name: "texto.txt", MIMEType: "text/plain", Data: []byte(text)}
}

// FileDocument wraps an uploaded file. PDF is assumed when the type is
// unknown.
func FileDocument(name, mimeType string, data []byte) Document {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case ext == ".pdf":
		mimeType = "application/pdf"
	case ext == ".html" || ext == ".htm":
		mimeType = "text/html"
	case ext == ".txt":
		mimeType = "text/plain"
	case mimeType == "" || mimeType == "application/octet-stream":
		mimeType = "application/pdf"
	}
	if i := strings.Index(mimeType, ";"); i != -1 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return Document{Name: name, MIMEType: mimeType, Data: data}
}

// IsHTML reports whether the document is markup
func (d Document) IsHTML() bool {
	return d.MIMEType == "text/html"
}

// IsText reports whether the document can be inlined in a prompt
func (d Document) IsText() bool {
	return strings.HasPrefix(d.MIMEType, "text/")
}

// Text returns the document content truncated for inline use. The cut
// never splits a UTF-8 sequence.
func (d Document) Text() string {
	s := string(d.Data)
	if len(s) <= maxMarkupChars {
		return s
	}
	end := maxMarkupChars
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}

// Digest identifies the document content
func (d Document) Digest() string {
	sum := sha256.Sum256(d.Data)
	return hex.EncodeToString(sum[:])
}

// GroupMetadata describes a listing as a whole
type GroupMetadata struct {
	DetectedPurpose        string `json:"detectedPurpose"`
	TotalRecordsInDocument int    `json:"totalRecordsInDocument"`
}

// DeadlineResult is the extraction contract for deadlines
type DeadlineResult struct {
	Deadlines     []records.DeadlineCandidate `json:"deadlines"`
	GroupMetadata *GroupMetadata              `json:"groupMetadata,omitempty"`
}

// AudienceResult is the extraction contract for hearings
type AudienceResult struct {
	Audiences []records.AudienceCandidate `json:"audiences"`
}

// AdministrativeResult is the extraction contract for administrative processes
type AdministrativeResult struct {
	Processes []records.AdministrativeCandidate `json:"processes"`
}

// Extractor reads candidate records from a document. An empty result is
// not an error.
type Extractor interface {
	Name() string
	ExtractDeadlines(ctx context.Context, doc Document) (*DeadlineResult, error)
	ExtractAudiences(ctx context.Context, doc Document) (*AudienceResult, error)
	ExtractAdministrative(ctx context.Context, doc Document) (*AdministrativeResult, error)
}

// decodeReply parses a model reply into out after stripping fences and prose
func decodeReply(reply string, out any) error {
	if err := json.Unmarshal([]byte(gemini.CleanJSON(reply)), out); err != nil {
		return fmt.Errorf("failed to decode extraction reply: %w", err)
	}
	return nil
}
