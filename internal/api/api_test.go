package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/promotoria-nhamunda/controle-prazos/internal/cache"
	"github.com/promotoria-nhamunda/controle-prazos/internal/config"
	"github.com/promotoria-nhamunda/controle-prazos/internal/database"
	"github.com/promotoria-nhamunda/controle-prazos/internal/extraction"
	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
	"github.com/promotoria-nhamunda/controle-prazos/internal/storage"
	"github.com/promotoria-nhamunda/controle-prazos/internal/store"
	"github.com/promotoria-nhamunda/controle-prazos/pkg/logger"
)

var today = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func str(s string) *string { return &s }

type fakeExtractor struct {
	deadlines *extraction.DeadlineResult
	audiences *extraction.AudienceResult
	processes *extraction.AdministrativeResult
	err       error
	docs      []extraction.Document
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) ExtractDeadlines(ctx context.Context, doc extraction.Document) (*extraction.DeadlineResult, error) {
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return nil, f.err
	}
	if f.deadlines == nil {
		return &extraction.DeadlineResult{}, nil
	}
	return f.deadlines, nil
}

func (f *fakeExtractor) ExtractAudiences(ctx context.Context, doc extraction.Document) (*extraction.AudienceResult, error) {
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return nil, f.err
	}
	if f.audiences == nil {
		return &extraction.AudienceResult{}, nil
	}
	return f.audiences, nil
}

func (f *fakeExtractor) ExtractAdministrative(ctx context.Context, doc extraction.Document) (*extraction.AdministrativeResult, error) {
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return nil, f.err
	}
	if f.processes == nil {
		return &extraction.AdministrativeResult{}, nil
	}
	return f.processes, nil
}

type testServer struct {
	router    *gin.Engine
	extractor *fakeExtractor
	backend   *database.Backend
}

func setupTestRouter(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	backend := database.NewBackend(db)

	cfg := &config.Config{
		ProsecutorOffice:  "Promotoria de Justiça de Nhamundá",
		ExtractionTimeout: 5 * time.Second,
		MaxDocumentBytes:  1 << 20,
	}

	log := logger.NewNop()
	repo := storage.NewRepository(backend, log, false)
	st := store.New(repo, log, store.WithClock(func() time.Time { return today }))
	extractor := &fakeExtractor{}

	router := gin.New()
	SetupRoutes(router, NewHandlers(st, extractor, nil, backend, cache.NewCache(10, time.Minute), log, cfg))

	return &testServer{router: router, extractor: extractor, backend: backend}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

type deadlineResponse struct {
	Success  bool             `json:"success"`
	Deadline records.Deadline `json:"deadline"`
}

type deadlineList struct {
	Count     int                `json:"count"`
	Deadlines []records.Deadline `json:"deadlines"`
}

type importResponse struct {
	Success       bool                      `json:"success"`
	Message       string                    `json:"message"`
	Error         string                    `json:"error"`
	Result        store.ImportResult        `json:"result"`
	GroupMetadata *extraction.GroupMetadata `json:"groupMetadata"`
}

func TestHealthCheck(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(t, "GET", "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	response := decode[map[string]any](t, w)
	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["extractor"] != "fake" {
		t.Errorf("Expected fake extractor, got %v", response["extractor"])
	}
}

func TestDeadlineLifecycle(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(t, "POST", "/api/deadlines", map[string]any{
		"id":            "client-id",
		"processNumber": "0600123-45.2024.8.04.6000",
		"endDate":       "2024-07-10",
		"priority":      "Urgente",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	created := decode[deadlineResponse](t, w).Deadline
	if created.ID == "" || created.ID == "client-id" {
		t.Errorf("Expected a fresh id, got %q", created.ID)
	}
	if created.PromoterDecision != records.DecisionPending {
		t.Errorf("Expected pending decision, got %s", created.PromoterDecision)
	}

	path := "/api/deadlines/" + created.ID

	if w := s.do(t, "POST", path+"/archive", nil); w.Code != http.StatusConflict {
		t.Errorf("Expected archive to be blocked, got %d", w.Code)
	}

	w = s.do(t, "PATCH", path+"/workflow", map[string]any{
		"promoterDecision": "Assinado",
		"instruction":      "Revisar dosimetria",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected workflow update, got %d: %s", w.Code, w.Body.String())
	}
	if d := decode[deadlineResponse](t, w).Deadline; d.Instruction != "Revisar dosimetria" {
		t.Errorf("Expected instruction to be set, got %q", d.Instruction)
	}

	if w := s.do(t, "POST", path+"/archive", nil); w.Code != http.StatusOK {
		t.Fatalf("Expected archive, got %d: %s", w.Code, w.Body.String())
	}

	if list := decode[deadlineList](t, s.do(t, "GET", "/api/deadlines", nil)); list.Count != 0 {
		t.Errorf("Expected no active deadlines, got %d", list.Count)
	}
	if list := decode[deadlineList](t, s.do(t, "GET", "/api/deadlines?view=archived", nil)); list.Count != 1 {
		t.Errorf("Expected one archived deadline, got %d", list.Count)
	}

	if w := s.do(t, "POST", path+"/unarchive", nil); w.Code != http.StatusOK {
		t.Errorf("Expected unarchive, got %d", w.Code)
	}
	if w := s.do(t, "DELETE", path, nil); w.Code != http.StatusOK {
		t.Errorf("Expected delete, got %d", w.Code)
	}
	if w := s.do(t, "GET", path, nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected not found after delete, got %d", w.Code)
	}
}

func TestCreateDeadlineValidation(t *testing.T) {
	s := setupTestRouter(t)

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{
			name:       "Missing process number",
			body:       map[string]any{"endDate": "2024-07-10"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Missing end date",
			body:       map[string]any{"processNumber": "001"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Invalid date",
			body:       map[string]any{"processNumber": "001", "endDate": "amanhã"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Malformed body",
			body:       "{",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Brazilian date",
			body:       map[string]any{"processNumber": "001", "endDate": "10/07/2024"},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, "POST", "/api/deadlines", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestWorkflowRejectsUnknownStatus(t *testing.T) {
	s := setupTestRouter(t)

	created := decode[deadlineResponse](t, s.do(t, "POST", "/api/deadlines", map[string]any{
		"processNumber": "001",
		"endDate":       "2024-07-10",
	})).Deadline

	w := s.do(t, "PATCH", "/api/deadlines/"+created.ID+"/workflow", map[string]any{"advisorStatus": "Esquecido"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestListDeadlinesFilters(t *testing.T) {
	s := setupTestRouter(t)

	for _, body := range []map[string]any{
		{"processNumber": "001", "endDate": "2024-07-10", "system": "SEEU"},
		{"processNumber": "002", "endDate": "2024-07-11", "system": "PROJUDI"},
		{"processNumber": "003", "endDate": "2024-07-10", "system": "PROJUDI"},
	} {
		if w := s.do(t, "POST", "/api/deadlines", body); w.Code != http.StatusCreated {
			t.Fatalf("Failed to create deadline: %s", w.Body.String())
		}
	}

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{"No filter", "", 3},
		{"System", "?system=PROJUDI", 2},
		{"End date", "?endDate=2024-07-10", 2},
		{"Term and system", "?term=003&system=PROJUDI", 1},
		{"Archived", "?view=archived", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := decode[deadlineList](t, s.do(t, "GET", "/api/deadlines"+tt.query, nil))
			if list.Count != tt.wantCount {
				t.Errorf("Expected %d deadlines, got %d", tt.wantCount, list.Count)
			}
		})
	}

	list := decode[deadlineList](t, s.do(t, "GET", "/api/deadlines", nil))
	if list.Deadlines[2].ProcessNumber != "002" {
		t.Errorf("Expected ascending end dates, got %s last", list.Deadlines[2].ProcessNumber)
	}

	if w := s.do(t, "GET", "/api/deadlines?endDate=ontem", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected bad request for invalid date, got %d", w.Code)
	}
}

func TestImportDeadlines(t *testing.T) {
	s := setupTestRouter(t)
	s.extractor.deadlines = &extraction.DeadlineResult{
		Deadlines: []records.DeadlineCandidate{
			{ProcessNumber: str("0600123-45.2024.8.04.6000"), EndDate: str("2024-07-10")},
			{ProcessNumber: str("0600123-45.2024.8.04.6000"), EndDate: str("2024-08-10")},
			{ProcessNumber: str("0600999-11.2024.8.04.6000"), EndDate: str("2024-07-01")},
		},
		GroupMetadata: &extraction.GroupMetadata{DetectedPurpose: "Manifestação", TotalRecordsInDocument: 3},
	}

	w := s.do(t, "POST", "/api/deadlines/import", map[string]any{"text": "listagem colada"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	response := decode[importResponse](t, w)
	if response.Result.Found != 3 || response.Result.Imported != 2 || response.Result.Skipped != 1 {
		t.Errorf("Unexpected result: %+v", response.Result)
	}
	if response.GroupMetadata == nil || response.GroupMetadata.TotalRecordsInDocument != 3 {
		t.Errorf("Expected group metadata, got %+v", response.GroupMetadata)
	}
	if len(s.extractor.docs) != 1 || !s.extractor.docs[0].IsText() {
		t.Errorf("Expected a text document, got %+v", s.extractor.docs)
	}

	// Re-importing the same listing adds nothing
	response = decode[importResponse](t, s.do(t, "POST", "/api/deadlines/import", map[string]any{"text": "listagem colada"}))
	if response.Result.Imported != 0 || response.Result.Skipped != 3 {
		t.Errorf("Expected idempotent import, got %+v", response.Result)
	}

	logs, err := s.backend.RecentImports("deadlines", 10)
	if err != nil {
		t.Fatalf("RecentImports() error = %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("Expected 2 import logs, got %d", len(logs))
	}
	if !logs[1].Success || logs[1].Imported != 2 || logs[1].Extractor != "fake" {
		t.Errorf("Unexpected first import log: %+v", logs[1])
	}
}

func TestImportNothingFound(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(t, "POST", "/api/deadlines/import", map[string]any{"text": "nada aqui"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	response := decode[importResponse](t, w)
	if response.Message == "" || response.Result.Found != 0 {
		t.Errorf("Expected nothing-found message, got %+v", response)
	}
}

func TestImportFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		body       any
		wantStatus int
	}{
		{
			name:       "Extraction error",
			err:        errors.New("model overloaded"),
			body:       map[string]any{"text": "x"},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "Not configured",
			err:        extraction.ErrNotConfigured,
			body:       map[string]any{"text": "x"},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "Empty text",
			body:       map[string]any{"text": "  "},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Malformed body",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestRouter(t)
			s.extractor.err = tt.err

			w := s.do(t, "POST", "/api/deadlines/import", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			response := decode[importResponse](t, w)
			if response.Success || response.Error == "" {
				t.Errorf("Expected an error body, got %+v", response)
			}
			if tt.err != nil && response.Error == tt.err.Error() {
				t.Error("Expected a generic message instead of the extractor error")
			}

			if list := decode[deadlineList](t, s.do(t, "GET", "/api/deadlines", nil)); list.Count != 0 {
				t.Errorf("Expected no deadlines after a failed import, got %d", list.Count)
			}
		})
	}
}

func TestImportFailureIsLogged(t *testing.T) {
	s := setupTestRouter(t)
	s.extractor.err = errors.New("model overloaded")

	s.do(t, "POST", "/api/administrative/import", map[string]any{"text": "x"})

	response := decode[struct {
		Imports []database.ImportLog `json:"imports"`
	}](t, s.do(t, "GET", "/api/imports?collection=administrative", nil))
	if len(response.Imports) != 1 {
		t.Fatalf("Expected 1 import log, got %d", len(response.Imports))
	}
	if response.Imports[0].Success || response.Imports[0].ErrorMessage == "" {
		t.Errorf("Expected a failed import log, got %+v", response.Imports[0])
	}

	if w := s.do(t, "GET", "/api/imports?limit=0", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected bad request for invalid limit, got %d", w.Code)
	}
}

func TestImportUpload(t *testing.T) {
	s := setupTestRouter(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "intimacoes.pdf")
	part.Write([]byte("%PDF-1.4 fake"))
	mw.Close()

	req, _ := http.NewRequest("POST", "/api/deadlines/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if len(s.extractor.docs) != 1 {
		t.Fatalf("Expected one extracted document, got %d", len(s.extractor.docs))
	}
	doc := s.extractor.docs[0]
	if doc.Name != "intimacoes.pdf" || doc.MIMEType != "application/pdf" {
		t.Errorf("Unexpected document %s %s", doc.Name, doc.MIMEType)
	}

	// Upload without a file part
	body.Reset()
	mw = multipart.NewWriter(&body)
	mw.WriteField("other", "x")
	mw.Close()
	req, _ = http.NewRequest("POST", "/api/deadlines/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAudiences(t *testing.T) {
	s := setupTestRouter(t)
	s.extractor.audiences = &extraction.AudienceResult{
		Audiences: []records.AudienceCandidate{
			{ProcessNumber: str("001"), Date: str("2024-06-10"), Time: str("10:00")},
			{ProcessNumber: str("001"), Date: str("2024-06-10"), Time: str("10:00")},
		},
	}

	response := decode[importResponse](t, s.do(t, "POST", "/api/audiences/import", map[string]any{"text": "pauta"}))
	if response.Result.Imported != 2 {
		t.Errorf("Expected hearings to be appended, got %+v", response.Result)
	}

	type audienceList struct {
		Count     int                `json:"count"`
		Audiences []records.Audience `json:"audiences"`
	}
	list := decode[audienceList](t, s.do(t, "GET", "/api/audiences?date=2024-06-10", nil))
	if list.Count != 2 {
		t.Fatalf("Expected 2 hearings, got %d", list.Count)
	}

	path := "/api/audiences/" + list.Audiences[0].ID + "/status"
	if w := s.do(t, "PATCH", path, map[string]any{"status": "Realizada"}); w.Code != http.StatusOK {
		t.Errorf("Expected status change, got %d: %s", w.Code, w.Body.String())
	}
	if w := s.do(t, "PATCH", path, map[string]any{"status": "Adiada"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected bad request for unknown status, got %d", w.Code)
	}

	if list := decode[audienceList](t, s.do(t, "GET", "/api/audiences?view=archived", nil)); list.Count != 1 {
		t.Errorf("Expected 1 archived hearing, got %d", list.Count)
	}

	w := s.do(t, "POST", "/api/audiences", map[string]any{"processNumber": "002"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected missing date to be rejected, got %d", w.Code)
	}
	w = s.do(t, "POST", "/api/audiences", map[string]any{"processNumber": "002", "date": "2024-06-20"})
	if w.Code != http.StatusCreated {
		t.Errorf("Expected hearing to be created, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdministrative(t *testing.T) {
	s := setupTestRouter(t)

	type processResponse struct {
		Process records.AdministrativeProcess `json:"process"`
	}

	w := s.do(t, "POST", "/api/administrative", map[string]any{
		"procedureNumber":  "PA 01.2022",
		"registrationDate": "2022-03-15",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	p := decode[processResponse](t, w).Process

	if got := p.CNMPDeadline.Format("2006-01-02"); got != "2025-03-15" {
		t.Errorf("Expected CNMP deadline 2025-03-15, got %s", got)
	}
	if p.Status != records.AdminLate {
		t.Errorf("Expected overdue status, got %s", p.Status)
	}

	if w := s.do(t, "POST", "/api/administrative/"+p.ID+"/archive", nil); w.Code != http.StatusOK {
		t.Errorf("Expected archive without gate, got %d", w.Code)
	}

	type processList struct {
		Count int `json:"count"`
	}
	if list := decode[processList](t, s.do(t, "GET", "/api/administrative?view=archived&term=pa+01", nil)); list.Count != 1 {
		t.Errorf("Expected 1 archived process, got %d", list.Count)
	}

	if w := s.do(t, "DELETE", "/api/administrative/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected not found, got %d", w.Code)
	}
}

func TestDashboard(t *testing.T) {
	s := setupTestRouter(t)
	s.do(t, "POST", "/api/deadlines", map[string]any{"processNumber": "001", "endDate": "2024-07-10", "priority": "Urgente"})

	response := decode[struct {
		Summary struct {
			Active int `json:"active"`
			Urgent int `json:"urgent"`
		} `json:"summary"`
	}](t, s.do(t, "GET", "/api/dashboard", nil))

	if response.Summary.Active != 1 || response.Summary.Urgent != 1 {
		t.Errorf("Unexpected summary: %+v", response.Summary)
	}
}

func TestAssistantNotConfigured(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(t, "POST", "/api/assistant/chat", map[string]any{"message": "Olá"})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
}
