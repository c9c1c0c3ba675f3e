package extraction

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/promotoria-nhamunda/controle-prazos/internal/gemini"
	"github.com/promotoria-nhamunda/controle-prazos/pkg/logger"
)

const deadlinePrompt = `O Sistema analisará o %s fornecido para extrair dados de processos judiciais da Promotoria de Nhamundá.
REGRAS DE ALTA PRECISÃO:
1. STATUS PRISIONAL: Identifique se o réu está "Réu Preso" (busque por termos: flagrante, preventiva, custódia, estabelecimento prisional) ou "Em Liberdade" (busque por: alvará, soltura, liberdade provisória). Se não houver certeza, use "Não Informado".
2. PRIORIDADE: Se houver réu preso ou menção a "URGENTE", a prioridade deve ser "Urgente".
3. DATAS: 'startDate' (Ciência/Intimação) e 'endDate' (Vencimento Final), no formato AAAA-MM-DD.
4. FINALIDADE: 'manifestationPurpose' deve ser um de: %s.
Campos: processNumber, proceduralClass, mainSubject, deadlineDuration, startDate, endDate, defendantStatus, manifestationPurpose, system, priority.
Em groupMetadata informe a finalidade predominante da lista e o total de registros do documento.
%s`

const pdfDeadlineInstruction = "Extraia os processos com foco absoluto no status prisional (Preso/Liberdade) e urgência."

const audiencePrompt = `O Sistema extrairá audiências em JSON.
Campos: processNumber, system, date (AAAA-MM-DD), time (HH:MM), courtDivision, type, mode, link.
%s`

const administrativePrompt = `O Sistema extrairá processos administrativos MPV em JSON.
Campos: procedureNumber, proceduralClass, mainSubject, originNumber, currentSector, registrationDate (AAAA-MM-DD), secrecyLevel, legalDeadline (AAAA-MM-DD, se houver).
%s`

// GeminiExtractor extracts records with a Gemini model and a JSON response
// schema per collection
type GeminiExtractor struct {
	models  gemini.Generator
	model   string
	timeout time.Duration
	logger  *logger.Logger
}

// NewGeminiExtractor creates an extractor on top of a Gemini generator
func NewGeminiExtractor(models gemini.Generator, model string, timeout time.Duration, logger *logger.Logger) *GeminiExtractor {
	return &GeminiExtractor{
		models:  models,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

func (g *GeminiExtractor) Name() string {
	return "gemini"
}

// ExtractDeadlines extracts deadlines from an HTML listing, text or PDF
func (g *GeminiExtractor) ExtractDeadlines(ctx context.Context, doc Document) (*DeadlineResult, error) {
	var prompt string
	switch {
	case doc.IsHTML():
		prompt = fmt.Sprintf(deadlinePrompt, "HTML", purposeList(), doc.Text())
	case doc.IsText():
		prompt = fmt.Sprintf(deadlinePrompt, "texto", purposeList(), doc.Text())
	default:
		prompt = fmt.Sprintf(deadlinePrompt, "PDF", purposeList(), pdfDeadlineInstruction)
	}

	var result DeadlineResult
	if err := g.extract(ctx, doc, prompt, deadlineSchema(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractAudiences extracts hearings from a hearing agenda
func (g *GeminiExtractor) ExtractAudiences(ctx context.Context, doc Document) (*AudienceResult, error) {
	var result AudienceResult
	if err := g.extract(ctx, doc, fmt.Sprintf(audiencePrompt, inline(doc)), audienceSchema(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractAdministrative extracts administrative processes from a report or pasted text
func (g *GeminiExtractor) ExtractAdministrative(ctx context.Context, doc Document) (*AdministrativeResult, error) {
	var result AdministrativeResult
	if err := g.extract(ctx, doc, fmt.Sprintf(administrativePrompt, inline(doc)), administrativeSchema(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *GeminiExtractor) extract(ctx context.Context, doc Document, prompt string, schema *genai.Schema, out any) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	parts := []*genai.Part{}
	if !doc.IsText() {
		parts = append(parts, genai.NewPartFromBytes(doc.Data, doc.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		g.logger.Error("Extraction request failed", "document", doc.Name, "error", err)
		return fmt.Errorf("extraction request failed: %w", err)
	}

	reply, err := gemini.Text(resp)
	if err != nil {
		return err
	}

	g.logger.Debug("Extraction reply received",
		"document", doc.Name,
		"model", g.model,
		"latency", time.Since(start).String(),
		"bytes", len(reply),
	)
	return decodeReply(reply, out)
}

// inline returns the document text for text documents and nothing for
// binary ones, which travel as a separate part
func inline(doc Document) string {
	if doc.IsText() {
		return doc.Text()
	}
	return ""
}
