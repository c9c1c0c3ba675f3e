// Package assistant answers legal research and drafting requests with a
// Gemini model.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/promotoria-nhamunda/controle-prazos/internal/gemini"
	"github.com/promotoria-nhamunda/controle-prazos/pkg/logger"
)

const (
	chatInstruction = "Você é um Assistente Jurídico Sênior do Sistema da Promotoria de Justiça de Nhamundá. Sua comunicação deve ser formal, técnica e baseada em dados reais."

	jurisprudenceInstruction = "O Sistema atua como Jurista Sênior. Forneça parágrafos introdutórios, citações reais e análise conclusiva."

	summaryPrompt = "O Sistema resume este caso jurídico em 1 frase curta: %s"

	draftingThinkingBudget = 32768
)

// jurisprudenceSites restricts searches to case-law sources
var jurisprudenceSites = []string{
	"jusbrasil.com.br/jurisprudencia/",
	"stj.jus.br",
	"stf.jus.br",
	"tjam.jus.br",
}

// ErrEmptyMessage is returned for a request without text
var ErrEmptyMessage = errors.New("message is empty")

// Message is one turn of a chat history
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Answer is a model reply with the web sources it cites
type Answer struct {
	Text    string          `json:"text"`
	Sources []gemini.Source `json:"sources,omitempty"`
}

// Assistant sends chat, summary, drafting and jurisprudence requests
type Assistant struct {
	models    gemini.Generator
	fastModel string
	proModel  string
	logger    *logger.Logger
}

// New creates an assistant. fastModel serves summaries and proModel the
// chat, drafting and jurisprudence requests.
func New(models gemini.Generator, fastModel, proModel string, logger *logger.Logger) *Assistant {
	return &Assistant{
		models:    models,
		fastModel: fastModel,
		proModel:  proModel,
		logger:    logger,
	}
}

// Chat continues a conversation with web search enabled
func (a *Assistant) Chat(ctx context.Context, history []Message, message string) (*Answer, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role(m.Role)))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	return a.generate(ctx, "chat", a.proModel, contents, &genai.GenerateContentConfig{
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		Temperature:       gemini.Ptr[float32](0.2),
		SystemInstruction: genai.NewContentFromText(chatInstruction, genai.RoleUser),
	})
}

// Summary condenses a case description into one short sentence
func (a *Assistant) Summary(ctx context.Context, text string) (*Answer, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	return a.generate(ctx, "summary", a.fastModel, genai.Text(fmt.Sprintf(summaryPrompt, text)), nil)
}

// Draft writes a legal piece with an extended thinking budget
func (a *Assistant) Draft(ctx context.Context, prompt string) (*Answer, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyMessage
	}
	return a.generate(ctx, "draft", a.proModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: gemini.Ptr[int32](draftingThinkingBudget)},
	})
}

// Jurisprudence searches case law on the court and case-law sites
func (a *Assistant) Jurisprudence(ctx context.Context, query string) (*Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyMessage
	}
	return a.generate(ctx, "jurisprudence", a.proModel, genai.Text(RestrictedQuery(query)), &genai.GenerateContentConfig{
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		Temperature:       gemini.Ptr[float32](0.1),
		SystemInstruction: genai.NewContentFromText(jurisprudenceInstruction, genai.RoleUser),
	})
}

// RestrictedQuery quotes the query and limits it to the case-law sites
func RestrictedQuery(query string) string {
	sites := make([]string, len(jurisprudenceSites))
	for i, s := range jurisprudenceSites {
		sites[i] = "site:" + s
	}
	return fmt.Sprintf("%q (%s)", strings.TrimSpace(query), strings.Join(sites, " OR "))
}

func (a *Assistant) generate(ctx context.Context, operation, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*Answer, error) {
	resp, err := a.models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		a.logger.Error("Assistant request failed", "operation", operation, "model", model, "error", err)
		return nil, fmt.Errorf("%s request failed: %w", operation, err)
	}

	text, err := gemini.Text(resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return &Answer{Text: text, Sources: gemini.Sources(resp)}, nil
}

func role(r string) genai.Role {
	if r == "model" || r == "assistant" {
		return genai.RoleModel
	}
	return genai.RoleUser
}
