package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promotoria-nhamunda/controle-prazos/internal/assistant"
	"github.com/promotoria-nhamunda/controle-prazos/internal/extraction"
)

type chatRequest struct {
	History []assistant.Message `json:"history"`
	Message string              `json:"message"`
}

type textRequest struct {
	Text string `json:"text"`
}

// Chat continues a research conversation
func (h *Handlers) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err))
		return
	}
	h.ask(c, "chat", func(ctx context.Context) (*assistant.Answer, error) {
		return h.assistant.Chat(ctx, req.History, req.Message)
	})
}

// Summary condenses a case description into one sentence
func (h *Handlers) Summary(c *gin.Context) {
	h.askText(c, "summary", func(ctx context.Context, text string) (*assistant.Answer, error) {
		return h.assistant.Summary(ctx, text)
	})
}

// Draft writes a legal piece
func (h *Handlers) Draft(c *gin.Context) {
	h.askText(c, "draft", func(ctx context.Context, text string) (*assistant.Answer, error) {
		return h.assistant.Draft(ctx, text)
	})
}

// Jurisprudence searches case law on the court sites
func (h *Handlers) Jurisprudence(c *gin.Context) {
	h.askText(c, "jurisprudence", func(ctx context.Context, text string) (*assistant.Answer, error) {
		return h.assistant.Jurisprudence(ctx, text)
	})
}

func (h *Handlers) askText(c *gin.Context, operation string, call func(ctx context.Context, text string) (*assistant.Answer, error)) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err))
		return
	}
	h.ask(c, operation, func(ctx context.Context) (*assistant.Answer, error) {
		return call(ctx, req.Text)
	})
}

func (h *Handlers) ask(c *gin.Context, operation string, call func(ctx context.Context) (*assistant.Answer, error)) {
	if h.assistant == nil {
		h.respondError(c, extraction.ErrNotConfigured)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.ExtractionTimeout)
	defer cancel()

	answer, err := call(ctx)
	if err != nil {
		h.logger.Warn("Assistant request failed", "operation", operation, "error", err)
		h.respondUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "answer": answer})
}
