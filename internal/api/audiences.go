package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promotoria-nhamunda/controle-prazos/internal/extraction"
	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
	"github.com/promotoria-nhamunda/controle-prazos/internal/storage"
	"github.com/promotoria-nhamunda/controle-prazos/internal/view"
)

// ListAudiences returns scheduled hearings, or held and cancelled ones
// with view=archived
func (h *Handlers) ListAudiences(c *gin.Context) {
	date, err := queryDate(c, "date")
	if err != nil {
		h.respondError(c, err)
		return
	}

	mode := view.ParseMode(c.Query("view"))
	items := view.Audiences(h.store.Audiences(), mode, view.AudienceFilter{
		Process: c.Query("process"),
		Date:    date,
		Court:   c.Query("court"),
		Type:    c.Query("type"),
	})

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"view":      mode,
		"count":     len(items),
		"audiences": items,
	})
}

func (h *Handlers) CreateAudience(c *gin.Context) {
	a, err := decodeBody(c, storage.DecodeAudience)
	if err != nil {
		h.respondError(c, err)
		return
	}

	created, err := h.store.CreateAudience(a)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "audience": created})
}

// ImportAudiences extracts hearings from a court agenda. Every hearing
// found is appended.
func (h *Handlers) ImportAudiences(c *gin.Context) {
	runImport(h, c, string(extraction.KindAudiences),
		func(ctx context.Context, doc extraction.Document) ([]records.AudienceCandidate, *extraction.GroupMetadata, error) {
			result, err := h.extractor.ExtractAudiences(ctx, doc)
			if err != nil {
				return nil, nil, err
			}
			return result.Audiences, nil, nil
		},
		h.store.ImportAudiences,
	)
}

func (h *Handlers) UpdateAudience(c *gin.Context) {
	a, err := decodeBody(c, storage.DecodeAudience)
	if err != nil {
		h.respondError(c, err)
		return
	}

	updated, err := h.store.UpdateAudience(c.Param("id"), a)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "audience": updated})
}

// SetAudienceStatus marks a hearing as held, cancelled or rescheduled
func (h *Handlers) SetAudienceStatus(c *gin.Context) {
	var req struct {
		Status records.AudienceStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err))
		return
	}

	updated, err := h.store.SetAudienceStatus(c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "audience": updated})
}

func (h *Handlers) DeleteAudience(c *gin.Context) {
	if err := h.store.DeleteAudience(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
