package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promotoria-nhamunda/controle-prazos/internal/extraction"
	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
	"github.com/promotoria-nhamunda/controle-prazos/internal/storage"
	"github.com/promotoria-nhamunda/controle-prazos/internal/store"
	"github.com/promotoria-nhamunda/controle-prazos/internal/view"
)

// ListDeadlines returns the filtered active or archived deadlines
func (h *Handlers) ListDeadlines(c *gin.Context) {
	endDate, err := queryDate(c, "endDate")
	if err != nil {
		h.respondError(c, err)
		return
	}

	mode := view.ParseMode(c.Query("view"))
	items := view.Deadlines(h.store.Deadlines(), mode, view.DeadlineFilter{
		Term:             c.Query("term"),
		System:           records.System(c.Query("system")),
		Purpose:          records.Purpose(c.Query("purpose")),
		AdvisorStatus:    records.AdvisorStatus(c.Query("advisor")),
		PromoterDecision: records.PromoterDecision(c.Query("promoter")),
		EndDate:          endDate,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"view":      mode,
		"count":     len(items),
		"deadlines": items,
	})
}

// GetDeadline returns one deadline
func (h *Handlers) GetDeadline(c *gin.Context) {
	d, err := h.store.Deadline(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deadline": d})
}

// CreateDeadline stores a manually entered deadline
func (h *Handlers) CreateDeadline(c *gin.Context) {
	d, err := decodeBody(c, storage.DecodeDeadline)
	if err != nil {
		h.respondError(c, err)
		return
	}

	created, err := h.store.CreateDeadline(d)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "deadline": created})
}

// ImportDeadlines extracts deadlines from an uploaded listing
func (h *Handlers) ImportDeadlines(c *gin.Context) {
	runImport(h, c, string(extraction.KindDeadlines),
		func(ctx context.Context, doc extraction.Document) ([]records.DeadlineCandidate, *extraction.GroupMetadata, error) {
			result, err := h.extractor.ExtractDeadlines(ctx, doc)
			if err != nil {
				return nil, nil, err
			}
			return result.Deadlines, result.GroupMetadata, nil
		},
		h.store.ImportDeadlines,
	)
}

// UpdateDeadline replaces a deadline with the edited record
func (h *Handlers) UpdateDeadline(c *gin.Context) {
	d, err := decodeBody(c, storage.DecodeDeadline)
	if err != nil {
		h.respondError(c, err)
		return
	}

	updated, err := h.store.UpdateDeadline(c.Param("id"), d)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deadline": updated})
}

// UpdateWorkflow applies an advisor or promoter quick change
func (h *Handlers) UpdateWorkflow(c *gin.Context) {
	var patch store.WorkflowPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.respondError(c, badRequest(err))
		return
	}

	updated, err := h.store.UpdateWorkflow(c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deadline": updated})
}

// ArchiveDeadline archives a deadline once the promoter has acted on it
func (h *Handlers) ArchiveDeadline(c *gin.Context) {
	d, err := h.store.ArchiveDeadline(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deadline": d})
}

// UnarchiveDeadline returns a deadline to the active view
func (h *Handlers) UnarchiveDeadline(c *gin.Context) {
	d, err := h.store.UnarchiveDeadline(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deadline": d})
}

// DeleteDeadline removes a deadline
func (h *Handlers) DeleteDeadline(c *gin.Context) {
	if err := h.store.DeleteDeadline(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
