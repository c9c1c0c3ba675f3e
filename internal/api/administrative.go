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

// ListAdministrative returns the filtered administrative processes
func (h *Handlers) ListAdministrative(c *gin.Context) {
	mode := view.ParseMode(c.Query("view"))
	items := view.Administrative(h.store.Administrative(), mode, view.AdministrativeFilter{
		Term:   c.Query("term"),
		Status: records.AdminStatus(c.Query("status")),
	})

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"view":      mode,
		"count":     len(items),
		"processes": items,
	})
}

// CreateAdministrative registers a process. The CNMP deadline and the
// status are derived.
func (h *Handlers) CreateAdministrative(c *gin.Context) {
	p, err := decodeBody(c, storage.DecodeAdministrativeProcess)
	if err != nil {
		h.respondError(c, err)
		return
	}

	created, err := h.store.CreateAdministrative(p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "process": created})
}

func (h *Handlers) ImportAdministrative(c *gin.Context) {
	runImport(h, c, string(extraction.KindAdministrative),
		func(ctx context.Context, doc extraction.Document) ([]records.AdministrativeCandidate, *extraction.GroupMetadata, error) {
			result, err := h.extractor.ExtractAdministrative(ctx, doc)
			if err != nil {
				return nil, nil, err
			}
			return result.Processes, nil, nil
		},
		h.store.ImportAdministrative,
	)
}

func (h *Handlers) UpdateAdministrative(c *gin.Context) {
	p, err := decodeBody(c, storage.DecodeAdministrativeProcess)
	if err != nil {
		h.respondError(c, err)
		return
	}

	updated, err := h.store.UpdateAdministrative(c.Param("id"), p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "process": updated})
}

func (h *Handlers) ArchiveAdministrative(c *gin.Context) {
	p, err := h.store.ArchiveAdministrative(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "process": p})
}

func (h *Handlers) UnarchiveAdministrative(c *gin.Context) {
	p, err := h.store.UnarchiveAdministrative(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "process": p})
}

func (h *Handlers) DeleteAdministrative(c *gin.Context) {
	if err := h.store.DeleteAdministrative(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
