package handlers

import (
	"github.com/gin-gonic/gin"

	"bistro/internal/core/sequence"
	"bistro/internal/infrastructure/http/v1/dto"
	"bistro/pkg/logger"
)

// SequenceHandler exposes counters for inspection and legacy imports.
type SequenceHandler struct {
	*BaseHandler
	numbers sequence.Generator
}

// NewSequenceHandler creates a new sequence handler.
func NewSequenceHandler(base *BaseHandler, numbers sequence.Generator) *SequenceHandler {
	return &SequenceHandler{BaseHandler: base, numbers: numbers}
}

// Get handles GET /sequences/:name.
func (h *SequenceHandler) Get(c *gin.Context) {
	name := c.Param("name")

	cur, err := h.numbers.Current(c.Request.Context(), name)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.SequenceResponse{Name: name, Current: cur})
}

// Seed handles PUT /sequences/:name.
func (h *SequenceHandler) Seed(c *gin.Context) {
	name := c.Param("name")
	var req dto.SeedRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := h.numbers.Seed(ctx, name, *req.Value); err != nil {
		h.Error(c, err)
		return
	}
	logger.Info(ctx, "sequence seeded", "name", name, "value", *req.Value)

	cur, err := h.numbers.Current(ctx, name)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.SequenceResponse{Name: name, Current: cur})
}
