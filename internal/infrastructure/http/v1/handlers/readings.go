package handlers

import (
	"github.com/gin-gonic/gin"

	"stationops/internal/domain/readings"
	"stationops/internal/infrastructure/http/v1/dto"
)

// ReadingHandler serves the shift fuel reading lifecycle.
type ReadingHandler struct {
	*BaseHandler
	service *readings.Service
}

// NewReadingHandler creates a new reading handler.
func NewReadingHandler(base *BaseHandler, service *readings.Service) *ReadingHandler {
	return &ReadingHandler{BaseHandler: base, service: service}
}

// Start creates an open reading for a shift/fuel-type scope.
// POST /api/v1/readings
func (h *ReadingHandler) Start(c *gin.Context) {
	var req dto.StartReadingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	params, err := req.ToParams()
	if err != nil {
		h.Error(c, err)
		return
	}

	r, err := h.service.StartReading(c.Request.Context(), params)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedWith(c, dto.FromReading(r))
}

// GetByScope fetches the reading for a natural key. 204 when none exists,
// so the client can tell "no reading yet" apart from an error.
// GET /api/v1/readings/scope
func (h *ReadingHandler) GetByScope(c *gin.Context) {
	var q dto.ScopeQuery
	if !h.BindQuery(c, &q) {
		return
	}

	key, err := q.ToScopeKey()
	if err != nil {
		h.Error(c, err)
		return
	}

	r, err := h.service.GetReading(c.Request.Context(), key)
	if err != nil {
		h.Error(c, err)
		return
	}
	if r == nil {
		h.NoContent(c)
		return
	}
	h.OK(c, dto.FromReading(r))
}

// GetByID fetches one reading.
// GET /api/v1/readings/:id
func (h *ReadingHandler) GetByID(c *gin.Context) {
	readingID, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), readingID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromReading(r))
}

// List fetches readings matching a filter.
// GET /api/v1/readings
func (h *ReadingHandler) List(c *gin.Context) {
	var q dto.ListReadingsQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	rows, err := h.service.ListReadings(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromReadings(rows))
}

// Edit updates raw fields of an open reading.
// PUT /api/v1/readings/:id
func (h *ReadingHandler) Edit(c *gin.Context) {
	readingID, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.EditReadingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.EditWhileOpen(c.Request.Context(), readingID, req.ToParams())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromReading(r))
}

// Close supplies the ending value and transitions the reading to closed.
// POST /api/v1/readings/:id/close
func (h *ReadingHandler) Close(c *gin.Context) {
	readingID, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.CloseReadingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.CloseReading(c.Request.Context(), readingID, req.ToParams())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromReading(r))
}

// Unlock reopens a closed reading for correction. Admin-only.
// POST /api/v1/readings/:id/unlock
func (h *ReadingHandler) Unlock(c *gin.Context) {
	readingID, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	r, err := h.service.Unlock(c.Request.Context(), readingID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromReading(r))
}

// Relock applies corrections to an unlocked reading and closes it again.
// Admin-only.
// POST /api/v1/readings/:id/relock
func (h *ReadingHandler) Relock(c *gin.Context) {
	readingID, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.RelockReadingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.Relock(c.Request.Context(), readingID, req.ToParams())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromReading(r))
}
