package handlers

import (
	"github.com/gin-gonic/gin"

	"stationops/internal/domain/catalogs/branch"
	"stationops/internal/domain/catalogs/fueltype"
	"stationops/internal/infrastructure/http/v1/dto"
)

// FuelTypeHandler serves the fuel type catalog.
type FuelTypeHandler struct {
	*BaseHandler
	service *fueltype.Service
}

// NewFuelTypeHandler creates a new fuel type handler.
func NewFuelTypeHandler(base *BaseHandler, service *fueltype.Service) *FuelTypeHandler {
	return &FuelTypeHandler{BaseHandler: base, service: service}
}

// Create adds a fuel type.
// POST /api/v1/fuel-types
func (h *FuelTypeHandler) Create(c *gin.Context) {
	var req dto.CreateFuelTypeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ft := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), ft); err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedWith(c, dto.FromFuelType(ft))
}

// Update modifies catalog fields (not the price).
// PUT /api/v1/fuel-types/:id
func (h *FuelTypeHandler) Update(c *gin.Context) {
	ftID, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateFuelTypeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ft, err := h.service.GetByID(c.Request.Context(), ftID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(ft)

	if err := h.service.Update(c.Request.Context(), ft); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromFuelType(ft))
}

// UpdatePrice changes the live price and records history. Admin-only.
// POST /api/v1/fuel-types/:id/price
func (h *FuelTypeHandler) UpdatePrice(c *gin.Context) {
	ftID, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdatePriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ft, err := h.service.UpdatePrice(c.Request.Context(), ftID, req.NewPrice)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromFuelType(ft))
}

// GetByID returns one fuel type.
// GET /api/v1/fuel-types/:id
func (h *FuelTypeHandler) GetByID(c *gin.Context) {
	ftID, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	ft, err := h.service.GetByID(c.Request.Context(), ftID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromFuelType(ft))
}

// List returns fuel types; ?active=true narrows to pump-available ones.
// GET /api/v1/fuel-types
func (h *FuelTypeHandler) List(c *gin.Context) {
	var (
		fts []*fueltype.FuelType
		err error
	)
	if c.Query("active") == "true" {
		fts, err = h.service.ListActive(c.Request.Context())
	} else {
		fts, err = h.service.List(c.Request.Context())
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromFuelTypes(fts))
}

// PriceHistory returns recent price changes.
// GET /api/v1/fuel-types/:id/price-history
func (h *FuelTypeHandler) PriceHistory(c *gin.Context) {
	ftID, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	changes, err := h.service.PriceHistory(c.Request.Context(), ftID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromPriceChanges(changes))
}

// BranchHandler serves the branch catalog.
type BranchHandler struct {
	*BaseHandler
	service *branch.Service
}

// NewBranchHandler creates a new branch handler.
func NewBranchHandler(base *BaseHandler, service *branch.Service) *BranchHandler {
	return &BranchHandler{BaseHandler: base, service: service}
}

// Create adds a branch.
// POST /api/v1/branches
func (h *BranchHandler) Create(c *gin.Context) {
	var req dto.CreateBranchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedWith(c, dto.FromBranch(b))
}

// Update modifies a branch, including its shift plan.
// PUT /api/v1/branches/:id
func (h *BranchHandler) Update(c *gin.Context) {
	branchID, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateBranchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), branchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(b)

	if err := h.service.Update(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBranch(b))
}

// GetByID returns one branch.
// GET /api/v1/branches/:id
func (h *BranchHandler) GetByID(c *gin.Context) {
	branchID, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), branchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBranch(b))
}

// List returns branches; ?active=true narrows to operating ones.
// GET /api/v1/branches
func (h *BranchHandler) List(c *gin.Context) {
	var (
		bs  []*branch.Branch
		err error
	)
	if c.Query("active") == "true" {
		bs, err = h.service.ListActive(c.Request.Context())
	} else {
		bs, err = h.service.List(c.Request.Context())
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBranches(bs))
}
