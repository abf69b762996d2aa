package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kasetfair/booth-api/internal/api/handler/v1/request"
	"github.com/kasetfair/booth-api/internal/api/handler/v1/response"
	"github.com/kasetfair/booth-api/internal/domain"
	"github.com/kasetfair/booth-api/internal/service"
)

type BoothService interface {
	ImportRange(ctx context.Context, prefix string, start, end, priorityStart int) ([]domain.Booth, error)
	ListBooths(ctx context.Context, zone *domain.Zone) ([]domain.Booth, error)
	Reorder(ctx context.Context, op service.ReorderOp) ([]domain.Booth, error)
	NextAvailableBooth(ctx context.Context, zone domain.Zone) (domain.Booth, error)
	Disable(ctx context.Context, ids []uint) error
	Enable(ctx context.Context, ids []uint) error
	ZoneStats(ctx context.Context) ([]domain.ZoneStats, error)
}

type BoothHandler struct {
	svc BoothService
}

func NewBoothHandler(svc BoothService) *BoothHandler {
	return &BoothHandler{
		svc: svc,
	}
}

// HandleImportBooths godoc
// @Summary      Bulk-import a range of booths
// @Description  Creates booths prefix+start..prefix+end with sequential priorities. All-or-nothing.
// @Tags         booths
// @Accept       json
// @Produce      json
// @Param        input  body      request.ImportBoothsRequest  true  "range to import"
// @Success      201    {array}   domain.Booth
// @Failure      400    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /booths/import [post]
func (h *BoothHandler) HandleImportBooths(ctx *gin.Context) {
	var req request.ImportBoothsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	booths, err := h.svc.ImportRange(ctx.Request.Context(), req.Prefix, req.Start, req.End, req.PriorityStart)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRange):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidRange))
		case errors.Is(err, service.ErrDuplicateBoothNumber):
			response.RenderErr(ctx, response.ErrConflict(service.ErrDuplicateBoothNumber))
		default:
			err = fmt.Errorf("v1.HandleImportBooths -> h.svc.ImportRange -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, booths)
}

// HandleListBooths godoc
// @Summary      List active booths in priority order
// @Tags         booths
// @Produce      json
// @Param        zone  query     string  false  "zone filter"  Enums(FOOD, NON_FOOD, UNDEFINED)
// @Success      200   {array}   domain.Booth
// @Failure      400   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /booths [get]
func (h *BoothHandler) HandleListBooths(ctx *gin.Context) {
	zone, ok := zoneFilterFromQuery(ctx)
	if !ok {
		return
	}

	booths, err := h.svc.ListBooths(ctx.Request.Context(), zone)
	if err != nil {
		err = fmt.Errorf("v1.HandleListBooths -> h.svc.ListBooths -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, booths)
}

// HandleReorderBooths godoc
// @Summary      Edit the booth priority ordering
// @Description  Applies one ordering operation against the zone-filtered view and renumbers priorities densely.
// @Tags         booths
// @Accept       json
// @Produce      json
// @Param        input  body      request.ReorderRequest  true  "reorder operation"
// @Success      200    {array}   domain.Booth
// @Failure      400    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /booths/reorder [post]
func (h *BoothHandler) HandleReorderBooths(ctx *gin.Context) {
	var req request.ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	op := service.ReorderOp{
		Kind:        service.ReorderKind(req.Kind),
		BoothID:     req.BoothID,
		BoothIDs:    req.BoothIDs,
		TargetIndex: req.TargetIndex,
		OverBoothID: req.OverBoothID,
	}
	if req.Zone != nil {
		zone := domain.Zone(*req.Zone)
		op.Zone = &zone
	}

	booths, err := h.svc.Reorder(ctx.Request.Context(), op)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBoothNotInView),
			errors.Is(err, service.ErrTargetOutOfRange),
			errors.Is(err, service.ErrSelectionTooSmall):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleReorderBooths -> h.svc.Reorder -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, booths)
}

// HandleNextAvailableBooth godoc
// @Summary      Preview the next booth the engine would bind for a zone
// @Tags         booths
// @Produce      json
// @Param        zone  query     string  true  "zone"  Enums(FOOD, NON_FOOD)
// @Success      200   {object}  domain.Booth
// @Failure      400   {object}  response.Err
// @Failure      409   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /booths/next [get]
func (h *BoothHandler) HandleNextAvailableBooth(ctx *gin.Context) {
	zone := domain.Zone(ctx.Query("zone"))

	booth, err := h.svc.NextAvailableBooth(ctx.Request.Context(), zone)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidZone):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidZone))
		case errors.Is(err, service.ErrNoBoothAvailable):
			response.RenderErr(ctx, response.ErrConflict(service.ErrNoBoothAvailable))
		default:
			err = fmt.Errorf("v1.HandleNextAvailableBooth -> h.svc.NextAvailableBooth -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, booth)
}

// HandleDisableBooths godoc
// @Summary      Disable booths
// @Description  Disabled booths are excluded from allocation but keep their priority slot.
// @Tags         booths
// @Accept       json
// @Produce      json
// @Param        input  body      request.ToggleBoothsRequest  true  "booth ids"
// @Success      204
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /booths/disable [post]
func (h *BoothHandler) HandleDisableBooths(ctx *gin.Context) {
	h.toggleBooths(ctx, h.svc.Disable, "v1.HandleDisableBooths")
}

// HandleEnableBooths godoc
// @Summary      Re-enable booths
// @Tags         booths
// @Accept       json
// @Produce      json
// @Param        input  body      request.ToggleBoothsRequest  true  "booth ids"
// @Success      204
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /booths/enable [post]
func (h *BoothHandler) HandleEnableBooths(ctx *gin.Context) {
	h.toggleBooths(ctx, h.svc.Enable, "v1.HandleEnableBooths")
}

func (h *BoothHandler) toggleBooths(ctx *gin.Context, toggle func(context.Context, []uint) error, caller string) {
	var req request.ToggleBoothsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := toggle(ctx.Request.Context(), req.BoothIDs); err != nil {
		switch {
		case errors.Is(err, service.ErrBoothInUse):
			response.RenderErr(ctx, response.ErrConflict(service.ErrBoothInUse))
		case errors.Is(err, service.ErrBoothNotFound):
			response.RenderErr(ctx, response.ErrNotFound("booth", "ids", req.BoothIDs))
		default:
			err = fmt.Errorf("%v -> %w", caller, err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleZoneStats godoc
// @Summary      Per-zone booth counters
// @Tags         booths
// @Produce      json
// @Success      200  {array}   domain.ZoneStats
// @Failure      500  {object}  response.Err
// @Router       /booths/stats [get]
func (h *BoothHandler) HandleZoneStats(ctx *gin.Context) {
	stats, err := h.svc.ZoneStats(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleZoneStats -> h.svc.ZoneStats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func zoneFilterFromQuery(ctx *gin.Context) (*domain.Zone, bool) {
	raw := ctx.Query("zone")
	if raw == "" {
		return nil, true
	}

	zone := domain.Zone(raw)
	if !zone.IsValid() {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("unknown zone %q", raw)))
		return nil, false
	}

	return &zone, true
}
