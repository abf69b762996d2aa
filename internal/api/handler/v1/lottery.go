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

type LotteryService interface {
	LoadPool(ctx context.Context, storeType *domain.StoreType) ([]service.PoolEntry, error)
	Pool() []service.PoolEntry
	Draw(ctx context.Context) (service.PoolEntry, error)
	Remaining() int
}

type LotteryHandler struct {
	svc LotteryService
}

func NewLotteryHandler(svc LotteryService) *LotteryHandler {
	return &LotteryHandler{
		svc: svc,
	}
}

// HandleLoadPool godoc
// @Summary      Load (or reset) the draw pool
// @Description  Snapshots all validated, unassigned stores into a fresh pool, optionally filtered by store type.
// @Tags         lottery
// @Accept       json
// @Produce      json
// @Param        input  body      request.LoadPoolRequest  true  "pool filter"
// @Success      200    {object}  response.PoolResponse
// @Failure      400    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /lottery/pool [post]
func (h *LotteryHandler) HandleLoadPool(ctx *gin.Context) {
	var req request.LoadPoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var storeType *domain.StoreType
	if req.StoreType != nil {
		t := domain.StoreType(*req.StoreType)
		storeType = &t
	}

	entries, err := h.svc.LoadPool(ctx.Request.Context(), storeType)
	if err != nil {
		err = fmt.Errorf("v1.HandleLoadPool -> h.svc.LoadPool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.PoolResponse{
		Entries:   entries,
		Remaining: len(entries),
	})
}

// HandleGetPool godoc
// @Summary      Remaining pool entries
// @Tags         lottery
// @Produce      json
// @Success      200  {object}  response.PoolResponse
// @Router       /lottery/pool [get]
func (h *LotteryHandler) HandleGetPool(ctx *gin.Context) {
	entries := h.svc.Pool()

	ctx.JSON(http.StatusOK, response.PoolResponse{
		Entries:   entries,
		Remaining: len(entries),
	})
}

// HandleDraw godoc
// @Summary      Draw one winner from the pool
// @Description  Uniform random selection without replacement. 409 once the pool is exhausted.
// @Tags         lottery
// @Produce      json
// @Success      200  {object}  response.DrawResponse
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /lottery/draw [post]
func (h *LotteryHandler) HandleDraw(ctx *gin.Context) {
	entry, err := h.svc.Draw(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrPoolEmpty) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrPoolEmpty))
			return
		}

		err = fmt.Errorf("v1.HandleDraw -> h.svc.Draw -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.DrawResponse{
		Entry:     entry,
		Remaining: h.svc.Remaining(),
	})
}
