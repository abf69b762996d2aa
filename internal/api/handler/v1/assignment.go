package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kasetfair/booth-api/internal/api/handler/v1/request"
	"github.com/kasetfair/booth-api/internal/api/handler/v1/response"
	"github.com/kasetfair/booth-api/internal/domain"
	"github.com/kasetfair/booth-api/internal/service"
)

type AssignmentService interface {
	AssignFromDrawByID(ctx context.Context, storeID uint) (domain.Assignment, error)
	AssignManually(ctx context.Context, storeID uint) (domain.Assignment, error)
	Confirm(ctx context.Context, assignmentID uint, credential string) (domain.Assignment, error)
	Forfeit(ctx context.Context, assignmentID uint, reason string) (domain.Assignment, error)
	GetAssignment(ctx context.Context, id uint) (domain.Assignment, error)
	ListAssignments(ctx context.Context) ([]domain.Assignment, error)
}

type AssignmentHandler struct {
	svc AssignmentService
}

func NewAssignmentHandler(svc AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		svc: svc,
	}
}

// HandleAssignFromDraw godoc
// @Summary      Bind the drawn store to its next booth
// @Description  Creates a PENDING assignment for the lottery winner. Blocked while another lottery assignment is PENDING.
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        input  body      request.LotteryAssignRequest  true  "winning store"
// @Success      201    {object}  domain.Assignment
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /assignments/lottery [post]
func (h *AssignmentHandler) HandleAssignFromDraw(ctx *gin.Context) {
	var req request.LotteryAssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	assignment, err := h.svc.AssignFromDrawByID(ctx.Request.Context(), req.StoreID)
	if err != nil {
		h.renderAllocationErr(ctx, err, req.StoreID, "v1.HandleAssignFromDraw")
		return
	}

	ctx.JSON(http.StatusCreated, assignment)
}

// HandleAssignManually godoc
// @Summary      Place a store outside the lottery
// @Description  Same booth-selection rule as the lottery, without draw-order sequencing or the single-flight lock.
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        input  body      request.ManualAssignRequest  true  "store to place"
// @Success      201    {object}  domain.Assignment
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /assignments/manual [post]
func (h *AssignmentHandler) HandleAssignManually(ctx *gin.Context) {
	var req request.ManualAssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	assignment, err := h.svc.AssignManually(ctx.Request.Context(), req.StoreID)
	if err != nil {
		h.renderAllocationErr(ctx, err, req.StoreID, "v1.HandleAssignManually")
		return
	}

	ctx.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) renderAllocationErr(ctx *gin.Context, err error, storeID uint, caller string) {
	switch {
	case errors.Is(err, service.ErrStoreNotFound):
		response.RenderErr(ctx, response.ErrNotFound("store", "storeID", storeID))
	case errors.Is(err, service.ErrPendingAssignmentExists):
		response.RenderErr(ctx, response.ErrConflict(service.ErrPendingAssignmentExists))
	case errors.Is(err, service.ErrAlreadyAssigned):
		response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyAssigned))
	case errors.Is(err, service.ErrNoBoothAvailable):
		// The draw stands even without a booth; surface the orphaned store
		// so operators can import booths and place it manually.
		response.RenderErr(ctx, response.ErrConflict(
			fmt.Errorf("%w (store %v holds an unplaced draw)", service.ErrNoBoothAvailable, storeID)))
	default:
		err = fmt.Errorf("%v -> %w", caller, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleConfirmAssignment godoc
// @Summary      Confirm a pending assignment
// @Description  Verifies the scanned credential against the store's member roster. A mismatch leaves the assignment PENDING.
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        assignmentID  path      int                                true  "assignment id"
// @Param        input         body      request.ConfirmAssignmentRequest   true  "scanned credential"
// @Success      200           {object}  domain.Assignment
// @Failure      400           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      409           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /assignments/{assignmentID}/confirm [post]
func (h *AssignmentHandler) HandleConfirmAssignment(ctx *gin.Context) {
	assignmentID, ok := assignmentIDFromPath(ctx)
	if !ok {
		return
	}

	var req request.ConfirmAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	assignment, err := h.svc.Confirm(ctx.Request.Context(), assignmentID, req.Credential)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			response.RenderErr(ctx, response.ErrNotFound("assignment", "assignmentID", assignmentID))
		case errors.Is(err, service.ErrIdentityMismatch):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrIdentityMismatch))
		case errors.Is(err, service.ErrInvalidTransition):
			response.RenderErr(ctx, response.ErrConflict(service.ErrInvalidTransition))
		default:
			err = fmt.Errorf("v1.HandleConfirmAssignment -> h.svc.Confirm -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, assignment)
}

// HandleForfeitAssignment godoc
// @Summary      Forfeit a pending assignment
// @Description  Frees the booth and the store. Confirmed assignments cannot be forfeited.
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        assignmentID  path      int                                true  "assignment id"
// @Param        input         body      request.ForfeitAssignmentRequest   true  "forfeit reason"
// @Success      200           {object}  domain.Assignment
// @Failure      400           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      409           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /assignments/{assignmentID}/forfeit [post]
func (h *AssignmentHandler) HandleForfeitAssignment(ctx *gin.Context) {
	assignmentID, ok := assignmentIDFromPath(ctx)
	if !ok {
		return
	}

	var req request.ForfeitAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	assignment, err := h.svc.Forfeit(ctx.Request.Context(), assignmentID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			response.RenderErr(ctx, response.ErrNotFound("assignment", "assignmentID", assignmentID))
		case errors.Is(err, service.ErrInvalidTransition):
			response.RenderErr(ctx, response.ErrConflict(service.ErrInvalidTransition))
		default:
			err = fmt.Errorf("v1.HandleForfeitAssignment -> h.svc.Forfeit -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, assignment)
}

// HandleListAssignments godoc
// @Summary      List assignments, newest first
// @Tags         assignments
// @Produce      json
// @Success      200  {array}   domain.Assignment
// @Failure      500  {object}  response.Err
// @Router       /assignments [get]
func (h *AssignmentHandler) HandleListAssignments(ctx *gin.Context) {
	assignments, err := h.svc.ListAssignments(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListAssignments -> h.svc.ListAssignments -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, assignments)
}

func assignmentIDFromPath(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("assignmentID")

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid assignment ID %q", raw)))
		return 0, false
	}

	return uint(id), true
}
