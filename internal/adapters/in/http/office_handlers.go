package http

import (
	"errors"
	"fmt"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CreateDraft handles POST /api/v1/orders - registers a new draft order.
func (s *Server) CreateDraft(ctx echo.Context) error {
	var request CreateDraftRequest
	if err := ctx.Bind(&request); err != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	var driverID *kernel.UUID
	if request.DriverID != nil {
		id, err := kernel.UUIDFromString(*request.DriverID)
		if err != nil {
			return respondBadRequest(ctx, "Invalid driver id: "+err.Error())
		}
		driverID = &id
	}

	steps, err := toDraftSteps(request.Steps)
	if err != nil {
		return respondBadRequest(ctx, "Invalid draft hierarchy: "+err.Error())
	}

	orderID := kernel.NewUUID()

	cmd, err := commands.NewCreateDraftCommand(orderID, request.FleetOnly, driverID, steps)
	if err != nil {
		return respondBadRequest(ctx, "Invalid draft data: "+err.Error())
	}

	if handleErr := s.createDraftHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: orderID.String()})
}

// UpdateDraft handles PUT /api/v1/orders/:orderId/draft - replaces the whole
// hierarchy of a draft order.
func (s *Server) UpdateDraft(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid order id")
	}

	var request UpdateDraftRequest
	if err = ctx.Bind(&request); err != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	steps, err := toDraftSteps(request.Steps)
	if err != nil {
		return respondBadRequest(ctx, "Invalid draft hierarchy: "+err.Error())
	}

	cmd, err := commands.NewUpdateDraftCommand(orderID, steps)
	if err != nil {
		return respondBadRequest(ctx, "Invalid draft data: "+err.Error())
	}

	if handleErr := s.updateDraftHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SubmitOrder handles POST /api/v1/orders/:orderId/submit - moves a draft to
// Pending and opens it for mission offers.
func (s *Server) SubmitOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewSubmitOrderCommand(orderID)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.submitOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid order id")
	}

	var request CancelOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, request.Note)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StageEdit handles POST /api/v1/orders/:orderId/edits - stages one edit into
// the order's pending-change overlay.
func (s *Server) StageEdit(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid order id")
	}

	var request StageEditRequest
	if err = ctx.Bind(&request); err != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	cmd, err := s.buildStageEditCommand(orderID, request)
	if err != nil {
		return respondBadRequest(ctx, "Invalid edit: "+err.Error())
	}

	if handleErr := s.stageEditHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) buildStageEditCommand(
	orderID kernel.UUID,
	request StageEditRequest,
) (commands.StageEditCommand, error) {
	targetID := func() (kernel.UUID, error) {
		return kernel.UUIDFromString(request.TargetID)
	}

	switch request.Op {
	case "add_step":
		if request.Step == nil {
			return commands.StageEditCommand{}, errors.New("step payload is required")
		}
		step, err := toEditStep(*request.Step)
		if err != nil {
			return commands.StageEditCommand{}, err
		}
		return commands.NewStageAddStepCommand(orderID, step)
	case "add_stop":
		id, err := targetID()
		if err != nil {
			return commands.StageEditCommand{}, err
		}
		if request.Stop == nil {
			return commands.StageEditCommand{}, errors.New("stop payload is required")
		}
		stop, err := toEditStop(*request.Stop)
		if err != nil {
			return commands.StageEditCommand{}, err
		}
		return commands.NewStageAddStopCommand(orderID, id, stop)
	case "add_action":
		id, err := targetID()
		if err != nil {
			return commands.StageEditCommand{}, err
		}
		if request.Action == nil {
			return commands.StageEditCommand{}, errors.New("action payload is required")
		}
		action, err := toEditAction(*request.Action)
		if err != nil {
			return commands.StageEditCommand{}, err
		}
		return commands.NewStageAddActionCommand(orderID, id, action)
	case "replace_stop":
		id, err := targetID()
		if err != nil {
			return commands.StageEditCommand{}, err
		}
		if request.Stop == nil {
			return commands.StageEditCommand{}, errors.New("stop payload is required")
		}
		stop, err := toEditStop(*request.Stop)
		if err != nil {
			return commands.StageEditCommand{}, err
		}
		return commands.NewStageReplaceStopCommand(orderID, id, stop)
	case "replace_action":
		id, err := targetID()
		if err != nil {
			return commands.StageEditCommand{}, err
		}
		if request.Action == nil {
			return commands.StageEditCommand{}, errors.New("action payload is required")
		}
		action, err := toEditAction(*request.Action)
		if err != nil {
			return commands.StageEditCommand{}, err
		}
		return commands.NewStageReplaceActionCommand(orderID, id, action)
	case "update_step":
		id, err := targetID()
		if err != nil {
			return commands.StageEditCommand{}, err
		}
		if request.Linked == nil {
			return commands.StageEditCommand{}, errors.New("linked flag is required")
		}
		return commands.NewStageUpdateStepCommand(orderID, id, *request.Linked)
	case "remove":
		id, err := targetID()
		if err != nil {
			return commands.StageEditCommand{}, err
		}
		return commands.NewStageRemoveCommand(orderID, id)
	default:
		return commands.StageEditCommand{}, fmt.Errorf("unknown edit op %q", request.Op)
	}
}

// PushChanges handles POST /api/v1/orders/:orderId/push - atomically applies
// the staged overlay. The Idempotency-Key header deduplicates retries.
func (s *Server) PushChanges(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid order id")
	}

	idempotencyKey := ctx.Request().Header.Get("Idempotency-Key")

	cmd, err := commands.NewPushChangesCommand(orderID, idempotencyKey)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	outcome, err := s.pushChangesHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		// Dropped edits are not fatal: the rest of the batch committed, so
		// the response carries the full outcome under a conflict status.
		if errors.Is(err, errs.ErrPushConflict) {
			return ctx.JSON(http.StatusConflict, toPushResponse(outcome))
		}
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toPushResponse(outcome))
}

// GetOrder handles GET /api/v1/orders/:orderId - returns the order with its
// full visit plan and overlay markers.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderView(response))
}

// GetActiveOrders handles GET /api/v1/orders/active - lists non-terminal
// orders with stop progress counters.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetActiveOrdersQuery()

	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toActiveOrders(orders))
}
