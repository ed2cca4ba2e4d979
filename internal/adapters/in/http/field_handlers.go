package http

import (
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// GetPendingMissions handles GET /api/v1/drivers/:driverId/missions - lists
// the submitted orders offered to the driver.
func (s *Server) GetPendingMissions(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("driverId"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid driver id")
	}

	query, err := queries.NewGetPendingMissionsQuery(driverID)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	missions, err := s.getPendingMissionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toPendingMissions(missions))
}

// AcceptMission handles POST /api/v1/orders/:orderId/accept - a driver takes
// a pending mission.
func (s *Server) AcceptMission(ctx echo.Context) error {
	orderID, driverID, ok := bindDriverRequest(ctx)
	if !ok {
		return nil
	}

	cmd, err := commands.NewAcceptMissionCommand(orderID, driverID)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.acceptMissionHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RefuseMission handles POST /api/v1/orders/:orderId/refuse - a targeted
// driver declines, reopening the mission to the fleet.
func (s *Server) RefuseMission(ctx echo.Context) error {
	orderID, driverID, ok := bindDriverRequest(ctx)
	if !ok {
		return nil
	}

	cmd, err := commands.NewRefuseMissionCommand(orderID, driverID)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.refuseMissionHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// FinishOrder handles POST /api/v1/orders/:orderId/finish - closes an
// accepted order once every stop is closed.
func (s *Server) FinishOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewFinishOrderCommand(orderID)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.finishOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ArriveAtStop handles POST /api/v1/orders/:orderId/stops/:stopId/arrive.
func (s *Server) ArriveAtStop(ctx echo.Context) error {
	orderID, stopID, ok := bindOrderAndParam(ctx, "stopId")
	if !ok {
		return nil
	}

	cmd, err := commands.NewArriveAtStopCommand(orderID, stopID)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.arriveAtStopHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteStop handles POST /api/v1/orders/:orderId/stops/:stopId/complete.
func (s *Server) CompleteStop(ctx echo.Context) error {
	orderID, stopID, ok := bindOrderAndParam(ctx, "stopId")
	if !ok {
		return nil
	}

	cmd, err := commands.NewCompleteStopCommand(orderID, stopID)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.completeStopHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// FailStop handles POST /api/v1/orders/:orderId/stops/:stopId/fail.
func (s *Server) FailStop(ctx echo.Context) error {
	orderID, stopID, ok := bindOrderAndParam(ctx, "stopId")
	if !ok {
		return nil
	}

	var request ReasonRequest
	if bindErr := ctx.Bind(&request); bindErr != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewFailStopCommand(orderID, stopID, request.Reason)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.failStopHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// FreezeStop handles POST /api/v1/orders/:orderId/stops/:stopId/freeze.
func (s *Server) FreezeStop(ctx echo.Context) error {
	orderID, stopID, ok := bindOrderAndParam(ctx, "stopId")
	if !ok {
		return nil
	}

	var request ReasonRequest
	if bindErr := ctx.Bind(&request); bindErr != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewFreezeStopCommand(orderID, stopID, request.Reason)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.freezeStopHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UnfreezeStop handles POST /api/v1/orders/:orderId/stops/:stopId/unfreeze.
func (s *Server) UnfreezeStop(ctx echo.Context) error {
	orderID, stopID, ok := bindOrderAndParam(ctx, "stopId")
	if !ok {
		return nil
	}

	cmd, err := commands.NewUnfreezeStopCommand(orderID, stopID)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.unfreezeStopHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteAction handles POST /api/v1/orders/:orderId/actions/:actionId/complete.
// The body carries proofs keyed by confirmation rule name.
func (s *Server) CompleteAction(ctx echo.Context) error {
	orderID, actionID, ok := bindOrderAndParam(ctx, "actionId")
	if !ok {
		return nil
	}

	var request CompleteActionRequest
	if bindErr := ctx.Bind(&request); bindErr != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCompleteActionCommand(orderID, actionID, request.Proofs)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.completeActionHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// FailAction handles POST /api/v1/orders/:orderId/actions/:actionId/fail.
func (s *Server) FailAction(ctx echo.Context) error {
	orderID, actionID, ok := bindOrderAndParam(ctx, "actionId")
	if !ok {
		return nil
	}

	var request ReasonRequest
	if bindErr := ctx.Bind(&request); bindErr != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewFailActionCommand(orderID, actionID, request.Reason)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.failActionHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelAction handles POST /api/v1/orders/:orderId/actions/:actionId/cancel.
func (s *Server) CancelAction(ctx echo.Context) error {
	orderID, actionID, ok := bindOrderAndParam(ctx, "actionId")
	if !ok {
		return nil
	}

	var request ReasonRequest
	if bindErr := ctx.Bind(&request); bindErr != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelActionCommand(orderID, actionID, request.Reason)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.cancelActionHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// FreezeAction handles POST /api/v1/orders/:orderId/actions/:actionId/freeze.
func (s *Server) FreezeAction(ctx echo.Context) error {
	orderID, actionID, ok := bindOrderAndParam(ctx, "actionId")
	if !ok {
		return nil
	}

	var request ReasonRequest
	if bindErr := ctx.Bind(&request); bindErr != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewFreezeActionCommand(orderID, actionID, request.Reason)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.freezeActionHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UnfreezeAction handles POST /api/v1/orders/:orderId/actions/:actionId/unfreeze.
func (s *Server) UnfreezeAction(ctx echo.Context) error {
	orderID, actionID, ok := bindOrderAndParam(ctx, "actionId")
	if !ok {
		return nil
	}

	cmd, err := commands.NewUnfreezeActionCommand(orderID, actionID)
	if err != nil {
		return respondBadRequest(ctx, err.Error())
	}

	if handleErr := s.unfreezeActionHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// bindOrderAndParam parses the order id and one more path parameter. On
// failure it writes the 400 response itself and reports ok=false.
func bindOrderAndParam(ctx echo.Context, param string) (kernel.UUID, kernel.UUID, bool) {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		_ = respondBadRequest(ctx, "Invalid order id")
		return kernel.UUID{}, kernel.UUID{}, false
	}

	id, err := kernel.UUIDFromString(ctx.Param(param))
	if err != nil {
		_ = respondBadRequest(ctx, "Invalid "+param)
		return kernel.UUID{}, kernel.UUID{}, false
	}

	return orderID, id, true
}

func bindDriverRequest(ctx echo.Context) (kernel.UUID, kernel.UUID, bool) {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		_ = respondBadRequest(ctx, "Invalid order id")
		return kernel.UUID{}, kernel.UUID{}, false
	}

	var request DriverRequest
	if err = ctx.Bind(&request); err != nil {
		_ = respondBadRequest(ctx, "Invalid request body")
		return kernel.UUID{}, kernel.UUID{}, false
	}

	driverID, err := kernel.UUIDFromString(request.DriverID)
	if err != nil {
		_ = respondBadRequest(ctx, "Invalid driver id")
		return kernel.UUID{}, kernel.UUID{}, false
	}

	return orderID, driverID, true
}
