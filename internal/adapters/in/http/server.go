// Package http exposes the order composition engine over a JSON API.
// Office endpoints manage drafts, staged edits, and pushes; field endpoints
// drive the stop and action lifecycle from the driver's side.
package http

import (
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createDraftHandler    commands.CreateDraftCommandHandler
	updateDraftHandler    commands.UpdateDraftCommandHandler
	submitOrderHandler    commands.SubmitOrderCommandHandler
	cancelOrderHandler    commands.CancelOrderCommandHandler
	stageEditHandler      commands.StageEditCommandHandler
	pushChangesHandler    commands.PushChangesCommandHandler
	acceptMissionHandler  commands.AcceptMissionCommandHandler
	refuseMissionHandler  commands.RefuseMissionCommandHandler
	finishOrderHandler    commands.FinishOrderCommandHandler
	arriveAtStopHandler   commands.ArriveAtStopCommandHandler
	completeStopHandler   commands.CompleteStopCommandHandler
	failStopHandler       commands.FailStopCommandHandler
	freezeStopHandler     commands.FreezeStopCommandHandler
	unfreezeStopHandler   commands.UnfreezeStopCommandHandler
	completeActionHandler commands.CompleteActionCommandHandler
	failActionHandler     commands.FailActionCommandHandler
	cancelActionHandler   commands.CancelActionCommandHandler
	freezeActionHandler   commands.FreezeActionCommandHandler
	unfreezeActionHandler commands.UnfreezeActionCommandHandler

	// Query handlers
	getOrderHandler           queries.GetOrderQueryHandler
	getActiveOrdersHandler    queries.GetActiveOrdersQueryHandler
	getPendingMissionsHandler queries.GetPendingMissionsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createDraftHandler commands.CreateDraftCommandHandler,
	updateDraftHandler commands.UpdateDraftCommandHandler,
	submitOrderHandler commands.SubmitOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	stageEditHandler commands.StageEditCommandHandler,
	pushChangesHandler commands.PushChangesCommandHandler,
	acceptMissionHandler commands.AcceptMissionCommandHandler,
	refuseMissionHandler commands.RefuseMissionCommandHandler,
	finishOrderHandler commands.FinishOrderCommandHandler,
	arriveAtStopHandler commands.ArriveAtStopCommandHandler,
	completeStopHandler commands.CompleteStopCommandHandler,
	failStopHandler commands.FailStopCommandHandler,
	freezeStopHandler commands.FreezeStopCommandHandler,
	unfreezeStopHandler commands.UnfreezeStopCommandHandler,
	completeActionHandler commands.CompleteActionCommandHandler,
	failActionHandler commands.FailActionCommandHandler,
	cancelActionHandler commands.CancelActionCommandHandler,
	freezeActionHandler commands.FreezeActionCommandHandler,
	unfreezeActionHandler commands.UnfreezeActionCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	getPendingMissionsHandler queries.GetPendingMissionsQueryHandler,
) *Server {
	return &Server{
		createDraftHandler:        createDraftHandler,
		updateDraftHandler:        updateDraftHandler,
		submitOrderHandler:        submitOrderHandler,
		cancelOrderHandler:        cancelOrderHandler,
		stageEditHandler:          stageEditHandler,
		pushChangesHandler:        pushChangesHandler,
		acceptMissionHandler:      acceptMissionHandler,
		refuseMissionHandler:      refuseMissionHandler,
		finishOrderHandler:        finishOrderHandler,
		arriveAtStopHandler:       arriveAtStopHandler,
		completeStopHandler:       completeStopHandler,
		failStopHandler:           failStopHandler,
		freezeStopHandler:         freezeStopHandler,
		unfreezeStopHandler:       unfreezeStopHandler,
		completeActionHandler:     completeActionHandler,
		failActionHandler:         failActionHandler,
		cancelActionHandler:       cancelActionHandler,
		freezeActionHandler:       freezeActionHandler,
		unfreezeActionHandler:     unfreezeActionHandler,
		getOrderHandler:           getOrderHandler,
		getActiveOrdersHandler:    getActiveOrdersHandler,
		getPendingMissionsHandler: getPendingMissionsHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	// Office surface
	api.POST("/orders", s.CreateDraft)
	api.GET("/orders/active", s.GetActiveOrders)
	api.GET("/orders/:orderId", s.GetOrder)
	api.PUT("/orders/:orderId/draft", s.UpdateDraft)
	api.POST("/orders/:orderId/submit", s.SubmitOrder)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.POST("/orders/:orderId/edits", s.StageEdit)
	api.POST("/orders/:orderId/push", s.PushChanges)

	// Field surface
	api.GET("/drivers/:driverId/missions", s.GetPendingMissions)
	api.POST("/orders/:orderId/accept", s.AcceptMission)
	api.POST("/orders/:orderId/refuse", s.RefuseMission)
	api.POST("/orders/:orderId/finish", s.FinishOrder)
	api.POST("/orders/:orderId/stops/:stopId/arrive", s.ArriveAtStop)
	api.POST("/orders/:orderId/stops/:stopId/complete", s.CompleteStop)
	api.POST("/orders/:orderId/stops/:stopId/fail", s.FailStop)
	api.POST("/orders/:orderId/stops/:stopId/freeze", s.FreezeStop)
	api.POST("/orders/:orderId/stops/:stopId/unfreeze", s.UnfreezeStop)
	api.POST("/orders/:orderId/actions/:actionId/complete", s.CompleteAction)
	api.POST("/orders/:orderId/actions/:actionId/fail", s.FailAction)
	api.POST("/orders/:orderId/actions/:actionId/cancel", s.CancelAction)
	api.POST("/orders/:orderId/actions/:actionId/freeze", s.FreezeAction)
	api.POST("/orders/:orderId/actions/:actionId/unfreeze", s.UnfreezeAction)
}
