package cmd

import (
	"log/slog"

	"orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/photo"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/routing"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	publisher  ports.EventPublisher
	planner    ports.RoutePlanner
	matcher    photo.DigestMatcher
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	publisher, err := kafka.NewSaramaEventPublisher(
		[]string{configs.KafkaHost},
		configs.KafkaOrderChangedTopic,
		configs.KafkaRouteUpdatedTopic,
		logger,
	)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:  publisher,
		planner:    routing.NewClient(configs.RoutingBaseURL),
		matcher:    photo.NewDigestMatcher(),
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateDraftCommandHandler() commands.CreateDraftCommandHandler {
	return commands.NewCreateDraftCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateUpdateDraftCommandHandler() commands.UpdateDraftCommandHandler {
	return commands.NewUpdateDraftCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() commands.SubmitOrderCommandHandler {
	return commands.NewSubmitOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateStageEditCommandHandler() commands.StageEditCommandHandler {
	return commands.NewStageEditCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreatePushChangesCommandHandler() commands.PushChangesCommandHandler {
	return commands.NewPushChangesCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateAcceptMissionCommandHandler() commands.AcceptMissionCommandHandler {
	return commands.NewAcceptMissionCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateRefuseMissionCommandHandler() commands.RefuseMissionCommandHandler {
	return commands.NewRefuseMissionCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateFinishOrderCommandHandler() commands.FinishOrderCommandHandler {
	return commands.NewFinishOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateArriveAtStopCommandHandler() commands.ArriveAtStopCommandHandler {
	return commands.NewArriveAtStopCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCompleteStopCommandHandler() commands.CompleteStopCommandHandler {
	return commands.NewCompleteStopCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateFailStopCommandHandler() commands.FailStopCommandHandler {
	return commands.NewFailStopCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateFreezeStopCommandHandler() commands.FreezeStopCommandHandler {
	return commands.NewFreezeStopCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateUnfreezeStopCommandHandler() commands.UnfreezeStopCommandHandler {
	return commands.NewUnfreezeStopCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCompleteActionCommandHandler() commands.CompleteActionCommandHandler {
	return commands.NewCompleteActionCommandHandler(c.orderUoWFactory(), c.matcher)
}

func (c *CompositionRoot) CreateFailActionCommandHandler() commands.FailActionCommandHandler {
	return commands.NewFailActionCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCancelActionCommandHandler() commands.CancelActionCommandHandler {
	return commands.NewCancelActionCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateFreezeActionCommandHandler() commands.FreezeActionCommandHandler {
	return commands.NewFreezeActionCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateUnfreezeActionCommandHandler() commands.UnfreezeActionCommandHandler {
	return commands.NewUnfreezeActionCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRecalculateRoutesCommandHandler() commands.RecalculateRoutesCommandHandler {
	return commands.NewRecalculateRoutesCommandHandler(c.orderUoWFactory(), c.planner, c.publisher)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingMissionsQueryHandler() queries.GetPendingMissionsQueryHandler {
	return queries.NewGetPendingMissionsQueryHandler(c.uowFactory.Create().OrderRepository())
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
