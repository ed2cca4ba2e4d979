package queries_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetOrderQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetOrderQueryHandler
}

func (suite *GetOrderQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.StepDTO{},
		&orderrepo.StopDTO{},
		&orderrepo.ActionDTO{},
		&orderrepo.ConfirmationRuleDTO{},
		&orderrepo.TransitItemDTO{},
	))

	suite.handler = queries.NewGetOrderQueryHandler(db)
}

func (suite *GetOrderQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE orders, steps, stops, actions, confirmation_rules, transit_items",
	).Error
	suite.Require().NoError(err)
}

func (suite *GetOrderQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_NonExistentOrder_ReturnsNotFoundError() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_ReturnsFullVisitPlan() {
	ctx := context.Background()

	aggregate := suite.seedCourierOrder()
	repository := orderrepo.NewGormOrderRepository(suite.db, noopTracker{})
	suite.Require().NoError(repository.Add(ctx, aggregate))

	query, err := queries.NewGetOrderQuery(aggregate.ID())
	suite.Require().NoError(err)

	response, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(aggregate.ID(), response.ID)
	suite.Equal(order.StatusDraft.String(), response.Status)
	suite.False(response.PendingChange)

	suite.Require().Len(response.Steps, 1)
	step := response.Steps[0]
	suite.True(step.Linked)
	suite.Require().Len(step.Stops, 2)

	suite.Equal("Depot", step.Stops[0].AddressLabel)
	suite.Equal(order.StopStatusPending.String(), step.Stops[0].Status)
	suite.Require().Len(step.Stops[0].Actions, 1)
	suite.Equal(order.ActionKindPickup.String(), step.Stops[0].Actions[0].Kind)

	suite.Equal("Customer", step.Stops[1].AddressLabel)
	suite.Require().Len(step.Stops[1].Actions, 1)
	suite.Equal(order.ActionKindDelivery.String(), step.Stops[1].Actions[0].Kind)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_SurfacesOverlayMarkers() {
	ctx := context.Background()

	aggregate := suite.seedCourierOrder()
	suite.Require().NoError(aggregate.Submit())

	delivery := aggregate.Steps()[0].Stops()[1]
	itemID := aggregate.TransitItems()[0].ID()

	action, err := order.NewAction(kernel.NewUUID(), order.ActionKindDelivery, 1, 0, &itemID, nil)
	suite.Require().NoError(err)
	replacement, err := order.NewStop(
		kernel.NewUUID(),
		2,
		order.Address{Label: "New customer address"},
		nil,
		order.Contact{Name: "Recipient"},
		[]*order.Action{action},
	)
	suite.Require().NoError(err)
	suite.Require().NoError(aggregate.StageReplaceStop(delivery.ID(), replacement))

	repository := orderrepo.NewGormOrderRepository(suite.db, noopTracker{})
	suite.Require().NoError(repository.Add(ctx, aggregate))

	query, err := queries.NewGetOrderQuery(aggregate.ID())
	suite.Require().NoError(err)

	response, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.True(response.PendingChange)
	suite.Require().Len(response.Steps, 1)
	suite.Require().Len(response.Steps[0].Stops, 3)

	original := response.Steps[0].Stops[1]
	suite.True(original.PendingChange)
	suite.False(original.StagedNew)

	shadow := response.Steps[0].Stops[2]
	suite.True(shadow.StagedNew)
	suite.Require().NotNil(shadow.OriginalID)
	suite.Equal(original.ID, *shadow.OriginalID)
	suite.Equal("New customer address", shadow.AddressLabel)
	suite.Require().Len(shadow.Actions, 1)
	suite.True(shadow.Actions[0].StagedNew)
}

func (suite *GetOrderQueryHandlerTestSuite) seedCourierOrder() *order.Order {
	depot, err := kernel.NewGeoPoint(55.751, 37.618)
	suite.Require().NoError(err)
	customer, err := kernel.NewGeoPoint(55.803, 37.402)
	suite.Require().NoError(err)

	builder := services.NewDraftBuilder()
	aggregate, err := builder.Build(services.DraftInput{
		OrderID:   kernel.NewUUID(),
		FleetOnly: true,
		Steps: []services.DraftStep{
			{
				Linked: true,
				Stops: []services.DraftStop{
					{
						Address: order.Address{Label: "Depot", Point: &depot},
						Contact: order.Contact{Name: "Dispatcher"},
						Actions: []services.DraftAction{
							{
								Kind:     order.ActionKindPickup,
								Quantity: 1,
								Item: &services.DraftItem{
									LocalID:   "parcel-1",
									Name:      "parcel",
									Packaging: order.PackagingBox,
									WeightKg:  1.5,
									VolumeM3:  0.01,
								},
							},
						},
					},
					{
						Address: order.Address{Label: "Customer", Point: &customer},
						Contact: order.Contact{Name: "Recipient"},
						Actions: []services.DraftAction{
							{
								Kind:     order.ActionKindDelivery,
								Quantity: 1,
								ItemRef:  "parcel-1",
							},
						},
					},
				},
			},
		},
	})
	suite.Require().NoError(err)
	return aggregate
}

func TestGetOrderQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOrderQueryHandlerTestSuite))
}
