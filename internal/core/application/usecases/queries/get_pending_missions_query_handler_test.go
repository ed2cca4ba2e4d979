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

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetPendingMissionsQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetPendingMissionsQueryHandler
}

func (suite *GetPendingMissionsQueryHandlerTestSuite) SetupSuite() {
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

	suite.handler = queries.NewGetPendingMissionsQueryHandler(
		orderrepo.NewGormOrderRepository(db, noopTracker{}),
	)
}

func (suite *GetPendingMissionsQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE orders, steps, stops, actions, confirmation_rules, transit_items",
	).Error
	suite.Require().NoError(err)
}

func (suite *GetPendingMissionsQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetPendingMissionsQueryHandlerTestSuite) TestHandle_ListsGlobalAndTargetedOffers() {
	ctx := context.Background()
	driverID := kernel.NewUUID()

	global := suite.seedMission(nil)
	suite.Require().NoError(global.Submit())
	suite.persist(ctx, global)

	targeted := suite.seedMission(&driverID)
	suite.Require().NoError(targeted.Submit())
	suite.persist(ctx, targeted)

	otherDriverID := kernel.NewUUID()
	foreign := suite.seedMission(&otherDriverID)
	suite.Require().NoError(foreign.Submit())
	suite.persist(ctx, foreign)

	query, err := queries.NewGetPendingMissionsQuery(driverID)
	suite.Require().NoError(err)

	missions, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(missions, 2)
	ids := []kernel.UUID{missions[0].ID, missions[1].ID}
	suite.Contains(ids, global.ID())
	suite.Contains(ids, targeted.ID())
	suite.NotContains(ids, foreign.ID())
}

func (suite *GetPendingMissionsQueryHandlerTestSuite) TestHandle_ExcludesDraftsAndAcceptedOrders() {
	ctx := context.Background()
	driverID := kernel.NewUUID()

	draft := suite.seedMission(nil)
	suite.persist(ctx, draft)

	accepted := suite.seedMission(nil)
	suite.Require().NoError(accepted.Submit())
	suite.Require().NoError(accepted.Accept(kernel.NewUUID()))
	suite.persist(ctx, accepted)

	query, err := queries.NewGetPendingMissionsQuery(driverID)
	suite.Require().NoError(err)

	missions, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Empty(missions)
}

func (suite *GetPendingMissionsQueryHandlerTestSuite) TestHandle_SummarizesAssignmentAndStops() {
	ctx := context.Background()
	driverID := kernel.NewUUID()

	targeted := suite.seedMission(&driverID)
	suite.Require().NoError(targeted.Submit())
	suite.persist(ctx, targeted)

	query, err := queries.NewGetPendingMissionsQuery(driverID)
	suite.Require().NoError(err)

	missions, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(missions, 1)
	suite.Equal(order.AssignmentModeTarget.String(), missions[0].AssignmentMode)
	suite.Equal(2, missions[0].StopsTotal)
}

func (suite *GetPendingMissionsQueryHandlerTestSuite) persist(ctx context.Context, aggregate *order.Order) {
	repository := orderrepo.NewGormOrderRepository(suite.db, noopTracker{})
	suite.Require().NoError(repository.Add(ctx, aggregate))
}

func (suite *GetPendingMissionsQueryHandlerTestSuite) seedMission(driverID *kernel.UUID) *order.Order {
	depot, err := kernel.NewGeoPoint(59.938, 30.314)
	suite.Require().NoError(err)
	customer, err := kernel.NewGeoPoint(59.971, 30.258)
	suite.Require().NoError(err)

	builder := services.NewDraftBuilder()
	aggregate, err := builder.Build(services.DraftInput{
		OrderID:  kernel.NewUUID(),
		DriverID: driverID,
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

func TestGetPendingMissionsQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetPendingMissionsQueryHandlerTestSuite))
}
