package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"orderflow/cmd"
	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/postgres/migrations"
	"orderflow/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustOpenDB(configs)
	mustMigrate(gormDB)

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}

	jobManager := jobs.NewJobManager(app.CreateRecalculateRoutesCommandHandler(), logger)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:               goDotEnvVariable("HTTP_PORT"),
		DBHost:                 goDotEnvVariable("DB_HOST"),
		DBPort:                 goDotEnvVariable("DB_PORT"),
		DBUser:                 goDotEnvVariable("DB_USER"),
		DBPassword:             goDotEnvVariable("DB_PASSWORD"),
		DBName:                 goDotEnvVariable("DB_NAME"),
		DBSslMode:              goDotEnvVariable("DB_SSLMODE"),
		KafkaHost:              goDotEnvVariable("KAFKA_HOST"),
		KafkaOrderChangedTopic: goDotEnvVariable("KAFKA_ORDER_CHANGED_TOPIC"),
		KafkaRouteUpdatedTopic: goDotEnvVariable("KAFKA_ROUTE_UPDATED_TOPIC"),
		RoutingBaseURL:         goDotEnvVariable("ROUTING_BASE_URL"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func mustMigrate(gormDB *gorm.DB) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Failed to access database handle: %v", err)
	}
	if err = migrations.Up(sqlDB); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(
		app.CreateCreateDraftCommandHandler(),
		app.CreateUpdateDraftCommandHandler(),
		app.CreateSubmitOrderCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateStageEditCommandHandler(),
		app.CreatePushChangesCommandHandler(),
		app.CreateAcceptMissionCommandHandler(),
		app.CreateRefuseMissionCommandHandler(),
		app.CreateFinishOrderCommandHandler(),
		app.CreateArriveAtStopCommandHandler(),
		app.CreateCompleteStopCommandHandler(),
		app.CreateFailStopCommandHandler(),
		app.CreateFreezeStopCommandHandler(),
		app.CreateUnfreezeStopCommandHandler(),
		app.CreateCompleteActionCommandHandler(),
		app.CreateFailActionCommandHandler(),
		app.CreateCancelActionCommandHandler(),
		app.CreateFreezeActionCommandHandler(),
		app.CreateUnfreezeActionCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetActiveOrdersQueryHandler(),
		app.CreateGetPendingMissionsQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
