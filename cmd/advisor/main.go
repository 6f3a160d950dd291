// cmd/advisor/main.go
package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"plant-advisor/internal/advisor/dispatch"
	"plant-advisor/internal/advisor/engine"
	"plant-advisor/internal/capability"
	awsclients "plant-advisor/internal/common/aws"
	"plant-advisor/internal/common/config"
	commonhttp "plant-advisor/internal/common/http"
	"plant-advisor/internal/common/logger"
	"plant-advisor/internal/common/observability"
)

func main() {
	zapLog := logger.New("info", "json")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Rebuild the logger with the configured level/format.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	dynamoClient, err := awsclients.NewDynamoDBClient(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("dynamodb client initialization failed", zap.Error(err))
	}

	bedrockClient, err := awsclients.NewBedrockRuntimeClient(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("bedrock client initialization failed", zap.Error(err))
	}

	registry := capability.NewRegistry(
		capability.NewHTTPRequest(commonhttp.NewClient(time.Duration(cfg.Forecast.Timeout)*time.Millisecond), log),
		capability.NewUserLookup(dynamoClient, cfg.Tables.Users, log),
		capability.NewPlantLookup(dynamoClient, cfg.Tables.Plants, log),
	)

	advisoryEngine := engine.NewBedrock(bedrockClient, cfg.Engine.ModelID, cfg.Engine.MaxTurns, registry, log)
	dispatcher := dispatch.New(advisoryEngine, obs, log)

	log.Info("starting plant advisor", map[string]interface{}{
		"region":     cfg.AWS.Region,
		"modelId":    cfg.Engine.ModelID,
		"usersTable": cfg.Tables.Users,
	})

	lambda.Start(dispatcher.Handle)
}
