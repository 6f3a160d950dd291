// internal/capability/plantdata.go
package capability

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"plant-advisor/internal/common/logger"
	"plant-advisor/internal/models"
)

// PlantLookupName is the tool name the engine's system prompt refers to.
const PlantLookupName = "dynamodb_lookup_plant_data"

// PlantLookup fetches the full attribute map for a single plant definition.
// Unlike the user lookup, failures here are soft: the engine is told to note
// a missing plant and keep going with the others, so errors come back as an
// "error" field in the result rather than a hard failure.
type PlantLookup struct {
	db     DynamoDBAPI
	table  string
	logger logger.Logger
}

func NewPlantLookup(db DynamoDBAPI, table string, log logger.Logger) *PlantLookup {
	return &PlantLookup{
		db:     db,
		table:  table,
		logger: log.WithFields(map[string]interface{}{"capability": PlantLookupName}),
	}
}

func (p *PlantLookup) Name() string { return PlantLookupName }

func (p *PlantLookup) Description() string {
	return "Looks up detailed care requirements for a single plant by plant_id from the plant definitions table."
}

func (p *PlantLookup) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"plant_id": map[string]interface{}{
				"type":        "string",
				"description": "The ID of the plant to fetch.",
			},
		},
		"required": []string{"plant_id"},
	}
}

func (p *PlantLookup) Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	plantID, _ := input["plant_id"].(string)
	if plantID == "" {
		return map[string]interface{}{
			"error": "plant data lookup called without a plant_id",
		}, nil
	}

	out, err := p.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(p.table),
		Key: map[string]types.AttributeValue{
			"plant_id": &types.AttributeValueMemberS{Value: plantID},
		},
	})
	if err != nil {
		p.logger.Error("plant data query failed", map[string]interface{}{
			"plantId": plantID,
			"error":   err.Error(),
		})
		return map[string]interface{}{
			"error": fmt.Sprintf("A database error occurred while fetching plant data for '%s'.", plantID),
		}, nil
	}

	if len(out.Item) == 0 {
		p.logger.Warn("no plant item found", map[string]interface{}{"plantId": plantID})
		return map[string]interface{}{
			"error": fmt.Sprintf("No plant data found for plant ID '%s'.", plantID),
		}, nil
	}

	var definition models.PlantDefinition
	if err := attributevalue.UnmarshalMap(out.Item, &definition); err != nil {
		return map[string]interface{}{
			"error": fmt.Sprintf("A database error occurred while fetching plant data for '%s'.", plantID),
		}, nil
	}

	return definition, nil
}
