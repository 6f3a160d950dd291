// internal/capability/userdata.go
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

// UserLookupName is the tool name the engine's system prompt refers to.
const UserLookupName = "dynamodb_lookup_user_data"

// DynamoDBAPI is the slice of the DynamoDB client the lookups need.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// UserLookup resolves a user_id to latitude, longitude and the registered
// plant list. A missing user is a hard failure so it reaches the error
// classifier; note the classifier's not-found patterns match this wording.
type UserLookup struct {
	db     DynamoDBAPI
	table  string
	logger logger.Logger
}

func NewUserLookup(db DynamoDBAPI, table string, log logger.Logger) *UserLookup {
	return &UserLookup{
		db:     db,
		table:  table,
		logger: log.WithFields(map[string]interface{}{"capability": UserLookupName}),
	}
}

func (u *UserLookup) Name() string { return UserLookupName }

func (u *UserLookup) Description() string {
	return "Looks up a user's latitude, longitude, and their list of registered plant IDs by user_id."
}

func (u *UserLookup) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"user_id": map[string]interface{}{
				"type":        "string",
				"description": "The ID of the user whose location and plant list is to be fetched.",
			},
		},
		"required": []string{"user_id"},
	}
}

func (u *UserLookup) Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	userID, _ := input["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("dynamodb user data lookup called without a user_id")
	}

	out, err := u.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(u.table),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb error while fetching user data for '%s': %w", userID, err)
	}

	if len(out.Item) == 0 {
		u.logger.Warn("no user item found", map[string]interface{}{"userId": userID})
		return nil, fmt.Errorf("no user data found for user ID '%s', please ensure it's registered", userID)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(out.Item, &profile); err != nil {
		return nil, fmt.Errorf("dynamodb error while fetching user data for '%s': %w", userID, err)
	}

	if profile.Latitude == nil || profile.Longitude == nil {
		// Incomplete record: soft error for the model to relay, per contract.
		return map[string]interface{}{
			"error": fmt.Sprintf("Location data is incomplete for user ID '%s'.", userID),
		}, nil
	}

	plants := profile.Plants
	if plants == nil {
		plants = []string{}
	}

	u.logger.Info("found user data", map[string]interface{}{
		"userId": userID,
		"plants": len(plants),
	})

	return map[string]interface{}{
		"latitude":  *profile.Latitude,
		"longitude": *profile.Longitude,
		"plants":    plants,
	}, nil
}
