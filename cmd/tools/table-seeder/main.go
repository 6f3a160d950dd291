// cmd/tools/table-seeder/main.go
//
// table-seeder loads user profiles and plant definitions from JSON fixture
// files into the two DynamoDB tables the advisory capabilities read.
//
// Usage:
//
//	table-seeder users -file fixtures/users.json
//	table-seeder plants -file fixtures/plants.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	awsclients "plant-advisor/internal/common/aws"
	"plant-advisor/internal/common/config"
)

func main() {
	usersCmd := flag.NewFlagSet("users", flag.ExitOnError)
	usersFile := usersCmd.String("file", "", "Path to a JSON array of user profile items")

	plantsCmd := flag.NewFlagSet("plants", flag.ExitOnError)
	plantsFile := plantsCmd.String("file", "", "Path to a JSON array of plant definition items")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := awsclients.NewDynamoDBClient(ctx, cfg.AWS.Region)
	if err != nil {
		fmt.Printf("Error creating DynamoDB client: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "users":
		usersCmd.Parse(os.Args[2:])
		if *usersFile == "" {
			fmt.Println("Error: -file is required for users.")
			usersCmd.Usage()
			os.Exit(1)
		}
		if err := seed(ctx, client, cfg.Tables.Users, *usersFile); err != nil {
			fmt.Printf("Error seeding users: %v\n", err)
			os.Exit(1)
		}

	case "plants":
		plantsCmd.Parse(os.Args[2:])
		if *plantsFile == "" {
			fmt.Println("Error: -file is required for plants.")
			plantsCmd.Usage()
			os.Exit(1)
		}
		if err := seed(ctx, client, cfg.Tables.Plants, *plantsFile); err != nil {
			fmt.Printf("Error seeding plants: %v\n", err)
			os.Exit(1)
		}

	default:
		help()
		os.Exit(1)
	}
}

func seed(ctx context.Context, client *dynamodb.Client, table, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	for i, item := range items {
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("marshal item %d: %w", i, err)
		}
		if _, err := client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(table),
			Item:      av,
		}); err != nil {
			return fmt.Errorf("put item %d: %w", i, err)
		}
	}

	fmt.Printf("Seeded %d items into %s\n", len(items), table)
	return nil
}

func help() {
	fmt.Println("Usage: table-seeder <users|plants> -file <fixture.json>")
}
