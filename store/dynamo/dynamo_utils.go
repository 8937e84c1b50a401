package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/enkv/draftpad/store"
)

func newDynamoDBClient(ctx context.Context, devMode bool, dynamodbEndpoint string) (*dynamodb.Client, error) {
	var cfg aws.Config
	var err error

	if devMode {
		// Load config with dummy credentials and region for local/dev
		cfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion("us-east-1"),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider("dummy", "dummy", ""),
			),
		)
		if err != nil {
			return nil, err
		}

		// Override endpoint for DynamoDB locally
		return dynamodb.New(dynamodb.Options{
			Credentials:      cfg.Credentials,
			Region:           cfg.Region,
			EndpointResolver: dynamodb.EndpointResolverFromURL(dynamodbEndpoint),
		}), nil
	}

	// Production/Fargate: default config (uses Task Role and AWS endpoints)
	cfg, err = config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(cfg), nil
}

func getTables(client *dynamodb.Client, ctx context.Context) ([]string, error) {
	output, err := client.ListTables(ctx, &dynamodb.ListTablesInput{})
	if err != nil {
		return nil, err
	}

	return output.TableNames, nil
}

func profileKey(email string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: userPK(email)},
		"SK": &types.AttributeValueMemberS{Value: "PROFILE"},
	}
}

// getProfile retrieves a user's profile item by email. A consistent read is
// used when the caller is about to mutate the draft list, so the index it
// locates reflects the latest committed write.
func getProfile(dynamoStore *DynamoDraftStore, ctx context.Context, email string, consistentRead bool) (dynamoUser, error) {
	resp, err := dynamoStore.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(dynamoStore.tableName),
		Key:            profileKey(email),
		ConsistentRead: aws.Bool(consistentRead),
	})
	if err != nil {
		return dynamoUser{}, fmt.Errorf("GetItem failed: %w", err)
	}
	if resp.Item == nil {
		return dynamoUser{}, store.ErrUserNotFound
	}

	var du dynamoUser
	if err := attributevalue.UnmarshalMap(resp.Item, &du); err != nil {
		return dynamoUser{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return du, nil
}

// ensureProfile inserts the profile item only if no user with this email
// exists yet. On conflict the existing profile is fetched and returned.
func ensureProfile(dynamoStore *DynamoDraftStore, ctx context.Context, du dynamoUser) (dynamoUser, bool, error) {
	avMap, err := attributevalue.MarshalMap(du)
	if err != nil {
		return dynamoUser{}, false, fmt.Errorf("marshal error: %w", err)
	}

	_, err = dynamoStore.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(dynamoStore.tableName),
		Item:                avMap,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if !errors.As(err, &cce) {
			return dynamoUser{}, false, fmt.Errorf("failed to put profile: %w", err)
		}

		// Already exists: fetch it
		existing, err := getProfile(dynamoStore, ctx, du.Email, false)
		if err != nil {
			return dynamoUser{}, false, fmt.Errorf("failed to get existing profile: %w", err)
		}
		return existing, false, nil
	}

	return du, true, nil // Newly inserted
}

// updateProfile runs a conditional UpdateItem against the user's profile item
// and returns the post-mutation state (ReturnValues ALL_NEW). Condition
// failure is reported as conditionErr so callers can distinguish "no such
// user" from "no such draft at that position".
func updateProfile(
	dynamoStore *DynamoDraftStore,
	ctx context.Context,
	email string,
	updateExpr string,
	conditionExpr string,
	exprAttrNames map[string]string,
	exprAttrValues map[string]types.AttributeValue,
	conditionErr error,
) (dynamoUser, error) {
	out, err := dynamoStore.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(dynamoStore.tableName),
		Key:                       profileKey(email),
		UpdateExpression:          aws.String(updateExpr),
		ConditionExpression:       aws.String(conditionExpr),
		ExpressionAttributeNames:  exprAttrNames,
		ExpressionAttributeValues: exprAttrValues,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			return dynamoUser{}, conditionErr
		}
		return dynamoUser{}, fmt.Errorf("update failed: %w", err)
	}

	var updated dynamoUser
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return dynamoUser{}, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}

	return updated, nil
}

// deleteProfile removes the user's profile item, drafts included. The
// condition reports ErrUserNotFound rather than silently deleting nothing.
func deleteProfile(dynamoStore *DynamoDraftStore, ctx context.Context, email string) error {
	_, err := dynamoStore.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(dynamoStore.tableName),
		Key:                 profileKey(email),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			return store.ErrUserNotFound
		}
		return fmt.Errorf("delete failed: %w", err)
	}

	return nil
}

// findDraftIndex returns the position of the draft with the given id, or -1.
func findDraftIndex(drafts []dynamoDraft, draftId string) int {
	for i, d := range drafts {
		if d.Id == draftId {
			return i
		}
	}
	return -1
}
