package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/eloquence/auth-api/internal/domain"
)

// OTPRepo provides typed DynamoDB operations for the otpcodes table.
// PK: email, SK: code_id (ULID — range order is issuance order).
type OTPRepo struct {
	client    *dynamodb.Client
	tableName string
	timeout   time.Duration
}

func NewOTPRepo(client *dynamodb.Client, tableName string, timeout time.Duration) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName, timeout: timeout}
}

func (r *OTPRepo) Put(ctx context.Context, c *domain.OTPCode) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal otp code: %w", err)
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// LatestUnused returns the most recently issued unused code for the email.
// The query walks the partition newest-first and stops at the first unused row.
func (r *OTPRepo) LatestUnused(ctx context.Context, email string) (*domain.OTPCode, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("email = :e"),
		FilterExpression:       aws.String("is_used = :f"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberS{Value: email},
			":f": &types.AttributeValueMemberBOOL{Value: false},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("otp code not found: %w", domain.ErrNotFound)
	}
	var c domain.OTPCode
	if err := attributevalue.UnmarshalMap(out.Items[0], &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// IncrementAttempts atomically bumps the attempt counter on an unused code and
// returns the new count. DynamoDB's ADD makes concurrent wrong-code submissions
// count correctly without a read-modify-write cycle.
func (r *OTPRepo) IncrementAttempts(ctx context.Context, email, codeID string) (int, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("email", email, "code_id", codeID),
		UpdateExpression:    aws.String("ADD #a :one"),
		ConditionExpression: aws.String("#u = :f"),
		ExpressionAttributeNames: map[string]string{
			"#a": fieldAttempts,
			"#u": fieldIsUsed,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":f":   &types.AttributeValueMemberBOOL{Value: false},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return 0, fmt.Errorf("otp code already used: %w", domain.ErrNotFound)
		}
		return 0, err
	}
	var attempts int
	if av, ok := out.Attributes[fieldAttempts]; ok {
		_ = attributevalue.Unmarshal(av, &attempts)
	}
	return attempts, nil
}

// MarkUsed flips is_used exactly once. The condition makes a concurrent second
// verify with the same code lose: it observes the record as already consumed.
func (r *OTPRepo) MarkUsed(ctx context.Context, email, codeID string, usedAt time.Time) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	usedAtAV, err := attributevalue.Marshal(usedAt)
	if err != nil {
		return fmt.Errorf("marshal used_at: %w", err)
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("email", email, "code_id", codeID),
		UpdateExpression:    aws.String("SET #u = :t, #ua = :ts"),
		ConditionExpression: aws.String("#u = :f"),
		ExpressionAttributeNames: map[string]string{
			"#u":  fieldIsUsed,
			"#ua": fieldUsedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":  &types.AttributeValueMemberBOOL{Value: true},
			":f":  &types.AttributeValueMemberBOOL{Value: false},
			":ts": usedAtAV,
		},
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return fmt.Errorf("otp code already used: %w", domain.ErrNotFound)
		}
	}
	return err
}

// DeleteAllExcept removes every code row for the email except keepCodeID.
// Used by issue to purge superseded codes after the new one is persisted.
func (r *OTPRepo) DeleteAllExcept(ctx context.Context, email, keepCodeID string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("email = :e"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberS{Value: email},
		},
		ProjectionExpression: aws.String("email, code_id"),
	})
	if err != nil {
		return err
	}
	var firstErr error
	for _, item := range out.Items {
		idAttr, ok := item["code_id"].(*types.AttributeValueMemberS)
		if !ok || idAttr.Value == keepCodeID {
			continue
		}
		_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key:       compositeKey("email", email, "code_id", idAttr.Value),
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
