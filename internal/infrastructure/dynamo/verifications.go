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
	"github.com/laon-cafe/reservation-api/internal/domain"
)

// VerificationRepo provides typed DynamoDB operations for the email_verifications table.
type VerificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVerificationRepo(client *dynamodb.Client, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName}
}

// Put appends a new verification record. Records are keyed by a fresh ULID,
// so a Put never overwrites an earlier record for the same email.
func (r *VerificationRepo) Put(ctx context.Context, v *domain.EmailVerification) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// FindActiveMatch queries the email GSI for unexpired, unverified records
// whose code equals the supplied value. When the same email/code pair was
// issued more than once before expiry, several records match; which of them
// ends up marked verified is non-deterministic.
func (r *VerificationRepo) FindActiveMatch(ctx context.Context, email, code string, now time.Time) ([]domain.EmailVerification, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("email-index"),
		KeyConditionExpression: aws.String("email = :e"),
		FilterExpression:       aws.String("code = :c AND expires_at > :now AND is_verified = :zero"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e":    &types.AttributeValueMemberS{Value: email},
			":c":    &types.AttributeValueMemberS{Value: code},
			":now":  numAttr(now.Unix()),
			":zero": numAttr(0),
		},
	})
	if err != nil {
		return nil, err
	}
	var matches []domain.EmailVerification
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// MarkVerified flips is_verified to 1 in a single conditional update.
// The condition re-checks is_verified=0 and expiry, so concurrent attempts
// on the same record yield at most one true result; the losers get false
// without an error. The record itself is never deleted.
func (r *VerificationRepo) MarkVerified(ctx context.Context, verificationID string, now time.Time) (bool, error) {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("verification_id", verificationID),
		UpdateExpression:    aws.String("SET is_verified = :one"),
		ConditionExpression: aws.String("is_verified = :zero AND expires_at > :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":  numAttr(1),
			":zero": numAttr(0),
			":now":  numAttr(now.Unix()),
		},
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// HasVerified reports whether at least one record for the email has been
// marked verified. Verification is a standing capability — it is not scoped
// to a single reservation and never consumed here.
func (r *VerificationRepo) HasVerified(ctx context.Context, email string) (bool, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("email-index"),
		KeyConditionExpression: aws.String("email = :e"),
		FilterExpression:       aws.String("is_verified = :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e":   &types.AttributeValueMemberS{Value: email},
			":one": numAttr(1),
		},
		Select: types.SelectCount,
	})
	if err != nil {
		return false, err
	}
	return out.Count > 0, nil
}
