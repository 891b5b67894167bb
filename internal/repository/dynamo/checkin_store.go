// Package dynamo is the DynamoDB record store for check-ins. Applicants live in
// one table keyed by id, with a global secondary index on qr_token.
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
	"github.com/aws/smithy-go"

	"applicantdesk/internal/domain"
)

// TokenIndex is the global secondary index on qr_token.
const TokenIndex = "qr_token-index"

// dynamoAPI is the subset of the DynamoDB client the store uses.
type dynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

type applicantItem struct {
	ID             string              `dynamodbav:"id"`
	Email          string              `dynamodbav:"email"`
	FullName       string              `dynamodbav:"full_name"`
	University     string              `dynamodbav:"university"`
	GraduationYear string              `dynamodbav:"graduation_year"`
	ShirtSize      string              `dynamodbav:"shirt_size"`
	Status         string              `dynamodbav:"status"`
	DecisionNote   *string             `dynamodbav:"decision_note,omitempty"`
	DecidedBy      *string             `dynamodbav:"decided_by,omitempty"`
	QRToken        *string             `dynamodbav:"qr_token,omitempty"`
	CheckedInAt    *time.Time          `dynamodbav:"checked_in_at,omitempty"`
	MealCheckins   domain.MealCheckins `dynamodbav:"meal_checkins"`
	CreatedAt      time.Time           `dynamodbav:"created_at"`
	UpdatedAt      time.Time           `dynamodbav:"updated_at"`
}

func (it *applicantItem) toDomain() *domain.Applicant {
	meals := it.MealCheckins
	if meals == nil {
		meals = domain.MealCheckins{}
	}
	return &domain.Applicant{
		ID:             it.ID,
		Email:          it.Email,
		FullName:       it.FullName,
		University:     it.University,
		GraduationYear: it.GraduationYear,
		ShirtSize:      it.ShirtSize,
		Status:         it.Status,
		DecisionNote:   it.DecisionNote,
		DecidedBy:      it.DecidedBy,
		QRToken:        it.QRToken,
		CheckedInAt:    it.CheckedInAt,
		MealCheckins:   meals,
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}

type checkInStore struct {
	client dynamoAPI
	table  string
}

// NewCheckInStore returns a CheckInStore over the given table.
func NewCheckInStore(client *dynamodb.Client, table string) domain.CheckInStore {
	return newCheckInStore(client, table)
}

func newCheckInStore(client dynamoAPI, table string) *checkInStore {
	return &checkInStore{client: client, table: table}
}

func (s *checkInStore) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}}
}

// FindByToken resolves the token through the index, then reads the item
// consistently so check-in state is never stale.
func (s *checkInStore) FindByToken(ctx context.Context, token string) (*domain.Applicant, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(TokenIndex),
		KeyConditionExpression: aws.String("qr_token = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: token},
		},
		ProjectionExpression: aws.String("id"),
		Limit:                aws.Int32(1),
	})
	if err != nil {
		return nil, storeError("query token index", err)
	}
	if len(out.Items) == 0 {
		return nil, domain.ErrApplicantNotFound
	}
	var ref struct {
		ID string `dynamodbav:"id"`
	}
	if err := attributevalue.UnmarshalMap(out.Items[0], &ref); err != nil {
		return nil, fmt.Errorf("decode token index item: %w", err)
	}

	got, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(ref.ID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, storeError("get applicant", err)
	}
	if len(got.Item) == 0 {
		return nil, domain.ErrApplicantNotFound
	}
	var item applicantItem
	if err := attributevalue.UnmarshalMap(got.Item, &item); err != nil {
		return nil, fmt.Errorf("decode applicant item: %w", err)
	}
	return item.toDomain(), nil
}

func (s *checkInStore) ConditionalSetCheckedIn(ctx context.Context, id string, at time.Time) (int64, error) {
	ts, err := attributevalue.Marshal(at)
	if err != nil {
		return 0, fmt.Errorf("encode timestamp: %w", err)
	}
	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.key(id),
		UpdateExpression:          aws.String("SET checked_in_at = :at, updated_at = :at"),
		ConditionExpression:       aws.String("attribute_exists(id) AND attribute_not_exists(checked_in_at)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":at": ts},
	})
	if err != nil {
		if isConditionFailed(err) {
			return 0, nil
		}
		return 0, storeError("set checked_in_at", err)
	}
	return 1, nil
}

// SetMealCheckinIfAbsent first makes sure the meal map exists, since a nested
// path cannot be set on a missing map, then adds the key under a condition.
func (s *checkInStore) SetMealCheckinIfAbsent(ctx context.Context, id string, meal domain.MealTag, entry domain.MealCheckin) (bool, error) {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.table),
		Key:                 s.key(id),
		UpdateExpression:    aws.String("SET meal_checkins = if_not_exists(meal_checkins, :empty)"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{}},
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return false, domain.ErrApplicantNotFound
		}
		return false, storeError("init meal_checkins", err)
	}

	av, err := attributevalue.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("encode meal entry: %w", err)
	}
	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.key(id),
		UpdateExpression:          aws.String("SET meal_checkins.#m = :e"),
		ConditionExpression:       aws.String("attribute_not_exists(meal_checkins.#m)"),
		ExpressionAttributeNames:  map[string]string{"#m": string(meal)},
		ExpressionAttributeValues: map[string]types.AttributeValue{":e": av},
	})
	if err != nil {
		if isConditionFailed(err) {
			return false, nil
		}
		return false, storeError("set meal check-in", err)
	}
	return true, nil
}

func (s *checkInStore) ReadMealCheckins(ctx context.Context, id string) (domain.MealCheckins, error) {
	got, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(s.table),
		Key:                  s.key(id),
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String("id, meal_checkins"),
	})
	if err != nil {
		return nil, storeError("read meal_checkins", err)
	}
	if len(got.Item) == 0 {
		return nil, domain.ErrApplicantNotFound
	}
	var item struct {
		MealCheckins domain.MealCheckins `dynamodbav:"meal_checkins"`
	}
	if err := attributevalue.UnmarshalMap(got.Item, &item); err != nil {
		return nil, fmt.Errorf("decode meal_checkins: %w", err)
	}
	if item.MealCheckins == nil {
		return domain.MealCheckins{}, nil
	}
	return item.MealCheckins, nil
}

func (s *checkInStore) WriteMealCheckins(ctx context.Context, id string, checkins domain.MealCheckins) error {
	if checkins == nil {
		checkins = domain.MealCheckins{}
	}
	av, err := attributevalue.Marshal(checkins)
	if err != nil {
		return fmt.Errorf("encode meal_checkins: %w", err)
	}
	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.key(id),
		UpdateExpression:          aws.String("SET meal_checkins = :m"),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":m": av},
	})
	if err != nil {
		if isConditionFailed(err) {
			return domain.ErrApplicantNotFound
		}
		return storeError("write meal_checkins", err)
	}
	return nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// storeError maps DynamoDB API errors onto the domain store error kinds.
func storeError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "TransactionConflictException":
			return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
		case "ProvisionedThroughputExceededException", "RequestLimitExceeded",
			"ThrottlingException", "InternalServerError", "ServiceUnavailable":
			return fmt.Errorf("%s: %w: %w", op, domain.ErrTransient, err)
		}
		if apiErr.ErrorFault() == smithy.FaultServer {
			return fmt.Errorf("%s: %w: %w", op, domain.ErrTransient, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTransient, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
