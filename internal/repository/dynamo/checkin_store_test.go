package dynamo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applicantdesk/internal/domain"
)

// fakeDynamo records requests and answers from scripted responses.
type fakeDynamo struct {
	queryItems []map[string]types.AttributeValue
	queryErr   error
	item       map[string]types.AttributeValue
	getErr     error
	updateErrs []error

	queries []*dynamodb.QueryInput
	gets    []*dynamodb.GetItemInput
	updates []*dynamodb.UpdateItemInput
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.gets = append(f.gets, params)
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &dynamodb.GetItemOutput{Item: f.item}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, params)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &dynamodb.QueryOutput{Items: f.queryItems}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, params)
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		return nil, err
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func mustMarshalMap(t *testing.T, v any) map[string]types.AttributeValue {
	t.Helper()
	m, err := attributevalue.MarshalMap(v)
	require.NoError(t, err)
	return m
}

func TestCheckInStore_FindByToken(t *testing.T) {
	ctx := context.Background()
	checkedIn := time.Date(2025, 10, 11, 9, 30, 0, 0, time.UTC)
	token := "def456"

	fake := &fakeDynamo{
		queryItems: []map[string]types.AttributeValue{{"id": &types.AttributeValueMemberS{Value: "app-1"}}},
		item: mustMarshalMap(t, applicantItem{
			ID:          "app-1",
			Email:       "ada@example.com",
			FullName:    "Ada Lovelace",
			ShirtSize:   "M",
			Status:      domain.StatusAccepted,
			QRToken:     &token,
			CheckedInAt: &checkedIn,
			MealCheckins: domain.MealCheckins{
				domain.MealSatLunch: {At: checkedIn, WriteToken: "w1"},
			},
		}),
	}
	store := newCheckInStore(fake, "applicants")

	a, err := store.FindByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "app-1", a.ID)
	assert.Equal(t, "M", a.ShirtSize)
	require.NotNil(t, a.CheckedInAt)
	assert.True(t, checkedIn.Equal(*a.CheckedInAt))
	assert.Equal(t, "w1", a.MealCheckins[domain.MealSatLunch].WriteToken)

	require.Len(t, fake.queries, 1)
	assert.Equal(t, TokenIndex, aws.ToString(fake.queries[0].IndexName))
	require.Len(t, fake.gets, 1)
	assert.True(t, aws.ToBool(fake.gets[0].ConsistentRead))
}

func TestCheckInStore_FindByToken_NotFound(t *testing.T) {
	store := newCheckInStore(&fakeDynamo{}, "applicants")
	_, err := store.FindByToken(context.Background(), "abc123")
	require.ErrorIs(t, err, domain.ErrApplicantNotFound)
}

func TestCheckInStore_ConditionalSetCheckedIn(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 10, 11, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		err   error
		want  int64
		errIs error
	}{
		{name: "first write", want: 1},
		{name: "already checked in", err: conditionFailed(), want: 0},
		{name: "throttled", err: &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException"}, errIs: domain.ErrTransient},
		{name: "transaction conflict", err: &smithy.GenericAPIError{Code: "TransactionConflictException"}, errIs: domain.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeDynamo{}
			if tt.err != nil {
				fake.updateErrs = []error{tt.err}
			}
			n, err := newCheckInStore(fake, "applicants").ConditionalSetCheckedIn(ctx, "app-1", at)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
			require.Len(t, fake.updates, 1)
			assert.Contains(t, aws.ToString(fake.updates[0].ConditionExpression), "attribute_not_exists(checked_in_at)")
		})
	}
}

func TestCheckInStore_SetMealCheckinIfAbsent(t *testing.T) {
	ctx := context.Background()
	entry := domain.MealCheckin{At: time.Date(2025, 10, 11, 12, 0, 0, 0, time.UTC), WriteToken: "w1"}

	t.Run("inserted", func(t *testing.T) {
		fake := &fakeDynamo{}
		ok, err := newCheckInStore(fake, "applicants").SetMealCheckinIfAbsent(ctx, "app-1", domain.MealSatLunch, entry)
		require.NoError(t, err)
		assert.True(t, ok)
		require.Len(t, fake.updates, 2)
		assert.Equal(t, "SET meal_checkins = if_not_exists(meal_checkins, :empty)", aws.ToString(fake.updates[0].UpdateExpression))
		set := fake.updates[1]
		assert.Equal(t, "attribute_not_exists(meal_checkins.#m)", aws.ToString(set.ConditionExpression))
		assert.Equal(t, "sat_lunch", set.ExpressionAttributeNames["#m"])

		var got domain.MealCheckin
		require.NoError(t, attributevalue.Unmarshal(set.ExpressionAttributeValues[":e"], &got))
		assert.Equal(t, "w1", got.WriteToken)
	})

	t.Run("key present", func(t *testing.T) {
		fake := &fakeDynamo{updateErrs: []error{nil, conditionFailed()}}
		ok, err := newCheckInStore(fake, "applicants").SetMealCheckinIfAbsent(ctx, "app-1", domain.MealSatLunch, entry)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("applicant gone", func(t *testing.T) {
		fake := &fakeDynamo{updateErrs: []error{conditionFailed()}}
		_, err := newCheckInStore(fake, "applicants").SetMealCheckinIfAbsent(ctx, "app-1", domain.MealSatLunch, entry)
		require.ErrorIs(t, err, domain.ErrApplicantNotFound)
		assert.Len(t, fake.updates, 1)
	})

	t.Run("validation error is not classified", func(t *testing.T) {
		fake := &fakeDynamo{updateErrs: []error{nil, &smithy.GenericAPIError{Code: "ValidationException", Fault: smithy.FaultClient}}}
		_, err := newCheckInStore(fake, "applicants").SetMealCheckinIfAbsent(ctx, "app-1", domain.MealSatLunch, entry)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrTransient)
		assert.NotErrorIs(t, err, domain.ErrPrimitiveUnavailable)
	})
}

func TestCheckInStore_ReadWriteMealCheckins(t *testing.T) {
	ctx := context.Background()
	meals := domain.MealCheckins{
		domain.MealSunBreakfast: {At: time.Date(2025, 10, 12, 8, 0, 0, 0, time.UTC), WriteToken: "w9"},
	}
	fake := &fakeDynamo{item: mustMarshalMap(t, struct {
		ID           string              `dynamodbav:"id"`
		MealCheckins domain.MealCheckins `dynamodbav:"meal_checkins"`
	}{"app-1", meals})}
	store := newCheckInStore(fake, "applicants")

	got, err := store.ReadMealCheckins(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, "w9", got[domain.MealSunBreakfast].WriteToken)

	require.NoError(t, store.WriteMealCheckins(ctx, "app-1", meals))
	require.Len(t, fake.updates, 1)
	assert.Equal(t, "SET meal_checkins = :m", aws.ToString(fake.updates[0].UpdateExpression))

	fake.updateErrs = []error{conditionFailed()}
	require.ErrorIs(t, store.WriteMealCheckins(ctx, "gone", meals), domain.ErrApplicantNotFound)

	empty := newCheckInStore(&fakeDynamo{}, "applicants")
	_, err = empty.ReadMealCheckins(ctx, "gone")
	require.ErrorIs(t, err, domain.ErrApplicantNotFound)

	failing := newCheckInStore(&fakeDynamo{getErr: errors.New("boom")}, "applicants")
	_, err = failing.ReadMealCheckins(ctx, "app-1")
	require.Error(t, err)
}
