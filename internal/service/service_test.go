package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
	"github.com/MichelSalibaa/ZiadSupplies/internal/domain/task"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	summary *domain.OrderSummary
	err     error
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order domain.OrderRequest) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeOrderRepo) GetOrderSummary(ctx context.Context, orderID int64) (*domain.OrderSummary, error) {
	return f.summary, f.err
}

type fakeSender struct {
	sent []int64
	err  error
}

func (f *fakeSender) SendOrderConfirmation(ctx context.Context, summary *domain.OrderSummary) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, summary.ID)
	return nil
}

type fakeQueue struct {
	added []task.Task
	acked []string
}

func (f *fakeQueue) AddTask(ctx context.Context, t task.Task) (string, error) {
	f.added = append(f.added, t)
	return "1-0", nil
}

func (f *fakeQueue) GetTask(ctx context.Context, group, consumer, stream string) (*redis.XMessage, error) {
	return nil, nil
}

func (f *fakeQueue) AckTask(ctx context.Context, stream, group, msgID string) error {
	f.acked = append(f.acked, msgID)
	return nil
}

func (f *fakeQueue) CreateGroup(ctx context.Context, stream, group string) error { return nil }

func (f *fakeQueue) AutoClaim(ctx context.Context, group, consumer, stream string, minIdleTime time.Duration) ([]redis.XMessage, error) {
	return nil, nil
}

func (f *fakeQueue) EnsureStreamsExist(ctx context.Context) error { return nil }

func message(t task.Task) *redis.XMessage {
	data, _ := t.TaskValue()
	return &redis.XMessage{
		ID: "1-0",
		Values: map[string]interface{}{
			"task_type": t.TaskType(),
			"task_data": string(data),
		},
	}
}

func testSummary() *domain.OrderSummary {
	return &domain.OrderSummary{
		ID:           9,
		CustomerName: "Dana",
		Email:        "dana@example.com",
		Total:        decimal.NewFromFloat(12.5),
	}
}

func TestProcessMessage_SendsEmail(t *testing.T) {
	repo := &fakeOrderRepo{summary: testSummary()}
	sender := &fakeSender{}
	q := &fakeQueue{}
	svc := NewService(repo, sender, q, "ziad_consumer", 60)

	err := svc.processMessage(context.Background(), message(&task.OrderEmailTask{OrderID: 9}))

	require.NoError(t, err)
	assert.Equal(t, []int64{9}, sender.sent)
	assert.Empty(t, q.added)
	assert.Equal(t, []string{"1-0"}, q.acked)
}

func TestProcessMessage_QueuesRetryOnFailure(t *testing.T) {
	repo := &fakeOrderRepo{summary: testSummary()}
	sender := &fakeSender{err: errors.New("smtp timeout")}
	q := &fakeQueue{}
	svc := NewService(repo, sender, q, "ziad_consumer", 60)

	err := svc.processMessage(context.Background(), message(&task.OrderEmailTask{OrderID: 9}))

	require.NoError(t, err)
	require.Len(t, q.added, 1)
	retry, ok := q.added[0].(*task.EmailRetryTask)
	require.True(t, ok)
	assert.Equal(t, int64(9), retry.OrderID)
	assert.Equal(t, 1, retry.RetryCount)
	assert.Equal(t, "smtp timeout", retry.Error)
	// Original message is still acked so it is not redelivered
	assert.Equal(t, []string{"1-0"}, q.acked)
}

func TestProcessMessage_RetryGivesUpAtLimit(t *testing.T) {
	repo := &fakeOrderRepo{summary: testSummary()}
	sender := &fakeSender{err: errors.New("smtp timeout")}
	q := &fakeQueue{}
	svc := NewService(repo, sender, q, "ziad_consumer", 60)

	err := svc.processMessage(context.Background(), message(&task.EmailRetryTask{
		OrderID:    9,
		RetryCount: maxEmailRetries,
		Error:      "smtp timeout",
	}))

	require.NoError(t, err)
	assert.Empty(t, q.added)
	assert.Equal(t, []string{"1-0"}, q.acked)
}

func TestProcessMessage_RetryRequeuesBelowLimit(t *testing.T) {
	repo := &fakeOrderRepo{summary: testSummary()}
	sender := &fakeSender{err: errors.New("smtp timeout")}
	q := &fakeQueue{}
	svc := NewService(repo, sender, q, "ziad_consumer", 60)

	err := svc.processMessage(context.Background(), message(&task.EmailRetryTask{
		OrderID:    9,
		RetryCount: 2,
		Error:      "smtp timeout",
	}))

	require.NoError(t, err)
	require.Len(t, q.added, 1)
	retry := q.added[0].(*task.EmailRetryTask)
	assert.Equal(t, 3, retry.RetryCount)
}

func TestProcessMessage_UnknownTaskType(t *testing.T) {
	svc := NewService(&fakeOrderRepo{}, &fakeSender{}, &fakeQueue{}, "ziad_consumer", 60)

	err := svc.processMessage(context.Background(), &redis.XMessage{
		ID: "1-0",
		Values: map[string]interface{}{
			"task_type": "Bogus",
			"task_data": "{}",
		},
	})

	require.Error(t, err)
}
