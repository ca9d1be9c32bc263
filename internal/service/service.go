package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MichelSalibaa/ZiadSupplies/internal/domain/task"
	"github.com/MichelSalibaa/ZiadSupplies/internal/email"
	"github.com/MichelSalibaa/ZiadSupplies/internal/queue"
	"github.com/MichelSalibaa/ZiadSupplies/internal/repository"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	orderEmailStream = "ziad:stream:OrderEmailTask"
	emailRetryStream = "ziad:stream:EmailRetryTask"

	maxEmailRetries = 5
)

// Service runs the background workers that deliver order confirmation
// emails queued by the API.
type Service struct {
	orderRepo   repository.OrderRepository
	emailSender email.Sender
	queue       queue.Queue
	groupName   string
	minIdleTime time.Duration
}

func NewService(
	orderRepo repository.OrderRepository,
	emailSender email.Sender,
	queue queue.Queue,
	groupName string,
	minIdleTime int,
) *Service {
	return &Service{
		orderRepo:   orderRepo,
		emailSender: emailSender,
		queue:       queue,
		groupName:   groupName,
		minIdleTime: time.Duration(minIdleTime) * time.Second,
	}
}

func (s *Service) RunWorkers(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup

	// Run workers for both regular and retry tasks
	s.runWorkersForStream(ctx, &wg, numWorkers, orderEmailStream, "email")
	s.runWorkersForStream(ctx, &wg, max(1, numWorkers/2), emailRetryStream, "retry")

	wg.Wait()
	return nil
}

func (s *Service) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Auto-claimer for this stream
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s-%d", workerType, time.Now().UnixNano())
				claimedMessages, err := s.queue.AutoClaim(ctx, s.groupName, consumer, streamName, s.minIdleTime)
				if err != nil {
					log.Errorf("Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				if len(claimedMessages) > 0 {
					log.Infof("Auto-claimed %d messages from %s stream", len(claimedMessages), workerType)
					for _, msg := range claimedMessages {
						err := s.processMessage(ctx, &msg)
						if err != nil {
							log.Errorf("Failed to process auto-claimed message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}
	}()

	// Regular workers for this stream
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("%s worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := s.queue.GetTask(ctx, s.groupName, consumer, streamName)
					if err != nil {
						log.Errorf("Failed to get task from %s: %v", streamName, err)
						continue
					}

					if msg != nil {
						err := s.processMessage(ctx, msg)
						if err != nil {
							log.Errorf("Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

func (s *Service) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	var streamName string
	switch taskType {
	case "OrderEmailTask":
		streamName = orderEmailStream
		emailTask, err := task.UnmarshalTask[*task.OrderEmailTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal order email task data: %w", err)
		}

		if err := s.sendConfirmation(ctx, emailTask.OrderID); err != nil {
			// Add to retry queue instead of failing completely
			retryTask := &task.EmailRetryTask{
				OrderID:    emailTask.OrderID,
				RetryCount: 1,
				Error:      err.Error(),
			}

			if _, addErr := s.queue.AddTask(ctx, retryTask); addErr != nil {
				log.Errorf("Failed to add retry task for order %d: %v", emailTask.OrderID, addErr)
			} else {
				log.Warnf("Added order %d email to retry queue due to error: %v", emailTask.OrderID, err)
			}
		}

	case "EmailRetryTask":
		streamName = emailRetryStream
		retryTask, err := task.UnmarshalTask[*task.EmailRetryTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal retry task data: %w", err)
		}

		if err := s.retryConfirmation(ctx, retryTask); err != nil {
			return fmt.Errorf("failed to retry confirmation email: %w", err)
		}

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	if err := s.queue.AckTask(ctx, streamName, s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}

func (s *Service) sendConfirmation(ctx context.Context, orderID int64) error {
	summary, err := s.orderRepo.GetOrderSummary(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order %d: %w", orderID, err)
	}

	return s.emailSender.SendOrderConfirmation(ctx, summary)
}

func (s *Service) retryConfirmation(ctx context.Context, retryTask *task.EmailRetryTask) error {
	log.Infof("Retrying confirmation email for order %d (attempt %d)",
		retryTask.OrderID, retryTask.RetryCount)

	err := s.sendConfirmation(ctx, retryTask.OrderID)
	if err == nil {
		log.Infof("Recovered confirmation email for order %d after %d attempts",
			retryTask.OrderID, retryTask.RetryCount)
		return nil
	}

	if retryTask.RetryCount >= maxEmailRetries {
		log.Errorf("Giving up on confirmation email for order %d after %d attempts: %v",
			retryTask.OrderID, retryTask.RetryCount, err)
		return nil
	}

	newRetryTask := &task.EmailRetryTask{
		OrderID:    retryTask.OrderID,
		RetryCount: retryTask.RetryCount + 1,
		Error:      err.Error(),
	}

	if _, addErr := s.queue.AddTask(ctx, newRetryTask); addErr != nil {
		log.Errorf("Failed to re-add retry task for order %d: %v", retryTask.OrderID, addErr)
		return addErr
	}

	log.Warnf("Confirmation email for order %d failed again, will retry (attempt %d): %v",
		retryTask.OrderID, retryTask.RetryCount, err)
	return nil
}
