package scheduler

import (
	"context"
	"fmt"

	"listing_portal_backend/internal/email"
	"listing_portal_backend/platform/config"
	"listing_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender email.Sender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		sender: sender,
		log:    log,
	}
	w.registerHandlers()

	return w, nil
}

func (w *Worker) registerHandlers() {
	w.mux.HandleFunc(TaskEnquiryReceipt, w.handleEnquiryReceipt)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleEnquiryReceipt(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseEnquiryReceiptPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.ToEmail == "" {
		return nil
	}

	if err := w.sender.SendEnquiryReceipt(ctx, email.EnquiryReceipt{
		ToEmail:     payload.ToEmail,
		VisitorName: payload.VisitorName,
		Subject:     payload.Subject,
		Message:     payload.Message,
		Alerts:      payload.Alerts,
	}); err != nil {
		w.log.Warn("enquiry receipt delivery failed", "contextKey", payload.ContextKey, "error", err)
		return err
	}

	w.log.Info("enquiry receipt sent", "contextKey", payload.ContextKey)
	return nil
}
