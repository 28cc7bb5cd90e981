package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"listing_portal_backend/internal/email"
	"listing_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	receipts []email.EnquiryReceipt
	err      error
}

func (s *captureSender) SendEnquiryReceipt(_ context.Context, receipt email.EnquiryReceipt) error {
	s.receipts = append(s.receipts, receipt)
	return s.err
}

func TestEnquiryReceiptTaskRoundTrip(t *testing.T) {
	task, err := NewEnquiryReceiptTask(EnquiryReceiptPayload{ContextKey: "listing:1", ToEmail: "ama@example.com", Alerts: true})
	require.NoError(t, err)
	assert.Equal(t, TaskEnquiryReceipt, task.Type())

	payload, err := ParseEnquiryReceiptPayload(task)
	require.NoError(t, err)
	assert.Equal(t, "ama@example.com", payload.ToEmail)
	assert.True(t, payload.Alerts)
}

func TestHandleEnquiryReceipt(t *testing.T) {
	sender := &captureSender{}
	w := &Worker{sender: sender, log: logger.NewNop()}

	task, err := NewEnquiryReceiptTask(EnquiryReceiptPayload{ToEmail: "ama@example.com", VisitorName: "Ama", Subject: "Oak Villa"})
	require.NoError(t, err)
	require.NoError(t, w.handleEnquiryReceipt(context.Background(), task))

	require.Len(t, sender.receipts, 1)
	assert.Equal(t, "Oak Villa", sender.receipts[0].Subject)
}

func TestHandleEnquiryReceiptErrors(t *testing.T) {
	boom := errors.New("smtp down")
	w := &Worker{sender: &captureSender{err: boom}, log: logger.NewNop()}

	task, err := NewEnquiryReceiptTask(EnquiryReceiptPayload{ToEmail: "ama@example.com"})
	require.NoError(t, err)
	assert.ErrorIs(t, w.handleEnquiryReceipt(context.Background(), task), boom)

	malformed := asynq.NewTask(TaskEnquiryReceipt, []byte("{"))
	assert.ErrorIs(t, w.handleEnquiryReceipt(context.Background(), malformed), asynq.SkipRetry)

	empty, err := NewEnquiryReceiptTask(EnquiryReceiptPayload{})
	require.NoError(t, err)
	assert.NoError(t, w.handleEnquiryReceipt(context.Background(), empty))
}

type pruner struct {
	before time.Time
}

func (p *pruner) DeleteBefore(_ context.Context, before time.Time) (int64, error) {
	p.before = before
	return 3, nil
}

func TestLedgerCleanupUsesRetention(t *testing.T) {
	p := &pruner{}
	c := NewLedgerCleanup(p, logger.NewNop(), time.Minute, 24*time.Hour)
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.cleanup(context.Background())
	assert.Equal(t, now.Add(-24*time.Hour), p.before)
}

func TestNilClientIsNoop(t *testing.T) {
	var c *Client
	assert.NoError(t, c.EnqueueEnquiryReceipt(context.Background(), EnquiryReceiptPayload{}))
	assert.NoError(t, c.Close())
}
