package state

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"listing_portal_backend/internal/contact/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeSeeder struct {
	numbers map[string]domain.RevealedNumbers
	err     error
	calls   atomic.Int32
}

func (f *fakeSeeder) Get(_ context.Context, key string) (*domain.RevealedNumbers, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	n, ok := f.numbers[key]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func receive(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "channel closed")
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestGetSeedsFromCacheOnce(t *testing.T) {
	seeder := &fakeSeeder{numbers: map[string]domain.RevealedNumbers{
		"listing:1001": {DisplayNumber: "+233200000001", WhatsAppNumber: "233200000001"},
	}}
	s := New(seeder, nil)
	ctx := context.Background()

	snap := s.Get(ctx, "listing:1001")
	assert.Equal(t, Snapshot{PhoneNumber: "+233200000001", WhatsAppNumber: "233200000001", ShowNumber: true}, snap)

	_ = s.Get(ctx, "listing:1001")
	assert.Equal(t, int32(1), seeder.calls.Load())

	assert.Equal(t, Snapshot{}, s.Get(ctx, "listing:1002"))
}

func TestSeedErrorIsRetried(t *testing.T) {
	seeder := &fakeSeeder{err: errors.New("redis down")}
	s := New(seeder, nil)
	ctx := context.Background()

	assert.Equal(t, Snapshot{}, s.Get(ctx, "listing:1"))
	seeder.err = nil
	seeder.numbers = map[string]domain.RevealedNumbers{"listing:1": {DisplayNumber: "1", WhatsAppNumber: "2"}}

	assert.True(t, s.Get(ctx, "listing:1").ShowNumber)
	assert.Equal(t, int32(2), seeder.calls.Load())
}

func TestSubscribersShareStatePerKey(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(nil, nil)
	ctx := context.Background()

	detail, cancelDetail := s.Subscribe(ctx, "listing:1001")
	defer cancelDetail()
	sidebar, cancelSidebar := s.Subscribe(ctx, "listing:1001")
	defer cancelSidebar()
	other, cancelOther := s.Subscribe(ctx, "listing:1002")
	defer cancelOther()

	assert.Equal(t, Snapshot{}, receive(t, detail))
	assert.Equal(t, Snapshot{}, receive(t, sidebar))
	assert.Equal(t, Snapshot{}, receive(t, other))

	s.SetPhoneNumbers("listing:1001", "+233200000001", "233200000001")

	want := Snapshot{PhoneNumber: "+233200000001", WhatsAppNumber: "233200000001", ShowNumber: true}
	assert.Equal(t, want, receive(t, detail))
	assert.Equal(t, want, receive(t, sidebar))

	select {
	case snap := <-other:
		t.Fatalf("listing:1002 received %+v", snap)
	default:
	}
	assert.Equal(t, Snapshot{}, s.Get(ctx, "listing:1002"))
}

func TestSlowSubscriberSeesLatest(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(nil, nil)
	ch, cancel := s.Subscribe(context.Background(), "project:77")
	defer cancel()

	s.SetPhoneNumbers("project:77", "1", "1")
	s.SetPhoneNumbers("project:77", "2", "2")
	s.SetPhoneNumbers("project:77", "3", "3")

	assert.Equal(t, "3", receive(t, ch).PhoneNumber)
}

func TestSubscriptionEndsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(nil, nil)
	ctx, cancelCtx := context.WithCancel(context.Background())
	ch, cancel := s.Subscribe(ctx, "listing:1")
	defer cancel()

	receive(t, ch)
	cancelCtx()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed after context cancel")
	}
	assert.Equal(t, 0, s.Subscribers("listing:1"))
}

func TestHasSubscribers(t *testing.T) {
	s := New(nil, nil)
	assert.False(t, s.HasSubscribers())

	_, cancel := s.Subscribe(context.Background(), "listing:1")
	assert.True(t, s.HasSubscribers())

	cancel()
	assert.False(t, s.HasSubscribers())
}
