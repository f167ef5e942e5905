package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"court_booking_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (r *recordingPublisher) Publish(ctx context.Context, key string, _ any) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return r.err
}

func (r *recordingPublisher) Close() error { return nil }

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish did not finish")
	}
}

func TestPublishAsync(t *testing.T) {
	pub := &recordingPublisher{}
	b := &models.Booking{ID: "b1", CourtID: "c1", Status: models.BookingStatusConfirmed}

	waitDone(t, PublishAsync(pub, KeyBookingConfirmed, NewBookingEvent(b)))

	require.Len(t, pub.keys, 1)
	assert.Equal(t, KeyBookingConfirmed, pub.keys[0])
}

func TestPublishAsync_ErrorIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	m := &models.FacilityMembership{UserID: "u1", FacilityID: "f1", Status: models.MembershipStatusPending}

	waitDone(t, PublishAsync(pub, KeyMembershipRequested, NewMembershipEvent(m)))
	assert.Len(t, pub.keys, 1)
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), KeyBookingCancelled, struct{}{}))
	assert.NoError(t, p.Close())
}
