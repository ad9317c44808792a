package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dancefloor/backend/internal/broker"
	"github.com/dancefloor/backend/internal/db"
	"github.com/dancefloor/backend/internal/testutil"
)

// recorder is a broker.Publisher that keeps every published event.
type recorder struct {
	mu     sync.Mutex
	events []broker.Event
}

func (r *recorder) Publish(dancefloorID, kind string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, broker.Event{DancefloorID: dancefloorID, Kind: kind, Payload: payload})
}

func (r *recorder) all() []broker.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]broker.Event(nil), r.events...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *recorder) kinds() []string {
	var out []string
	for _, ev := range r.all() {
		out = append(out, ev.Kind)
	}
	return out
}

type fixture struct {
	store        *db.Store
	hub          *recorder
	dj           Principal
	dancefloorID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	sqlDB := testutil.NewDB(t)
	djID, dancefloorID := testutil.SeedDancefloor(t, sqlDB)
	return fixture{
		store:        db.NewStore(sqlDB),
		hub:          &recorder{},
		dj:           Principal{ID: djID, Name: "DJ Test"},
		dancefloorID: dancefloorID,
	}
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	var svcErr *Error
	require.True(t, errors.As(err, &svcErr), "expected *services.Error, got %v", err)
	require.ErrorIs(t, err, kind)
}
