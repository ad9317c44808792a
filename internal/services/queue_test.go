package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dancefloor/backend/internal/broker"
	"github.com/dancefloor/backend/internal/models"
)

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	res, err := q.Submit(ctx, f.dancefloorID, "guest-1", "  Daft Punk - One More Time  ")
	require.NoError(t, err)
	assert.Equal(t, "Daft Punk - One More Time", res.Request.Song)
	assert.Equal(t, string(StatusQueued), res.Request.Status)
	assert.EqualValues(t, 0, res.Request.Votes)
	assert.EqualValues(t, 1, res.RequestsCount)

	assert.Equal(t, []string{broker.KindSongRequest, broker.KindRequestsCount}, f.hub.kinds())
	events := f.hub.all()
	assert.Equal(t, res.Request.ID, events[0].Payload.(models.SongRequestResponse).ID)
	assert.Equal(t, models.RequestsCountEvent{RequestsCount: 1}, events[1].Payload)

	res, err = q.Submit(ctx, f.dancefloorID, "", "Second")
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.RequestsCount)
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	_, err := q.Submit(ctx, f.dancefloorID, "", "   ")
	requireKind(t, err, ErrInvalidArgument)

	_, err = q.Submit(ctx, "", "", "song")
	requireKind(t, err, ErrInvalidArgument)

	_, err = q.Submit(ctx, "missing", "", "song")
	requireKind(t, err, ErrNotFound)

	assert.Empty(t, f.hub.all())
}

func TestListOrderByVotes(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	votes := map[string]int{"A": 3, "B": 1, "C": 3}
	for _, name := range []string{"A", "B", "C"} {
		res, err := q.Submit(ctx, f.dancefloorID, "", name)
		require.NoError(t, err)
		for i := 0; i < votes[name]; i++ {
			_, err := q.Vote(ctx, res.Request.ID, fmt.Sprintf("voter-%d", i))
			require.NoError(t, err)
		}
	}

	got, err := q.List(ctx, f.dancefloorID, OrderByVotes)
	require.NoError(t, err)
	var names []string
	for _, r := range got {
		names = append(names, r.Song)
	}
	assert.Equal(t, []string{"A", "C", "B"}, names)
}

func TestListOrderByPosition(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	ids := map[string]string{}
	for _, name := range []string{"A", "B", "C"} {
		res, err := q.Submit(ctx, f.dancefloorID, "", name)
		require.NoError(t, err)
		ids[name] = res.Request.ID
	}

	applied, err := q.Reorder(ctx, f.dj, f.dancefloorID, []models.ReorderItem{
		{RequestID: ids["B"], NewOrder: 0},
		{RequestID: ids["A"], NewOrder: 1},
		{RequestID: ids["C"], NewOrder: 2},
	})
	require.NoError(t, err)
	assert.Len(t, applied, 3)

	got, err := q.List(ctx, f.dancefloorID, ParseListOrder("order"))
	require.NoError(t, err)
	var names []string
	for _, r := range got {
		names = append(names, r.Song)
	}
	assert.Equal(t, []string{"B", "A", "C"}, names)
}

func TestListUnknownDancefloor(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)

	_, err := q.List(t.Context(), "missing", OrderByVotes)
	requireKind(t, err, ErrNotFound)
}

func TestVoteOncePerVoter(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	res, err := q.Submit(ctx, f.dancefloorID, "", "song")
	require.NoError(t, err)
	f.hub.reset()

	vote, err := q.Vote(ctx, res.Request.ID, "voter-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, vote.Votes)

	_, err = q.Vote(ctx, res.Request.ID, "voter-1")
	requireKind(t, err, ErrConflict)

	vote, err = q.Vote(ctx, res.Request.ID, "voter-2")
	require.NoError(t, err)
	assert.EqualValues(t, 2, vote.Votes)

	stored, err := f.store.GetSongRequestByID(ctx, res.Request.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.Votes)

	events := f.hub.all()
	require.Len(t, events, 2)
	assert.Equal(t, broker.KindLikeSongRequest, events[1].Kind)
	assert.Equal(t, models.LikeEvent{RequestID: res.Request.ID, Likes: 2}, events[1].Payload)
}

func TestVoteErrors(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	_, err := q.Vote(ctx, "missing", "voter")
	requireKind(t, err, ErrNotFound)

	_, err = q.Vote(ctx, "missing", "")
	requireKind(t, err, ErrInvalidArgument)
}

func TestConcurrentVotesAllCount(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	res, err := q.Submit(ctx, f.dancefloorID, "", "song")
	require.NoError(t, err)

	const voters = 10
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := q.Vote(ctx, res.Request.ID, fmt.Sprintf("voter-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := f.store.GetSongRequestByID(ctx, res.Request.ID)
	require.NoError(t, err)
	assert.EqualValues(t, voters, stored.Votes)
}

func TestSetStatusPlayDemotesCurrent(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	first, err := q.Submit(ctx, f.dancefloorID, "", "first")
	require.NoError(t, err)
	second, err := q.Submit(ctx, f.dancefloorID, "", "second")
	require.NoError(t, err)

	_, err = q.SetStatus(ctx, f.dj, first.Request.ID, "playing")
	require.NoError(t, err)
	f.hub.reset()

	res, err := q.SetStatus(ctx, f.dj, second.Request.ID, "playing")
	require.NoError(t, err)
	assert.Equal(t, []string{first.Request.ID}, res.Demoted)

	events := f.hub.all()
	require.Len(t, events, 2)
	assert.Equal(t, models.StatusUpdateEvent{RequestID: first.Request.ID, Status: "queued"}, events[0].Payload)
	assert.Equal(t, models.StatusUpdateEvent{RequestID: second.Request.ID, Status: "playing"}, events[1].Payload)

	stored, err := f.store.GetSongRequestByID(ctx, first.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, "queued", stored.Status)

	n, err := f.store.CountPlayingSongRequests(ctx, f.dancefloorID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSetStatusIdempotent(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	req, err := q.Submit(ctx, f.dancefloorID, "", "song")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		res, err := q.SetStatus(ctx, f.dj, req.Request.ID, "playing")
		require.NoError(t, err)
		assert.Empty(t, res.Demoted)
	}

	stored, err := f.store.GetSongRequestByID(ctx, req.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, "playing", stored.Status)

	// completed requests may be requeued
	_, err = q.SetStatus(ctx, f.dj, req.Request.ID, "completed")
	require.NoError(t, err)
	_, err = q.SetStatus(ctx, f.dj, req.Request.ID, "queued")
	require.NoError(t, err)
}

func TestSetStatusCompletedTwice(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	req, err := q.Submit(ctx, f.dancefloorID, "", "song")
	require.NoError(t, err)
	f.hub.reset()

	for i := 0; i < 2; i++ {
		res, err := q.SetStatus(ctx, f.dj, req.Request.ID, "completed")
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, res.Status)
		assert.Empty(t, res.Demoted)
	}

	events := f.hub.all()
	require.Len(t, events, 2)
	want := models.StatusUpdateEvent{RequestID: req.Request.ID, Status: "completed"}
	for _, ev := range events {
		assert.Equal(t, broker.KindStatusUpdate, ev.Kind)
		assert.Equal(t, f.dancefloorID, ev.DancefloorID)
		assert.Equal(t, want, ev.Payload)
	}

	stored, err := f.store.GetSongRequestByID(ctx, req.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", stored.Status)
}

func TestSetStatusRejections(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	req, err := q.Submit(ctx, f.dancefloorID, "", "song")
	require.NoError(t, err)
	f.hub.reset()

	_, err = q.SetStatus(ctx, f.dj, req.Request.ID, "paused")
	requireKind(t, err, ErrInvalidArgument)

	_, err = q.SetStatus(ctx, f.dj, "missing", "playing")
	requireKind(t, err, ErrNotFound)

	_, err = q.SetStatus(ctx, Principal{}, req.Request.ID, "playing")
	requireKind(t, err, ErrUnauthorized)

	_, err = q.SetStatus(ctx, Principal{ID: "someone-else"}, req.Request.ID, "playing")
	requireKind(t, err, ErrForbidden)

	stored, err := f.store.GetSongRequestByID(ctx, req.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, "queued", stored.Status)
	assert.Empty(t, f.hub.all())
}

func TestConcurrentPlayKeepsSinglePlaying(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	var ids []string
	for i := 0; i < 6; i++ {
		res, err := q.Submit(ctx, f.dancefloorID, "", fmt.Sprintf("song-%d", i))
		require.NoError(t, err)
		ids = append(ids, res.Request.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := q.SetStatus(ctx, f.dj, id, "playing")
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	n, err := f.store.CountPlayingSongRequests(ctx, f.dancefloorID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestConcurrentPlayEventsFollowCommitOrder(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	var ids []string
	for i := 0; i < 6; i++ {
		res, err := q.Submit(ctx, f.dancefloorID, "", fmt.Sprintf("song-%d", i))
		require.NoError(t, err)
		ids = append(ids, res.Request.ID)
	}
	f.hub.reset()

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := q.SetStatus(ctx, f.dj, id, "playing")
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	// replaying the broadcast must land on the state the store holds
	replayed := map[string]string{}
	for _, ev := range f.hub.all() {
		require.Equal(t, broker.KindStatusUpdate, ev.Kind)
		upd := ev.Payload.(models.StatusUpdateEvent)
		replayed[upd.RequestID] = upd.Status
	}

	var playing []string
	for _, id := range ids {
		stored, err := f.store.GetSongRequestByID(ctx, id)
		require.NoError(t, err)
		if stored.Status == "playing" {
			playing = append(playing, id)
		}
		if st, ok := replayed[id]; ok {
			assert.Equal(t, stored.Status, st, "request %s", id)
		}
	}
	require.Len(t, playing, 1)
	assert.Equal(t, "playing", replayed[playing[0]])
}

func TestReorderSkipsForeignRequests(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)
	ctx := t.Context()

	req, err := q.Submit(ctx, f.dancefloorID, "", "song")
	require.NoError(t, err)
	f.hub.reset()

	applied, err := q.Reorder(ctx, f.dj, f.dancefloorID, []models.ReorderItem{
		{RequestID: req.Request.ID, NewOrder: 5},
		{RequestID: "not-here", NewOrder: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.ReorderItem{{RequestID: req.Request.ID, NewOrder: 5}}, applied)

	events := f.hub.all()
	require.Len(t, events, 1)
	assert.Equal(t, broker.KindReorderSongRequests, events[0].Kind)

	applied, err = q.Reorder(ctx, f.dj, f.dancefloorID, []models.ReorderItem{{RequestID: "not-here", NewOrder: 1}})
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Len(t, f.hub.all(), 1)
}

func TestReorderRequiresOwner(t *testing.T) {
	f := newFixture(t)
	q := NewQueueService(f.store, f.hub)

	_, err := q.Reorder(t.Context(), Principal{ID: "intruder"}, f.dancefloorID, nil)
	requireKind(t, err, ErrForbidden)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"queued", "playing", "completed", "declined"} {
		got, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), got)
	}
	for _, s := range []string{"", "Playing", "skipped"} {
		_, err := ParseStatus(s)
		assert.ErrorIs(t, err, ErrInvalidArgument, s)
	}
}
