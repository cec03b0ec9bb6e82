package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"streamflix/internal/models/request_models"
)

func newSyncer(c *Client) *Syncer {
	s := NewSyncer(c)
	at := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		at = at.Add(time.Minute)
		return at
	}
	return s
}

func contentIDs(records []WatchlistRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ContentID)
	}
	return ids
}

func TestSyncerOnlineWrite(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	c, profileID := b.session(t, "a@x.com")
	s := newSyncer(c)

	res, err := s.AddToWatchlist(ctx, profileID, "42")
	require.NoError(t, err)
	assert.Equal(t, Ok, res)

	records, found, err := s.watchlistMirror(profileID)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, records, 1)
	assert.True(t, records[0].Synced)
	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, "The Answer", records[0].Content.Title)

	pending, err := s.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSyncerOfflineWriteThenFlush(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	c, profileID := b.session(t, "a@x.com")
	s := newSyncer(c)

	b.down.Store(true)
	res, err := s.AddToWatchlist(ctx, profileID, "550")
	require.NoError(t, err)
	assert.Equal(t, SyncPending, res)

	records, source, err := s.Watchlist(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, FromMirror, source)
	require.Len(t, records, 1)
	assert.Equal(t, "550", records[0].ContentID)
	assert.False(t, records[0].Synced)

	pending, err := s.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, WriteWatchlistAdd, pending[0].Kind)

	flushed, err := s.Flush(ctx)
	assert.True(t, Retryable(err))
	assert.Equal(t, FlushResult{Remaining: 1}, flushed)

	b.down.Store(false)
	flushed, err = s.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, FlushResult{Sent: 1}, flushed)

	records, source, err = s.Watchlist(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, FromBackend, source)
	require.Len(t, records, 1)
	assert.True(t, records[0].Synced)
	assert.NotEmpty(t, records[0].ID)

	server, err := c.Watchlist(ctx, profileID)
	require.NoError(t, err)
	assert.Len(t, server, 1)
}

func TestSyncerRejectedWriteLeavesMirror(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	c, _ := b.session(t, "a@x.com")
	s := newSyncer(c)

	stranger := uuid.NewString()
	res, err := s.AddToWatchlist(ctx, stranger, "42")
	assert.Equal(t, Failed, res)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	_, found, err := s.watchlistMirror(stranger)
	require.NoError(t, err)
	assert.False(t, found)
	pending, _ := s.Pending()
	assert.Empty(t, pending)
}

func TestFlushDropsRejectedWrites(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	c, profileID := b.session(t, "a@x.com")
	s := newSyncer(c)

	b.down.Store(true)
	_, err := s.AddToWatchlist(ctx, uuid.NewString(), "42")
	require.NoError(t, err)
	_, err = s.AddToWatchlist(ctx, profileID, "42")
	require.NoError(t, err)

	b.down.Store(false)
	flushed, err := s.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, FlushResult{Sent: 1, Rejected: 1}, flushed)

	records, _, err := s.Watchlist(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, contentIDs(records))
}

func TestSyncerKeepsWriteOrder(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	c, profileID := b.session(t, "a@x.com")
	s := newSyncer(c)

	res, err := s.AddToWatchlist(ctx, profileID, "42")
	require.NoError(t, err)
	require.Equal(t, Ok, res)

	b.down.Store(true)
	res, err = s.RemoveFromWatchlist(ctx, profileID, "42")
	require.NoError(t, err)
	assert.Equal(t, SyncPending, res)

	// queued behind the remove even though it could not be sent anyway
	res, err = s.AddToWatchlist(ctx, profileID, "7")
	require.NoError(t, err)
	assert.Equal(t, SyncPending, res)

	records, _, err := s.Watchlist(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, contentIDs(records))

	// the next online write drains the queue before it is sent
	b.down.Store(false)
	res, err = s.AddToWatchlist(ctx, profileID, "8")
	require.NoError(t, err)
	assert.Equal(t, Ok, res)

	pending, err := s.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	server, err := c.Watchlist(ctx, profileID)
	require.NoError(t, err)
	ids := make([]string, 0, len(server))
	for _, item := range server {
		ids = append(ids, item.ContentID)
	}
	assert.Equal(t, []string{"7", "8"}, ids)
}

func TestSyncerRemoveByContentItemID(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	c, profileID := b.session(t, "a@x.com")
	s := newSyncer(c)

	for _, id := range []string{"42", "7"} {
		res, err := s.AddToWatchlist(ctx, profileID, id)
		require.NoError(t, err)
		require.Equal(t, Ok, res)
	}
	records, _, err := s.watchlistMirror(profileID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotEqual(t, records[0].ID, records[0].Content.ID)

	res, err := s.RemoveFromWatchlist(ctx, profileID, records[0].Content.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, res)

	mirror, _, err := s.watchlistMirror(profileID)
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, contentIDs(mirror))
	server, err := c.Watchlist(ctx, profileID)
	require.NoError(t, err)
	require.Len(t, server, 1)
	assert.Equal(t, "7", server[0].ContentID)

	// offline the same reference is applied to the mirror
	b.down.Store(true)
	res, err = s.RemoveFromWatchlist(ctx, profileID, records[1].Content.ID)
	require.NoError(t, err)
	assert.Equal(t, SyncPending, res)

	offline, source, err := s.Watchlist(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, FromMirror, source)
	assert.Empty(t, offline)

	b.down.Store(false)
	_, err = s.Flush(ctx)
	require.NoError(t, err)
	server, err = c.Watchlist(ctx, profileID)
	require.NoError(t, err)
	assert.Empty(t, server)
}

func TestSyncerRemoveIgnoresWatchlistEntryID(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	c, profileID := b.session(t, "a@x.com")
	s := newSyncer(c)

	_, err := s.AddToWatchlist(ctx, profileID, "42")
	require.NoError(t, err)
	records, _, err := s.watchlistMirror(profileID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// the backend does not know entry ids as removal references
	res, err := s.RemoveFromWatchlist(ctx, profileID, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, res)

	mirror, _, err := s.watchlistMirror(profileID)
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, contentIDs(mirror))
	server, err := c.Watchlist(ctx, profileID)
	require.NoError(t, err)
	assert.Len(t, server, 1)
}

func TestSyncerHistoryOffline(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	c, profileID := b.session(t, "a@x.com")
	s := newSyncer(c)

	res, err := s.UpdateWatchHistory(ctx, profileID, request_models.WatchHistoryRequest{ContentID: "42", WatchedDuration: 60})
	require.NoError(t, err)
	require.Equal(t, Ok, res)

	b.down.Store(true)
	for _, d := range []int{120, 300} {
		res, err = s.UpdateWatchHistory(ctx, profileID, request_models.WatchHistoryRequest{ContentID: "42", WatchedDuration: d})
		require.NoError(t, err)
		assert.Equal(t, SyncPending, res)
	}
	res, err = s.UpdateWatchHistory(ctx, profileID, request_models.WatchHistoryRequest{ContentID: "9", WatchedDuration: 5400, Completed: true})
	require.NoError(t, err)
	assert.Equal(t, SyncPending, res)

	history, source, err := s.WatchHistory(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, FromMirror, source)
	require.Len(t, history, 2)
	assert.Equal(t, "9", history[0].ContentID)
	assert.Equal(t, "42", history[1].ContentID)
	assert.Equal(t, 300, history[1].WatchedDuration)
	assert.False(t, history[1].Synced)
	assert.NotEmpty(t, history[1].ID, "offline upsert keeps the server id")
	assert.Equal(t, "The Answer", history[1].Content.Title)

	cw, source, err := s.ContinueWatching(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, FromMirror, source)
	require.Len(t, cw, 1)
	assert.Equal(t, "42", cw[0].ContentID)

	// back online but not flushed yet: the read overlays the queue
	b.down.Store(false)
	history, source, err = s.WatchHistory(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, FromBackend, source)
	require.Len(t, history, 2)
	assert.Equal(t, 300, history[1].WatchedDuration)
	assert.False(t, history[1].Synced)

	flushed, err := s.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, flushed.Sent)

	history, _, err = s.WatchHistory(ctx, profileID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, h := range history {
		assert.True(t, h.Synced)
	}

	cw, source, err = s.ContinueWatching(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, FromBackend, source)
	require.Len(t, cw, 1)
	assert.Equal(t, 300, cw[0].WatchedDuration)
}

func TestSyncerReadFallback(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	c, profileID := b.session(t, "a@x.com")
	s := newSyncer(c)

	b.down.Store(true)
	_, _, err := s.WatchHistory(ctx, profileID)
	assert.True(t, Retryable(err), "no mirror yet")

	profiles, source, err := s.Profiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, FromMirror, source)
	require.Len(t, profiles, 1)

	b.down.Store(false)
	_, _, err = s.Watchlist(ctx, profileID)
	require.NoError(t, err)

	// auth failures are never answered from the mirror
	require.NoError(t, c.Logout())
	_, _, err = s.Watchlist(ctx, profileID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestActiveProfile(t *testing.T) {
	s := NewSyncer(NewClient(Config{BaseURL: "http://unused"}, NewMemoryStore()))

	_, ok, err := s.ActiveProfile()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetActiveProfile("p1"))
	id, ok, err := s.ActiveProfile()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "p1", id)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "ok", Ok.String())
	assert.Equal(t, "sync_pending", SyncPending.String())
	assert.Equal(t, "failed", Failed.String())
}
