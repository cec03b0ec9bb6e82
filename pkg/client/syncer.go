package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"streamflix/internal/models/request_models"
	"streamflix/internal/models/response_models"
)

// Result tells the caller whether a write reached the backend.
type Result int

const (
	Ok Result = iota
	// SyncPending means the write was applied to the local mirror and queued
	// for Flush.
	SyncPending
	// Failed means the backend refused the write. The mirror is unchanged.
	Failed
)

func (r Result) String() string {
	switch r {
	case Ok:
		return "ok"
	case SyncPending:
		return "sync_pending"
	default:
		return "failed"
	}
}

// Source says where a read was answered from.
type Source int

const (
	FromBackend Source = iota
	FromMirror
)

type WriteKind string

const (
	WriteWatchlistAdd    WriteKind = "watchlist_add"
	WriteWatchlistRemove WriteKind = "watchlist_remove"
	WriteHistory         WriteKind = "history"
)

type PendingWrite struct {
	ID              string    `json:"id"`
	Kind            WriteKind `json:"kind"`
	ProfileID       string    `json:"profileId"`
	ContentID       string    `json:"contentId"`
	WatchedDuration int       `json:"watchedDuration,omitempty"`
	Completed       bool      `json:"completed,omitempty"`
	QueuedAt        time.Time `json:"queuedAt"`
}

type WatchlistRecord struct {
	response_models.WatchlistItemResponse
	Synced bool `json:"synced"`
}

type HistoryRecord struct {
	response_models.WatchHistoryResponse
	Synced bool `json:"synced"`
}

type FlushResult struct {
	Sent      int
	Rejected  int
	Remaining int
}

// ContinueWatchingLimit caps the list derived from the local mirror.
const ContinueWatchingLimit = 10

// Syncer reads through the backend into the local mirror and falls back to
// the mirror when the backend cannot be reached. Writes that cannot be
// delivered are applied locally and queued. Pending writes are replayed in
// order, a new write is only sent once the queue is empty.
type Syncer struct {
	client *Client
	store  LocalStore
	now    func() time.Time

	mu sync.Mutex
}

func NewSyncer(c *Client) *Syncer {
	return &Syncer{client: c, store: c.Store(), now: time.Now}
}

func (s *Syncer) SetActiveProfile(profileID string) error {
	return s.store.Put(KeyActiveProfile, profileID)
}

func (s *Syncer) ActiveProfile() (string, bool, error) {
	var id string
	ok, err := s.store.Get(KeyActiveProfile, &id)
	return id, ok && id != "", err
}

func (s *Syncer) Profiles(ctx context.Context) ([]response_models.ProfileResponse, Source, error) {
	profiles, err := s.client.ListProfiles(ctx)
	if err == nil {
		return profiles, FromBackend, s.store.Put(KeyProfiles, profiles)
	}
	if !Retryable(err) {
		return nil, FromBackend, err
	}

	var cached []response_models.ProfileResponse
	found, serr := s.store.Get(KeyProfiles, &cached)
	if serr != nil {
		return nil, FromMirror, serr
	}
	if !found {
		return nil, FromMirror, err
	}
	return cached, FromMirror, nil
}

func (s *Syncer) Watchlist(ctx context.Context, profileID string) ([]WatchlistRecord, Source, error) {
	items, err := s.client.Watchlist(ctx, profileID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		records := make([]WatchlistRecord, 0, len(items))
		for _, item := range items {
			records = append(records, WatchlistRecord{WatchlistItemResponse: item, Synced: true})
		}
		queue, qerr := s.queue()
		if qerr != nil {
			return nil, FromBackend, qerr
		}
		for _, w := range queue {
			if w.ProfileID == profileID {
				records = applyToWatchlist(records, w)
			}
		}
		return records, FromBackend, s.store.Put(WatchlistKey(profileID), records)
	}
	if !Retryable(err) {
		return nil, FromBackend, err
	}

	records, found, serr := s.watchlistMirror(profileID)
	if serr != nil {
		return nil, FromMirror, serr
	}
	if !found {
		return nil, FromMirror, err
	}
	return records, FromMirror, nil
}

func (s *Syncer) WatchHistory(ctx context.Context, profileID string) ([]HistoryRecord, Source, error) {
	items, err := s.client.WatchHistory(ctx, profileID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		records := make([]HistoryRecord, 0, len(items))
		for _, item := range items {
			records = append(records, HistoryRecord{WatchHistoryResponse: item, Synced: true})
		}
		queue, qerr := s.queue()
		if qerr != nil {
			return nil, FromBackend, qerr
		}
		for _, w := range queue {
			if w.ProfileID == profileID {
				records = applyToHistory(records, w)
			}
		}
		return records, FromBackend, s.store.Put(WatchHistoryKey(profileID), records)
	}
	if !Retryable(err) {
		return nil, FromBackend, err
	}

	records, found, serr := s.historyMirror(profileID)
	if serr != nil {
		return nil, FromMirror, serr
	}
	if !found {
		return nil, FromMirror, err
	}
	return records, FromMirror, nil
}

// ContinueWatching is not mirrored on its own. Offline it is derived from the
// history mirror with the backend's rules.
func (s *Syncer) ContinueWatching(ctx context.Context, profileID string) ([]HistoryRecord, Source, error) {
	items, err := s.client.ContinueWatching(ctx, profileID)
	if err == nil {
		records := make([]HistoryRecord, 0, len(items))
		for _, item := range items {
			records = append(records, HistoryRecord{WatchHistoryResponse: item, Synced: true})
		}
		return records, FromBackend, nil
	}
	if !Retryable(err) {
		return nil, FromBackend, err
	}

	s.mu.Lock()
	history, found, serr := s.historyMirror(profileID)
	s.mu.Unlock()
	if serr != nil {
		return nil, FromMirror, serr
	}
	if !found {
		return nil, FromMirror, err
	}

	out := make([]HistoryRecord, 0, ContinueWatchingLimit)
	for _, r := range history {
		if r.Completed {
			continue
		}
		out = append(out, r)
		if len(out) == ContinueWatchingLimit {
			break
		}
	}
	return out, FromMirror, nil
}

func (s *Syncer) AddToWatchlist(ctx context.Context, profileID, contentID string) (Result, error) {
	return s.write(ctx, PendingWrite{Kind: WriteWatchlistAdd, ProfileID: profileID, ContentID: contentID})
}

// RemoveFromWatchlist takes the external content id or the content item id.
func (s *Syncer) RemoveFromWatchlist(ctx context.Context, profileID, ref string) (Result, error) {
	return s.write(ctx, PendingWrite{Kind: WriteWatchlistRemove, ProfileID: profileID, ContentID: ref})
}

func (s *Syncer) UpdateWatchHistory(ctx context.Context, profileID string, req request_models.WatchHistoryRequest) (Result, error) {
	return s.write(ctx, PendingWrite{
		Kind:            WriteHistory,
		ProfileID:       profileID,
		ContentID:       req.ContentID,
		WatchedDuration: req.WatchedDuration,
		Completed:       req.Completed,
	})
}

// Pending returns the queued writes, oldest first.
func (s *Syncer) Pending() ([]PendingWrite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue()
}

// Flush replays queued writes in order. Writes the backend accepts or
// rejects with a 4xx leave the queue; the first retryable failure stops the
// replay and is returned.
func (s *Syncer) Flush(ctx context.Context) (FlushResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx)
}

func (s *Syncer) flushLocked(ctx context.Context) (FlushResult, error) {
	var res FlushResult
	queue, err := s.queue()
	if err != nil {
		return res, err
	}

	var stop error
	for len(queue) > 0 {
		err := s.send(ctx, queue[0])
		if err != nil && Retryable(err) {
			stop = err
			break
		}
		if err != nil {
			res.Rejected++
		} else {
			res.Sent++
		}
		queue = queue[1:]
	}
	res.Remaining = len(queue)

	if err := s.store.Put(KeyPendingWrites, queue); err != nil {
		return res, err
	}
	return res, stop
}

func (s *Syncer) write(ctx context.Context, w PendingWrite) (Result, error) {
	w.ID = uuid.NewString()
	w.QueuedAt = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	queue, err := s.queue()
	if err != nil {
		return Failed, err
	}
	if len(queue) > 0 {
		if _, err := s.flushLocked(ctx); err != nil {
			if !Retryable(err) {
				return Failed, err
			}
			return s.deferWrite(w)
		}
	}

	err = s.send(ctx, w)
	switch {
	case err == nil:
		return Ok, nil
	case Retryable(err):
		return s.deferWrite(w)
	default:
		return Failed, err
	}
}

// send delivers w and folds the backend's answer into the mirror.
func (s *Syncer) send(ctx context.Context, w PendingWrite) error {
	switch w.Kind {
	case WriteWatchlistAdd:
		item, err := s.client.AddToWatchlist(ctx, w.ProfileID, w.ContentID)
		if err != nil {
			return err
		}
		records, _, err := s.watchlistMirror(w.ProfileID)
		if err != nil {
			return err
		}
		return s.store.Put(WatchlistKey(w.ProfileID), upsertWatchlist(records, WatchlistRecord{WatchlistItemResponse: *item, Synced: true}))

	case WriteWatchlistRemove:
		if err := s.client.RemoveFromWatchlist(ctx, w.ProfileID, w.ContentID); err != nil {
			return err
		}
		records, _, err := s.watchlistMirror(w.ProfileID)
		if err != nil {
			return err
		}
		return s.store.Put(WatchlistKey(w.ProfileID), applyToWatchlist(records, w))

	case WriteHistory:
		rec, err := s.client.UpdateWatchHistory(ctx, w.ProfileID, request_models.WatchHistoryRequest{
			ContentID:       w.ContentID,
			WatchedDuration: w.WatchedDuration,
			Completed:       w.Completed,
		})
		if err != nil {
			return err
		}
		records, _, err := s.historyMirror(w.ProfileID)
		if err != nil {
			return err
		}
		return s.store.Put(WatchHistoryKey(w.ProfileID), upsertHistory(records, HistoryRecord{WatchHistoryResponse: *rec, Synced: true}))
	}
	return nil
}

func (s *Syncer) deferWrite(w PendingWrite) (Result, error) {
	queue, err := s.queue()
	if err != nil {
		return Failed, err
	}
	if err := s.store.Put(KeyPendingWrites, append(queue, w)); err != nil {
		return Failed, err
	}

	switch w.Kind {
	case WriteWatchlistAdd, WriteWatchlistRemove:
		records, _, err := s.watchlistMirror(w.ProfileID)
		if err != nil {
			return Failed, err
		}
		err = s.store.Put(WatchlistKey(w.ProfileID), applyToWatchlist(records, w))
		if err != nil {
			return Failed, err
		}
	case WriteHistory:
		records, _, err := s.historyMirror(w.ProfileID)
		if err != nil {
			return Failed, err
		}
		err = s.store.Put(WatchHistoryKey(w.ProfileID), applyToHistory(records, w))
		if err != nil {
			return Failed, err
		}
	}
	return SyncPending, nil
}

func (s *Syncer) queue() ([]PendingWrite, error) {
	var queue []PendingWrite
	_, err := s.store.Get(KeyPendingWrites, &queue)
	return queue, err
}

func (s *Syncer) watchlistMirror(profileID string) ([]WatchlistRecord, bool, error) {
	var records []WatchlistRecord
	found, err := s.store.Get(WatchlistKey(profileID), &records)
	return records, found, err
}

func (s *Syncer) historyMirror(profileID string) ([]HistoryRecord, bool, error) {
	var records []HistoryRecord
	found, err := s.store.Get(WatchHistoryKey(profileID), &records)
	return records, found, err
}

// applyToWatchlist replays a queued watchlist write onto mirror records. A
// removal names the content either by external id or by content item id,
// matching what the backend accepts.
func applyToWatchlist(records []WatchlistRecord, w PendingWrite) []WatchlistRecord {
	switch w.Kind {
	case WriteWatchlistAdd:
		for _, r := range records {
			if r.ContentID == w.ContentID {
				return records
			}
		}
		return append(records, WatchlistRecord{
			WatchlistItemResponse: response_models.WatchlistItemResponse{
				ProfileID: w.ProfileID,
				ContentID: w.ContentID,
				AddedAt:   w.QueuedAt,
				Content: response_models.ContentItemResponse{
					ContentID: w.ContentID,
					Genres:    []string{},
				},
			},
		})
	case WriteWatchlistRemove:
		kept := records[:0]
		for _, r := range records {
			if r.ContentID == w.ContentID || (r.Content.ID != "" && r.Content.ID == w.ContentID) {
				continue
			}
			kept = append(kept, r)
		}
		return kept
	}
	return records
}

func upsertWatchlist(records []WatchlistRecord, rec WatchlistRecord) []WatchlistRecord {
	for i := range records {
		if records[i].ContentID == rec.ContentID {
			records[i] = rec
			return records
		}
	}
	return append(records, rec)
}

func applyToHistory(records []HistoryRecord, w PendingWrite) []HistoryRecord {
	rec := HistoryRecord{WatchHistoryResponse: response_models.WatchHistoryResponse{
		ProfileID:       w.ProfileID,
		ContentID:       w.ContentID,
		WatchedDuration: w.WatchedDuration,
		Completed:       w.Completed,
		WatchedAt:       w.QueuedAt,
		Content: response_models.ContentItemResponse{
			ContentID: w.ContentID,
			Genres:    []string{},
		},
	}}
	for _, r := range records {
		if r.ContentID == w.ContentID {
			rec.ID = r.ID
			rec.Content = r.Content
		}
	}
	return upsertHistory(records, rec)
}

// upsertHistory keeps one record per content id, most recent first.
func upsertHistory(records []HistoryRecord, rec HistoryRecord) []HistoryRecord {
	replaced := false
	for i := range records {
		if records[i].ContentID == rec.ContentID {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].WatchedAt.After(records[j].WatchedAt)
	})
	return records
}
