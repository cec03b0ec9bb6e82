// Package memory keeps every table in process memory. It implements the same
// repository interfaces as the gorm repositories, including the uniqueness
// and cascade rules the SQL schema enforces, and backs STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"streamflix/internal/models/db_models"
	"streamflix/internal/repositories"
)

type historyKey struct {
	profileID uuid.UUID
	contentID string
}

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users    map[uuid.UUID]db_models.User
	emails   map[string]uuid.UUID
	plans    map[string]db_models.Plan
	profiles map[uuid.UUID]db_models.Profile
	content  map[string]db_models.ContentItem
	// watchlist entries per profile, in insertion order
	watchlist map[uuid.UUID][]db_models.WatchlistEntry
	history   map[historyKey]db_models.WatchHistory

	seq int64
}

func NewStore() *Store {
	s := &Store{
		now:       time.Now,
		users:     make(map[uuid.UUID]db_models.User),
		emails:    make(map[string]uuid.UUID),
		plans:     make(map[string]db_models.Plan),
		profiles:  make(map[uuid.UUID]db_models.Profile),
		content:   make(map[string]db_models.ContentItem),
		watchlist: make(map[uuid.UUID][]db_models.WatchlistEntry),
		history:   make(map[historyKey]db_models.WatchHistory),
	}
	for _, p := range db_models.DefaultPlans() {
		s.plans[p.Code] = p
	}
	return s
}

// tick returns a strictly increasing nanosecond timestamp so that rows
// written back to back still sort in insertion order.
func (s *Store) tick() time.Time {
	t := s.now()
	if n := t.UnixNano(); n <= s.seq {
		t = time.Unix(0, s.seq+1)
	}
	s.seq = t.UnixNano()
	return t
}

type Users struct{ *Store }
type Plans struct{ *Store }
type Profiles struct{ *Store }
type WatchState struct{ *Store }

func (s *Store) Users() repositories.UserRepository             { return Users{s} }
func (s *Store) Plans() repositories.IPlanRepository            { return Plans{s} }
func (s *Store) Profiles() repositories.ProfileRepository       { return Profiles{s} }
func (s *Store) WatchState() repositories.WatchStateRepository { return WatchState{s} }

// ---- users ----

func (u Users) CreateWithProfile(ctx context.Context, user *db_models.User, profile *db_models.Profile) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := u.emails[key]; exists {
		return repositories.ErrDuplicate
	}

	user.Touch(u.tick())
	profile.OwnerID = user.ID
	profile.Touch(u.tick())

	stored := *user
	stored.Profiles = nil
	u.users[user.ID] = stored
	u.emails[key] = user.ID
	u.profiles[profile.ID] = *profile
	return nil
}

func (u Users) FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (u Users) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	id, ok := u.emails[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	user := u.users[id]
	return &user, nil
}

// ---- plans ----

func (p Plans) FindByCode(ctx context.Context, code string) (*db_models.Plan, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	plan, ok := p.plans[code]
	if !ok {
		return nil, nil
	}
	return &plan, nil
}

func (p Plans) GetAllPlans(ctx context.Context) ([]db_models.Plan, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	plans := make([]db_models.Plan, 0, len(p.plans))
	for _, plan := range p.plans {
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].SortOrder < plans[j].SortOrder })
	return plans, nil
}

// ---- profiles ----

func (s *Store) profilesOf(ownerID uuid.UUID) []db_models.Profile {
	var out []db_models.Profile
	for _, p := range s.profiles {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (p Profiles) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]db_models.Profile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.profilesOf(ownerID), nil
}

func (p Profiles) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return int64(len(p.profilesOf(ownerID))), nil
}

func (p Profiles) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Profile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	profile, ok := p.profiles[id]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

func (p Profiles) CreateWithinLimit(ctx context.Context, profile *db_models.Profile, max int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.users[profile.OwnerID]; !ok {
		return repositories.ErrNotFound
	}
	if len(p.profilesOf(profile.OwnerID)) >= max {
		return repositories.ErrProfileLimit
	}

	profile.Touch(p.tick())
	p.profiles[profile.ID] = *profile
	return nil
}

func (p Profiles) Update(ctx context.Context, profile *db_models.Profile) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored, ok := p.profiles[profile.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.Name = profile.Name
	stored.AvatarURL = profile.AvatarURL
	stored.IsKidsProfile = profile.IsKidsProfile
	stored.UpdatedAt = p.tick().UnixNano()
	p.profiles[profile.ID] = stored
	*profile = stored
	return nil
}

func (p Profiles) DeleteCascade(ctx context.Context, ownerID, profileID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.users[ownerID]; !ok {
		return repositories.ErrNotFound
	}
	profile, ok := p.profiles[profileID]
	if !ok || profile.OwnerID != ownerID {
		return repositories.ErrNotFound
	}
	if len(p.profilesOf(ownerID)) <= 1 {
		return repositories.ErrLastProfile
	}

	for key := range p.history {
		if key.profileID == profileID {
			delete(p.history, key)
		}
	}
	delete(p.watchlist, profileID)
	delete(p.profiles, profileID)
	return nil
}

// ---- watch state ----

func (w WatchState) SaveContentItem(ctx context.Context, item *db_models.ContentItem) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if stored, ok := w.content[item.ContentID]; ok {
		item.ID = stored.ID
		item.CreatedAt = stored.CreatedAt
	} else {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.CreatedAt = w.tick().UnixNano()
	}
	w.content[item.ContentID] = *item
	return nil
}

func (w WatchState) FindContentItem(ctx context.Context, id uuid.UUID) (*db_models.ContentItem, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, item := range w.content {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (w WatchState) FindContentItemByContentID(ctx context.Context, contentID string) (*db_models.ContentItem, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	item, ok := w.content[contentID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (w WatchState) AddToWatchlist(ctx context.Context, entry *db_models.WatchlistEntry) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, existing := range w.watchlist[entry.ProfileID] {
		if existing.ContentID == entry.ContentID {
			return false, nil
		}
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = w.tick().UnixNano()
	stored := *entry
	stored.Content = db_models.ContentItem{}
	w.watchlist[entry.ProfileID] = append(w.watchlist[entry.ProfileID], stored)
	return true, nil
}

func (s *Store) withContent(entry db_models.WatchlistEntry) db_models.WatchlistEntry {
	entry.Content = s.content[entry.ContentID]
	return entry
}

func (w WatchState) FindWatchlistEntry(ctx context.Context, profileID uuid.UUID, contentID string) (*db_models.WatchlistEntry, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, entry := range w.watchlist[profileID] {
		if entry.ContentID == contentID {
			found := w.withContent(entry)
			return &found, nil
		}
	}
	return nil, nil
}

func (w WatchState) ListWatchlist(ctx context.Context, profileID uuid.UUID) ([]db_models.WatchlistEntry, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	entries := make([]db_models.WatchlistEntry, 0, len(w.watchlist[profileID]))
	for _, entry := range w.watchlist[profileID] {
		entries = append(entries, w.withContent(entry))
	}
	return entries, nil
}

func (w WatchState) RemoveFromWatchlist(ctx context.Context, profileID uuid.UUID, contentID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries := w.watchlist[profileID]
	kept := entries[:0]
	for _, entry := range entries {
		if entry.ContentID != contentID {
			kept = append(kept, entry)
		}
	}
	if len(kept) == 0 {
		delete(w.watchlist, profileID)
		return nil
	}
	w.watchlist[profileID] = kept
	return nil
}

func (w WatchState) UpsertHistory(ctx context.Context, history *db_models.WatchHistory) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := historyKey{profileID: history.ProfileID, contentID: history.ContentID}
	stored, ok := w.history[key]
	if !ok {
		stored = db_models.WatchHistory{
			ID:        history.ID,
			ProfileID: history.ProfileID,
			ContentID: history.ContentID,
		}
		if stored.ID == uuid.Nil {
			stored.ID = uuid.New()
		}
	}
	stored.WatchedDuration = history.WatchedDuration
	stored.Completed = history.Completed
	stored.WatchedAt = history.WatchedAt
	w.history[key] = stored
	return nil
}

func (w WatchState) FindHistory(ctx context.Context, profileID uuid.UUID, contentID string) (*db_models.WatchHistory, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	history, ok := w.history[historyKey{profileID: profileID, contentID: contentID}]
	if !ok {
		return nil, nil
	}
	history.Content = w.content[contentID]
	return &history, nil
}

func (w WatchState) ListHistory(ctx context.Context, profileID uuid.UUID, incompleteOnly bool, limit int) ([]db_models.WatchHistory, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []db_models.WatchHistory
	for key, history := range w.history {
		if key.profileID != profileID || (incompleteOnly && history.Completed) {
			continue
		}
		history.Content = w.content[key.contentID]
		out = append(out, history)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WatchedAt.After(out[j].WatchedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
