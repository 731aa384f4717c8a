package progression

import (
	"context"
	"sort"
	"sync"
)

// TestTrackStore is an in-memory track store for tests: same interface
// as the Postgres repo, including transaction semantics. A failed
// InUserTx callback leaves the stored tracks untouched, like a rolled
// back transaction would.
type TestTrackStore struct {
	mu     sync.Mutex
	tracks map[int]map[string]Track

	// UpsertErr makes every upsert fail, for exercising write failures.
	UpsertErr error
}

func NewTestTrackStore() *TestTrackStore {
	return &TestTrackStore{
		tracks: make(map[int]map[string]Track),
	}
}

// Put seeds a track.
func (s *TestTrackStore) Put(userID int, track Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracks[userID] == nil {
		s.tracks[userID] = make(map[string]Track)
	}
	s.tracks[userID][track.ProgramID] = track
}

func (s *TestTrackStore) GetTrack(_ context.Context, userID int, programID string) (*Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[userID][programID]
	if !ok {
		return nil, ErrTrackNotFound
	}
	return &track, nil
}

func (s *TestTrackStore) ListTracks(_ context.Context, userID int) ([]Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tracks []Track
	for _, track := range s.tracks[userID] {
		tracks = append(tracks, track)
	}
	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].ProgramID < tracks[j].ProgramID
	})
	return tracks, nil
}

func (s *TestTrackStore) UpsertTracks(_ context.Context, userID int, tracks []Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpsertErr != nil {
		return s.UpsertErr
	}
	if s.tracks[userID] == nil {
		s.tracks[userID] = make(map[string]Track)
	}
	for _, track := range tracks {
		s.tracks[userID][track.ProgramID] = track
	}
	return nil
}

func (s *TestTrackStore) InUserTx(ctx context.Context, userID int, fn func(ctx context.Context, tracks TrackTx) error) error {
	backup := s.snapshot()
	if err := fn(ctx, s); err != nil {
		s.restore(backup)
		return err
	}
	return nil
}

func (s *TestTrackStore) snapshot() map[int]map[string]Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	backup := make(map[int]map[string]Track, len(s.tracks))
	for userID, userTracks := range s.tracks {
		backup[userID] = make(map[string]Track, len(userTracks))
		for programID, track := range userTracks {
			backup[userID][programID] = track
		}
	}
	return backup
}

func (s *TestTrackStore) restore(backup map[int]map[string]Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks = backup
}
