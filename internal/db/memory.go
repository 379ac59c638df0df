package db

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps records in process. It backs DB_DRIVER=memory and the
// handler tests.
type MemoryStore struct {
	mu       sync.RWMutex
	chats    []Chat
	reports  []BeeTraffic
	rotation []CropRotation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) CreateChat(_ context.Context, chat *Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := chat.BeforeCreate(nil); err != nil {
		return &PersistenceError{Kind: KindChat, Op: "create", Err: err}
	}
	chat.ID = uint(len(s.chats) + 1)
	s.chats = append(s.chats, *chat)
	return nil
}

func (s *MemoryStore) ListChats(context.Context) ([]Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append(make([]Chat, 0, len(s.chats)), s.chats...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (s *MemoryStore) CreateBeeTraffic(_ context.Context, report *BeeTraffic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := report.BeforeCreate(nil); err != nil {
		return &PersistenceError{Kind: KindBeeTraffic, Op: "create", Err: err}
	}
	report.ID = uint(len(s.reports) + 1)
	s.reports = append(s.reports, *report)
	return nil
}

func (s *MemoryStore) ListBeeTraffic(context.Context) ([]BeeTraffic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]BeeTraffic, 0, len(s.reports)), s.reports...), nil
}

func (s *MemoryStore) CreateCropRotation(_ context.Context, plan *CropRotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := plan.BeforeCreate(nil); err != nil {
		return &PersistenceError{Kind: KindCropRotation, Op: "create", Err: err}
	}
	plan.ID = uint(len(s.rotation) + 1)
	s.rotation = append(s.rotation, *plan)
	return nil
}

func (s *MemoryStore) ListCropRotations(context.Context) ([]CropRotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]CropRotation, 0, len(s.rotation)), s.rotation...), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
