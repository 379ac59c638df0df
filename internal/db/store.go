package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Store is the persistence gateway used by the HTTP layer. Records are
// write-once: there is no update or delete.
type Store interface {
	CreateChat(ctx context.Context, chat *Chat) error
	ListChats(ctx context.Context) ([]Chat, error)

	CreateBeeTraffic(ctx context.Context, report *BeeTraffic) error
	ListBeeTraffic(ctx context.Context) ([]BeeTraffic, error)

	CreateCropRotation(ctx context.Context, plan *CropRotation) error
	ListCropRotations(ctx context.Context) ([]CropRotation, error)

	Ping(ctx context.Context) error
}

// PersistenceError reports a failed store operation for one record kind.
type PersistenceError struct {
	Kind string
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// GormStore implements Store on top of gorm. Every call runs on its own
// session bound to ctx, so the pooled connection goes back as soon as the
// call returns.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) session(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// create inserts rec in its own transaction; gorm rolls it back when the
// callback returns an error.
func create[T any](ctx context.Context, s *GormStore, kind string, rec *T) error {
	err := s.session(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(rec).Error
	})
	if err != nil {
		return &PersistenceError{Kind: kind, Op: "create", Err: err}
	}
	return nil
}

func list[T any](ctx context.Context, s *GormStore, kind, order string) ([]T, error) {
	records := make([]T, 0)
	if err := s.session(ctx).Order(order).Find(&records).Error; err != nil {
		return nil, &PersistenceError{Kind: kind, Op: "list", Err: err}
	}
	return records, nil
}

func (s *GormStore) CreateChat(ctx context.Context, chat *Chat) error {
	return create(ctx, s, KindChat, chat)
}

// ListChats keeps conversation order: oldest message first.
func (s *GormStore) ListChats(ctx context.Context) ([]Chat, error) {
	return list[Chat](ctx, s, KindChat, "timestamp asc, id asc")
}

func (s *GormStore) CreateBeeTraffic(ctx context.Context, report *BeeTraffic) error {
	return create(ctx, s, KindBeeTraffic, report)
}

func (s *GormStore) ListBeeTraffic(ctx context.Context) ([]BeeTraffic, error) {
	return list[BeeTraffic](ctx, s, KindBeeTraffic, "id asc")
}

func (s *GormStore) CreateCropRotation(ctx context.Context, plan *CropRotation) error {
	return create(ctx, s, KindCropRotation, plan)
}

func (s *GormStore) ListCropRotations(ctx context.Context) ([]CropRotation, error) {
	return list[CropRotation](ctx, s, KindCropRotation, "id asc")
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying database connection: %w", err)
	}
	return sqlDB.Close()
}
