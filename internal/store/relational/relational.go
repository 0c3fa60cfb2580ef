// Package relational 基于 gorm 的 store.Store 实现
package relational

import (
	"context"

	"travel-journal/internal/model"
	"travel-journal/internal/store"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Models 需要迁移的表
var Models = []any{
	&model.Trip{},
	&model.Entry{},
}

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Name() string {
	return "relational"
}

// Migrate 建表
func (s *Store) Migrate() error {
	return errors.Wrap(s.db.AutoMigrate(Models...), "auto migrate")
}

func (s *Store) ListTrips(ctx context.Context) ([]model.Trip, error) {
	var trips []model.Trip
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&trips).Error
	return trips, errors.Wrap(err, "list trips")
}

func (s *Store) GetTrip(ctx context.Context, id string) (*model.Trip, error) {
	var trip model.Trip
	err := s.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&trip).Error
	if err != nil {
		return nil, wrap(err, "get trip")
	}
	return &trip, nil
}

func (s *Store) CreateTrip(ctx context.Context, trip *model.Trip) error {
	trip.EnsureID()
	// 条目单独创建
	return errors.Wrap(s.db.WithContext(ctx).Omit("Entries").Create(trip).Error, "create trip")
}

func (s *Store) UpdateTrip(ctx context.Context, id string, patch model.TripPatch) (*model.Trip, error) {
	var trip model.Trip
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&trip).Error; err != nil {
		return nil, wrap(err, "update trip")
	}
	if fields := patch.Fields(); len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(&trip).Updates(columns(fields)).Error; err != nil {
			return nil, errors.Wrap(err, "update trip")
		}
	}
	return s.GetTrip(ctx, id)
}

// DeleteTrip 先删条目再删游记，在同一个事务里
func (s *Store) DeleteTrip(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", id).Delete(&model.Entry{}).Error; err != nil {
			return errors.Wrap(err, "delete entries")
		}
		res := tx.Where("id = ?", id).Delete(&model.Trip{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete trip")
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(store.ErrNotFound, "trip %s", id)
		}
		return nil
	})
}

func (s *Store) CreateEntry(ctx context.Context, entry *model.Entry) error {
	if entry.TripID == "" {
		return errors.Wrap(store.ErrInvalid, "entry without tripId")
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Trip{}).Where("id = ?", entry.TripID).Count(&count).Error; err != nil {
		return errors.Wrap(err, "check trip")
	}
	if count == 0 {
		return errors.Wrapf(store.ErrNotFound, "trip %s", entry.TripID)
	}
	entry.EnsureID()
	return errors.Wrap(s.db.WithContext(ctx).Create(entry).Error, "create entry")
}

func (s *Store) GetEntry(ctx context.Context, id string) (*model.Entry, error) {
	var entry model.Entry
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, wrap(err, "get entry")
	}
	return &entry, nil
}

func (s *Store) UpdateEntry(ctx context.Context, id string, patch model.EntryPatch) (*model.Entry, error) {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return entry, nil
	}
	if err := s.db.WithContext(ctx).Model(entry).Updates(columns(patch.Fields())).Error; err != nil {
		return nil, errors.Wrap(err, "update entry")
	}
	patch.Apply(entry)
	return entry, nil
}

var naming = schema.NamingStrategy{SingularTable: true}

// columns json 字段名转成列名，Updates 用 map 时空字符串也会写入
func columns(fields map[string]string) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[naming.ColumnName("", k)] = v
	}
	return out
}

func wrap(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(store.ErrNotFound, msg)
	}
	return errors.Wrap(err, msg)
}

var _ store.Store = (*Store)(nil)
