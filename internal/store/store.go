// Package store 定义游记存储的统一接口
// 表格垫片（sheet）与关系型数据库（relational）两种后端都实现 Store
package store

import (
	"context"

	"travel-journal/internal/model"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrInvalid  = errors.New("invalid record")
)

type Store interface {
	// Name 后端名称，用于日志
	Name() string

	// ListTrips 返回所有游记，不含条目
	ListTrips(ctx context.Context) ([]model.Trip, error)
	// GetTrip 返回游记及其全部条目
	GetTrip(ctx context.Context, id string) (*model.Trip, error)
	// CreateTrip id 为空时生成，写入创建/更新时间
	CreateTrip(ctx context.Context, trip *model.Trip) error
	UpdateTrip(ctx context.Context, id string, patch model.TripPatch) (*model.Trip, error)
	// DeleteTrip 同时删除该游记下的所有条目
	DeleteTrip(ctx context.Context, id string) error

	// CreateEntry 所属游记不存在时返回 ErrNotFound
	CreateEntry(ctx context.Context, entry *model.Entry) error
	GetEntry(ctx context.Context, id string) (*model.Entry, error)
	UpdateEntry(ctx context.Context, id string, patch model.EntryPatch) (*model.Entry, error)
}

// IsNotFound 判断错误链中是否有 ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
