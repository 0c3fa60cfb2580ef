// Package sheet 通过表格垫片实现 store.Store
package sheet

import (
	"context"
	"log/slog"

	"travel-journal/internal/global/sentry/tracing"
	"travel-journal/internal/model"
	"travel-journal/internal/sheetdb"
	"travel-journal/internal/store"

	"github.com/pkg/errors"
)

// 远程表格脚本没有错误码时，靠这些消息识别“不存在”
var notFoundMessages = map[string]bool{
	"Trip not found":               true,
	"Entry not found":              true,
	"ID not found":                 true,
	"Trip ID not found in Library": true,
}

type Store struct {
	backend Backend
	log     *slog.Logger
}

func New(backend Backend, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{backend: backend, log: log}
}

func (s *Store) Name() string {
	return "sheet"
}

func (s *Store) call(ctx context.Context, req sheetdb.Request) (resp *sheetdb.Response, err error) {
	span := tracing.StartSpanFromContext(ctx, "sheet.shim", req.Action+" "+req.Type)
	defer func() { tracing.Finish(span, err) }()
	if span != nil {
		ctx = span.Context()
	}

	resp, err = s.backend.Call(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status == sheetdb.StatusSuccess {
		return resp, nil
	}

	msg := resp.Message
	if msg == "" {
		msg = resp.Error
	}
	if resp.Code == sheetdb.CodeNotFound || notFoundMessages[msg] {
		return nil, errors.Wrap(store.ErrNotFound, msg)
	}
	if resp.Code == sheetdb.CodeInvalid {
		return nil, errors.Wrap(store.ErrInvalid, msg)
	}
	s.log.Warn("表格垫片返回错误", "action", req.Action, "type", req.Type, "id", req.ID, "error", msg)
	return nil, errors.Errorf("shim %s failed: %s", req.Action, msg)
}

func (s *Store) ListTrips(ctx context.Context) ([]model.Trip, error) {
	resp, err := s.call(ctx, sheetdb.Request{Action: sheetdb.ActionRead})
	if err != nil {
		return nil, err
	}
	var rows []row
	if err := normalize(resp.Data, &rows); err != nil {
		return nil, err
	}
	trips := make([]model.Trip, 0, len(rows))
	for _, r := range rows {
		trips = append(trips, r.trip())
	}
	return trips, nil
}

func (s *Store) GetTrip(ctx context.Context, id string) (*model.Trip, error) {
	resp, err := s.call(ctx, sheetdb.Request{Action: sheetdb.ActionRead, ID: id})
	if err != nil {
		return nil, err
	}
	var r row
	if err := normalize(resp.Data, &r); err != nil {
		return nil, err
	}
	var entries []row
	if err := normalize(r["entries"], &entries); err != nil {
		return nil, err
	}

	trip := r.trip()
	trip.Entries = make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		trip.Entries = append(trip.Entries, e.entry(trip.ID))
	}
	return &trip, nil
}

func (s *Store) CreateTrip(ctx context.Context, trip *model.Trip) error {
	trip.EnsureID()
	resp, err := s.call(ctx, sheetdb.Request{
		Action: sheetdb.ActionCreate,
		Type:   sheetdb.TypeTrip,
		Body:   tripBody(trip),
	})
	if err != nil {
		return err
	}
	if resp.ID != "" {
		trip.ID = resp.ID
	}

	// 时间戳由垫片写入，读回来保持一致
	created, err := s.GetTrip(ctx, trip.ID)
	if err != nil {
		return err
	}
	trip.CreatedAt, trip.UpdatedAt = created.CreatedAt, created.UpdatedAt
	return nil
}

func (s *Store) UpdateTrip(ctx context.Context, id string, patch model.TripPatch) (*model.Trip, error) {
	_, err := s.call(ctx, sheetdb.Request{
		Action: sheetdb.ActionUpdate,
		Type:   sheetdb.TypeTrip,
		ID:     id,
		Body:   patchBody(id, patch.Fields()),
	})
	if err != nil {
		return nil, err
	}
	return s.GetTrip(ctx, id)
}

func (s *Store) DeleteTrip(ctx context.Context, id string) error {
	_, err := s.call(ctx, sheetdb.Request{Action: sheetdb.ActionDelete, ID: id})
	return err
}

func (s *Store) CreateEntry(ctx context.Context, entry *model.Entry) error {
	if entry.TripID == "" {
		return errors.Wrap(store.ErrInvalid, "entry without tripId")
	}
	entry.EnsureID()
	resp, err := s.call(ctx, sheetdb.Request{
		Action: sheetdb.ActionCreate,
		Type:   sheetdb.TypeEntry,
		Body:   entryBody(entry),
	})
	if err != nil {
		return err
	}
	if resp.ID != "" {
		entry.ID = resp.ID
	}
	return nil
}

func (s *Store) GetEntry(ctx context.Context, id string) (*model.Entry, error) {
	resp, err := s.call(ctx, sheetdb.Request{Action: sheetdb.ActionRead, Type: sheetdb.TypeEntry, ID: id})
	if err != nil {
		return nil, err
	}
	var r row
	if err := normalize(resp.Data, &r); err != nil {
		return nil, err
	}
	e := r.entry("")
	return &e, nil
}

func (s *Store) UpdateEntry(ctx context.Context, id string, patch model.EntryPatch) (*model.Entry, error) {
	_, err := s.call(ctx, sheetdb.Request{
		Action: sheetdb.ActionUpdate,
		Type:   sheetdb.TypeEntry,
		ID:     id,
		Body:   patchBody(id, patch.Fields()),
	})
	if err != nil {
		return nil, err
	}
	return s.GetEntry(ctx, id)
}

var _ store.Store = (*Store)(nil)
