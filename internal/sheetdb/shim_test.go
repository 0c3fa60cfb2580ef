package sheetdb

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

func newTestShim(t *testing.T, opts ...Option) *Shim {
	t.Helper()
	wb, err := NewMemoryWorkbook()
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })

	s := New(wb, opts...)
	seq := 0
	s.now = func() time.Time { return fixedNow }
	s.newID = func() string {
		seq++
		return fmt.Sprintf("gen-%d", seq)
	}
	return s
}

func createTrip(t *testing.T, s *Shim, body map[string]any) string {
	t.Helper()
	resp := s.Handle(context.Background(), Request{Action: ActionCreate, Body: body})
	require.Equal(t, StatusSuccess, resp.Status, resp.Message+resp.Error)
	require.Equal(t, "Trip created", resp.Message)
	return resp.ID
}

func createEntry(t *testing.T, s *Shim, body map[string]any) string {
	t.Helper()
	resp := s.Handle(context.Background(), Request{Action: ActionCreate, Type: TypeEntry, Body: body})
	require.Equal(t, StatusSuccess, resp.Status, resp.Message+resp.Error)
	require.Equal(t, "Entry created", resp.Message)
	return resp.ID
}

func TestCreateThenReadTrip(t *testing.T) {
	s := newTestShim(t)
	id := createTrip(t, s, map[string]any{
		"title":    "Kyoto",
		"location": "Japan",
		"distance": 1200,
		"unknown":  "ignored",
	})
	require.Equal(t, "gen-1", id)

	resp := s.Handle(context.Background(), Request{Action: ActionRead, ID: id})
	require.Equal(t, StatusSuccess, resp.Status)
	trip := resp.Data.(map[string]any)
	require.Equal(t, "Kyoto", trip["title"])
	require.Equal(t, "Japan", trip["location"])
	require.Equal(t, "1200", trip["distance"])
	require.Equal(t, fixedNow.Format(time.RFC3339Nano), trip["createdAt"])
	require.Equal(t, fixedNow.Format(time.RFC3339Nano), trip["updatedAt"])
	require.NotContains(t, trip, "unknown")
	require.Empty(t, trip["entries"])
}

func TestCreateKeepsGivenID(t *testing.T) {
	s := newTestShim(t)
	id := createTrip(t, s, map[string]any{"id": "trip-a", "title": "A"})
	require.Equal(t, "trip-a", id)
}

func TestReadAll(t *testing.T) {
	s := newTestShim(t)
	createTrip(t, s, map[string]any{"title": "A"})
	createTrip(t, s, map[string]any{"title": "B"})

	resp := s.Handle(context.Background(), Request{Action: ActionRead})
	require.Equal(t, StatusSuccess, resp.Status)
	rows := resp.Data.([]Record)
	require.Len(t, rows, 2)
	require.Equal(t, "A", rows[0]["title"])
	require.Equal(t, "B", rows[1]["title"])
}

func TestReadTripJoinsEntries(t *testing.T) {
	s := newTestShim(t)
	a := createTrip(t, s, map[string]any{"title": "A"})
	b := createTrip(t, s, map[string]any{"title": "B"})
	createEntry(t, s, map[string]any{"tripId": a, "city": "Osaka", "date": "2024-05-01", "content": "<p>1</p>"})
	createEntry(t, s, map[string]any{"tripId": b, "city": "Paris"})
	createEntry(t, s, map[string]any{"tripId": a, "city": "Nara"})

	resp := s.Handle(context.Background(), Request{Action: ActionRead, ID: a})
	require.Equal(t, StatusSuccess, resp.Status)
	entries := resp.Data.(map[string]any)["entries"].([]Record)
	require.Len(t, entries, 2)
	require.Equal(t, "Osaka", entries[0]["city"])
	require.Equal(t, "<p>1</p>", entries[0]["content"])
	require.Equal(t, "Nara", entries[1]["city"])
	require.NotContains(t, entries[0], "tripId")
}

func TestReadMissingTrip(t *testing.T) {
	s := newTestShim(t)
	resp := s.Handle(context.Background(), Request{Action: ActionRead, ID: "nope"})
	require.Equal(t, StatusError, resp.Status)
	require.Equal(t, CodeNotFound, resp.Code)
	require.Equal(t, "Trip not found", resp.Message)
}

func TestReadEntry(t *testing.T) {
	s := newTestShim(t)
	trip := createTrip(t, s, map[string]any{"title": "A"})
	id := createEntry(t, s, map[string]any{"tripId": trip, "city": "Lyon"})

	resp := s.Handle(context.Background(), Request{Action: ActionRead, Type: TypeEntry, ID: id})
	require.Equal(t, StatusSuccess, resp.Status)
	entry := resp.Data.(Record)
	require.Equal(t, "Lyon", entry["city"])
	require.Equal(t, trip, entry["tripId"])

	resp = s.Handle(context.Background(), Request{Action: ActionRead, Type: TypeEntry, ID: "nope"})
	require.Equal(t, CodeNotFound, resp.Code)
}

func TestCreateEntryChecksTrip(t *testing.T) {
	s := newTestShim(t)
	resp := s.Handle(context.Background(), Request{
		Action: ActionCreate,
		Type:   TypeEntry,
		Body:   map[string]any{"tripId": "missing", "city": "Rome"},
	})
	require.Equal(t, StatusError, resp.Status)
	require.Equal(t, CodeNotFound, resp.Code)
	require.Equal(t, "Trip not found", resp.Message)
}

func TestCreateEntryRecreatesTripSheet(t *testing.T) {
	s := newTestShim(t)
	trip := createTrip(t, s, map[string]any{"title": "A"})
	require.NoError(t, s.Workbook().File().DeleteSheet(TripSheet))
	require.Nil(t, s.Workbook().Table(TripSheet))

	createEntry(t, s, map[string]any{"tripId": trip, "city": "Oslo"})
	rows, err := s.Workbook().Table(TripSheet).Rows()
	require.NoError(t, err)
	require.Equal(t, TripHeader, rows[0])
	require.Len(t, rows, 2)
}

func TestUpdateTrip(t *testing.T) {
	s := newTestShim(t)
	id := createTrip(t, s, map[string]any{"title": "A", "author": "me"})

	later := fixedNow.Add(time.Hour)
	s.now = func() time.Time { return later }
	resp := s.Handle(context.Background(), Request{
		Action: ActionUpdate,
		Body:   map[string]any{"id": id, "title": "B", "createdAt": "x"},
	})
	require.Equal(t, StatusSuccess, resp.Status)
	require.Equal(t, "Trip updated", resp.Message)

	trip := s.Handle(context.Background(), Request{Action: ActionRead, ID: id}).Data.(map[string]any)
	require.Equal(t, "B", trip["title"])
	require.Equal(t, "me", trip["author"])
	require.Equal(t, fixedNow.Format(time.RFC3339Nano), trip["createdAt"])
	require.Equal(t, later.Format(time.RFC3339Nano), trip["updatedAt"])
}

func TestUpdateEntryContent(t *testing.T) {
	s := newTestShim(t)
	trip := createTrip(t, s, map[string]any{"title": "A"})
	id := createEntry(t, s, map[string]any{"tripId": trip, "city": "Bern", "content": "<p>old</p>"})

	resp := s.Handle(context.Background(), Request{
		Action: ActionUpdate,
		Type:   TypeEntry,
		ID:     id,
		Body:   map[string]any{"content": "<p>new</p>", "tripId": "other"},
	})
	require.Equal(t, StatusSuccess, resp.Status)
	require.Equal(t, "Entry updated", resp.Message)

	entry := s.Handle(context.Background(), Request{Action: ActionRead, Type: TypeEntry, ID: id}).Data.(Record)
	require.Equal(t, "<p>new</p>", entry["content"])
	require.Equal(t, "Bern", entry["city"])
	require.Equal(t, trip, entry["tripId"])
}

func TestUpdateMissing(t *testing.T) {
	s := newTestShim(t)
	resp := s.Handle(context.Background(), Request{Action: ActionUpdate, Body: map[string]any{"id": "nope"}})
	require.Equal(t, StatusError, resp.Status)
	require.Equal(t, CodeNotFound, resp.Code)
	require.Equal(t, "ID not found", resp.Message)
}

func TestDeleteCascades(t *testing.T) {
	s := newTestShim(t)
	a := createTrip(t, s, map[string]any{"title": "A"})
	b := createTrip(t, s, map[string]any{"title": "B"})
	createEntry(t, s, map[string]any{"tripId": a, "city": "1"})
	createEntry(t, s, map[string]any{"tripId": b, "city": "2"})
	createEntry(t, s, map[string]any{"tripId": a, "city": "3"})
	createEntry(t, s, map[string]any{"tripId": a, "city": "4"})

	resp := s.Handle(context.Background(), Request{Action: ActionDelete, ID: a})
	require.Equal(t, StatusSuccess, resp.Status)

	resp = s.Handle(context.Background(), Request{Action: ActionRead, ID: a})
	require.Equal(t, CodeNotFound, resp.Code)

	rows, err := s.Workbook().Table(TripSheet).Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, b, rows[1][1])

	entries := s.Handle(context.Background(), Request{Action: ActionRead, ID: b}).Data.(map[string]any)["entries"].([]Record)
	require.Len(t, entries, 1)
}

func TestDeleteMissing(t *testing.T) {
	s := newTestShim(t)
	resp := s.Handle(context.Background(), Request{Action: ActionDelete, ID: "nope"})
	require.Equal(t, StatusError, resp.Status)
	require.Equal(t, CodeNotFound, resp.Code)
	require.Equal(t, "Trip ID not found in Library", resp.Message)
}

func TestInvalidAction(t *testing.T) {
	s := newTestShim(t)
	resp := s.Handle(context.Background(), Request{Action: "drop"})
	require.Equal(t, StatusError, resp.Status)
	require.Equal(t, "Invalid action", resp.Error)
}

func TestLegacySheet1(t *testing.T) {
	s := newTestShim(t)
	f := s.Workbook().File()
	require.NoError(t, f.SetSheetName(LibrarySheet, legacyLibrarySheet))

	id := createTrip(t, s, map[string]any{"title": "Old"})
	resp := s.Handle(context.Background(), Request{Action: ActionRead, ID: id})
	require.Equal(t, StatusSuccess, resp.Status)
}

func TestLockTimeoutProceeds(t *testing.T) {
	s := newTestShim(t, WithLockTimeout(20*time.Millisecond))
	s.lock <- struct{}{}
	defer s.release()

	resp := s.Handle(context.Background(), Request{Action: ActionRead})
	require.Equal(t, StatusSuccess, resp.Status)
}

func TestLockCancelled(t *testing.T) {
	s := newTestShim(t, WithLockTimeout(time.Second))
	s.lock <- struct{}{}
	defer s.release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp := s.Handle(ctx, Request{Action: ActionRead})
	require.Equal(t, StatusError, resp.Status)
	require.Equal(t, context.Canceled.Error(), resp.Error)
}

func TestPersistedWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.xlsx")

	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	s := New(wb)
	id := createTrip(t, s, map[string]any{"title": "Saved"})
	createEntry(t, s, map[string]any{"tripId": id, "city": "Turin"})
	require.NoError(t, wb.Close())

	wb, err = OpenWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()
	resp := New(wb).Handle(context.Background(), Request{Action: ActionRead, ID: id})
	require.Equal(t, StatusSuccess, resp.Status)
	trip := resp.Data.(map[string]any)
	require.Equal(t, "Saved", trip["title"])
	require.Len(t, trip["entries"], 1)
}

func TestCellTooLong(t *testing.T) {
	s := newTestShim(t)
	trip := createTrip(t, s, map[string]any{"title": "A"})
	entry := createEntry(t, s, map[string]any{"tripId": trip, "city": "Oslo", "content": "<p>short</p>"})

	// 多字节字符按字符数计算
	long := strings.Repeat("雪", excelize.TotalCellChars+1)
	resp := s.Handle(context.Background(), Request{
		Action: ActionUpdate,
		Type:   TypeEntry,
		Body:   map[string]any{"id": entry, "city": "Bergen", "content": long},
	})
	require.Equal(t, StatusError, resp.Status)
	require.Equal(t, CodeInvalid, resp.Code)
	require.Contains(t, resp.Message, "content")

	// 整行都没有写入
	got := s.Handle(context.Background(), Request{Action: ActionRead, Type: TypeEntry, ID: entry}).Data.(Record)
	require.Equal(t, "<p>short</p>", got["content"])
	require.Equal(t, "Oslo", got["city"])

	resp = s.Handle(context.Background(), Request{
		Action: ActionCreate,
		Type:   TypeEntry,
		Body:   map[string]any{"tripId": trip, "city": "Oslo", "content": long},
	})
	require.Equal(t, CodeInvalid, resp.Code)
	rows, err := s.Workbook().Table(TripSheet).Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	exact := strings.Repeat("a", excelize.TotalCellChars)
	resp = s.Handle(context.Background(), Request{
		Action: ActionUpdate,
		Type:   TypeEntry,
		Body:   map[string]any{"id": entry, "content": exact},
	})
	require.Equal(t, StatusSuccess, resp.Status)
}

func TestDeleteEmptyID(t *testing.T) {
	s := newTestShim(t)
	createTrip(t, s, map[string]any{"title": "A"})
	// 通过外键校验建不出 tripId 为空的条目，直接写表
	tbl := s.Workbook().Table(TripSheet)
	require.NoError(t, tbl.Append(1, []interface{}{"orphan", "", "Oslo", "", ""}))

	resp := s.Handle(context.Background(), Request{Action: ActionDelete})
	require.Equal(t, StatusError, resp.Status)
	require.Equal(t, CodeNotFound, resp.Code)

	rows, err := tbl.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "orphan", rows[1][0])
}
