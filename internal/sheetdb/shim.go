package sheetdb

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	TypeTrip  = "trip"
	TypeEntry = "entry"

	StatusSuccess = "success"
	StatusError   = "error"

	CodeNotFound = "not_found"
	CodeInvalid  = "invalid"

	DefaultLockTimeout = 10 * time.Second
)

// Request 一次垫片调用：action/type/id 来自查询参数，Body 来自 JSON 请求体
type Request struct {
	Action string
	Type   string
	ID     string
	Body   map[string]any
}

// Response 垫片响应，与远程表格脚本的 JSON 结构一致
type Response struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Record 表中的一行，key 为表头
type Record map[string]string

type Shim struct {
	wb          *Workbook
	lock        chan struct{}
	lockTimeout time.Duration
	now         func() time.Time
	newID       func() string
	log         *slog.Logger
}

type Option func(*Shim)

// WithLockTimeout d <= 0 时保持默认值
func WithLockTimeout(d time.Duration) Option {
	return func(s *Shim) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Shim) { s.log = l }
}

func New(wb *Workbook, opts ...Option) *Shim {
	s := &Shim{
		wb:          wb,
		lock:        make(chan struct{}, 1),
		lockTimeout: DefaultLockTimeout,
		now:         time.Now,
		newID:       uuid.NewString,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Shim) Workbook() *Workbook {
	return s.wb
}

// acquire 在超时内获取全局锁；超时后不加锁继续执行（尽力而为）
func (s *Shim) acquire(ctx context.Context) (locked bool, err error) {
	select {
	case s.lock <- struct{}{}:
		return true, nil
	default:
	}

	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case s.lock <- struct{}{}:
		return true, nil
	case <-timer.C:
		s.log.Warn("获取表格锁超时，继续执行", "timeout", s.lockTimeout.String())
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (s *Shim) release() {
	<-s.lock
}

// Handle 执行一次垫片调用，任何错误（包括 panic）都转成 error 响应
func (s *Shim) Handle(ctx context.Context, req Request) (resp Response) {
	locked, err := s.acquire(ctx)
	if err != nil {
		return exception(err)
	}
	if locked {
		defer s.release()
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("表格操作 panic", "action", req.Action, "panic", r)
			resp = exception(fmt.Errorf("%v", r))
		}
	}()

	switch req.Action {
	case ActionRead:
		resp, err = s.read(req)
	case ActionCreate:
		resp, err = s.create(req)
	case ActionUpdate:
		resp, err = s.update(req)
	case ActionDelete:
		resp, err = s.deleteTrip(req.ID)
	default:
		return Response{Status: StatusError, Error: "Invalid action"}
	}
	var tooLong *CellTooLongError
	if errors.As(err, &tooLong) {
		return failure(tooLong.Error(), CodeInvalid)
	}
	if err != nil {
		s.log.Error("表格操作失败", "action", req.Action, "type", req.Type, "error", err)
		return exception(err)
	}
	return resp
}

// CellTooLongError 单元格内容超过 excelize.TotalCellChars，excelize 会静默截断
type CellTooLongError struct {
	Column string
	Length int
}

func (e *CellTooLongError) Error() string {
	return fmt.Sprintf("%s exceeds %d characters (got %d)", e.Column, excelize.TotalCellChars, e.Length)
}

func checkCell(column, value string) error {
	if n := utf8.RuneCountInString(value); n > excelize.TotalCellChars {
		return &CellTooLongError{Column: column, Length: n}
	}
	return nil
}

func (s *Shim) read(req Request) (Response, error) {
	if req.Type == TypeEntry && req.ID != "" {
		return s.readEntry(req.ID)
	}
	if req.ID != "" {
		return s.readTripDetails(req.ID)
	}
	return s.readAll()
}

func (s *Shim) readAll() (Response, error) {
	lib := s.wb.Library()
	if lib == nil {
		return failure("Library sheet not found", ""), nil
	}
	rows, err := lib.Rows()
	if err != nil {
		return Response{}, err
	}
	data := make([]Record, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		data = append(data, toRecord(rows[0], rows[i], ""))
	}
	return Response{Status: StatusSuccess, Data: data}, nil
}

// readTripDetails Library 中的一行加上 Trip 表中 tripId 匹配的所有行
func (s *Shim) readTripDetails(id string) (Response, error) {
	lib := s.wb.Library()
	if lib == nil {
		return failure("Library sheet not found", ""), nil
	}
	rows, err := lib.Rows()
	if err != nil {
		return Response{}, err
	}
	if len(rows) == 0 {
		return failure("Trip not found", CodeNotFound), nil
	}
	idIndex := indexOf(rows[0], "id")
	if idIndex == -1 {
		return failure("id column not found in Library", ""), nil
	}

	var trip map[string]any
	for i := 1; i < len(rows); i++ {
		if rows[i][idIndex] == id {
			trip = map[string]any{}
			for k, v := range toRecord(rows[0], rows[i], "") {
				trip[k] = v
			}
			break
		}
	}
	if trip == nil {
		return failure("Trip not found", CodeNotFound), nil
	}

	entries := []Record{}
	if t := s.wb.Table(TripSheet); t != nil {
		entryRows, err := t.Rows()
		if err != nil {
			return Response{}, err
		}
		if len(entryRows) > 0 {
			fk := indexOf(entryRows[0], "tripId")
			if fk != -1 {
				for i := 1; i < len(entryRows); i++ {
					if entryRows[i][fk] == id {
						// 外键列对前端没有意义，去掉
						entries = append(entries, toRecord(entryRows[0], entryRows[i], "tripId"))
					}
				}
			}
		}
	}
	trip["entries"] = entries
	return Response{Status: StatusSuccess, Data: trip}, nil
}

func (s *Shim) readEntry(id string) (Response, error) {
	t := s.wb.Table(TripSheet)
	if t == nil {
		return failure("Entry not found", CodeNotFound), nil
	}
	rows, err := t.Rows()
	if err != nil {
		return Response{}, err
	}
	index, err := findRow(rows, id)
	if err != nil {
		return Response{}, err
	}
	if index == -1 {
		return failure("Entry not found", CodeNotFound), nil
	}
	return Response{Status: StatusSuccess, Data: toRecord(rows[0], rows[index], "")}, nil
}

func (s *Shim) create(req Request) (Response, error) {
	if req.Type != TypeEntry {
		lib := s.wb.Library()
		if lib == nil {
			return failure("Sheet not found", ""), nil
		}
		id, err := s.appendRow(lib, req.Body)
		if err != nil {
			return Response{}, err
		}
		return Response{Status: StatusSuccess, Message: "Trip created", ID: id}, nil
	}

	tripID := cast.ToString(req.Body["tripId"])
	exists, err := s.tripExists(tripID)
	if err != nil {
		return Response{}, err
	}
	if !exists {
		return failure("Trip not found", CodeNotFound), nil
	}

	t := s.wb.Table(TripSheet)
	if t == nil {
		if t, err = s.wb.CreateTable(TripSheet, TripHeader); err != nil {
			return Response{}, err
		}
	}
	id, err := s.appendRow(t, req.Body)
	if err != nil {
		return Response{}, err
	}
	return Response{Status: StatusSuccess, Message: "Entry created", ID: id}, nil
}

// appendRow 按表头顺序写一行，表头中没有的字段被忽略
func (s *Shim) appendRow(t *Table, body map[string]any) (string, error) {
	rows, err := t.Rows()
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("sheet %s has no header row", t.Name())
	}

	id := cast.ToString(body["id"])
	if id == "" {
		id = s.newID()
	}
	timestamp := s.timestamp()

	values := make([]interface{}, len(rows[0]))
	for i, header := range rows[0] {
		switch header {
		case "id":
			values[i] = id
		case "Timestamp", "createdAt", "updatedAt":
			values[i] = timestamp
		default:
			v := cast.ToString(body[header])
			if err := checkCell(header, v); err != nil {
				return "", err
			}
			values[i] = v
		}
	}
	if err := t.Append(len(rows), values); err != nil {
		return "", err
	}
	return id, s.wb.Save()
}

func (s *Shim) update(req Request) (Response, error) {
	t := s.wb.Library()
	skip := map[string]bool{"id": true, "Timestamp": true, "createdAt": true}
	if req.Type == TypeEntry {
		t = s.wb.Table(TripSheet)
		// 条目不能换到别的游记下
		skip["tripId"] = true
	}
	if t == nil {
		return failure("Sheet not found", ""), nil
	}

	id := cast.ToString(req.Body["id"])
	if id == "" {
		id = req.ID
	}
	rows, err := t.Rows()
	if err != nil {
		return Response{}, err
	}
	index, err := findRow(rows, id)
	if err != nil {
		return Response{}, err
	}
	if index == -1 {
		return failure("ID not found", CodeNotFound), nil
	}

	// 先整体校验，避免只写入一半
	for _, header := range rows[0] {
		if v, ok := req.Body[header]; ok && !skip[header] {
			if err := checkCell(header, cast.ToString(v)); err != nil {
				return Response{}, err
			}
		}
	}

	timestamp := s.timestamp()
	for col, header := range rows[0] {
		if header == "updatedAt" {
			if err := t.SetCell(index, col, timestamp); err != nil {
				return Response{}, err
			}
			continue
		}
		v, ok := req.Body[header]
		if skip[header] || !ok {
			continue
		}
		if err := t.SetCell(index, col, cast.ToString(v)); err != nil {
			return Response{}, err
		}
	}
	if err := s.wb.Save(); err != nil {
		return Response{}, err
	}

	msg := "Trip updated"
	if req.Type == TypeEntry {
		msg = "Entry updated"
	}
	return Response{Status: StatusSuccess, Message: msg}, nil
}

// deleteTrip 删除 Library 中的行，并级联删除 Trip 表中所有 tripId 匹配的行
func (s *Shim) deleteTrip(id string) (Response, error) {
	// 空 id 会匹配到 tripId 为空的条目
	if id == "" {
		return failure("Trip ID not found in Library", CodeNotFound), nil
	}
	lib := s.wb.Library()
	if lib == nil {
		return failure("Library sheet not found", ""), nil
	}

	deleted := false
	rows, err := lib.Rows()
	if err != nil {
		return Response{}, err
	}
	if len(rows) > 0 {
		if idIndex := indexOf(rows[0], "id"); idIndex != -1 {
			for i := len(rows) - 1; i >= 1; i-- {
				if rows[i][idIndex] == id {
					if err := lib.DeleteRow(i); err != nil {
						return Response{}, err
					}
					deleted = true
					break
				}
			}
		}
	}

	if t := s.wb.Table(TripSheet); t != nil {
		entryRows, err := t.Rows()
		if err != nil {
			return Response{}, err
		}
		if len(entryRows) > 0 {
			if fk := indexOf(entryRows[0], "tripId"); fk != -1 {
				// 从下往上删，下标不会错位
				for i := len(entryRows) - 1; i >= 1; i-- {
					if entryRows[i][fk] == id {
						if err := t.DeleteRow(i); err != nil {
							return Response{}, err
						}
					}
				}
			}
		}
	}

	if err := s.wb.Save(); err != nil {
		return Response{}, err
	}
	if !deleted {
		return failure("Trip ID not found in Library", CodeNotFound), nil
	}
	return Response{Status: StatusSuccess, Message: "Trip and associated entries deleted"}, nil
}

func (s *Shim) tripExists(id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	lib := s.wb.Library()
	if lib == nil {
		return false, nil
	}
	rows, err := lib.Rows()
	if err != nil {
		return false, err
	}
	index, err := findRow(rows, id)
	return index != -1, err
}

func (s *Shim) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// findRow 逐行查找 id 列等于 id 的行，返回在 rows 中的下标，找不到为 -1
func findRow(rows [][]string, id string) (int, error) {
	if len(rows) == 0 {
		return -1, nil
	}
	idIndex := indexOf(rows[0], "id")
	if idIndex == -1 {
		return -1, fmt.Errorf("column 'id' not found in sheet")
	}
	for i := 1; i < len(rows); i++ {
		if rows[i][idIndex] == id {
			return i, nil
		}
	}
	return -1, nil
}

func toRecord(header, row []string, omit string) Record {
	r := make(Record, len(header))
	for i, h := range header {
		if h == "" || h == omit {
			continue
		}
		if i < len(row) {
			r[h] = row[i]
		} else {
			r[h] = ""
		}
	}
	return r
}

func failure(msg, code string) Response {
	return Response{Status: StatusError, Message: msg, Code: code}
}

func exception(err error) Response {
	return Response{Status: StatusError, Error: err.Error()}
}
