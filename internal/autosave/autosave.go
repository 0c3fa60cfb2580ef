// Package autosave 编辑器的自动保存状态机
//
// 每次 Edit 都会重新开始防抖计时，计时结束后保存一次；
// 保存失败只进入 error 状态，不自动重试，下一次 Edit 会再次触发保存。
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Status string

const (
	StatusSaved  Status = "saved"
	StatusSaving Status = "saving"
	StatusError  Status = "error"
)

const DefaultDelay = 1500 * time.Millisecond

// Saver 持久化一个条目的内容，返回服务端实际保存的内容（可能经过清洗）
type Saver interface {
	SaveEntryContent(ctx context.Context, entryID, content string) (string, error)
}

// StatusFunc 状态变化回调，err 只在 StatusError 时非空
type StatusFunc func(entryID string, status Status, err error)

type Session struct {
	saver    Saver
	delay    time.Duration
	onStatus StatusFunc
	log      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	saveMu sync.Mutex // 同一时间只有一个保存请求，服务端按编辑顺序收到内容

	mu        sync.Mutex
	entryID   string
	buffer    string
	persisted map[string]string // 每个条目服务端最后一次确认保存的内容
	submitted map[string]string // 产生 persisted 的那次编辑内容，清洗前
	inflight  map[string]int    // 正在进行的保存数
	status    Status
	err       error
	timer     *time.Timer
	pending   bool
	gen       uint64 // 每次 Edit/Select 加一，用来丢弃过期的保存结果
	closed    bool
}

type Option func(*Session)

func WithDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

func WithStatusFunc(f StatusFunc) Option {
	return func(s *Session) { s.onStatus = f }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

func New(saver Saver, opts ...Option) *Session {
	s := &Session{
		saver:     saver,
		delay:     DefaultDelay,
		log:       slog.Default(),
		persisted: map[string]string{},
		submitted: map[string]string{},
		inflight:  map[string]int{},
		status:    StatusSaved,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Select 切换到另一个条目，丢弃未触发的保存
// 本会话保存过的条目使用缓存中的内容
func (s *Session) Select(entryID, content string) {
	s.mu.Lock()
	s.stopLocked()
	if cached, ok := s.persisted[entryID]; ok {
		content = cached
	} else {
		s.persisted[entryID] = content
	}
	s.entryID = entryID
	s.buffer = content
	notify := s.setLocked(StatusSaved, nil)
	s.mu.Unlock()
	notify()
}

// Edit 更新编辑缓冲区；内容和已保存的一致且没有进行中的保存时直接回到 saved
func (s *Session) Edit(content string) {
	s.mu.Lock()
	if s.closed || s.entryID == "" {
		s.mu.Unlock()
		return
	}
	s.buffer = content
	s.stopLocked()
	// 进行中的保存完成后服务端内容会变，不能只和旧的 persisted 比较
	if s.inflight[s.entryID] == 0 && s.matchesLocked(s.entryID, content) {
		notify := s.setLocked(StatusSaved, nil)
		s.mu.Unlock()
		notify()
		return
	}

	s.armLocked()
	notify := s.setLocked(StatusSaving, nil)
	s.mu.Unlock()
	notify()
}

// Flush 立即保存缓冲区中尚未确认保存的内容，包括上次保存失败的
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.entryID == "" || (!s.pending && s.matchesLocked(s.entryID, s.buffer)) {
		s.mu.Unlock()
		return nil
	}
	s.pending = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	gen := s.gen
	s.mu.Unlock()
	return s.save(ctx, gen)
}

func (s *Session) fire(gen uint64) error {
	return s.save(s.ctx, gen)
}

func (s *Session) save(ctx context.Context, gen uint64) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.gen || !s.pending {
		s.mu.Unlock()
		return nil
	}
	s.pending = false
	entryID, content := s.entryID, s.buffer
	s.inflight[entryID]++
	s.mu.Unlock()

	stored, err := s.saver.SaveEntryContent(ctx, entryID, content)
	if err != nil {
		s.log.Warn("自动保存失败", "entry_id", entryID, "error", err)
	}

	s.mu.Lock()
	s.inflight[entryID]--
	if err == nil {
		s.persisted[entryID] = stored
		s.submitted[entryID] = content
	}
	if s.closed || entryID != s.entryID {
		// 已切换到别的条目，只更新缓存
		s.mu.Unlock()
		return err
	}
	if gen != s.gen {
		// 保存期间又有修改：已有计时的交给计时器；
		// 否则缓冲区和服务端不一致时重新计时
		if !s.pending && s.inflight[entryID] == 0 && !s.matchesLocked(entryID, s.buffer) {
			s.stopLocked()
			s.armLocked()
			notify := s.setLocked(StatusSaving, nil)
			s.mu.Unlock()
			notify()
			return err
		}
		s.mu.Unlock()
		return err
	}
	var notify func()
	if err != nil {
		notify = s.setLocked(StatusError, err)
	} else {
		notify = s.setLocked(StatusSaved, nil)
	}
	s.mu.Unlock()
	notify()
	return err
}

// matchesLocked content 是否就是服务端当前保存的内容（清洗前或清洗后）
func (s *Session) matchesLocked(entryID, content string) bool {
	if content == s.persisted[entryID] {
		return true
	}
	submitted, ok := s.submitted[entryID]
	return ok && content == submitted
}

func (s *Session) armLocked() {
	gen := s.gen
	s.pending = true
	s.timer = time.AfterFunc(s.delay, func() {
		_ = s.fire(gen)
	})
}

// stopLocked 取消未触发的计时，并让进行中的保存结果过期
func (s *Session) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = false
	s.gen++
}

func (s *Session) setLocked(status Status, err error) func() {
	s.status, s.err = status, err
	f, entryID := s.onStatus, s.entryID
	if f == nil {
		return func() {}
	}
	return func() { f(entryID, status, err) }
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err 最近一次保存失败的错误
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) EntryID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entryID
}

func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

// Persisted 条目在服务端最后一次确认保存的内容
func (s *Session) Persisted(entryID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.persisted[entryID]
	return c, ok
}

// Close 停止计时器，进行中的保存会被取消
func (s *Session) Close() {
	s.mu.Lock()
	s.stopLocked()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}
