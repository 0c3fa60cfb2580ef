package autosave

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const delay = 30 * time.Millisecond

type saveCall struct {
	entryID string
	content string
}

type fakeSaver struct {
	mu     sync.Mutex
	calls  []saveCall
	err    error
	block  chan struct{}       // 非 nil 时保存会阻塞到关闭
	clean  func(string) string // 模拟服务端清洗
	stored map[string]string
}

func (f *fakeSaver) SaveEntryContent(ctx context.Context, entryID, content string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, saveCall{entryID, content})
	block, err, clean := f.block, f.err, f.clean
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	if clean != nil {
		content = clean(content)
	}
	f.mu.Lock()
	if f.stored == nil {
		f.stored = map[string]string{}
	}
	f.stored[entryID] = content
	f.mu.Unlock()
	return content, nil
}

func (f *fakeSaver) Stored(entryID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored[entryID]
}

func (f *fakeSaver) unblock() {
	f.mu.Lock()
	close(f.block)
	f.block = nil
	f.mu.Unlock()
}

func (f *fakeSaver) Calls() []saveCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]saveCall(nil), f.calls...)
}

func newSession(t *testing.T, saver Saver, opts ...Option) *Session {
	s := New(saver, append([]Option{WithDelay(delay)}, opts...)...)
	t.Cleanup(s.Close)
	return s
}

func TestDebouncedSave(t *testing.T) {
	saver := &fakeSaver{}
	s := newSession(t, saver)
	s.Select("e1", "<p>a</p>")
	require.Equal(t, StatusSaved, s.Status())

	s.Edit("<p>ab</p>")
	s.Edit("<p>abc</p>")
	require.Equal(t, StatusSaving, s.Status())

	require.Eventually(t, func() bool { return s.Status() == StatusSaved }, time.Second, 5*time.Millisecond)
	require.Equal(t, []saveCall{{"e1", "<p>abc</p>"}}, saver.Calls())
	persisted, ok := s.Persisted("e1")
	require.True(t, ok)
	require.Equal(t, "<p>abc</p>", persisted)
}

func TestEditBackToPersisted(t *testing.T) {
	saver := &fakeSaver{}
	s := newSession(t, saver)
	s.Select("e1", "same")
	s.Edit("changed")
	s.Edit("same")
	require.Equal(t, StatusSaved, s.Status())

	time.Sleep(3 * delay)
	require.Empty(t, saver.Calls())
}

func TestSelectCancelsPending(t *testing.T) {
	saver := &fakeSaver{}
	s := newSession(t, saver)
	s.Select("e1", "a")
	s.Edit("a2")
	s.Select("e2", "b")
	require.Equal(t, StatusSaved, s.Status())
	require.Equal(t, "b", s.Content())

	time.Sleep(3 * delay)
	require.Empty(t, saver.Calls())
}

func TestSaveFailure(t *testing.T) {
	saver := &fakeSaver{err: errors.New("boom")}
	var mu sync.Mutex
	var seen []Status
	s := newSession(t, saver, WithStatusFunc(func(_ string, st Status, _ error) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	}))
	s.Select("e1", "a")
	s.Edit("b")

	require.Eventually(t, func() bool { return s.Status() == StatusError }, time.Second, 5*time.Millisecond)
	require.EqualError(t, s.Err(), "boom")

	// 不自动重试
	time.Sleep(3 * delay)
	require.Len(t, saver.Calls(), 1)
	persisted, _ := s.Persisted("e1")
	require.Equal(t, "a", persisted)

	mu.Lock()
	require.Equal(t, []Status{StatusSaved, StatusSaving, StatusError}, seen)
	mu.Unlock()
}

func TestLateResultForOtherEntry(t *testing.T) {
	saver := &fakeSaver{block: make(chan struct{})}
	s := newSession(t, saver)
	s.Select("e1", "a")
	s.Edit("a2")
	require.Eventually(t, func() bool { return len(saver.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	s.Select("e2", "b")
	s.Edit("b2")
	require.Equal(t, StatusSaving, s.Status())

	// e1 的保存这时才完成，不能影响 e2 的状态
	saver.unblock()

	require.Eventually(t, func() bool {
		c, _ := s.Persisted("e1")
		return c == "a2"
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, "e2", s.EntryID())

	require.Eventually(t, func() bool { return s.Status() == StatusSaved }, time.Second, 5*time.Millisecond)
	require.Equal(t, saveCall{"e2", "b2"}, saver.Calls()[1])

	// 切回 e1 时使用已保存的内容
	s.Select("e1", "a")
	require.Equal(t, "a2", s.Content())
}

func TestFlush(t *testing.T) {
	saver := &fakeSaver{}
	s := New(saver, WithDelay(time.Hour))
	defer s.Close()

	require.NoError(t, s.Flush(context.Background()))
	s.Select("e1", "a")
	s.Edit("b")
	require.NoError(t, s.Flush(context.Background()))
	require.Equal(t, StatusSaved, s.Status())
	require.Equal(t, []saveCall{{"e1", "b"}}, saver.Calls())

	require.NoError(t, s.Flush(context.Background()))
	require.Len(t, saver.Calls(), 1)
}

func TestFlushAfterFailure(t *testing.T) {
	saver := &fakeSaver{err: errors.New("offline")}
	s := New(saver, WithDelay(time.Hour))
	defer s.Close()

	s.Select("e1", "a")
	s.Edit("b")
	require.Error(t, s.Flush(context.Background()))
	require.Equal(t, StatusError, s.Status())

	saver.mu.Lock()
	saver.err = nil
	saver.mu.Unlock()
	require.NoError(t, s.Flush(context.Background()))
	require.Equal(t, StatusSaved, s.Status())
}

func TestEditWithoutSelection(t *testing.T) {
	saver := &fakeSaver{}
	s := newSession(t, saver)
	s.Edit("x")
	require.Equal(t, StatusSaved, s.Status())
	time.Sleep(3 * delay)
	require.Empty(t, saver.Calls())
}

func TestClose(t *testing.T) {
	saver := &fakeSaver{}
	s := New(saver, WithDelay(delay))
	s.Select("e1", "a")
	s.Edit("b")
	s.Close()
	time.Sleep(3 * delay)
	require.Empty(t, saver.Calls())
}

func TestRevertWhileSaveInFlight(t *testing.T) {
	saver := &fakeSaver{block: make(chan struct{})}
	s := newSession(t, saver)
	s.Select("e1", "a")
	s.Edit("b")
	require.Eventually(t, func() bool { return len(saver.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	// "b" 还在保存中，改回 "a" 仍然需要再保存一次
	s.Edit("a")
	require.Equal(t, StatusSaving, s.Status())
	saver.unblock()

	require.Eventually(t, func() bool {
		return len(saver.Calls()) == 2 && s.Status() == StatusSaved
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, []saveCall{{"e1", "b"}, {"e1", "a"}}, saver.Calls())
	require.Equal(t, "a", saver.Stored("e1"))
	persisted, _ := s.Persisted("e1")
	require.Equal(t, "a", persisted)
	require.NoError(t, s.Flush(context.Background()))
	require.Len(t, saver.Calls(), 2)
}

func TestStaleResultRearmsWhenBufferDiffers(t *testing.T) {
	saver := &fakeSaver{block: make(chan struct{})}
	s := New(saver, WithDelay(time.Hour))
	defer s.Close()
	s.Select("e1", "a")
	s.Edit("b")

	done := make(chan error, 1)
	go func() { done <- s.Flush(context.Background()) }()
	require.Eventually(t, func() bool { return len(saver.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	// 重新选中同一条目会让进行中的结果过期，缓冲区回到旧内容
	s.Select("e1", "a")
	saver.unblock()
	require.NoError(t, <-done)

	// 服务端已经是 "b"，缓冲区是 "a"，必须重新进入 saving
	require.Equal(t, StatusSaving, s.Status())
	require.NoError(t, s.Flush(context.Background()))
	require.Equal(t, "a", saver.Stored("e1"))
	require.Equal(t, StatusSaved, s.Status())
}

func TestReconcileWithStoredContent(t *testing.T) {
	saver := &fakeSaver{clean: func(c string) string { return strings.ReplaceAll(c, " & ", " &amp; ") }}
	s := newSession(t, saver)
	s.Select("e1", "<p>x</p>")
	s.Edit("<p>Fish & chips</p>")

	require.Eventually(t, func() bool { return s.Status() == StatusSaved && len(saver.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	persisted, _ := s.Persisted("e1")
	require.Equal(t, "<p>Fish &amp; chips</p>", persisted)

	// 原文和清洗后的内容都视为已保存
	s.Edit("<p>Fish & chips</p>")
	require.Equal(t, StatusSaved, s.Status())
	s.Edit("<p>Fish &amp; chips</p>")
	require.Equal(t, StatusSaved, s.Status())
	time.Sleep(3 * delay)
	require.Len(t, saver.Calls(), 1)

	s.Select("e2", "y")
	s.Select("e1", "<p>stale</p>")
	require.Equal(t, "<p>Fish &amp; chips</p>", s.Content())
}
