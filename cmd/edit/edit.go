// Package edit 在本地编辑器里编辑一个条目，保存文件即自动同步到服务端
package edit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"travel-journal/internal/autosave"
	"travel-journal/internal/client"
	"travel-journal/internal/global/httpclient"
	"travel-journal/internal/global/logger"
	"travel-journal/internal/model"

	"github.com/fsnotify/fsnotify"
	"github.com/go-extras/cobraflags"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

const (
	apiFlag   = "api"
	entryFlag = "entry"
	fileFlag  = "file"
	delayFlag = "delay"
)

var flags = map[string]cobraflags.Flag{
	apiFlag: &cobraflags.StringFlag{
		Name:  apiFlag,
		Value: "http://localhost:8080/api",
		Usage: "Base URL of the journal API including the route prefix",
	},
	entryFlag: &cobraflags.StringFlag{
		Name:  entryFlag,
		Value: "",
		Usage: "ID of the entry to edit (required)",
	},
	fileFlag: &cobraflags.StringFlag{
		Name:  fileFlag,
		Value: "",
		Usage: "Local file to edit, defaults to <entry>.html",
	},
	delayFlag: &cobraflags.StringFlag{
		Name:  delayFlag,
		Value: autosave.DefaultDelay.String(),
		Usage: "Autosave debounce delay",
	},
}

func NewEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit an entry's content in a local file with autosave",
		RunE:  editCommand,
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func editCommand(cmd *cobra.Command, _ []string) error {
	entryID := flags[entryFlag].GetString()
	if entryID == "" {
		return errors.New("--entry is required")
	}
	path := flags[fileFlag].GetString()
	if path == "" {
		path = entryID + ".html"
	}
	delay, err := cast.ToDurationE(flags[delayFlag].GetString())
	if err != nil {
		return errors.Wrap(err, "invalid --delay")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.New(httpclient.New(0), flags[apiFlag].GetString())
	return Run(ctx, Options{
		API:     api,
		EntryID: entryID,
		Path:    path,
		Delay:   delay,
		Out:     cmd.OutOrStdout(),
		Log:     logger.New("Edit"),
	})
}

type API interface {
	autosave.Saver
	GetEntry(ctx context.Context, id string) (*model.Entry, error)
}

type Options struct {
	API     API
	EntryID string
	Path    string
	Delay   time.Duration
	Out     io.Writer
	Log     *slog.Logger
	// Ready 开始监听文件后关闭，测试用
	Ready chan struct{}
}

// Run 拉取条目写入文件并监听修改，ctx 结束时保存未同步的内容
func Run(ctx context.Context, o Options) error {
	if o.Out == nil {
		o.Out = io.Discard
	}
	if o.Log == nil {
		o.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	entry, err := o.API.GetEntry(ctx, o.EntryID)
	if err != nil {
		return errors.Wrap(err, "load entry")
	}
	if err := os.WriteFile(o.Path, []byte(entry.Content), 0o644); err != nil {
		return errors.Wrap(err, "write entry file")
	}

	session := autosave.New(o.API,
		autosave.WithDelay(o.Delay),
		autosave.WithLogger(o.Log),
		autosave.WithStatusFunc(func(id string, status autosave.Status, err error) {
			if err != nil {
				fmt.Fprintf(o.Out, "%s: %s (%v)\n", id, status, err)
				return
			}
			fmt.Fprintf(o.Out, "%s: %s\n", id, status)
		}),
	)
	defer session.Close()
	session.Select(entry.ID, entry.Content)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer watcher.Close()

	// 监听目录而不是文件，很多编辑器保存时是先写临时文件再改名
	abs, err := filepath.Abs(o.Path)
	if err != nil {
		return errors.Wrap(err, "resolve path")
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrap(err, "watch directory")
	}
	fmt.Fprintf(o.Out, "editing %s in %s, press Ctrl+C to stop\n", entry.ID, o.Path)
	if o.Ready != nil {
		close(o.Ready)
	}

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return session.Flush(flushCtx)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || (!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create)) {
				continue
			}
			data, err := os.ReadFile(abs)
			if err != nil {
				o.Log.Warn("读取文件失败", "path", abs, "error", err)
				continue
			}
			session.Edit(string(data))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.Log.Warn("文件监听出错", "error", err)
		}
	}
}
