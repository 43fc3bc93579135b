package filewatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"mockview_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeHandler 收到一批去抖后的变更文件绝对路径
type ChangeHandler func(paths []string)

const DefaultDebounce = 500 * time.Millisecond

// Watch 监听目录下文件的写入、创建、删除与重命名，阻塞直到 ctx 结束
func Watch(ctx context.Context, dir string, debounce time.Duration, handler ChangeHandler) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve watch dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(absPath); err != nil {
		return fmt.Errorf("watch %s: %w", absPath, err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[event.Name] = struct{}{}
			// 防抖：编辑器保存通常会连续触发多次事件
			timer.Reset(debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})
			handler(paths)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("File watcher error", zap.String("dir", absPath), zap.Error(err))
		}
	}
}
