package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultReloadDebounce 快速连续保存时的合并间隔
const DefaultReloadDebounce = 200 * time.Millisecond

// MetricsWatcher 监视磁盘上的指标文件，变更后重新解析并投递新的注册表
//
// 监视的是文件所在目录而不是文件本身，编辑器"写临时文件再重命名"的保存方式也能被捕获。
// 解析失败的修改被忽略（记录警告），上一份有效注册表继续生效。
type MetricsWatcher struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger

	watcher *fsnotify.Watcher
	updates chan []Metric

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewMetricsWatcher 创建指标文件监视器，logger 可为 nil
func NewMetricsWatcher(path string, logger *zap.Logger) (*MetricsWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve metrics path %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &MetricsWatcher{
		path:     abs,
		debounce: DefaultReloadDebounce,
		logger:   logger.Named("metrics-watcher"),
		watcher:  w,
		updates:  make(chan []Metric, 1),
		done:     make(chan struct{}),
	}, nil
}

// Updates 返回新注册表的通道
// 通道容量为 1，消费方来不及读取时只保留最新一份
func (mw *MetricsWatcher) Updates() <-chan []Metric {
	return mw.updates
}

// Start 在后台协程中开始监视，ctx 取消后协程退出并关闭底层 watcher
func (mw *MetricsWatcher) Start(ctx context.Context) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	if mw.running {
		return
	}
	mw.running = true
	go mw.loop(ctx)
}

// Wait 阻塞直到后台协程退出
func (mw *MetricsWatcher) Wait() {
	<-mw.done
}

func (mw *MetricsWatcher) loop(ctx context.Context) {
	defer close(mw.done)
	defer mw.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != mw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(mw.debounce)
			} else {
				timer.Reset(mw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			mw.reload()

		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			mw.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (mw *MetricsWatcher) reload() {
	metrics, err := LoadMetricsFile(mw.path)
	if err != nil {
		mw.logger.Warn("ignoring invalid metrics update", zap.String("path", mw.path), zap.Error(err))
		return
	}
	mw.logger.Debug("metrics reloaded", zap.Int("count", len(metrics)))

	// 丢弃尚未被读取的旧值
	select {
	case <-mw.updates:
	default:
	}
	mw.updates <- metrics
}
