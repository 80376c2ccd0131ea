// monitor.go
package file

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultQuietPeriod 最后一次写入后等待的时间，之后才认为文件已写完
const DefaultQuietPeriod = 500 * time.Millisecond

// FileMonitor 监听数据文件所在目录，文件被写入或替换时回调
type FileMonitor struct {
	watchDir string
	target   string
	watcher  *fsnotify.Watcher
	quiet    time.Duration
	lastMod  time.Time
	lastSize int64
	mu       sync.Mutex
}

// NewFileMonitor 为数据文件创建监控器
// 监听的是目录而不是文件本身，编辑器先删后建的保存方式也能收到事件
// quiet <= 0 时使用 DefaultQuietPeriod
func NewFileMonitor(filePath string, quiet time.Duration) (*FileMonitor, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(abs)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("监听目录 %s 失败: %w", dir, err)
	}

	m := &FileMonitor{
		watchDir: dir,
		target:   abs,
		watcher:  watcher,
		quiet:    quiet,
	}
	if info, err := os.Stat(abs); err == nil {
		m.lastMod, m.lastSize = info.ModTime(), info.Size()
	}
	return m, nil
}

// Watch 阻塞直到 ctx 结束或监听出错
// 每次写入都会重新计时，文件在 quiet 时间内没有新的写入才回调一次；
// handler 在当前 goroutine 中同步执行
func (m *FileMonitor) Watch(ctx context.Context, handler func(string)) error {
	timer := time.NewTimer(m.quiet)
	timer.Stop()
	defer timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != m.target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(m.quiet)
			pending = timer.C
		case <-pending:
			pending = nil
			if m.changed() {
				handler(m.target)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// changed 修改时间更新或大小变化时返回 true，并记录本次状态
func (m *FileMonitor) changed() bool {
	info, err := os.Stat(m.target)
	if err != nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !info.ModTime().After(m.lastMod) && info.Size() == m.lastSize {
		return false
	}
	m.lastMod, m.lastSize = info.ModTime(), info.Size()
	return true
}

// Close 停止监听
func (m *FileMonitor) Close() error {
	return m.watcher.Close()
}

// SetupSignalHandler 设置信号处理器
func SetupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		fmt.Printf("\nReceived signal: %v, shutting down...\n", sig)
		cancel()
	}()
}
