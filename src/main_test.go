package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BookingInsights/src/config"
	"BookingInsights/src/datasource/file"
	"BookingInsights/src/report"
	"BookingInsights/src/storage"
)

const dataset = `hotel,is_canceled,lead_time,arrival_date_month,stays_in_weekend_nights,stays_in_week_nights,adults,children,market_segment,adr
Resort Hotel,0,10,July,1,2,2,0,Direct,100
City Hotel,1,4,August,0,2,1,1,Online TA,80
`

func setup(t *testing.T, withData bool) (*report.Pipeline, *config.Config, *storage.Logger) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Dataset = filepath.Join(dir, "hotel_bookings.csv")
	cfg.OutputDir = filepath.Join(dir, "output")
	cfg.LogName = filepath.Join(dir, "app.log")
	dcfg := config.DefaultData()
	if withData {
		require.NoError(t, os.WriteFile(cfg.Dataset, []byte(dataset), 0644))
	}

	logger, err := storage.NewLogger(cfg.LogName)
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })

	return report.NewPipeline(&cfg, &dcfg, logger, io.Discard), &cfg, logger
}

func TestRunOnceMissingDataset(t *testing.T) {
	p, cfg, logger := setup(t, false)

	err := runOnce(p, cfg, logger)
	assert.ErrorIs(t, err, file.ErrDatasetNotFound)

	logger.Fatal("首次生成报告失败，程序退出: " + err.Error())
	data, readErr := os.ReadFile(cfg.LogName)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "ERROR: ")
	assert.Contains(t, string(data), "FATAL: 首次生成报告失败")
}

// chanWriter 每次 Write 作为一条消息发送出去
type chanWriter chan string

func (w chanWriter) Write(b []byte) (int, error) {
	w <- string(b)
	return len(b), nil
}

func TestMirrorLog(t *testing.T) {
	_, _, logger := setup(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chanWriter, 4)
	go mirrorLog(ctx, logger.Subscribe(), out)

	logger.Warning("上一次报告仍在生成")
	select {
	case line := <-out:
		assert.True(t, strings.HasSuffix(line, "WARNING: 上一次报告仍在生成\n"), line)
	case <-time.After(2 * time.Second):
		t.Fatal("日志没有输出到终端")
	}
}

func TestRunOnce(t *testing.T) {
	p, cfg, logger := setup(t, true)

	require.NoError(t, runOnce(p, cfg, logger))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, cfg.Workbook))
}

func TestReloadOnHangup(t *testing.T) {
	p, cfg, logger := setup(t, true)

	// 先注册一个通道，避免 SIGHUP 的默认行为终止测试进程
	guard := make(chan os.Signal, 1)
	signal.Notify(guard, syscall.SIGHUP)
	defer signal.Stop(guard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reloadOnHangup(ctx, p, cfg, logger)

	workbook := filepath.Join(cfg.OutputDir, cfg.Workbook)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGHUP))
		time.Sleep(100 * time.Millisecond)
		if _, err := os.Stat(workbook); err == nil {
			return
		}
	}
	t.Fatal("SIGHUP 没有触发重新生成")
}
