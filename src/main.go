package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"

	"BookingInsights/src/config"
	"BookingInsights/src/datasource/file"
	"BookingInsights/src/report"
	"BookingInsights/src/storage"
)

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	dataJsonFile := "dataconfig.json"
	cfg, dcfg, err := config.LoadConfig(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	pipeline := report.NewPipeline(cfg, dcfg, logger, os.Stdout)

	// 首次运行，数据文件缺失或格式错误直接退出
	if err := runOnce(pipeline, cfg, logger); err != nil {
		logger.Fatal("首次生成报告失败，程序退出: " + err.Error())
		if errors.Is(err, file.ErrDatasetNotFound) {
			fmt.Println(report.NotFoundMessage(cfg.Dataset))
		} else {
			fmt.Printf("❌ Error: %v\n", err)
		}
		logger.Close()
		os.Exit(1)
	}

	switch cfg.Mode {
	case config.ModeWatch:
		if err := watch(pipeline, cfg, logger); err != nil {
			logger.Error("文件监听失败: " + err.Error())
			logger.Close()
			os.Exit(1)
		}
	case config.ModeSchedule:
		if err := schedule(pipeline, cfg, logger); err != nil {
			logger.Error("创建定时任务失败: " + err.Error())
			logger.Close()
			os.Exit(1)
		}
	}
}

func runOnce(p *report.Pipeline, cfg *config.Config, logger *storage.Logger) error {
	_, err := p.Run()
	rotate(cfg, logger)
	return err
}

// rerun 由文件变化、定时任务或 SIGHUP 触发，失败只记录日志
func rerun(p *report.Pipeline, cfg *config.Config, logger *storage.Logger, reason string) {
	logger.Info("重新生成报告: " + reason)
	if _, ran, err := p.TryRun(); err != nil {
		logger.Error("重新生成报告失败: " + err.Error())
	} else if !ran {
		return
	}
	rotate(cfg, logger)
}

func rotate(cfg *config.Config, logger *storage.Logger) {
	if err := logger.CheckRotate(cfg); err != nil {
		log.Println("日志轮转失败:", err)
	}
}

// watch 数据文件变化时重新生成，Ctrl+C 退出
func watch(p *report.Pipeline, cfg *config.Config, logger *storage.Logger) error {
	monitor, err := file.NewFileMonitor(cfg.Dataset, time.Duration(cfg.WatchQuiet))
	if err != nil {
		return err
	}
	defer monitor.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	file.SetupSignalHandler(cancel)
	go reloadOnHangup(ctx, p, cfg, logger)
	go mirrorLog(ctx, logger.Subscribe(), os.Stderr)

	logger.Info(fmt.Sprintf("文件监听已启动: %s，按Ctrl+C退出", cfg.Dataset))
	return monitor.Watch(ctx, func(path string) {
		rerun(p, cfg, logger, "文件已更新 "+path)
	})
}

// schedule 按 check_interval 定时重新生成
func schedule(p *report.Pipeline, cfg *config.Config, logger *storage.Logger) error {
	c := cron.New()

	interval := time.Duration(cfg.CheckInterval).String() // 例如 "1h0m0s"
	cronSpec := fmt.Sprintf("@every %s", interval)

	err := c.AddFunc(cronSpec, func() {
		rerun(p, cfg, logger, "定时任务 "+cronSpec)
	})
	if err != nil {
		return err
	}

	c.Start()
	defer c.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reloadOnHangup(ctx, p, cfg, logger)
	go mirrorLog(ctx, logger.Subscribe(), os.Stderr)

	logger.Info(fmt.Sprintf("定时任务已启动(间隔: %v)，按Ctrl+C退出", interval))
	waitForShutdown(logger)
	return nil
}

// reloadOnHangup 收到 SIGHUP 时重新打开日志文件(配合外部 logrotate)并立即重新生成一次
func reloadOnHangup(ctx context.Context, p *report.Pipeline, cfg *config.Config, logger *storage.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := logger.Reopen(cfg.LogName); err != nil {
				log.Println("重新打开日志失败:", err)
			}
			rerun(p, cfg, logger, "收到 SIGHUP")
		}
	}
}

// mirrorLog 常驻模式下把日志同时输出到终端
func mirrorLog(ctx context.Context, logChan <-chan string, w io.Writer) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-logChan:
			if _, err := io.WriteString(w, msg); err != nil {
				return
			}
		}
	}
}

func waitForShutdown(logger *storage.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("Received signal: " + sig.String() + ", shutting down...")
}
