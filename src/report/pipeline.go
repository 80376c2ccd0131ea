package report

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"BookingInsights/src/config"
	"BookingInsights/src/datasource/file"
	"BookingInsights/src/processor"
	"BookingInsights/src/render"
	"BookingInsights/src/storage"
)

// Summary 一次运行得到的全部汇总结果
type Summary struct {
	RunID    string
	Rows     int
	Hotels   []processor.CategoryCount
	Demand   processor.MonthlyDemand
	Stays    processor.StaysImputation
	Children []processor.CancellationShare
	Shares   []processor.SegmentShare
	Rates    []processor.SegmentRate
	Charts   []string // 已生成的图表路径，按生成顺序
	Workbook string
}

// Pipeline 报告流水线：加载 -> 派生列 -> 统计 -> 图表 -> 工作簿
// 同一时间只允许一次运行
type Pipeline struct {
	cfg    *config.Config
	dcfg   *config.DataConfig
	logger *storage.Logger
	out    io.Writer
	mu     sync.Mutex
}

func NewPipeline(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger, out io.Writer) *Pipeline {
	return &Pipeline{cfg: cfg, dcfg: dcfg, logger: logger, out: out}
}

// NotFoundMessage 数据文件缺失时给用户的提示
func NotFoundMessage(path string) string {
	return fmt.Sprintf("❌ Error: '%s' not found. Please make sure the file is in the correct directory.", path)
}

// Run 完整运行一次，阻塞直到上一次运行结束
func (p *Pipeline) Run() (*Summary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.run()
}

// TryRun 已有运行进行中时直接返回 ran=false
func (p *Pipeline) TryRun() (summary *Summary, ran bool, err error) {
	if !p.mu.TryLock() {
		p.logger.Warning("上一次报告仍在生成，跳过本次触发")
		return nil, false, nil
	}
	defer p.mu.Unlock()
	summary, err = p.run()
	return summary, true, err
}

func (p *Pipeline) run() (*Summary, error) {
	runID := uuid.NewString()
	t1 := time.Now()
	p.logger.Info(fmt.Sprintf("[%s] 开始生成报告, 数据文件: %s", runID, p.cfg.Dataset))

	table, err := p.load()
	if err != nil {
		p.logger.Error(fmt.Sprintf("[%s] 加载数据失败: %v", runID, err))
		return nil, err
	}
	p.logger.Info(fmt.Sprintf("[%s] 已加载 %d 行", runID, table.Len()))
	fmt.Fprintln(p.out, "✅ Dataset loaded successfully!")
	fmt.Fprintln(p.out)

	s := &Summary{RunID: runID, Rows: table.Len()}
	pr := printer{w: p.out}

	s.Hotels = processor.HotelCounts(table)
	pr.hotelCounts(s.Hotels)

	table.OrderMonths()
	s.Demand = processor.Demand(table)
	pr.demand(s.Demand)

	s.Stays = processor.ImputeTotalStays(table)
	pr.stays(s.Stays)
	p.logger.Debug(fmt.Sprintf("[%s] total_stays 中位数 %v, 填充 %d 个缺失值", runID, s.Stays.Median, s.Stays.Filled))

	s.Children = processor.ChildrenCancellations(table)
	pr.children(s.Children)

	if err := p.charts(table, s, pr); err != nil {
		p.logger.Error(fmt.Sprintf("[%s] 生成图表失败: %v", runID, err))
		return s, err
	}

	if p.cfg.Workbook != "" {
		path := filepath.Join(p.cfg.OutputDir, p.cfg.Workbook)
		if err := SaveWorkbook(s, path); err != nil {
			p.logger.Error(fmt.Sprintf("[%s] 导出工作簿失败: %v", runID, err))
			return s, err
		}
		s.Workbook = path
		pr.workbook(path)
	}

	p.logger.Info(fmt.Sprintf("[%s] 报告生成完毕, 用时: %v", runID, time.Since(t1)))
	return s, nil
}

func (p *Pipeline) load() (*processor.Table, error) {
	bookings, err := file.LoadBookings(p.cfg.Dataset, file.Options{
		SheetName: p.cfg.SheetName,
		Encoding:  p.cfg.Encoding,
		Columns:   p.dcfg.ColumnMap(),
	})
	if err != nil {
		return nil, err
	}
	return processor.NewTable(bookings), nil
}

// chartStep 每张图各自读取一次表
type chartStep struct {
	title string
	draw  func() (string, error)
}

func (p *Pipeline) charts(t *processor.Table, s *Summary, pr printer) error {
	dir := p.cfg.OutputDir
	th := processor.NewThresholds(p.dcfg)

	initial := []chartStep{
		{"Cancellations by Month", func() (string, error) {
			return render.CancellationsByMonth(dir, processor.CancellationsByMonth(t))
		}},
		{"Average Total Stays vs. Number of Adults", func() (string, error) {
			return render.StaysByAdults(dir, processor.StaysByAdults(t, th))
		}},
	}
	extra := []chartStep{
		{"Distribution of Bookings by Market Segment", func() (string, error) {
			s.Shares = processor.SegmentShares(t)
			return render.SegmentShare(dir, s.Shares)
		}},
		{"Cancellation Rate by Market Segment", func() (string, error) {
			s.Rates = processor.SegmentCancellationRates(t)
			return render.SegmentCancellationRates(dir, s.Rates)
		}},
		{"Average Daily Rate (ADR) by Month and Hotel Type", func() (string, error) {
			return render.ADRByMonth(dir, processor.ADRByMonth(t, th))
		}},
	}

	pr.heading("## Q5: Generating Initial Visualizations")
	if err := p.drawAll(initial, s, pr); err != nil {
		return err
	}
	pr.done("✅ Initial plots have been generated.")

	pr.heading("## Generating Extra Graphs")
	if err := p.drawAll(extra, s, pr); err != nil {
		return err
	}
	pr.done("✅ Extra graphs have been generated.")
	return nil
}

// drawAll 按顺序逐张生成，没有数据的图表跳过并记录警告
func (p *Pipeline) drawAll(steps []chartStep, s *Summary, pr printer) error {
	for _, step := range steps {
		path, err := step.draw()
		if errors.Is(err, render.ErrNoData) {
			p.logger.Warning(fmt.Sprintf("[%s] %s 没有可绘制的数据, 已跳过", s.RunID, step.title))
			pr.chartSkipped(step.title)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", step.title, err)
		}
		s.Charts = append(s.Charts, path)
		pr.chartSaved(step.title, path)
	}
	return nil
}
