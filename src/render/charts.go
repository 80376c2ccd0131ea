// Package render 将汇总结果绘制为 PNG 图表，每个函数只负责一张图
package render

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"BookingInsights/src/model"
	"BookingInsights/src/processor"
)

// ErrNoData 没有可绘制的数据
var ErrNoData = errors.New("no data to plot")

// 图表文件名，按生成顺序编号
const (
	FileCancellationsByMonth = "01_cancellations_by_month.png"
	FileStaysByAdults        = "02_stays_vs_adults.png"
	FileSegmentShare         = "03_market_segment_share.png"
	FileSegmentCancellation  = "04_cancellation_rate_by_segment.png"
	FileADRByMonth           = "05_adr_by_month.png"
)

// CancellationsByMonth 按月份分组的柱状图，未取消与已取消并排
func CancellationsByMonth(dir string, data []processor.MonthCancellations) (string, error) {
	total := 0
	notCanceled := make(plotter.Values, len(data))
	canceled := make(plotter.Values, len(data))
	labels := make([]string, len(data))
	for i, d := range data {
		notCanceled[i] = float64(d.NotCanceled)
		canceled[i] = float64(d.Canceled)
		labels[i] = d.Month.String()
		total += d.NotCanceled + d.Canceled
	}
	if total == 0 {
		return "", fmt.Errorf("cancellations by month: %w", ErrNoData)
	}

	p := newPlot("Cancellations by Month", "Month", "Number of Bookings")
	w := vg.Points(14)

	no, err := plotter.NewBarChart(notCanceled, w)
	if err != nil {
		return "", err
	}
	no.LineStyle.Width = vg.Length(0)
	no.Color = plotutil.Color(0)
	no.Offset = -w / 2

	yes, err := plotter.NewBarChart(canceled, w)
	if err != nil {
		return "", err
	}
	yes.LineStyle.Width = vg.Length(0)
	yes.Color = plotutil.Color(1)
	yes.Offset = w / 2

	p.Add(no, yes)
	p.Legend.Add("Canceled: No", no)
	p.Legend.Add("Canceled: Yes", yes)
	p.Legend.Top = true
	p.NominalX(labels...)
	rotateXTicks(p)

	return save(p, 12, 6, dir, FileCancellationsByMonth)
}

// StaysByAdults 各成人数对应平均入住晚数的折线图
func StaysByAdults(dir string, points []processor.Point) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("stays by adults: %w", ErrNoData)
	}

	p := newPlot("Average Total Stays vs. Number of Adults", "Number of Adults", "Average Total Stay (nights)")
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = pt.X
		xys[i].Y = pt.Y
	}
	line, marks, err := plotter.NewLinePoints(xys)
	if err != nil {
		return "", err
	}
	line.Color = plotutil.Color(0)
	marks.Color = plotutil.Color(0)
	marks.Shape = draw.CircleGlyph{}
	p.Add(line, marks)

	return save(p, 12, 6, dir, FileStaysByAdults)
}

// SegmentCancellationRates 各细分市场取消率柱状图，数据已按降序排列
func SegmentCancellationRates(dir string, rates []processor.SegmentRate) (string, error) {
	if len(rates) == 0 {
		return "", fmt.Errorf("segment cancellation rates: %w", ErrNoData)
	}

	values := make(plotter.Values, len(rates))
	labels := make([]string, len(rates))
	for i, r := range rates {
		values[i] = r.CancelRate
		labels[i] = r.Segment
	}

	p := newPlot("Cancellation Rate by Market Segment", "Market Segment", "Cancellation Rate (%)")
	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return "", err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(2)
	p.Add(bars)
	p.NominalX(labels...)
	rotateXTicks(p)

	return save(p, 12, 7, dir, FileSegmentCancellation)
}

// LegendTitleHotelType ADR 图例的首行，gonum/plot 的图例没有标题，用一个无图标的条目代替
const LegendTitleHotelType = "Hotel Type"

// legendEntry 一条图例
type legendEntry struct {
	label  string
	thumbs []plot.Thumbnailer
}

// titledLegend 在图例条目前加上标题行
func titledLegend(title string, entries []legendEntry) []legendEntry {
	return append([]legendEntry{{label: title}}, entries...)
}

// ADRByMonth 每个酒店类型一条线的月度平均 ADR
func ADRByMonth(dir string, series []processor.HotelSeries) (string, error) {
	p := newPlot("Average Daily Rate (ADR) by Month and Hotel Type", "Month", "Average Daily Rate (ADR)")

	var entries []legendEntry
	for i, s := range series {
		if len(s.Months) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Months))
		for j, m := range s.Months {
			xys[j].X = monthX(m)
			xys[j].Y = s.Means[j]
		}
		line, marks, err := plotter.NewLinePoints(xys)
		if err != nil {
			return "", err
		}
		line.Color = plotutil.Color(i)
		marks.Color = plotutil.Color(i)
		marks.Shape = draw.CircleGlyph{}
		p.Add(line, marks)
		entries = append(entries, legendEntry{label: s.Hotel, thumbs: []plot.Thumbnailer{line, marks}})
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("adr by month: %w", ErrNoData)
	}

	for _, e := range titledLegend(LegendTitleHotelType, entries) {
		p.Legend.Add(e.label, e.thumbs...)
	}
	p.Legend.Top = true
	p.NominalX(model.MonthLabels()...)
	rotateXTicks(p)

	return save(p, 14, 7, dir, FileADRByMonth)
}

// monthX 月份在类别坐标轴上的位置，NominalX 的刻度从 0 开始
func monthX(m model.Month) float64 { return float64(m - 1) }

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func rotateXTicks(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

// save 写入 dir/name，宽高单位为英寸
func save(p *plot.Plot, width, height float64, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := p.Save(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, path); err != nil {
		return "", fmt.Errorf("保存图表 %s 失败: %w", name, err)
	}
	return path, nil
}
