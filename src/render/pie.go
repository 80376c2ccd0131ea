package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"BookingInsights/src/processor"
)

// sliceStyle 黑色描边的扇区
func sliceStyle(col drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   col,
		StrokeColor: drawing.ColorBlack,
		StrokeWidth: 1,
	}
}

// SegmentShare 各细分市场预订占比的饼图，标签带一位小数的百分比
func SegmentShare(dir string, shares []processor.SegmentShare) (string, error) {
	values := make([]chart.Value, 0, len(shares))
	for i, s := range shares {
		if s.Count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: float64(s.Count),
			Label: PieLabel(s),
			Style: sliceStyle(chart.GetDefaultColor(i)),
		})
	}
	if len(values) == 0 {
		return "", fmt.Errorf("segment share: %w", ErrNoData)
	}

	pie := chart.PieChart{
		Title:  "Distribution of Bookings by Market Segment",
		Width:  1000,
		Height: 800,
		Values: values,
	}

	path := filepath.Join(dir, FileSegmentShare)
	if err := writePNG(path, func(w io.Writer) error { return pie.Render(chart.PNG, w) }); err != nil {
		return "", fmt.Errorf("保存图表 %s 失败: %w", FileSegmentShare, err)
	}
	return path, nil
}

// writePNG 创建文件并写入，关闭文件时的错误同样返回
func writePNG(path string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建图表文件失败: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PieLabel 如 "Online TA (47.3%)"
func PieLabel(s processor.SegmentShare) string {
	return fmt.Sprintf("%s (%.1f%%)", s.Segment, s.Percent)
}
