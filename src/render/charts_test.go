package render

import (
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BookingInsights/src/model"
	"BookingInsights/src/processor"
)

func assertPNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestCancellationsByMonth(t *testing.T) {
	dir := t.TempDir()
	data := make([]processor.MonthCancellations, 12)
	for i := range data {
		data[i] = processor.MonthCancellations{Month: model.Month(i + 1), NotCanceled: i * 3, Canceled: i}
	}
	path, err := CancellationsByMonth(dir, data)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileCancellationsByMonth), path)
	assertPNG(t, path)

	_, err = CancellationsByMonth(dir, make([]processor.MonthCancellations, 12))
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestStaysByAdults(t *testing.T) {
	dir := t.TempDir()
	path, err := StaysByAdults(dir, []processor.Point{{X: 1, Y: 2.5}, {X: 2, Y: 3.4}, {X: 3, Y: 3.1}})
	require.NoError(t, err)
	assertPNG(t, path)

	_, err = StaysByAdults(dir, nil)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestSegmentShare(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	shares := []processor.SegmentShare{
		{Segment: "Online TA", Count: 6, Percent: 60},
		{Segment: "Groups", Count: 3, Percent: 30},
		{Segment: "Direct", Count: 1, Percent: 10},
	}
	path, err := SegmentShare(dir, shares)
	require.NoError(t, err)
	assertPNG(t, path)

	_, err = SegmentShare(dir, nil)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestPieLabel(t *testing.T) {
	assert.Equal(t, "Groups (16.6%)", PieLabel(processor.SegmentShare{Segment: "Groups", Percent: 16.5778}))
}

func TestSegmentCancellationRates(t *testing.T) {
	dir := t.TempDir()
	path, err := SegmentCancellationRates(dir, []processor.SegmentRate{
		{Segment: "Groups", CancelRate: 61.1},
		{Segment: "Direct", CancelRate: 15.3},
	})
	require.NoError(t, err)
	assertPNG(t, path)

	_, err = SegmentCancellationRates(dir, nil)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestADRByMonth(t *testing.T) {
	dir := t.TempDir()
	path, err := ADRByMonth(dir, []processor.HotelSeries{
		{Hotel: "Resort Hotel", Months: []model.Month{1, 2, 8}, Means: []float64{50, 55, 180}},
		{Hotel: "City Hotel", Months: []model.Month{1, 5}, Means: []float64{80, 120}},
	})
	require.NoError(t, err)
	assertPNG(t, path)

	_, err = ADRByMonth(dir, []processor.HotelSeries{{Hotel: "Empty"}})
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestTitledLegend(t *testing.T) {
	entries := titledLegend(LegendTitleHotelType, []legendEntry{{label: "City Hotel"}, {label: "Resort Hotel"}})
	require.Len(t, entries, 3)
	assert.Equal(t, "Hotel Type", entries[0].label)
	assert.Empty(t, entries[0].thumbs)
	assert.Equal(t, "City Hotel", entries[1].label)
	assert.Equal(t, "Resort Hotel", entries[2].label)
}

func TestWritePNGReturnsErrors(t *testing.T) {
	dir := t.TempDir()
	renderErr := errors.New("render failed")
	err := writePNG(filepath.Join(dir, "a.png"), func(io.Writer) error { return renderErr })
	assert.ErrorIs(t, err, renderErr)

	// 输出目录被同名文件占用
	blocker := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	err = writePNG(filepath.Join(blocker, "b.png"), func(w io.Writer) error { return nil })
	assert.Error(t, err)

	require.NoError(t, writePNG(filepath.Join(dir, "c.png"), func(w io.Writer) error {
		_, err := w.Write([]byte("ok"))
		return err
	}))
	data, err := os.ReadFile(filepath.Join(dir, "c.png"))
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}
