package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestLoadConfigsDefaults(t *testing.T) {
	cfg, dcfg, err := loadConfigs(t.TempDir(), "config.json", "dataconfig.json")
	require.NoError(t, err)

	assert.Equal(t, "hotel_bookings.csv", cfg.Dataset)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, ModeOnce, cfg.Mode)
	assert.Equal(t, 500*time.Millisecond, time.Duration(cfg.WatchQuiet))
	assert.Equal(t, 1, dcfg.AdultsMin)
	assert.Equal(t, 10, dcfg.AdultsMax)
	assert.Equal(t, 5000.0, dcfg.ADRCap)
	assert.Empty(t, dcfg.ColumnMap())
}

func TestLoadConfigsOverrides(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "config.json", `{
		"dataset": "data/bookings.xlsx",
		"sheet_name": "bookings",
		"mode": "schedule",
		"check_interval": "30m"
	}`)
	writeJSON(t, dir, "dataconfig.json", `{
		"columns": {"hotel": "hotel_type"},
		"adr_cap": 1000
	}`)

	cfg, dcfg, err := loadConfigs(dir, "config.json", "dataconfig.json")
	require.NoError(t, err)

	assert.Equal(t, "data/bookings.xlsx", cfg.Dataset)
	assert.Equal(t, "bookings", cfg.SheetName)
	assert.Equal(t, ModeSchedule, cfg.Mode)
	assert.Equal(t, 30*time.Minute, time.Duration(cfg.CheckInterval))
	// 未出现的字段保持默认值
	assert.Equal(t, "output", cfg.OutputDir)

	assert.Equal(t, map[string]string{"hotel": "hotel_type"}, dcfg.ColumnMap())
	assert.Equal(t, 1000.0, dcfg.ADRCap)
	assert.Equal(t, 10, dcfg.AdultsMax)

	// 返回的是副本
	cols := dcfg.ColumnMap()
	cols["adr"] = "average_daily_rate"
	assert.NotContains(t, dcfg.ColumnMap(), "adr")
}

func TestLoadConfigsErrors(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "config.json", `{"mode": "forever"}`)
	_, _, err := loadConfigs(dir, "config.json", "dataconfig.json")
	assert.ErrorContains(t, err, "forever")

	writeJSON(t, dir, "config.json", `{"check_interval": "soon"}`)
	writeJSON(t, dir, "dataconfig.json", `{"adults_min": "one"}`)
	_, _, err = loadConfigs(dir, "config.json", "dataconfig.json")
	assert.ErrorContains(t, err, "多个错误")

	writeJSON(t, dir, "config.json", `{}`)
	writeJSON(t, dir, "dataconfig.json", `{"adults_min": 5, "adults_max": 2}`)
	_, _, err = loadConfigs(dir, "config.json", "dataconfig.json")
	assert.Error(t, err)
}

func TestValidateWatchQuiet(t *testing.T) {
	cfg := Default()
	cfg.Mode = ModeWatch
	require.NoError(t, cfg.Validate())

	cfg.WatchQuiet = 0
	assert.ErrorContains(t, cfg.Validate(), "watch_quiet")

	// 其它模式不使用该字段
	cfg.Mode = ModeOnce
	assert.NoError(t, cfg.Validate())
}

func TestDurationJSON(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"90s"`)))
	assert.Equal(t, 90*time.Second, time.Duration(d))

	out, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(out))
}

func TestLoadConfigOnce(t *testing.T) {
	dir := t.TempDir()
	cfg1, _, err := LoadConfig(dir, "config.json", "dataconfig.json")
	require.NoError(t, err)
	cfg2, _, err := LoadConfig("elsewhere", "config.json", "dataconfig.json")
	require.NoError(t, err)
	assert.Same(t, cfg1, cfg2)
}
