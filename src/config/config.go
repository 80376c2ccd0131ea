package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"BookingInsights/src/utils"
)

// 运行模式
const (
	ModeOnce     = "once"     // 运行一次后退出
	ModeWatch    = "watch"    // 数据文件变化时重新生成报告
	ModeSchedule = "schedule" // 按固定间隔重新生成报告
)

var modes = []string{ModeOnce, ModeWatch, ModeSchedule}

// Config 结构体定义了应用程序的配置结构
type Config struct {
	Dataset       string   `json:"dataset"`        // 数据文件路径(csv 或 xlsx)
	SheetName     string   `json:"sheet_name"`     // xlsx 工作表名称
	Encoding      string   `json:"encoding"`       // CSV 字符集
	OutputDir     string   `json:"output_dir"`     // 图表与工作簿输出目录
	Workbook      string   `json:"workbook"`       // 汇总工作簿文件名，为空时不导出
	LogName       string   `json:"log_name"`       // 日志文件
	LogMaxSize    string   `json:"log_max_size"`   // 日志轮转阈值，如 "10 * 1024 * 1024"
	Mode          string   `json:"mode"`           // once / watch / schedule
	CheckInterval Duration `json:"check_interval"` // schedule 模式的运行间隔
	WatchQuiet    Duration `json:"watch_quiet"`    // watch 模式下最后一次写入后的等待时间
}

// DataConfig 数据列映射与分析阈值
type DataConfig struct {
	Columns   map[string]string `json:"columns"` // 逻辑列名 -> 文件表头
	AdultsMin int               `json:"adults_min"`
	AdultsMax int               `json:"adults_max"`
	ADRCap    float64           `json:"adr_cap"`
}

// Default 不提供配置文件时的默认值
func Default() Config {
	return Config{
		Dataset:       "hotel_bookings.csv",
		Encoding:      "utf-8",
		OutputDir:     "output",
		Workbook:      "booking_summary.xlsx",
		LogName:       "app.log",
		LogMaxSize:    "10 * 1024 * 1024",
		Mode:          ModeOnce,
		CheckInterval: Duration(time.Hour),
		WatchQuiet:    Duration(500 * time.Millisecond),
	}
}

// DefaultData 默认阈值：成人数 1~10，ADR 小于 5000
func DefaultData() DataConfig {
	return DataConfig{
		Columns:   map[string]string{},
		AdultsMin: 1,
		AdultsMax: 10,
		ADRCap:    5000,
	}
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	loadErr            error
)

// LoadConfig 只加载一次，之后返回同一份配置
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	once.Do(func() {
		instance, dataConfigInstance, loadErr = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, loadErr
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := dcfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, dcfg, nil
}

// readFile 文件不存在时返回空对象，全部使用默认值
func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("解析Config失败: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	dcfg := DefaultData()
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
		return
	}
	if dcfg.Columns == nil {
		dcfg.Columns = map[string]string{}
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return fmt.Errorf("配置加载遇到多个错误: %w", errors.Join(errs...))
}

// Validate 检查运行模式与间隔
func (c *Config) Validate() error {
	if c.Dataset == "" {
		return fmt.Errorf("dataset 不能为空")
	}
	if !utils.Contains(modes, c.Mode) {
		return fmt.Errorf("未知的运行模式 %q，可选值: %v", c.Mode, modes)
	}
	if c.Mode == ModeSchedule && time.Duration(c.CheckInterval) <= 0 {
		return fmt.Errorf("schedule 模式需要大于0的 check_interval")
	}
	if c.Mode == ModeWatch && time.Duration(c.WatchQuiet) <= 0 {
		return fmt.Errorf("watch 模式需要大于0的 watch_quiet")
	}
	return nil
}

// Validate 检查阈值范围
func (dc *DataConfig) Validate() error {
	if dc.AdultsMin > dc.AdultsMax {
		return fmt.Errorf("adults_min(%d) 大于 adults_max(%d)", dc.AdultsMin, dc.AdultsMax)
	}
	if dc.ADRCap <= 0 {
		return fmt.Errorf("adr_cap 必须大于0")
	}
	return nil
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
// 用于从JSON字符串解析Duration
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
// 用于将Duration序列化为JSON字符串
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// ColumnMap 返回列映射的副本
func (dc *DataConfig) ColumnMap() map[string]string {
	out := make(map[string]string, len(dc.Columns))
	for k, v := range dc.Columns {
		out[k] = v
	}
	return out
}
