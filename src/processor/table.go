package processor

import (
	"BookingInsights/src/config"
	"BookingInsights/src/model"
)

// Table 单次运行持有的预订表
// Bookings 为只读的源数据，只允许追加 TotalStays 与 Months 两个派生列
type Table struct {
	Bookings   []model.Booking
	TotalStays []model.NullFloat
	Months     []model.Month
}

// NewTable 包装加载后的记录
func NewTable(bookings []model.Booking) *Table {
	return &Table{Bookings: bookings}
}

// Len 行数
func (t *Table) Len() int { return len(t.Bookings) }

// OrderMonths 按固定月份顺序重新解释 arrival_date_month 列
func (t *Table) OrderMonths() {
	months := make([]model.Month, len(t.Bookings))
	for i, b := range t.Bookings {
		months[i] = model.ParseMonth(b.ArrivalMonth)
	}
	t.Months = months
}

// DeriveTotalStays 计算 total_stays = stays_in_weekend_nights + stays_in_week_nights
func (t *Table) DeriveTotalStays() {
	stays := make([]model.NullFloat, len(t.Bookings))
	for i, b := range t.Bookings {
		stays[i] = b.TotalStays()
	}
	t.TotalStays = stays
}

func (t *Table) monthAt(i int) model.Month {
	if len(t.Months) != len(t.Bookings) {
		t.OrderMonths()
	}
	return t.Months[i]
}

func (t *Table) staysAt(i int) model.NullFloat {
	if len(t.TotalStays) != len(t.Bookings) {
		t.DeriveTotalStays()
	}
	return t.TotalStays[i]
}

// Thresholds 单个图表内的局部过滤条件，不影响表本身
type Thresholds struct {
	AdultsMin int
	AdultsMax int
	ADRCap    float64
}

// NewThresholds 从数据配置读取阈值
func NewThresholds(dcfg *config.DataConfig) Thresholds {
	return Thresholds{
		AdultsMin: dcfg.AdultsMin,
		AdultsMax: dcfg.AdultsMax,
		ADRCap:    dcfg.ADRCap,
	}
}
