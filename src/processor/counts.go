package processor

import (
	"sort"

	"BookingInsights/src/model"
)

// CategoryCount 某个类别值的行数
type CategoryCount struct {
	Category string
	Count    int
}

// MissingCategory 类别列为空时使用的名称，空行仍然计入总数
const MissingCategory = "(missing)"

func categoryOf(s string) string {
	if s == "" {
		return MissingCategory
	}
	return s
}

// CountBy 统计 key 的各取值行数，按行数降序，行数相同时保持首次出现的顺序
func CountBy(t *Table, key func(model.Booking) string) []CategoryCount {
	index := make(map[string]int)
	var counts []CategoryCount
	for _, b := range t.Bookings {
		k := categoryOf(key(b))
		i, ok := index[k]
		if !ok {
			i = len(counts)
			index[k] = i
			counts = append(counts, CategoryCount{Category: k})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// HotelCounts Q1: 各酒店类型的预订数
func HotelCounts(t *Table) []CategoryCount {
	return CountBy(t, func(b model.Booking) string { return b.Hotel })
}

// MonthCount 某月的预订数
type MonthCount struct {
	Month model.Month
	Count int
}

// MonthlyDemand Q2 的结果，Counts 按月份顺序排列
type MonthlyDemand struct {
	Counts []MonthCount
	Peak   MonthCount
}

// Demand Q2: 按到达月份统计预订数，只保留有预订的月份
// 峰值月份取最大值，并列时取时间上最早的月份
func Demand(t *Table) MonthlyDemand {
	var perMonth [13]int
	for i := range t.Bookings {
		m := t.monthAt(i)
		if m.Valid() {
			perMonth[m]++
		}
	}

	var d MonthlyDemand
	for _, m := range model.MonthOrder {
		if perMonth[m] == 0 {
			continue
		}
		mc := MonthCount{Month: m, Count: perMonth[m]}
		d.Counts = append(d.Counts, mc)
		if mc.Count > d.Peak.Count {
			d.Peak = mc
		}
	}
	return d
}

// MonthCancellations 某月未取消与已取消的预订数
type MonthCancellations struct {
	Month       model.Month
	NotCanceled int
	Canceled    int
}

// CancellationsByMonth 十二个月的取消情况，没有预订的月份计数为 0
func CancellationsByMonth(t *Table) []MonthCancellations {
	out := make([]MonthCancellations, len(model.MonthOrder))
	for i, m := range model.MonthOrder {
		out[i].Month = m
	}
	for i, b := range t.Bookings {
		m := t.monthAt(i)
		if !m.Valid() {
			continue
		}
		if b.Canceled() {
			out[m-1].Canceled++
		} else {
			out[m-1].NotCanceled++
		}
	}
	return out
}
