package processor

import (
	"sort"

	"github.com/aclements/go-moremath/stats"

	"BookingInsights/src/model"
)

// Point 折线图上的一个点，Y 为该 X 下的均值，N 为参与计算的行数
type Point struct {
	X float64
	Y float64
	N int
}

// StaysByAdults 成人数在 [AdultsMin, AdultsMax] 内时，各成人数对应的平均 total_stays
// 过滤只作用于本次计算，缺失的 total_stays 不参与均值
func StaysByAdults(t *Table, th Thresholds) []Point {
	groups := make(map[int][]float64)
	for i, b := range t.Bookings {
		if b.Adults < th.AdultsMin || b.Adults > th.AdultsMax {
			continue
		}
		s := t.staysAt(i)
		if !s.Valid {
			continue
		}
		groups[b.Adults] = append(groups[b.Adults], s.Value)
	}

	adults := make([]int, 0, len(groups))
	for a := range groups {
		adults = append(adults, a)
	}
	sort.Ints(adults)

	out := make([]Point, 0, len(adults))
	for _, a := range adults {
		xs := groups[a]
		out = append(out, Point{X: float64(a), Y: stats.Mean(xs), N: len(xs)})
	}
	return out
}

// HotelSeries 某酒店类型按月份排列的平均 ADR
type HotelSeries struct {
	Hotel  string
	Months []model.Month
	Means  []float64
}

// ADRByMonth 每个酒店类型每月的平均 ADR，只统计 adr < ADRCap 的记录
// 酒店按首次出现顺序排列，某月没有数据时跳过该点
func ADRByMonth(t *Table, th Thresholds) []HotelSeries {
	var hotels []string
	perHotel := make(map[string]*[13][]float64)
	for i, b := range t.Bookings {
		// NaN 同样被排除
		if !(b.ADR < th.ADRCap) {
			continue
		}
		m := t.monthAt(i)
		if !m.Valid() {
			continue
		}
		hotel := categoryOf(b.Hotel)
		byMonth, ok := perHotel[hotel]
		if !ok {
			byMonth = &[13][]float64{}
			perHotel[hotel] = byMonth
			hotels = append(hotels, hotel)
		}
		byMonth[m] = append(byMonth[m], b.ADR)
	}

	out := make([]HotelSeries, 0, len(hotels))
	for _, h := range hotels {
		s := HotelSeries{Hotel: h}
		for _, m := range model.MonthOrder {
			xs := perHotel[h][m]
			if len(xs) == 0 {
				continue
			}
			s.Months = append(s.Months, m)
			s.Means = append(s.Means, stats.Mean(xs))
		}
		out = append(out, s)
	}
	return out
}
