package processor

import (
	"sort"

	"BookingInsights/src/model"
)

// SegmentShare 某个细分市场的预订占比
type SegmentShare struct {
	Segment string
	Count   int
	Percent float64
}

// SegmentShares 各细分市场的预订数与占比，顺序同 CountBy
func SegmentShares(t *Table) []SegmentShare {
	counts := CountBy(t, func(b model.Booking) string { return b.MarketSegment })
	raw := make([]float64, len(counts))
	for i, c := range counts {
		raw[i] = float64(c.Count)
	}
	pct := percentages(raw)

	out := make([]SegmentShare, len(counts))
	for i, c := range counts {
		out[i] = SegmentShare{Segment: c.Category, Count: c.Count, Percent: pct[i]}
	}
	return out
}

// SegmentRate 某个细分市场的取消率
type SegmentRate struct {
	Segment    string
	Bookings   int
	CancelRate float64 // 百分比
}

// SegmentCancellationRates 各细分市场 is_canceled 的均值(百分比)，降序排列
// 取消率相同时按细分市场名称升序
func SegmentCancellationRates(t *Table) []SegmentRate {
	type acc struct{ rows, canceled int }
	groups := make(map[string]*acc)
	for _, b := range t.Bookings {
		seg := categoryOf(b.MarketSegment)
		a, ok := groups[seg]
		if !ok {
			a = &acc{}
			groups[seg] = a
		}
		a.rows++
		if b.Canceled() {
			a.canceled++
		}
	}

	out := make([]SegmentRate, 0, len(groups))
	for seg, a := range groups {
		out = append(out, SegmentRate{
			Segment:    seg,
			Bookings:   a.rows,
			CancelRate: float64(a.canceled) / float64(a.rows) * 100,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CancelRate != out[j].CancelRate {
			return out[i].CancelRate > out[j].CancelRate
		}
		return out[i].Segment < out[j].Segment
	})
	return out
}
