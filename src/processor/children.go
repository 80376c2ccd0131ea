package processor

import (
	"gonum.org/v1/gonum/floats"
)

const (
	NoChildren   = "No Children"
	WithChildren = "With Children"
)

// CancellationShare 一个分组内 is_canceled 的归一化分布(百分比)
type CancellationShare struct {
	Group       string
	Rows        int
	NotCanceled float64
	Canceled    float64
}

// ChildrenCancellations Q4: 按 children > 0 分组计算取消占比
// children 缺失的记录归入 No Children，没有记录的分组不输出
func ChildrenCancellations(t *Table) []CancellationShare {
	// [分组][是否取消]
	var counts [2][2]float64
	for _, b := range t.Bookings {
		g := 0
		if b.HasChildren() {
			g = 1
		}
		c := 0
		if b.Canceled() {
			c = 1
		}
		counts[g][c]++
	}

	groups := [2]string{NoChildren, WithChildren}
	var out []CancellationShare
	for g, name := range groups {
		pct := percentages(counts[g][:])
		if pct == nil {
			continue
		}
		out = append(out, CancellationShare{
			Group:       name,
			Rows:        int(floats.Sum(counts[g][:])),
			NotCanceled: pct[0],
			Canceled:    pct[1],
		})
	}
	return out
}

// LookupShare 按分组名查找
func LookupShare(shares []CancellationShare, group string) (CancellationShare, bool) {
	for _, s := range shares {
		if s.Group == group {
			return s, true
		}
	}
	return CancellationShare{}, false
}

// percentages 将计数归一化为百分比，总数为 0 时返回 nil
func percentages(counts []float64) []float64 {
	total := floats.Sum(counts)
	if total == 0 {
		return nil
	}
	out := make([]float64, len(counts))
	copy(out, counts)
	floats.Scale(100/total, out)
	return out
}
