package processor

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"BookingInsights/src/model"
)

// StaysImputation Q3 的结果
type StaysImputation struct {
	Median float64 // 填充前计算的中位数，全部缺失时为 NaN
	Filled int     // 被填充的缺失值个数
	Min    float64
	Max    float64
	Mean   float64
}

// ImputeTotalStays Q3: 派生 total_stays 列，并用中位数填充缺失值
// 中位数只计算一次，且在填充之前计算
func ImputeTotalStays(t *Table) StaysImputation {
	t.DeriveTotalStays()

	present := make([]float64, 0, len(t.TotalStays))
	for _, v := range t.TotalStays {
		if v.Valid {
			present = append(present, v.Value)
		}
	}

	res := StaysImputation{Median: Median(present)}
	if len(present) > 0 {
		sample := stats.Sample{Xs: present}
		res.Min, res.Max = sample.Bounds()
		res.Mean = sample.Mean()
	} else {
		res.Min, res.Max, res.Mean = math.NaN(), math.NaN(), math.NaN()
	}

	if math.IsNaN(res.Median) {
		return res
	}
	for i, v := range t.TotalStays {
		if !v.Valid {
			t.TotalStays[i] = model.FloatOf(res.Median)
			res.Filled++
		}
	}
	return res
}

// Median 排除缺失值后的中位数，偶数个时取中间两数的平均值，空输入返回 NaN
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
