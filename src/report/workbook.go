package report

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"BookingInsights/src/utils"
)

// SaveWorkbook 将汇总结果写入 xlsx，每类汇总一个工作表
func SaveWorkbook(s *Summary, path string) error {
	return utils.SaveToExcel([]utils.Sheet{
		{Name: "Hotels", Frame: hotelsFrame(s)},
		{Name: "Monthly Demand", Frame: demandFrame(s)},
		{Name: "Children Cancellations", Frame: childrenFrame(s)},
		{Name: "Segments", Frame: segmentsFrame(s)},
	}, path)
}

func hotelsFrame(s *Summary) dataframe.DataFrame {
	names := make([]string, len(s.Hotels))
	counts := make([]int, len(s.Hotels))
	for i, c := range s.Hotels {
		names[i], counts[i] = c.Category, c.Count
	}
	return dataframe.New(
		series.New(names, series.String, "Hotel"),
		series.New(counts, series.Int, "Bookings"),
	)
}

func demandFrame(s *Summary) dataframe.DataFrame {
	months := make([]string, len(s.Demand.Counts))
	counts := make([]int, len(s.Demand.Counts))
	for i, c := range s.Demand.Counts {
		months[i], counts[i] = c.Month.String(), c.Count
	}
	return dataframe.New(
		series.New(months, series.String, "Month"),
		series.New(counts, series.Int, "Bookings"),
	)
}

func childrenFrame(s *Summary) dataframe.DataFrame {
	groups := make([]string, len(s.Children))
	notCanceled := make([]float64, len(s.Children))
	canceled := make([]float64, len(s.Children))
	for i, c := range s.Children {
		groups[i], notCanceled[i], canceled[i] = c.Group, c.NotCanceled, c.Canceled
	}
	return dataframe.New(
		series.New(groups, series.String, "Group"),
		series.New(notCanceled, series.Float, "Not Canceled (%)"),
		series.New(canceled, series.Float, "Canceled (%)"),
	)
}

// segmentsFrame 占比与取消率合并为一张表，按占比顺序排列
func segmentsFrame(s *Summary) dataframe.DataFrame {
	rates := make(map[string]float64, len(s.Rates))
	for _, r := range s.Rates {
		rates[r.Segment] = r.CancelRate
	}

	names := make([]string, len(s.Shares))
	counts := make([]int, len(s.Shares))
	shares := make([]float64, len(s.Shares))
	cancel := make([]float64, len(s.Shares))
	for i, sh := range s.Shares {
		names[i], counts[i], shares[i], cancel[i] = sh.Segment, sh.Count, sh.Percent, rates[sh.Segment]
	}
	return dataframe.New(
		series.New(names, series.String, "Segment"),
		series.New(counts, series.Int, "Bookings"),
		series.New(shares, series.Float, "Share (%)"),
		series.New(cancel, series.Float, "Cancellation Rate (%)"),
	)
}
