package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"BookingInsights/src/processor"
)

var separator = strings.Repeat("-", 49)

// printer 将各节结果写到标准输出
type printer struct {
	w io.Writer
}

func (p printer) heading(title string) {
	fmt.Fprintf(p.w, "%s\n\n", title)
}

func (p printer) done(msg string) {
	fmt.Fprintf(p.w, "%s\n\n%s\n\n", msg, separator)
}

func (p printer) end() {
	fmt.Fprintf(p.w, "\n%s\n\n", separator)
}

func (p printer) hotelCounts(counts []processor.CategoryCount) {
	p.heading("## Q1: Booking Counts by Hotel Type")
	fmt.Fprintln(p.w, "hotel")
	for _, c := range counts {
		fmt.Fprintf(p.w, "%-20s %d\n", c.Category, c.Count)
	}
	p.end()
}

func (p printer) demand(d processor.MonthlyDemand) {
	p.heading("## Q2: High Demand Periods by Month")
	fmt.Fprintln(p.w, "Booking counts per month (sorted chronologically):")
	fmt.Fprintln(p.w)
	for _, c := range d.Counts {
		fmt.Fprintf(p.w, "%-12s %d\n", c.Month, c.Count)
	}
	fmt.Fprintln(p.w)
	if d.Peak.Count > 0 {
		fmt.Fprintf(p.w, "💡 The month with the highest demand is %s with %d bookings.\n", d.Peak.Month, d.Peak.Count)
	} else {
		fmt.Fprintln(p.w, "💡 No booking has a recognised arrival month.")
	}
	p.end()
}

func (p printer) stays(s processor.StaysImputation) {
	p.heading("## Q3: Fill Missing Stays Values with Median")
	fmt.Fprintf(p.w, "The median for 'total_stays' is: %.1f\n", s.Median)
	if !math.IsNaN(s.Median) {
		fmt.Fprintf(p.w, "Non-missing 'total_stays': min %.1f, max %.1f, mean %.2f\n", s.Min, s.Max, s.Mean)
	}
	fmt.Fprintln(p.w)
	if math.IsNaN(s.Median) {
		fmt.Fprintln(p.w, "⚠️ 'total_stays' has no values, nothing was filled.")
	} else {
		fmt.Fprintf(p.w, "✅ Checked for missing values in 'total_stays': %d filled with the median.\n", s.Filled)
	}
	p.end()
}

func (p printer) children(shares []processor.CancellationShare) {
	p.heading("## Q4: Impact of Children on Cancellations")
	fmt.Fprintln(p.w, "Cancellation rates based on the presence of children:")
	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "%-15s %18s %14s\n", "", "Not Canceled (%)", "Canceled (%)")
	for _, s := range shares {
		fmt.Fprintf(p.w, "%-15s %18.6f %14.6f\n", s.Group, s.NotCanceled, s.Canceled)
	}
	fmt.Fprintln(p.w)
	if with, ok := processor.LookupShare(shares, processor.WithChildren); ok {
		fmt.Fprintf(p.w, "💡 Bookings with children have a cancellation rate of %.2f%%.\n", with.Canceled)
	} else {
		fmt.Fprintln(p.w, "💡 There are no bookings with children in the dataset.")
	}
	p.end()
}

func (p printer) chartSaved(title, path string) {
	fmt.Fprintf(p.w, "📊 %s -> %s\n", title, path)
}

func (p printer) chartSkipped(title string) {
	fmt.Fprintf(p.w, "⚠️ %s skipped: no data\n", title)
}

func (p printer) workbook(path string) {
	fmt.Fprintf(p.w, "📁 Summary workbook saved to %s\n", path)
}
