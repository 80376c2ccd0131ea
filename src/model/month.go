package model

import (
	"strings"
	"time"
)

// Month 有序的月份类别，MonthUnknown 表示不在十二个月份名称中的标签
type Month int

const MonthUnknown Month = 0

// MonthOrder 固定的月份顺序(一月到十二月)
var MonthOrder = []Month{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

// ParseMonth 将英文月份全称映射到有序类别，大小写敏感，与源数据标签完全匹配
func ParseMonth(label string) Month {
	label = strings.TrimSpace(label)
	for _, m := range MonthOrder {
		if time.Month(m).String() == label {
			return m
		}
	}
	return MonthUnknown
}

func (m Month) Valid() bool { return m >= 1 && m <= 12 }

func (m Month) String() string {
	if !m.Valid() {
		return "Unknown"
	}
	return time.Month(m).String()
}

// MonthLabels 按顺序返回十二个月份名称
func MonthLabels() []string {
	labels := make([]string, 0, len(MonthOrder))
	for _, m := range MonthOrder {
		labels = append(labels, m.String())
	}
	return labels
}
