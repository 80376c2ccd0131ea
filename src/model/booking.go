package model

import (
	"strconv"
	"strings"
)

// NullInt 可空整数，Valid 为 false 表示源数据缺失
type NullInt struct {
	Value int
	Valid bool
}

// IntOf 构造一个有效的 NullInt
func IntOf(v int) NullInt { return NullInt{Value: v, Valid: true} }

// NullFloat 可空浮点数
type NullFloat struct {
	Value float64
	Valid bool
}

// FloatOf 构造一个有效的 NullFloat
func FloatOf(v float64) NullFloat { return NullFloat{Value: v, Valid: true} }

func (n NullFloat) String() string {
	if !n.Valid {
		return "NaN"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// Booking 一条酒店预订记录，字段在加载时完成类型校验
type Booking struct {
	Hotel              string
	ArrivalMonth       string // 原始月份标签
	StaysWeekendNights NullInt
	StaysWeekNights    NullInt
	Children           NullInt
	IsCanceled         int
	MarketSegment      string
	ADR                float64
	Adults             int
}

// Canceled 是否已取消
func (b Booking) Canceled() bool { return b.IsCanceled == 1 }

// HasChildren children > 0，缺失值按没有儿童处理
func (b Booking) HasChildren() bool {
	return b.Children.Valid && b.Children.Value > 0
}

// TotalStays 周末与工作日入住晚数之和，任一缺失则结果缺失
func (b Booking) TotalStays() NullFloat {
	if !b.StaysWeekendNights.Valid || !b.StaysWeekNights.Valid {
		return NullFloat{}
	}
	return FloatOf(float64(b.StaysWeekendNights.Value + b.StaysWeekNights.Value))
}

var nullTokens = []string{"", "NA", "N/A", "NaN", "nan", "NULL", "null", "<nil>"}

// IsNullToken 判断单元格文本是否表示缺失值
func IsNullToken(s string) bool {
	s = strings.TrimSpace(s)
	for _, tok := range nullTokens {
		if s == tok {
			return true
		}
	}
	return false
}
