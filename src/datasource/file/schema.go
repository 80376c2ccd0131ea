package file

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"BookingInsights/src/model"
	"BookingInsights/src/utils"
)

// 逻辑列名
const (
	ColHotel              = "hotel"
	ColArrivalMonth       = "arrival_date_month"
	ColStaysWeekendNights = "stays_in_weekend_nights"
	ColStaysWeekNights    = "stays_in_week_nights"
	ColChildren           = "children"
	ColIsCanceled         = "is_canceled"
	ColMarketSegment      = "market_segment"
	ColADR                = "adr"
	ColAdults             = "adults"
)

// RequiredColumns 分析用到的全部列
var RequiredColumns = []string{
	ColHotel, ColArrivalMonth, ColStaysWeekendNights, ColStaysWeekNights,
	ColChildren, ColIsCanceled, ColMarketSegment, ColADR, ColAdults,
}

var (
	ErrMissingColumn = errors.New("missing column")
	ErrNotInteger    = errors.New("not an integer")
	ErrNotNumber     = errors.New("not a number")
	ErrNullValue     = errors.New("unexpected null")
	ErrNotBinary     = errors.New("not 0 or 1")
)

// SchemaError 表结构与预期不符
// Row 为数据行号(从1开始，不含表头)，列缺失时为 0
type SchemaError struct {
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("schema: column %q: %v", e.Column, e.Err)
	}
	return fmt.Sprintf("schema: column %q row %d value %q: %v", e.Column, e.Row, e.Value, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// LoadBookings 读取数据文件并解码为类型化记录
func LoadBookings(filePath string, opts Options) ([]model.Booking, error) {
	df, err := ReadDataFrame(filePath, opts)
	if err != nil {
		return nil, err
	}
	return DecodeBookings(df, opts.Columns)
}

// DecodeBookings 按列校验并转换为 []model.Booking
// columns 为逻辑列名到表头的映射，未配置的列使用逻辑列名本身
func DecodeBookings(df dataframe.DataFrame, columns map[string]string) ([]model.Booking, error) {
	header := func(logical string) string {
		if h, ok := columns[logical]; ok && h != "" {
			return h
		}
		return logical
	}

	cols := make(map[string]series.Series, len(RequiredColumns))
	for _, logical := range RequiredColumns {
		name := header(logical)
		if !utils.HasColumn(df, name) {
			return nil, &SchemaError{Column: name, Err: ErrMissingColumn}
		}
		cols[logical] = df.Col(name)
	}

	n := df.Nrow()
	bookings := make([]model.Booking, n)
	for i := 0; i < n; i++ {
		d := rowDecoder{cols: cols, header: header, row: i}
		b := &bookings[i]
		b.Hotel = d.str(ColHotel)
		b.ArrivalMonth = d.str(ColArrivalMonth)
		b.MarketSegment = d.str(ColMarketSegment)
		b.StaysWeekendNights = d.nullInt(ColStaysWeekendNights)
		b.StaysWeekNights = d.nullInt(ColStaysWeekNights)
		b.Children = d.nullInt(ColChildren)
		b.IsCanceled = d.binary(ColIsCanceled)
		b.Adults = d.integer(ColAdults)
		b.ADR = d.number(ColADR)
		if d.err != nil {
			return nil, d.err
		}
	}
	return bookings, nil
}

// rowDecoder 逐列解码一行，记录遇到的第一个错误
type rowDecoder struct {
	cols   map[string]series.Series
	header func(string) string
	row    int
	err    error
}

func (d *rowDecoder) raw(logical string) (string, bool) {
	el := d.cols[logical].Elem(d.row)
	if el.IsNA() {
		return "", false
	}
	s := strings.TrimSpace(el.String())
	if model.IsNullToken(s) {
		return "", false
	}
	return s, true
}

func (d *rowDecoder) fail(logical, value string, err error) {
	if d.err == nil {
		d.err = &SchemaError{Column: d.header(logical), Row: d.row + 1, Value: value, Err: err}
	}
}

func (d *rowDecoder) str(logical string) string {
	s, _ := d.raw(logical)
	return s
}

func (d *rowDecoder) nullInt(logical string) model.NullInt {
	s, ok := d.raw(logical)
	if !ok {
		return model.NullInt{}
	}
	v, err := parseInt(s)
	if err != nil {
		d.fail(logical, s, err)
		return model.NullInt{}
	}
	return model.IntOf(v)
}

func (d *rowDecoder) integer(logical string) int {
	s, ok := d.raw(logical)
	if !ok {
		d.fail(logical, s, ErrNullValue)
		return 0
	}
	v, err := parseInt(s)
	if err != nil {
		d.fail(logical, s, err)
	}
	return v
}

func (d *rowDecoder) binary(logical string) int {
	v := d.integer(logical)
	if v != 0 && v != 1 {
		d.fail(logical, strconv.Itoa(v), ErrNotBinary)
	}
	return v
}

// number 缺失的 adr 记为 NaN，由各计算自行排除
func (d *rowDecoder) number(logical string) float64 {
	s, ok := d.raw(logical)
	if !ok {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		d.fail(logical, s, ErrNotNumber)
		return math.NaN()
	}
	return v
}

// parseInt 接受 "2" 与 "2.0" 两种写法(xlsx 与浮点导出的整数列)
func parseInt(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, ErrNotInteger
	}
	return int(f), nil
}
