// reader.go
package file

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrDatasetNotFound 数据文件不存在，加载阶段唯一需要单独处理的错误
var ErrDatasetNotFound = errors.New("dataset not found")

// Options 读取选项
type Options struct {
	SheetName string            // xlsx 工作表名称，为空时取第一个工作表
	Encoding  string            // CSV 字符集，为空时按 utf-8
	Columns   map[string]string // 逻辑列名 -> 文件中的表头
}

// ReadDataFrame 按扩展名读取 CSV 或 xlsx，所有列以字符串读入
func ReadDataFrame(filePath string, opts Options) (dataframe.DataFrame, error) {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, filePath)
		}
		return dataframe.DataFrame{}, fmt.Errorf("无法访问数据文件 %s: %w", filePath, err)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		return ReadXLSX(filePath, opts.SheetName)
	default:
		return ReadCSV(filePath, opts.Encoding)
	}
}

// ReadCSV 读取带表头的逗号分隔文件
// 字节流先经过字符集解码，并去掉 Excel 导出时常见的 UTF-8 BOM
func ReadCSV(filePath, charset string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("打开CSV文件失败: %w", err)
	}
	defer f.Close()

	enc, err := lookupEncoding(charset)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	data, err := io.ReadAll(transform.NewReader(f, unicode.BOMOverride(enc.NewDecoder())))
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("读取CSV失败 %s: %w", filePath, err)
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		// 只有表头时 gota 报 empty DataFrame，按零行表处理
		if headers, ok := headerOnly(data); ok {
			return emptyFrame(headers), nil
		}
		return df, fmt.Errorf("解析CSV失败 %s: %w", filePath, df.Err)
	}
	return df, nil
}

// headerOnly 文件只有一行表头时返回表头
func headerOnly(data []byte) ([]string, bool) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(records) != 1 {
		return nil, false
	}
	return records[0], true
}

// emptyFrame 只有列名、没有数据行的 DataFrame
func emptyFrame(headers []string) dataframe.DataFrame {
	cols := make([]series.Series, len(headers))
	for i, h := range headers {
		cols[i] = series.New([]string{}, series.String, strings.TrimSpace(h))
	}
	return dataframe.New(cols...)
}

func lookupEncoding(charset string) (encoding.Encoding, error) {
	if charset == "" {
		charset = "utf-8"
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("不支持的字符集 %q: %w", charset, err)
	}
	return enc, nil
}

// ReadXLSX 读取 xlsx 工作表，第一行为表头
func ReadXLSX(filePath, sheetName string) (dataframe.DataFrame, error) {
	// 1. 使用tealeg/xlsx打开Excel文件
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("xlsx open file false: %w", err)
	}

	// 2. 获取工作表
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("excel文件中没有工作表: %s", filePath)
	}
	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("工作表 %s 不存在", sheetName)
		}
		sheet = s
	}

	// 3. 转换为Gota DataFrame
	return convertSheetToDataFrame(sheet)
}

// convertSheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame
func convertSheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("工作表 %s 为空", sheet.Name)
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, strings.TrimSpace(cell.Value))
	}

	// 准备数据列
	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}

	// 填充数据(从第二行开始)，短行补空值
	for _, row := range sheet.Rows[1:] {
		if row == nil {
			continue
		}
		for i := range headers {
			v := ""
			if i < len(row.Cells) && row.Cells[i] != nil {
				v = row.Cells[i].Value
			}
			columns[i] = append(columns[i], v)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}

	df := dataframe.New(seriesList...)
	if df.Err != nil {
		return df, fmt.Errorf("转换为dataframe失败: %w", df.Err)
	}
	return df, nil
}
