package tools

import (
	"fmt"
	"reflect"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportToExcel 把结构体切片写成一张表，第一行是表头
// 表头取 `sheet` 标签，其次是 `json` 标签名，`sheet:"-"` 的字段以及切片字段跳过
func ExportToExcel(f *excelize.File, sheet string, data interface{}) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("data %T 不是切片", data)
	}

	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("data %T 不是结构体切片", data)
	}

	if sheet == "" {
		sheet = "Sheet1"
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	type fieldInfo struct {
		index  []int
		header string
	}
	var fields []fieldInfo

	var collect func(t reflect.Type, parent []int)
	collect = func(t reflect.Type, parent []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.PkgPath != "" {
				continue
			}
			idx := append(append([]int(nil), parent...), i)

			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				collect(sf.Type, idx)
				continue
			}
			if sf.Type.Kind() == reflect.Slice {
				continue
			}

			header := headerOf(sf)
			if header == "-" {
				continue
			}
			fields = append(fields, fieldInfo{index: idx, header: header})
		}
	}
	collect(elemType, nil)

	// 写表头
	header := make([]interface{}, len(fields))
	for i, fi := range fields {
		header[i] = fi.header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	// 写数据行
	for row := 0; row < v.Len(); row++ {
		elem := v.Index(row)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}

		values := make([]interface{}, len(fields))
		for col, fi := range fields {
			values[col] = cellValue(elem.FieldByIndex(fi.index))
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func headerOf(sf reflect.StructField) string {
	if tag := sf.Tag.Get("sheet"); tag != "" {
		return tag
	}
	if tag := sf.Tag.Get("json"); tag != "" {
		for i, ch := range tag {
			if ch == ',' {
				tag = tag[:i]
				break
			}
		}
		if tag != "" {
			return tag
		}
	}
	return sf.Name
}

// 时间统一写成 RFC3339，零值留空
func cellValue(fv reflect.Value) interface{} {
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return ""
		}
		fv = fv.Elem()
	}
	if t, ok := fv.Interface().(time.Time); ok {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	}
	return fv.Interface()
}
