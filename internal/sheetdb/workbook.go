// Package sheetdb 把一个 xlsx 工作簿当作两张表使用：
// Library 存游记，Trip 存日记条目（tripId 为外键）。所有查找都是逐行扫描。
package sheetdb

import (
	"strconv"

	"travel-journal/tools"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	LibrarySheet = "Library"
	TripSheet    = "Trip"
	// 旧版表格只有一个默认工作表
	legacyLibrarySheet = "Sheet1"
)

var (
	LibraryHeader = []string{"id", "title", "location", "image", "author", "distance", "cities", "duration", "description", "createdAt", "updatedAt"}
	TripHeader    = []string{"id", "tripId", "city", "date", "content"}
)

// Workbook excelize 文件，path 为空时只保存在内存
type Workbook struct {
	f    *excelize.File
	path string
}

// NewMemoryWorkbook 创建带默认表头的内存工作簿
func NewMemoryWorkbook() (*Workbook, error) {
	w := &Workbook{f: excelize.NewFile()}
	if err := w.init(); err != nil {
		return nil, err
	}
	return w, nil
}

// OpenWorkbook 打开 path，不存在时新建并写盘
func OpenWorkbook(path string) (*Workbook, error) {
	if path == "" {
		return NewMemoryWorkbook()
	}
	if tools.FileExist(path) {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open workbook %s", path)
		}
		return &Workbook{f: f, path: path}, nil
	}

	w := &Workbook{f: excelize.NewFile(), path: path}
	if err := w.init(); err != nil {
		return nil, err
	}
	return w, w.Save()
}

func (w *Workbook) init() error {
	// 默认的 Sheet1 直接改名为 Library
	if err := w.f.SetSheetName(legacyLibrarySheet, LibrarySheet); err != nil {
		return err
	}
	if err := writeHeader(w.f, LibrarySheet, LibraryHeader); err != nil {
		return err
	}
	_, err := w.CreateTable(TripSheet, TripHeader)
	return err
}

// Table 返回工作表，不存在时返回 nil
func (w *Workbook) Table(name string) *Table {
	idx, err := w.f.GetSheetIndex(name)
	if err != nil || idx == -1 {
		return nil
	}
	return &Table{f: w.f, name: name}
}

// Library 优先使用 Library 表，兼容只有 Sheet1 的旧表格
func (w *Workbook) Library() *Table {
	if t := w.Table(LibrarySheet); t != nil {
		return t
	}
	return w.Table(legacyLibrarySheet)
}

func (w *Workbook) CreateTable(name string, header []string) (*Table, error) {
	if _, err := w.f.NewSheet(name); err != nil {
		return nil, err
	}
	if err := writeHeader(w.f, name, header); err != nil {
		return nil, err
	}
	return &Table{f: w.f, name: name}, nil
}

func (w *Workbook) Save() error {
	if w.path == "" {
		return nil
	}
	return errors.Wrapf(w.f.SaveAs(w.path), "save workbook %s", w.path)
}

func (w *Workbook) File() *excelize.File {
	return w.f
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

func writeHeader(f *excelize.File, sheet string, header []string) error {
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	return f.SetSheetRow(sheet, "A1", &row)
}

// Table 一个工作表，第一行是表头
type Table struct {
	f    *excelize.File
	name string
}

func (t *Table) Name() string {
	return t.name
}

// Rows 返回包括表头在内的全部行，每行补齐到表头长度
func (t *Table) Rows() ([][]string, error) {
	rows, err := t.f.GetRows(t.name)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}
	width := len(rows[0])
	for i, r := range rows {
		if len(r) < width {
			padded := make([]string, width)
			copy(padded, r)
			rows[i] = padded
		}
	}
	return rows, nil
}

// Append 在最后一行之后追加
func (t *Table) Append(rowCount int, values []interface{}) error {
	return t.f.SetSheetRow(t.name, "A"+strconv.Itoa(rowCount+1), &values)
}

// SetCell index 是 Rows() 中的下标（表头为 0），col 从 0 开始
func (t *Table) SetCell(index, col int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col+1, index+1)
	if err != nil {
		return err
	}
	return t.f.SetCellValue(t.name, cell, value)
}

// DeleteRow index 同 SetCell，删除后其下的行上移
func (t *Table) DeleteRow(index int) error {
	return t.f.RemoveRow(t.name, index+1)
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
