package planilha

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// ErrFormatoInvalido indica que os bytes não formam uma planilha .xlsx nem .xls.
var ErrFormatoInvalido = errors.New("formato de planilha não suportado")

// Sheet é uma aba já convertida em linhas chaveadas pelo cabeçalho.
type Sheet struct {
	Name string
	Rows []Row
}

// Workbook guarda as abas na ordem do arquivo.
type Workbook struct {
	Sheets []Sheet
}

// Read carrega a planilha inteira de um reader.
func Read(file io.Reader) (*Workbook, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler o arquivo: %w", err)
	}
	return Open(data)
}

// Open tenta primeiro o formato .xlsx e depois o .xls legado.
func Open(data []byte) (*Workbook, error) {
	wb, errX := openXLSX(data)
	if errX == nil {
		return wb, nil
	}

	wb, errL := openXLS(data)
	if errL == nil {
		return wb, nil
	}

	return nil, fmt.Errorf("%w: xlsx: %v; xls: %v", ErrFormatoInvalido, errX, errL)
}

// ---------------------- xlsx ----------------------

func openXLSX(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("erro ao ler a aba %q: %w", name, err)
		}

		grid := make([][]Cell, len(raw))
		for r, cols := range raw {
			grid[r] = make([]Cell, len(cols))
			for c, v := range cols {
				if v == "" {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, err
				}
				typ, err := f.GetCellType(name, axis)
				if err != nil {
					return nil, fmt.Errorf("erro ao ler a célula %s da aba %q: %w", axis, name, err)
				}
				grid[r][c] = cellFromXLSX(typ, v)
			}
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: tabulate(grid)})
	}
	return wb, nil
}

func cellFromXLSX(typ excelize.CellType, v string) Cell {
	switch typ {
	case excelize.CellTypeBool:
		return BoolCell(v == "1" || strings.EqualFold(v, "true"))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError, excelize.CellTypeDate:
		return StringCell(v)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return NumberCell(f)
	}
	return StringCell(v)
}

// ---------------------- xls ----------------------

func openXLS(data []byte) (wb *Workbook, err error) {
	// o xlsReader entra em pânico com alguns arquivos corrompidos
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, fmt.Errorf("arquivo .xls corrompido: %v", r)
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	wb = &Workbook{}
	for i := 0; i < book.GetNumberSheets(); i++ {
		sheet, err := book.GetSheet(i)
		if err != nil {
			return nil, fmt.Errorf("erro ao obter a aba %d do arquivo .xls: %w", i, err)
		}
		if sheet == nil {
			continue
		}

		var grid [][]Cell
		for r := 0; r <= int(sheet.GetNumberRows()); r++ {
			row, err := sheet.GetRow(r)
			if err != nil || row == nil {
				grid = append(grid, nil)
				continue
			}
			var cols []Cell
			for _, col := range row.GetCols() {
				if col == nil {
					cols = append(cols, Cell{})
					continue
				}
				cols = append(cols, cellFromXLS(col.GetType(), col.GetString(), col.GetFloat64()))
			}
			grid = append(grid, cols)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: legacyText(sheet.GetName()), Rows: tabulate(grid)})
	}
	return wb, nil
}

// cellFromXLS usa o nome do registro BIFF (ex.: "*record.Number") para separar os tipos.
func cellFromXLS(recordType, text string, num float64) Cell {
	switch {
	case strings.Contains(recordType, "Blank"):
		return Cell{}
	case strings.Contains(recordType, "Number"), strings.Contains(recordType, "Rk"):
		return NumberCell(num)
	case strings.Contains(recordType, "BoolErr"):
		if b, ok := StringCell(text).Boolean(); ok {
			return BoolCell(b)
		}
	}
	if text == "" {
		return Cell{}
	}
	return StringCell(legacyText(text))
}

// legacyText converte textos BIFF8 gravados em Windows-1252, que chegam
// como bytes inválidos em UTF-8.
func legacyText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	out, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}

// ---------------------- cabeçalho ----------------------

// tabulate usa a primeira linha não vazia como cabeçalho e transforma as
// seguintes em Row. Linhas sem nenhum valor são descartadas, cabeçalhos vazios
// viram __EMPTY e repetidos ganham sufixo _1, _2...
func tabulate(grid [][]Cell) []Row {
	header := -1
	width := 0
	for i, cols := range grid {
		if len(cols) > width {
			width = len(cols)
		}
		if header < 0 && !blankRow(cols) {
			header = i
		}
	}
	if header < 0 {
		return []Row{}
	}

	names := headerNames(grid[header], width)
	rows := []Row{}
	for _, cols := range grid[header+1:] {
		if blankRow(cols) {
			continue
		}
		row := make(Row, len(cols))
		for c, cell := range cols {
			if cell.Kind == KindEmpty {
				continue
			}
			row[names[c]] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

func headerNames(cells []Cell, width int) []string {
	names := make([]string, width)
	seen := make(map[string]bool, width)
	for c := 0; c < width; c++ {
		base := "__EMPTY"
		if c < len(cells) && cells[c].Kind != KindEmpty {
			base = cells[c].Text()
		}
		name := base
		for n := 1; seen[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		seen[name] = true
		names[c] = name
	}
	return names
}

func blankRow(cols []Cell) bool {
	for _, c := range cols {
		if c.Kind != KindEmpty {
			return false
		}
	}
	return true
}
