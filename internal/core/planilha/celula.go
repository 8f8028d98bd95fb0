package planilha

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind é o tipo de valor bruto guardado numa célula.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindBool
)

// Cell é o valor bruto de uma célula, já separado por tipo.
type Cell struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
}

// StringCell, NumberCell e BoolCell constroem células tipadas.
func StringCell(s string) Cell { return Cell{Kind: KindString, Str: s} }
func NumberCell(f float64) Cell { return Cell{Kind: KindNumber, Num: f} }
func BoolCell(b bool) Cell { return Cell{Kind: KindBool, Bool: b} }

// Row mapeia o texto exato do cabeçalho para a célula da linha.
type Row map[string]Cell

// Blank informa se a célula conta como ausente: vazia ou string vazia.
func (c Cell) Blank() bool {
	return c.Kind == KindEmpty || (c.Kind == KindString && c.Str == "")
}

// Truthy segue a regra das colunas de gatilho: string não vazia, número
// diferente de zero ou booleano verdadeiro.
func (c Cell) Truthy() bool {
	switch c.Kind {
	case KindString:
		return c.Str != ""
	case KindNumber:
		return c.Num != 0 && !math.IsNaN(c.Num)
	case KindBool:
		return c.Bool
	}
	return false
}

// Text devolve a representação textual do valor.
func (c Cell) Text() string {
	switch c.Kind {
	case KindString:
		return c.Str
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	}
	return ""
}

// Number tenta ler a célula como número. Aceita texto no formato brasileiro (1.234,56).
func (c Cell) Number() (float64, bool) {
	switch c.Kind {
	case KindNumber:
		return c.Num, !math.IsNaN(c.Num)
	case KindBool:
		if c.Bool {
			return 1, true
		}
		return 0, true
	case KindString:
		return parseNumber(c.Str)
	}
	return 0, false
}

// Boolean tenta ler a célula como booleano.
func (c Cell) Boolean() (bool, bool) {
	switch c.Kind {
	case KindBool:
		return c.Bool, true
	case KindNumber:
		return c.Num != 0, true
	case KindString:
		switch strings.ToLower(strings.TrimSpace(c.Str)) {
		case "true", "verdadeiro", "sim", "s", "1":
			return true, true
		case "false", "falso", "não", "nao", "n", "0":
			return false, true
		}
	}
	return false, false
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// ---------------------- acesso aos campos ----------------------

// Get devolve a célula da coluna ou def quando ela não existe, está vazia ou é string vazia.
func (r Row) Get(key string, def Cell) Cell {
	if c, ok := r.value(key); ok {
		return c
	}
	return def
}

// Has informa se a coluna de gatilho tem valor verdadeiro.
func (r Row) Has(key string) bool {
	return r[key].Truthy()
}

func (r Row) value(key string) (Cell, bool) {
	c, ok := r[key]
	if !ok || c.Blank() {
		return Cell{}, false
	}
	return c, true
}

func (r Row) Str(key, def string) string {
	if c, ok := r.value(key); ok {
		return c.Text()
	}
	return def
}

func (r Row) StrPtr(key string) *string {
	if c, ok := r.value(key); ok {
		s := c.Text()
		return &s
	}
	return nil
}

func (r Row) Int(key string, def int) int {
	if p := r.IntPtr(key); p != nil {
		return *p
	}
	return def
}

func (r Row) IntPtr(key string) *int {
	c, ok := r.value(key)
	if !ok {
		return nil
	}
	f, ok := c.Number()
	if !ok || math.IsInf(f, 0) {
		return nil
	}
	i := int(f)
	return &i
}

func (r Row) Float(key string, def float64) float64 {
	if p := r.FloatPtr(key); p != nil {
		return *p
	}
	return def
}

func (r Row) FloatPtr(key string) *float64 {
	c, ok := r.value(key)
	if !ok {
		return nil
	}
	f, ok := c.Number()
	if !ok || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func (r Row) Bool(key string, def bool) bool {
	c, ok := r.value(key)
	if !ok {
		return def
	}
	if b, ok := c.Boolean(); ok {
		return b
	}
	return def
}

var nonDigitRegex = regexp.MustCompile(`\D`)

// CleanDigits remove tudo que não for dígito de uma célula de texto.
// Qualquer outro tipo de célula resulta em string vazia.
func CleanDigits(c Cell) string {
	if c.Kind != KindString {
		return ""
	}
	return nonDigitRegex.ReplaceAllString(c.Str, "")
}
