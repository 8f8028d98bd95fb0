package planilha

import (
	"math"
	"strings"
	"time"
)

// ISOLayout é o formato de saída de todas as datas: UTC com milissegundos.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// maior serial aceito pelo formato (31/12/9999)
const maxSerial = 2958465

// layouts com fuso explícito ou interpretados em UTC
var utcLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02",
}

// layouts sem fuso, interpretados no fuso do decodificador
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006",
	"2006/01/02",
}

// DateDecoder converte células de data (serial da planilha ou texto) em timestamp ISO.
type DateDecoder struct {
	loc *time.Location
}

// NewDateDecoder cria um decodificador que monta as datas à meia-noite do fuso informado.
func NewDateDecoder(loc *time.Location) *DateDecoder {
	if loc == nil {
		loc = time.Local
	}
	return &DateDecoder{loc: loc}
}

// Decode devolve nil para células vazias, datas inválidas ou tipos não suportados.
func (d *DateDecoder) Decode(c Cell) *string {
	var t time.Time
	switch c.Kind {
	case KindString:
		parsed, ok := d.parseText(c.Str)
		if !ok {
			return nil
		}
		t = parsed
	case KindNumber:
		y, m, day, ok := serialToDate(c.Num)
		if !ok {
			return nil
		}
		t = time.Date(y, time.Month(m), day, 0, 0, 0, 0, d.loc)
	default:
		return nil
	}
	s := t.UTC().Format(ISOLayout)
	return &s
}

func (d *DateDecoder) parseText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range utcLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, d.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// serialToDate decodifica o número de série no sistema de 1900, incluindo o
// dia fictício 29/02/1900 (serial 60). Serial 0 não tem dia e é rejeitado.
func serialToDate(v float64) (y, m, d int, ok bool) {
	if math.IsNaN(v) || v < 0 || v > maxSerial {
		return 0, 0, 0, false
	}
	date := int(v)
	frac := 86400 * (v - float64(date))
	secs := math.Floor(frac)
	if frac-secs > 0.9999 && secs+1 == 86400 {
		date++
	}

	switch {
	case date == 0:
		return 0, 0, 0, false
	case date == 60:
		return 1900, 2, 29, true
	case date > 60:
		date--
	}
	t := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, date-1)
	return t.Year(), int(t.Month()), t.Day(), true
}
