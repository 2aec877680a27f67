package money

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter форматирует суммы в минимальных единицах валюты (центах, копейках)
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
	scale   int
}

// NewFormatter создаёт форматтер по ISO-коду валюты и языковому тегу (BCP 47)
func NewFormatter(code string, lang string) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("invalid language tag %q: %w", lang, err)
	}

	scale, _ := currency.Standard.Rounding(unit)

	return &Formatter{
		unit:    unit,
		printer: message.NewPrinter(tag),
		scale:   scale,
	}, nil
}

// Format форматирует сумму в минимальных единицах, например 12550 -> "$ 125.50"
func (f *Formatter) Format(minorUnits int64) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(f.major(minorUnits))))
}

// Code ISO-код валюты
func (f *Formatter) Code() string {
	return f.unit.String()
}

func (f *Formatter) major(minorUnits int64) float64 {
	divisor := 1.0
	for i := 0; i < f.scale; i++ {
		divisor *= 10
	}
	return float64(minorUnits) / divisor
}
