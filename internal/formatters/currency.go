package formatters

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"salaryinsights/internal/types"
)

// MoneyFormatter renders amounts as whole currency values for one locale
type MoneyFormatter struct {
	printer *message.Printer
}

// NewMoneyFormatter creates a formatter for a BCP 47 locale, falling back to en-US
func NewMoneyFormatter(locale string) *MoneyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return &MoneyFormatter{printer: message.NewPrinter(tag)}
}

// FormatAmount renders v with the currency symbol and no fraction digits,
// e.g. "$90,000". Currencies without a symbol come back as the code and a
// non-breaking space, e.g. "CHF\u00a090,000"; malformed codes are prefixed
// the same way.
func (f *MoneyFormatter) FormatAmount(v float64, code string) string {
	amount := f.printer.Sprint(number.Decimal(math.Round(v), number.MaxFractionDigits(0)))

	unit, err := currency.ParseISO(code)
	if err != nil {
		return strings.ToUpper(code) + "\u00a0" + amount
	}
	return f.printer.Sprint(currency.Symbol(unit)) + amount
}

// FormatSalaryRange renders "<min> - <max>" in the estimate's currency
func (f *MoneyFormatter) FormatSalaryRange(estimate types.SalaryEstimate) string {
	return f.FormatAmount(estimate.MinSalary, estimate.CurrencyCode) + " - " +
		f.FormatAmount(estimate.MaxSalary, estimate.CurrencyCode)
}

// FormatSalaryRange formats with the default en-US locale
func FormatSalaryRange(estimate types.SalaryEstimate) string {
	return NewMoneyFormatter("en-US").FormatSalaryRange(estimate)
}

var compactUnits = []struct {
	scale  float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// CompactNumber renders short axis labels such as "950", "1.2K", "90K" or
// "1.5M": one decimal below ten of a unit, whole units above.
func CompactNumber(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}

	for i, u := range compactUnits {
		if v < u.scale {
			continue
		}
		mantissa := roundCompact(v / u.scale)
		if mantissa >= 1000 && i > 0 {
			mantissa, u = roundCompact(mantissa/1000), compactUnits[i-1]
		}
		return sign + strconv.FormatFloat(mantissa, 'f', -1, 64) + u.suffix
	}
	return sign + strconv.FormatFloat(roundCompact(v), 'f', -1, 64)
}

func roundCompact(m float64) float64 {
	if m < 10 {
		return math.Round(m*10) / 10
	}
	return math.Round(m)
}
