package derived

import (
	"strconv"
	"strings"

	"github.com/angelmondragon/warehouse-console/pkg/enums"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencyCode = "KES"

var moneyPrinter = message.NewPrinter(language.English)

// FormatCurrency renders amounts as "KES 1,234.50". Digits come from the
// decimal itself, so large totals keep every cent.
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(moneyPlaces)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	whole, frac, _ := strings.Cut(rounded.Abs().StringFixed(moneyPlaces), ".")
	return sign + currencyCode + " " + groupDigits(whole) + "." + frac
}

func groupDigits(whole string) string {
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		return moneyPrinter.Sprintf("%d", n)
	}
	// Past int64 range.
	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return b.String()
}

func TransferLabel(t enums.TransferType) string {
	switch t {
	case enums.TransferTypeIn:
		return "Transfer In"
	case enums.TransferTypeOut:
		return "Transfer Out"
	default:
		return "Transfer"
	}
}
