package catalog

import (
	"strconv"
	"strings"

	"github.com/dukerupert/menuboard/internal/model"
)

// CurrencySuffix follows every formatted price.
const CurrencySuffix = " SP"

// FormatPrice renders p with en-US digit grouping and at most three fraction
// digits. An invalid price renders as zero.
func FormatPrice(p model.Price) string {
	if !p.Valid() {
		return "0" + CurrencySuffix
	}
	s := strconv.FormatFloat(p.Float(), 'f', 3, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	var b strings.Builder
	if neg && (strings.Trim(intPart, "0") != "" || frac != "") {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	b.WriteString(CurrencySuffix)
	return b.String()
}
