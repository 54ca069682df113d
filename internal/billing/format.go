package billing

import "strconv"

// FormatRupiah renders an amount the way the invoices display it:
// "Rp 375.000", thousands grouped with dots, no decimal part.
func FormatRupiah(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	prefix := "Rp "
	if negative {
		prefix = "-Rp "
	}
	return prefix + string(out)
}
