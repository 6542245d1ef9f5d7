package scanner

const maskFill = "****"

// Mask hides the middle of a matched secret. Short values are hidden
// entirely and medium ones keep two characters at each end.
func Mask(s string) string {
	r := []rune(s)
	switch n := len(r); {
	case n <= 8:
		return "********"
	case n < 16:
		return string(r[:2]) + maskFill + string(r[n-2:])
	default:
		return string(r[:4]) + maskFill + string(r[n-4:])
	}
}
