package deob

// accented holds the non-ASCII characters accepted as text.
const accented = "ñÑáéíóúÁÉÍÓÚ°"

var accentedSet = func() map[rune]struct{} {
	set := make(map[rune]struct{}, len(accented))
	for _, r := range accented {
		set[r] = struct{}{}
	}
	return set
}()

// IsPrintableRune reports whether r counts as text for LooksPrintable.
func IsPrintableRune(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 32 && r <= 126:
		return true
	}
	_, ok := accentedSet[r]
	return ok
}

// LooksPrintable reports whether s is non-empty and at least 90% of its
// characters are printable.
func LooksPrintable(s string) bool {
	var total, printable int
	for _, r := range s {
		total++
		if IsPrintableRune(r) {
			printable++
		}
	}
	if total == 0 {
		return false
	}
	return printable*10 >= total*9
}
