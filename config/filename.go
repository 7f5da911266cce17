package config

import "strings"

const badFileName = "_bad_file_name_"

// CleanFileName removes characters not allowed in file names on current
// platform together with control characters and leading dots.
func CleanFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if sym < 0x20 || strings.ContainsRune(forbiddenInName, sym) {
			return -1
		}
		return sym
	}, in), ".")
	if len(strings.TrimSpace(out)) == 0 {
		return badFileName
	}
	return out
}
