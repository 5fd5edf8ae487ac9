package project

import "fmt"

// FormatProjectCode renders the human-readable project identifier,
// PRJ-<year>-<seq> with the sequence zero-padded to three digits. Sequences
// past 999 simply grow wider.
func FormatProjectCode(year int, seq int64) string {
	return fmt.Sprintf("PRJ-%d-%03d", year, seq)
}
