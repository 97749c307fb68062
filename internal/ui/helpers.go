package ui

import "slices"

// cycle returns the entry of list delta steps away from current, wrapping
// around. An unknown current starts from the first entry.
func cycle(list []string, current string, delta int) string {
	if len(list) == 0 {
		return current
	}
	i := slices.Index(list, current)
	if i < 0 {
		return list[0]
	}
	n := len(list)
	return list[((i+delta)%n+n)%n]
}

// withCategory returns list with c appended when it is not listed yet.
func withCategory(list []string, c string) []string {
	if c == "" || slices.Contains(list, c) {
		return list
	}
	return append(slices.Clone(list), c)
}
