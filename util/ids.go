package util

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SplitList splits a comma-separated list, trimming entries and dropping blanks.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SortIDs rewrites ids in their normalized form, dedupes them and sorts them
// ascending: numerically when every id is an integer, lexically otherwise.
// "03" and "3" are the same id.
func SortIDs(ids []string) []string {
	canonical := make([]string, len(ids))
	for i, id := range ids {
		canonical[i] = fmt.Sprint(NormalizeID(id))
	}
	ids = Unique(canonical)
	if allIntegers(ids) {
		sort.Slice(ids, func(i, j int) bool {
			a, _ := strconv.ParseInt(ids[i], 10, 64)
			b, _ := strconv.ParseInt(ids[j], 10, 64)
			return a < b
		})
		return ids
	}
	sort.Strings(ids)
	return ids
}

func allIntegers(ids []string) bool {
	for _, id := range ids {
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			return false
		}
	}
	return true
}

// NormalizeID converts an id string to the value bound in queries: int64 for
// integers, canonical UUID strings for UUIDs, the string itself otherwise.
func NormalizeID(id string) any {
	id = strings.TrimSpace(id)
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}
