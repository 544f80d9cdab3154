// Package util provides small generic helpers for slices, attribute maps and
// id lists.
package util
