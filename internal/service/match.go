package service

import "strings"

// MatchesAssignedUser reports whether an asset's free-text assignment
// refers to the given person. Both sides are trimmed, lowercased and
// have whitespace runs collapsed; a match is a substring hit in either
// direction. Empty sides never match. Partial names can over-match;
// that trade-off is accepted because assignments are free text.
func MatchesAssignedUser(assetUserName, fullName string) bool {
	a := normalizeName(assetUserName)
	b := normalizeName(fullName)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
