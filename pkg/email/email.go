// Package email derives presentable account fields from an email address.
// Registration only collects an email and credential material, so the
// initial display name comes from the local part until the user edits it.
package email

import (
	"strings"
	"unicode"
)

const fallbackName = "User"

// DeriveNameFromEmail splits the local part of an email address into a
// first and last name guess. "jane.doe@example.com" yields ("Jane", "Doe").
// Addresses without separators fall back to ("<Local>", "User").
func DeriveNameFromEmail(address string) (string, string) {
	local := address
	if at := strings.IndexByte(address, '@'); at > 0 {
		local = address[:at]
	}

	parts := strings.FieldsFunc(local, isSeparator)
	if len(parts) == 0 {
		return fallbackName, fallbackName
	}

	first := capitalize(parts[0])
	last := fallbackName
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}
	return first, last
}

// Normalize lowercases and trims an address for use as a lookup key.
// Uniqueness checks and storage always operate on the normalized form.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func isSeparator(r rune) bool {
	return r == '.' || r == '_' || r == '-' || r == '+'
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
