// Package validation holds the pure input predicates.
//
// Every function here is a side-effect-free boolean check: no logging, no
// errors, no external state. Services call these before anything touches
// storage — garbage input must never reach a repository.
package validation

import (
	"regexp"
	"unicode/utf8"
)

var (
	// Letters only, Latin or Cyrillic — no digits, spaces or punctuation.
	nameRe = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ]+$`)

	// Standard local@domain.tld shape. The login IS the email address.
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// Exactly +7(XXX)XXX-XX-XX. Other groupings of the same ten digits
	// (e.g. "8-000-000-00-00") do not pass.
	phoneRe = regexp.MustCompile(`^\+7\(\d{3}\)\d{3}-\d{2}-\d{2}$`)
)

// IsValidLength reports whether the rune count of s is within [min, max]
// inclusive. Rune count, not byte count — Cyrillic names are two bytes per
// letter in UTF-8 and must not be penalised for it.
func IsValidLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// IsValidName reports whether s consists only of letters (Latin or Cyrillic).
func IsValidName(s string) bool {
	return nameRe.MatchString(s)
}

// IsValidUsername reports whether s looks like an email address.
func IsValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// IsValidPhone reports whether s matches the +7(XXX)XXX-XX-XX template.
func IsValidPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// IsValidPrice reports whether price is non-nil and within [min, max]
// inclusive. A nil price (absent JSON field) is invalid — callers decode
// into *int precisely so that "missing" and "zero" stay distinguishable.
func IsValidPrice(price *int, min, max int) bool {
	return price != nil && *price >= min && *price <= max
}
