package domain

import "regexp"

var nameGrammar = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,49}$`)

// Name is a validated package identifier (spec.md §6 grammar).
type Name string

// ParseName validates s against the package name grammar.
func ParseName(s string) (Name, error) {
	if !nameGrammar.MatchString(s) {
		return "", ErrInvalidName{Name: s, Reason: "name must match ^[A-Za-z][A-Za-z0-9_-]{0,49}$"}
	}
	return Name(s), nil
}

func (n Name) String() string { return string(n) }
