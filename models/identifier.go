package models

import (
	"strconv"
)

// IdentifierKind tells how an Identifier should be matched.
type IdentifierKind int

const (
	ByNumber IdentifierKind = iota
	ByName
)

// Identifier addresses a single Pokémon either by its number or by its name.
type Identifier struct {
	Kind   IdentifierKind
	Number uint
	Name   string
}

// ParseIdentifier resolves a raw path segment. A non-empty string made only
// of ASCII digits is a number; anything else is a case-insensitive name.
// Digit strings too large for the number column resolve to 0, which never
// matches because numbers are positive.
func ParseIdentifier(raw string) Identifier {
	if !isDigits(raw) {
		return Identifier{Kind: ByName, Name: raw}
	}

	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return Identifier{Kind: ByNumber}
	}
	return Identifier{Kind: ByNumber, Number: uint(n)}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (id Identifier) String() string {
	if id.Kind == ByNumber {
		return strconv.FormatUint(uint64(id.Number), 10)
	}
	return id.Name
}
