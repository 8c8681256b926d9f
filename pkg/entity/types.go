package entity

import (
	"strings"
)

// Types is a bit-set selecting which entity kinds are actively tracked.
// Backends consult it on writes only.
type Types uint16

// AllTypes enables every kind and is the default configuration
const AllTypes Types = 1<<kindCount - 1

// NoTypes disables every kind
const NoTypes Types = 0

// TypesOf builds a set from the given kinds
func TypesOf(kinds ...Kind) Types {
	var t Types
	for _, k := range kinds {
		t = t.With(k)
	}
	return t
}

// Contains reports whether writes for kind k are retained
func (t Types) Contains(k Kind) bool {
	return k.Valid() && t&(1<<k) != 0
}

// With returns a copy of the set with k enabled
func (t Types) With(k Kind) Types {
	if !k.Valid() {
		return t
	}
	return t | 1<<k
}

// Without returns a copy of the set with k disabled
func (t Types) Without(k Kind) Types {
	if !k.Valid() {
		return t
	}
	return t &^ (1 << k)
}

// Kinds lists the enabled kinds in declaration order
func (t Types) Kinds() []Kind {
	var kinds []Kind
	for _, k := range Kinds() {
		if t.Contains(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// String renders the set as "all", "none" or a comma separated list of names
func (t Types) String() string {
	switch t & AllTypes {
	case AllTypes:
		return "all"
	case NoTypes:
		return "none"
	}

	kinds := t.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}

// ParseTypes parses the output of Types.String. Blank input means "all".
func ParseTypes(s string) (Types, error) {
	return ParseTypeNames(strings.Split(s, ","))
}

// ParseTypeNames parses a list of kind names into a set.
// The names "all" and "none" may appear alone.
func ParseTypeNames(names []string) (Types, error) {
	var (
		t     Types
		count int
	)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		count++

		switch strings.ToLower(name) {
		case "all":
			t = AllTypes
			continue
		case "none":
			continue
		}

		k, err := ParseKind(name)
		if err != nil {
			return NoTypes, err
		}
		t = t.With(k)
	}

	if count == 0 {
		return AllTypes, nil
	}
	return t, nil
}

// MarshalText implements encoding.TextMarshaler
func (t Types) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Types) UnmarshalText(text []byte) error {
	parsed, err := ParseTypes(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
