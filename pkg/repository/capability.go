package repository

import "strings"

// Capabilities is the set of optional operations a backend provides.
// Get, Remove and Upsert are mandatory and have no flag.
type Capabilities uint8

const (
	// CapabilityList allows Repository.List
	CapabilityList Capabilities = 1 << iota
	// CapabilityRelations allows joins between repositories (member roles, voice channel)
	CapabilityRelations
	// CapabilityGuildScan allows guild aggregate queries (members of a guild, ...)
	CapabilityGuildScan
)

// Has reports whether every capability in want is present
func (c Capabilities) Has(want Capabilities) bool {
	return c&want == want
}

func (c Capabilities) String() string {
	var names []string
	if c.Has(CapabilityList) {
		names = append(names, "list")
	}
	if c.Has(CapabilityRelations) {
		names = append(names, "relations")
	}
	if c.Has(CapabilityGuildScan) {
		names = append(names, "guild_scan")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
