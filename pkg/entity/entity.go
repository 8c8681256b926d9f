// Package entity defines the cached chat-platform entities, their identifiers
// and the entity-type configuration shared by every backend.
package entity

import (
	"slices"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Entity is the minimal contract every cached record satisfies
type Entity[ID comparable] interface {
	// EntityID returns the unique identifier the record is stored under
	EntityID() ID
	// EntityKind returns the kind of the record. It must not depend on field values.
	EntityKind() Kind
}

// GuildScoped is implemented by entities that belong to a guild.
// A zero guild id means the entity is not guild bound (for example a DM message).
type GuildScoped interface {
	EntityGuildID() snowflake.ID
}

// GuildChannel is any channel entity that lives inside a guild
type GuildChannel interface {
	GuildScoped
	EntityKind() Kind
	ChannelID() snowflake.ID
	ChannelName() string
	ChannelPosition() int
}

// GuildUserID is the composite identifier of guild-scoped user records
// (members, presences and voice states).
type GuildUserID struct {
	GuildID snowflake.ID `msgpack:"guild_id"`
	UserID  snowflake.ID `msgpack:"user_id"`
}

// NewGuildUserID builds a composite identifier
func NewGuildUserID(guildID, userID snowflake.ID) GuildUserID {
	return GuildUserID{GuildID: guildID, UserID: userID}
}

// String renders the identifier as "guild:user", the form used in remote keys
func (id GuildUserID) String() string {
	return id.GuildID.String() + ":" + id.UserID.String()
}

// Clone returns a deep copy of v when its type owns reference fields,
// and v itself otherwise.
func Clone[T any](v T) T {
	if c, ok := any(v).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	return v
}

// utc converts t to UTC, keeping the zero time zero
func utc(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC()
}

func cloneIDs(ids []snowflake.ID) []snowflake.ID {
	if ids == nil {
		return nil
	}
	return slices.Clone(ids)
}
