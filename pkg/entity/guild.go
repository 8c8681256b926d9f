package entity

import (
	"slices"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Guild is a cached guild
type Guild struct {
	ID          snowflake.ID `msgpack:"id"`
	Name        string       `msgpack:"name"`
	Icon        string       `msgpack:"icon"`
	OwnerID     snowflake.ID `msgpack:"owner_id"`
	MemberCount int          `msgpack:"member_count"`
	Unavailable bool         `msgpack:"unavailable"`
	Features    []string     `msgpack:"features"`
}

func (g Guild) EntityID() snowflake.ID { return g.ID }
func (Guild) EntityKind() Kind         { return KindGuild }

// Clone returns a deep copy of the guild
func (g Guild) Clone() Guild {
	g.Features = slices.Clone(g.Features)
	return g
}

// Role is a cached guild role
type Role struct {
	ID          snowflake.ID `msgpack:"id"`
	GuildID     snowflake.ID `msgpack:"guild_id"`
	Name        string       `msgpack:"name"`
	Color       int          `msgpack:"color"`
	Hoist       bool         `msgpack:"hoist"`
	Managed     bool         `msgpack:"managed"`
	Mentionable bool         `msgpack:"mentionable"`
	Position    int          `msgpack:"position"`
	Permissions int64        `msgpack:"permissions"`
}

func (r Role) EntityID() snowflake.ID      { return r.ID }
func (Role) EntityKind() Kind              { return KindRole }
func (r Role) EntityGuildID() snowflake.ID { return r.GuildID }

// Emoji is a cached custom guild emoji
type Emoji struct {
	ID            snowflake.ID   `msgpack:"id"`
	GuildID       snowflake.ID   `msgpack:"guild_id"`
	Name          string         `msgpack:"name"`
	CreatorID     snowflake.ID   `msgpack:"creator_id"`
	RoleIDs       []snowflake.ID `msgpack:"role_ids"`
	Animated      bool           `msgpack:"animated"`
	Available     bool           `msgpack:"available"`
	Managed       bool           `msgpack:"managed"`
	RequireColons bool           `msgpack:"require_colons"`
}

func (e Emoji) EntityID() snowflake.ID      { return e.ID }
func (Emoji) EntityKind() Kind              { return KindEmoji }
func (e Emoji) EntityGuildID() snowflake.ID { return e.GuildID }

// Clone returns a deep copy of the emoji
func (e Emoji) Clone() Emoji {
	e.RoleIDs = cloneIDs(e.RoleIDs)
	return e
}

// Member is a user's membership in a guild.
//
// RoleIDs keeps the order received from the platform. HighlightedRoleID is the
// role the member is displayed under; zero means unset.
type Member struct {
	GuildID           snowflake.ID   `msgpack:"guild_id"`
	UserID            snowflake.ID   `msgpack:"user_id"`
	Nick              string         `msgpack:"nick"`
	Avatar            string         `msgpack:"avatar"`
	RoleIDs           []snowflake.ID `msgpack:"role_ids"`
	HighlightedRoleID snowflake.ID   `msgpack:"highlighted_role_id"`
	JoinedAt          time.Time      `msgpack:"joined_at"`
	PremiumSince      time.Time      `msgpack:"premium_since"`
	Deaf              bool           `msgpack:"deaf"`
	Mute              bool           `msgpack:"mute"`
	Pending           bool           `msgpack:"pending"`
}

func (m Member) EntityID() GuildUserID       { return NewGuildUserID(m.GuildID, m.UserID) }
func (Member) EntityKind() Kind              { return KindMember }
func (m Member) EntityGuildID() snowflake.ID { return m.GuildID }

// Clone returns a deep copy of the member
func (m Member) Clone() Member {
	m.RoleIDs = cloneIDs(m.RoleIDs)
	return m
}

// Normalize returns the member with its timestamps in UTC
func (m Member) Normalize() Member {
	m.JoinedAt = utc(m.JoinedAt)
	m.PremiumSince = utc(m.PremiumSince)
	return m
}
