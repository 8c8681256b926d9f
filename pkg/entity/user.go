package entity

import (
	"slices"

	"github.com/disgoorg/snowflake/v2"
)

// User is a cached platform user
type User struct {
	ID            snowflake.ID `msgpack:"id"`
	Username      string       `msgpack:"username"`
	GlobalName    string       `msgpack:"global_name"`
	Discriminator string       `msgpack:"discriminator"`
	Avatar        string       `msgpack:"avatar"`
	Bot           bool         `msgpack:"bot"`
	System        bool         `msgpack:"system"`
}

func (u User) EntityID() snowflake.ID { return u.ID }
func (User) EntityKind() Kind         { return KindUser }

// Activity is one entry of a presence's activity list
type Activity struct {
	Name    string `msgpack:"name"`
	Type    int    `msgpack:"type"`
	URL     string `msgpack:"url"`
	State   string `msgpack:"state"`
	Details string `msgpack:"details"`
}

// Presence is a user's status inside one guild
type Presence struct {
	GuildID    snowflake.ID `msgpack:"guild_id"`
	UserID     snowflake.ID `msgpack:"user_id"`
	Status     string       `msgpack:"status"`
	Activities []Activity   `msgpack:"activities"`
}

func (p Presence) EntityID() GuildUserID       { return NewGuildUserID(p.GuildID, p.UserID) }
func (Presence) EntityKind() Kind              { return KindPresence }
func (p Presence) EntityGuildID() snowflake.ID { return p.GuildID }

// Clone returns a deep copy of the presence
func (p Presence) Clone() Presence {
	p.Activities = slices.Clone(p.Activities)
	return p
}

// VoiceState is a user's voice connection inside one guild.
// ChannelID is zero when the user is not connected.
type VoiceState struct {
	GuildID   snowflake.ID `msgpack:"guild_id"`
	UserID    snowflake.ID `msgpack:"user_id"`
	ChannelID snowflake.ID `msgpack:"channel_id"`
	SessionID string       `msgpack:"session_id"`
	Deaf      bool         `msgpack:"deaf"`
	Mute      bool         `msgpack:"mute"`
	SelfDeaf  bool         `msgpack:"self_deaf"`
	SelfMute  bool         `msgpack:"self_mute"`
	Suppress  bool         `msgpack:"suppress"`
}

func (v VoiceState) EntityID() GuildUserID       { return NewGuildUserID(v.GuildID, v.UserID) }
func (VoiceState) EntityKind() Kind              { return KindVoiceState }
func (v VoiceState) EntityGuildID() snowflake.ID { return v.GuildID }
