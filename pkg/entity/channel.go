package entity

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// TextChannel is a cached guild text (or announcement) channel
type TextChannel struct {
	ID               snowflake.ID `msgpack:"id"`
	GuildID          snowflake.ID `msgpack:"guild_id"`
	Name             string       `msgpack:"name"`
	Topic            string       `msgpack:"topic"`
	Position         int          `msgpack:"position"`
	ParentID         snowflake.ID `msgpack:"parent_id"`
	LastMessageID    snowflake.ID `msgpack:"last_message_id"`
	RateLimitPerUser int          `msgpack:"rate_limit_per_user"`
	NSFW             bool         `msgpack:"nsfw"`
}

func (c TextChannel) EntityID() snowflake.ID      { return c.ID }
func (TextChannel) EntityKind() Kind              { return KindTextChannel }
func (c TextChannel) EntityGuildID() snowflake.ID { return c.GuildID }
func (c TextChannel) ChannelID() snowflake.ID     { return c.ID }
func (c TextChannel) ChannelName() string         { return c.Name }
func (c TextChannel) ChannelPosition() int        { return c.Position }

// VoiceChannel is a cached guild voice (or stage) channel
type VoiceChannel struct {
	ID        snowflake.ID `msgpack:"id"`
	GuildID   snowflake.ID `msgpack:"guild_id"`
	Name      string       `msgpack:"name"`
	Position  int          `msgpack:"position"`
	ParentID  snowflake.ID `msgpack:"parent_id"`
	Bitrate   int          `msgpack:"bitrate"`
	UserLimit int          `msgpack:"user_limit"`
}

func (c VoiceChannel) EntityID() snowflake.ID      { return c.ID }
func (VoiceChannel) EntityKind() Kind              { return KindVoiceChannel }
func (c VoiceChannel) EntityGuildID() snowflake.ID { return c.GuildID }
func (c VoiceChannel) ChannelID() snowflake.ID     { return c.ID }
func (c VoiceChannel) ChannelName() string         { return c.Name }
func (c VoiceChannel) ChannelPosition() int        { return c.Position }

// CategoryChannel groups other guild channels
type CategoryChannel struct {
	ID       snowflake.ID `msgpack:"id"`
	GuildID  snowflake.ID `msgpack:"guild_id"`
	Name     string       `msgpack:"name"`
	Position int          `msgpack:"position"`
}

func (c CategoryChannel) EntityID() snowflake.ID      { return c.ID }
func (CategoryChannel) EntityKind() Kind              { return KindCategoryChannel }
func (c CategoryChannel) EntityGuildID() snowflake.ID { return c.GuildID }
func (c CategoryChannel) ChannelID() snowflake.ID     { return c.ID }
func (c CategoryChannel) ChannelName() string         { return c.Name }
func (c CategoryChannel) ChannelPosition() int        { return c.Position }

// PrivateChannel is a one-to-one direct message channel
type PrivateChannel struct {
	ID            snowflake.ID `msgpack:"id"`
	RecipientID   snowflake.ID `msgpack:"recipient_id"`
	LastMessageID snowflake.ID `msgpack:"last_message_id"`
}

func (c PrivateChannel) EntityID() snowflake.ID { return c.ID }
func (PrivateChannel) EntityKind() Kind         { return KindPrivateChannel }

// Group is a group direct message channel
type Group struct {
	ID            snowflake.ID   `msgpack:"id"`
	Name          string         `msgpack:"name"`
	Icon          string         `msgpack:"icon"`
	OwnerID       snowflake.ID   `msgpack:"owner_id"`
	RecipientIDs  []snowflake.ID `msgpack:"recipient_ids"`
	LastMessageID snowflake.ID   `msgpack:"last_message_id"`
}

func (g Group) EntityID() snowflake.ID { return g.ID }
func (Group) EntityKind() Kind         { return KindGroup }

// Clone returns a deep copy of the group
func (g Group) Clone() Group {
	g.RecipientIDs = cloneIDs(g.RecipientIDs)
	return g
}

// Message is a cached message. GuildID is zero for direct messages.
type Message struct {
	ID              snowflake.ID   `msgpack:"id"`
	ChannelID       snowflake.ID   `msgpack:"channel_id"`
	GuildID         snowflake.ID   `msgpack:"guild_id"`
	AuthorID        snowflake.ID   `msgpack:"author_id"`
	Content         string         `msgpack:"content"`
	Type            int            `msgpack:"type"`
	Timestamp       time.Time      `msgpack:"timestamp"`
	EditedTimestamp time.Time      `msgpack:"edited_timestamp"`
	AttachmentIDs   []snowflake.ID `msgpack:"attachment_ids"`
	Pinned          bool           `msgpack:"pinned"`
	TTS             bool           `msgpack:"tts"`
}

func (m Message) EntityID() snowflake.ID      { return m.ID }
func (Message) EntityKind() Kind              { return KindMessage }
func (m Message) EntityGuildID() snowflake.ID { return m.GuildID }

// Clone returns a deep copy of the message
func (m Message) Clone() Message {
	m.AttachmentIDs = cloneIDs(m.AttachmentIDs)
	return m
}

// Normalize returns the message with its timestamps in UTC
func (m Message) Normalize() Message {
	m.Timestamp = utc(m.Timestamp)
	m.EditedTimestamp = utc(m.EditedTimestamp)
	return m
}

// Attachment is a file attached to a message
type Attachment struct {
	ID          snowflake.ID `msgpack:"id"`
	MessageID   snowflake.ID `msgpack:"message_id"`
	Filename    string       `msgpack:"filename"`
	ContentType string       `msgpack:"content_type"`
	URL         string       `msgpack:"url"`
	ProxyURL    string       `msgpack:"proxy_url"`
	Size        int          `msgpack:"size"`
	Width       int          `msgpack:"width"`
	Height      int          `msgpack:"height"`
}

func (a Attachment) EntityID() snowflake.ID { return a.ID }
func (Attachment) EntityKind() Kind         { return KindAttachment }
