package entity

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// ErrUnsupportedChannel is returned by ChannelFromDiscord for channel types
// that have no cached counterpart (threads, forums, directories).
var ErrUnsupportedChannel = errors.New("entity: unsupported channel type")

// parseID parses a snowflake string. An empty string is the zero id.
func parseID(field, s string) (snowflake.ID, error) {
	if s == "" {
		return 0, nil
	}
	id, err := snowflake.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return id, nil
}

func parseIDs(field string, ss []string) ([]snowflake.ID, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	ids := make([]snowflake.ID, 0, len(ss))
	for _, s := range ss {
		id, err := parseID(field, s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// UserFromDiscord converts a gateway user
func UserFromDiscord(u *discordgo.User) (User, error) {
	if u == nil {
		return User{}, errors.New("entity: nil user")
	}
	id, err := parseID("user id", u.ID)
	if err != nil {
		return User{}, err
	}
	return User{
		ID:            id,
		Username:      u.Username,
		GlobalName:    u.GlobalName,
		Discriminator: u.Discriminator,
		Avatar:        u.Avatar,
		Bot:           u.Bot,
		System:        u.System,
	}, nil
}

// GuildFromDiscord converts a gateway guild. Members, roles and channels
// embedded in the guild are not converted; callers upsert them separately.
func GuildFromDiscord(g *discordgo.Guild) (Guild, error) {
	if g == nil {
		return Guild{}, errors.New("entity: nil guild")
	}
	id, err := parseID("guild id", g.ID)
	if err != nil {
		return Guild{}, err
	}
	ownerID, err := parseID("owner id", g.OwnerID)
	if err != nil {
		return Guild{}, err
	}

	var features []string
	for _, f := range g.Features {
		features = append(features, string(f))
	}

	return Guild{
		ID:          id,
		Name:        g.Name,
		Icon:        g.Icon,
		OwnerID:     ownerID,
		MemberCount: g.MemberCount,
		Unavailable: g.Unavailable,
		Features:    features,
	}, nil
}

// RoleFromDiscord converts a role. Gateway roles do not carry their guild id.
func RoleFromDiscord(guildID snowflake.ID, r *discordgo.Role) (Role, error) {
	if r == nil {
		return Role{}, errors.New("entity: nil role")
	}
	id, err := parseID("role id", r.ID)
	if err != nil {
		return Role{}, err
	}
	return Role{
		ID:          id,
		GuildID:     guildID,
		Name:        r.Name,
		Color:       r.Color,
		Hoist:       r.Hoist,
		Managed:     r.Managed,
		Mentionable: r.Mentionable,
		Position:    r.Position,
		Permissions: r.Permissions,
	}, nil
}

// EmojiFromDiscord converts a custom guild emoji
func EmojiFromDiscord(guildID snowflake.ID, e *discordgo.Emoji) (Emoji, error) {
	if e == nil {
		return Emoji{}, errors.New("entity: nil emoji")
	}
	id, err := parseID("emoji id", e.ID)
	if err != nil {
		return Emoji{}, err
	}
	roleIDs, err := parseIDs("emoji role id", e.Roles)
	if err != nil {
		return Emoji{}, err
	}

	var creatorID snowflake.ID
	if e.User != nil {
		if creatorID, err = parseID("emoji creator id", e.User.ID); err != nil {
			return Emoji{}, err
		}
	}

	return Emoji{
		ID:            id,
		GuildID:       guildID,
		Name:          e.Name,
		CreatorID:     creatorID,
		RoleIDs:       roleIDs,
		Animated:      e.Animated,
		Available:     e.Available,
		Managed:       e.Managed,
		RequireColons: e.RequireColons,
	}, nil
}

// MemberFromDiscord converts a guild member.
//
// The platform does not send the highlighted role directly; it is the hoisted
// role with the highest position among the member's roles. guildRoles may be
// nil, in which case the highlighted role is left unset.
func MemberFromDiscord(m *discordgo.Member, guildRoles []*discordgo.Role) (Member, error) {
	if m == nil || m.User == nil {
		return Member{}, errors.New("entity: member without user")
	}
	guildID, err := parseID("guild id", m.GuildID)
	if err != nil {
		return Member{}, err
	}
	userID, err := parseID("user id", m.User.ID)
	if err != nil {
		return Member{}, err
	}
	roleIDs, err := parseIDs("member role id", m.Roles)
	if err != nil {
		return Member{}, err
	}

	member := Member{
		GuildID:  guildID,
		UserID:   userID,
		Nick:     m.Nick,
		Avatar:   m.Avatar,
		RoleIDs:  roleIDs,
		JoinedAt: m.JoinedAt,
		Deaf:     m.Deaf,
		Mute:     m.Mute,
		Pending:  m.Pending,
	}
	if m.PremiumSince != nil {
		member.PremiumSince = *m.PremiumSince
	}

	if highlighted := highlightedRole(m.Roles, guildRoles); highlighted != "" {
		if member.HighlightedRoleID, err = parseID("highlighted role id", highlighted); err != nil {
			return Member{}, err
		}
	}

	return member, nil
}

func highlightedRole(memberRoles []string, guildRoles []*discordgo.Role) string {
	held := make(map[string]struct{}, len(memberRoles))
	for _, id := range memberRoles {
		held[id] = struct{}{}
	}

	var best *discordgo.Role
	for _, r := range guildRoles {
		if r == nil || !r.Hoist {
			continue
		}
		if _, ok := held[r.ID]; !ok {
			continue
		}
		if best == nil || r.Position > best.Position {
			best = r
		}
	}
	if best == nil {
		return ""
	}
	return best.ID
}

// PresenceFromDiscord converts a presence. Presence payloads are guild scoped
// but the guild id travels on the enclosing event.
func PresenceFromDiscord(guildID snowflake.ID, p *discordgo.Presence) (Presence, error) {
	if p == nil || p.User == nil {
		return Presence{}, errors.New("entity: presence without user")
	}
	userID, err := parseID("user id", p.User.ID)
	if err != nil {
		return Presence{}, err
	}

	var activities []Activity
	for _, a := range p.Activities {
		if a == nil {
			continue
		}
		activities = append(activities, Activity{
			Name:    a.Name,
			Type:    int(a.Type),
			URL:     a.URL,
			State:   a.State,
			Details: a.Details,
		})
	}

	return Presence{
		GuildID:    guildID,
		UserID:     userID,
		Status:     string(p.Status),
		Activities: activities,
	}, nil
}

// VoiceStateFromDiscord converts a voice state
func VoiceStateFromDiscord(v *discordgo.VoiceState) (VoiceState, error) {
	if v == nil {
		return VoiceState{}, errors.New("entity: nil voice state")
	}
	guildID, err := parseID("guild id", v.GuildID)
	if err != nil {
		return VoiceState{}, err
	}
	userID, err := parseID("user id", v.UserID)
	if err != nil {
		return VoiceState{}, err
	}
	channelID, err := parseID("channel id", v.ChannelID)
	if err != nil {
		return VoiceState{}, err
	}
	return VoiceState{
		GuildID:   guildID,
		UserID:    userID,
		ChannelID: channelID,
		SessionID: v.SessionID,
		Deaf:      v.Deaf,
		Mute:      v.Mute,
		SelfDeaf:  v.SelfDeaf,
		SelfMute:  v.SelfMute,
		Suppress:  v.Suppress,
	}, nil
}

// AttachmentFromDiscord converts a message attachment
func AttachmentFromDiscord(messageID snowflake.ID, a *discordgo.MessageAttachment) (Attachment, error) {
	if a == nil {
		return Attachment{}, errors.New("entity: nil attachment")
	}
	id, err := parseID("attachment id", a.ID)
	if err != nil {
		return Attachment{}, err
	}
	return Attachment{
		ID:          id,
		MessageID:   messageID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		URL:         a.URL,
		ProxyURL:    a.ProxyURL,
		Size:        a.Size,
		Width:       a.Width,
		Height:      a.Height,
	}, nil
}

// MessageFromDiscord converts a message. Attachments are referenced by id;
// convert them with AttachmentFromDiscord to cache their contents.
func MessageFromDiscord(m *discordgo.Message) (Message, error) {
	if m == nil {
		return Message{}, errors.New("entity: nil message")
	}
	id, err := parseID("message id", m.ID)
	if err != nil {
		return Message{}, err
	}
	channelID, err := parseID("channel id", m.ChannelID)
	if err != nil {
		return Message{}, err
	}
	guildID, err := parseID("guild id", m.GuildID)
	if err != nil {
		return Message{}, err
	}

	var authorID snowflake.ID
	if m.Author != nil {
		if authorID, err = parseID("author id", m.Author.ID); err != nil {
			return Message{}, err
		}
	}

	var attachmentIDs []snowflake.ID
	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		aid, err := parseID("attachment id", a.ID)
		if err != nil {
			return Message{}, err
		}
		attachmentIDs = append(attachmentIDs, aid)
	}

	msg := Message{
		ID:            id,
		ChannelID:     channelID,
		GuildID:       guildID,
		AuthorID:      authorID,
		Content:       m.Content,
		Type:          int(m.Type),
		Timestamp:     m.Timestamp,
		AttachmentIDs: attachmentIDs,
		Pinned:        m.Pinned,
		TTS:           m.TTS,
	}
	if m.EditedTimestamp != nil {
		msg.EditedTimestamp = *m.EditedTimestamp
	}
	return msg, nil
}

// ChannelFromDiscord converts a channel into the entity matching its type:
// TextChannel, VoiceChannel, CategoryChannel, PrivateChannel or Group.
func ChannelFromDiscord(c *discordgo.Channel) (any, error) {
	if c == nil {
		return nil, errors.New("entity: nil channel")
	}
	id, err := parseID("channel id", c.ID)
	if err != nil {
		return nil, err
	}
	guildID, err := parseID("guild id", c.GuildID)
	if err != nil {
		return nil, err
	}
	parentID, err := parseID("parent id", c.ParentID)
	if err != nil {
		return nil, err
	}
	lastMessageID, err := parseID("last message id", c.LastMessageID)
	if err != nil {
		return nil, err
	}

	switch c.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return TextChannel{
			ID:               id,
			GuildID:          guildID,
			Name:             c.Name,
			Topic:            c.Topic,
			Position:         c.Position,
			ParentID:         parentID,
			LastMessageID:    lastMessageID,
			RateLimitPerUser: c.RateLimitPerUser,
			NSFW:             c.NSFW,
		}, nil
	case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
		return VoiceChannel{
			ID:        id,
			GuildID:   guildID,
			Name:      c.Name,
			Position:  c.Position,
			ParentID:  parentID,
			Bitrate:   c.Bitrate,
			UserLimit: c.UserLimit,
		}, nil
	case discordgo.ChannelTypeGuildCategory:
		return CategoryChannel{
			ID:       id,
			GuildID:  guildID,
			Name:     c.Name,
			Position: c.Position,
		}, nil
	case discordgo.ChannelTypeDM:
		var recipientID snowflake.ID
		if len(c.Recipients) > 0 && c.Recipients[0] != nil {
			if recipientID, err = parseID("recipient id", c.Recipients[0].ID); err != nil {
				return nil, err
			}
		}
		return PrivateChannel{
			ID:            id,
			RecipientID:   recipientID,
			LastMessageID: lastMessageID,
		}, nil
	case discordgo.ChannelTypeGroupDM:
		ownerID, err := parseID("owner id", c.OwnerID)
		if err != nil {
			return nil, err
		}
		var recipients []snowflake.ID
		for _, u := range c.Recipients {
			if u == nil {
				continue
			}
			rid, err := parseID("recipient id", u.ID)
			if err != nil {
				return nil, err
			}
			recipients = append(recipients, rid)
		}
		return Group{
			ID:            id,
			Name:          c.Name,
			Icon:          c.Icon,
			OwnerID:       ownerID,
			RecipientIDs:  recipients,
			LastMessageID: lastMessageID,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannel, c.Type)
	}
}
