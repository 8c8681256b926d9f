package cache

import (
	"context"
	"iter"

	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/ammar0144/raritycache/pkg/repository"
	"github.com/disgoorg/snowflake/v2"
)

type guildEntity[K repository.ID] interface {
	entity.Entity[K]
	entity.GuildScoped
}

// inGuild serves the entities of one guild. Repositories implementing
// repository.GuildLister answer from their index; others are scanned.
func inGuild[T guildEntity[K], K repository.ID](
	ctx context.Context,
	c *Cache,
	repo repository.Repository[T, K],
	guildID snowflake.ID,
	op string,
) (iter.Seq2[T, error], error) {
	if err := c.require(repository.CapabilityGuildScan, op); err != nil {
		return nil, err
	}

	if lister, ok := repo.(repository.GuildLister[T]); ok {
		return lister.ListGuild(ctx, guildID)
	}

	all, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return repository.Filter(all, func(v T) bool {
		return v.EntityGuildID() == guildID
	}), nil
}

// GuildMembers yields every cached member of a guild
func (c *Cache) GuildMembers(ctx context.Context, guildID snowflake.ID) (iter.Seq2[entity.Member, error], error) {
	return inGuild(ctx, c, c.Members(), guildID, "guild_members")
}

// GuildMemberIDs yields the user ids of every cached member of a guild
func (c *Cache) GuildMemberIDs(ctx context.Context, guildID snowflake.ID) (iter.Seq2[snowflake.ID, error], error) {
	seq, err := inGuild(ctx, c, c.Members(), guildID, "guild_member_ids")
	if err != nil {
		return nil, err
	}
	return repository.Map(seq, func(m entity.Member) snowflake.ID { return m.UserID }), nil
}

func (c *Cache) GuildRoles(ctx context.Context, guildID snowflake.ID) (iter.Seq2[entity.Role, error], error) {
	return inGuild(ctx, c, c.Roles(), guildID, "guild_roles")
}

func (c *Cache) GuildRoleIDs(ctx context.Context, guildID snowflake.ID) (iter.Seq2[snowflake.ID, error], error) {
	seq, err := inGuild(ctx, c, c.Roles(), guildID, "guild_role_ids")
	if err != nil {
		return nil, err
	}
	return repository.Map(seq, entity.Role.EntityID), nil
}

func (c *Cache) GuildPresences(ctx context.Context, guildID snowflake.ID) (iter.Seq2[entity.Presence, error], error) {
	return inGuild(ctx, c, c.Presences(), guildID, "guild_presences")
}

// GuildPresenceIDs yields the user ids of every cached presence of a guild
func (c *Cache) GuildPresenceIDs(ctx context.Context, guildID snowflake.ID) (iter.Seq2[snowflake.ID, error], error) {
	seq, err := inGuild(ctx, c, c.Presences(), guildID, "guild_presence_ids")
	if err != nil {
		return nil, err
	}
	return repository.Map(seq, func(p entity.Presence) snowflake.ID { return p.UserID }), nil
}

func (c *Cache) GuildVoiceStates(ctx context.Context, guildID snowflake.ID) (iter.Seq2[entity.VoiceState, error], error) {
	return inGuild(ctx, c, c.VoiceStates(), guildID, "guild_voice_states")
}

// GuildVoiceStateIDs yields the user ids of every cached voice state of a guild
func (c *Cache) GuildVoiceStateIDs(ctx context.Context, guildID snowflake.ID) (iter.Seq2[snowflake.ID, error], error) {
	seq, err := inGuild(ctx, c, c.VoiceStates(), guildID, "guild_voice_state_ids")
	if err != nil {
		return nil, err
	}
	return repository.Map(seq, func(v entity.VoiceState) snowflake.ID { return v.UserID }), nil
}

func (c *Cache) GuildEmojis(ctx context.Context, guildID snowflake.ID) (iter.Seq2[entity.Emoji, error], error) {
	return inGuild(ctx, c, c.Emojis(), guildID, "guild_emojis")
}

func (c *Cache) GuildEmojiIDs(ctx context.Context, guildID snowflake.ID) (iter.Seq2[snowflake.ID, error], error) {
	seq, err := inGuild(ctx, c, c.Emojis(), guildID, "guild_emoji_ids")
	if err != nil {
		return nil, err
	}
	return repository.Map(seq, entity.Emoji.EntityID), nil
}

// GuildChannels yields the text, voice and category channels of a guild, in that order
func (c *Cache) GuildChannels(ctx context.Context, guildID snowflake.ID) (iter.Seq2[entity.GuildChannel, error], error) {
	const op = "guild_channels"

	text, err := inGuild(ctx, c, c.TextChannels(), guildID, op)
	if err != nil {
		return nil, err
	}
	voice, err := inGuild(ctx, c, c.VoiceChannels(), guildID, op)
	if err != nil {
		return nil, err
	}
	category, err := inGuild(ctx, c, c.CategoryChannels(), guildID, op)
	if err != nil {
		return nil, err
	}

	return repository.Concat(
		repository.Map(text, func(ch entity.TextChannel) entity.GuildChannel { return ch }),
		repository.Map(voice, func(ch entity.VoiceChannel) entity.GuildChannel { return ch }),
		repository.Map(category, func(ch entity.CategoryChannel) entity.GuildChannel { return ch }),
	), nil
}

func (c *Cache) GuildChannelIDs(ctx context.Context, guildID snowflake.ID) (iter.Seq2[snowflake.ID, error], error) {
	seq, err := c.GuildChannels(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return repository.Map(seq, entity.GuildChannel.ChannelID), nil
}

// UserGuildIDs yields the ids of every guild the user has a cached membership in
func (c *Cache) UserGuildIDs(ctx context.Context, userID snowflake.ID) (iter.Seq2[snowflake.ID, error], error) {
	if err := c.require(repository.CapabilityGuildScan, "user_guild_ids"); err != nil {
		return nil, err
	}

	members, err := c.Members().List(ctx)
	if err != nil {
		return nil, err
	}
	mine := repository.Filter(members, func(m entity.Member) bool { return m.UserID == userID })
	return repository.Map(mine, func(m entity.Member) snowflake.ID { return m.GuildID }), nil
}
