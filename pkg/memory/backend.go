// Package memory implements an intra-process cache backend.
//
// Every entity kind lives in its own sharded concurrent map. All maps are owned
// by one shared store; Backend values and the repositories they hand out only
// reference it, so copies and clones always observe each other's writes.
package memory

import (
	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/ammar0144/raritycache/pkg/repository"
	"github.com/disgoorg/snowflake/v2"
)

// Name is the backend name reported in errors and logs
const Name = "memory"

type store struct {
	opts repository.Options

	attachments      *shardMap[snowflake.ID, entity.Attachment]
	categoryChannels *shardMap[snowflake.ID, entity.CategoryChannel]
	emojis           *shardMap[snowflake.ID, entity.Emoji]
	groups           *shardMap[snowflake.ID, entity.Group]
	guilds           *shardMap[snowflake.ID, entity.Guild]
	members          *shardMap[entity.GuildUserID, entity.Member]
	messages         *shardMap[snowflake.ID, entity.Message]
	presences        *shardMap[entity.GuildUserID, entity.Presence]
	privateChannels  *shardMap[snowflake.ID, entity.PrivateChannel]
	roles            *shardMap[snowflake.ID, entity.Role]
	textChannels     *shardMap[snowflake.ID, entity.TextChannel]
	users            *shardMap[snowflake.ID, entity.User]
	voiceChannels    *shardMap[snowflake.ID, entity.VoiceChannel]
	voiceStates      *shardMap[entity.GuildUserID, entity.VoiceState]
}

// Backend is a handle on an in-memory store. The zero value is not usable;
// create one with New.
type Backend struct {
	s *store
}

// New creates a backend with its own empty store
func New(opts ...repository.Option) Backend {
	return Backend{s: &store{
		opts:             repository.NewOptions(opts...),
		attachments:      newShardMap[snowflake.ID, entity.Attachment](),
		categoryChannels: newShardMap[snowflake.ID, entity.CategoryChannel](),
		emojis:           newShardMap[snowflake.ID, entity.Emoji](),
		groups:           newShardMap[snowflake.ID, entity.Group](),
		guilds:           newShardMap[snowflake.ID, entity.Guild](),
		members:          newShardMap[entity.GuildUserID, entity.Member](),
		messages:         newShardMap[snowflake.ID, entity.Message](),
		presences:        newShardMap[entity.GuildUserID, entity.Presence](),
		privateChannels:  newShardMap[snowflake.ID, entity.PrivateChannel](),
		roles:            newShardMap[snowflake.ID, entity.Role](),
		textChannels:     newShardMap[snowflake.ID, entity.TextChannel](),
		users:            newShardMap[snowflake.ID, entity.User](),
		voiceChannels:    newShardMap[snowflake.ID, entity.VoiceChannel](),
		voiceStates:      newShardMap[entity.GuildUserID, entity.VoiceState](),
	}}
}

// Clone returns another handle on the same store
func (b Backend) Clone() Backend {
	return b
}

func (b Backend) Name() string {
	return Name
}

func (b Backend) Capabilities() repository.Capabilities {
	return repository.CapabilityList | repository.CapabilityRelations | repository.CapabilityGuildScan
}

// EntityTypes returns the kinds accepting writes
func (b Backend) EntityTypes() entity.Types {
	return b.s.opts.Types
}

func (b Backend) Attachments() repository.Repository[entity.Attachment, snowflake.ID] {
	return newRepository(b.s, b.s.attachments)
}

func (b Backend) CategoryChannels() repository.Repository[entity.CategoryChannel, snowflake.ID] {
	return newRepository(b.s, b.s.categoryChannels)
}

func (b Backend) Emojis() repository.Repository[entity.Emoji, snowflake.ID] {
	return newRepository(b.s, b.s.emojis)
}

func (b Backend) Groups() repository.Repository[entity.Group, snowflake.ID] {
	return newRepository(b.s, b.s.groups)
}

func (b Backend) Guilds() repository.Repository[entity.Guild, snowflake.ID] {
	return newRepository(b.s, b.s.guilds)
}

func (b Backend) Members() repository.Repository[entity.Member, entity.GuildUserID] {
	return newRepository(b.s, b.s.members)
}

func (b Backend) Messages() repository.Repository[entity.Message, snowflake.ID] {
	return newRepository(b.s, b.s.messages)
}

func (b Backend) Presences() repository.Repository[entity.Presence, entity.GuildUserID] {
	return newRepository(b.s, b.s.presences)
}

func (b Backend) PrivateChannels() repository.Repository[entity.PrivateChannel, snowflake.ID] {
	return newRepository(b.s, b.s.privateChannels)
}

func (b Backend) Roles() repository.Repository[entity.Role, snowflake.ID] {
	return newRepository(b.s, b.s.roles)
}

func (b Backend) TextChannels() repository.Repository[entity.TextChannel, snowflake.ID] {
	return newRepository(b.s, b.s.textChannels)
}

func (b Backend) Users() repository.Repository[entity.User, snowflake.ID] {
	return newRepository(b.s, b.s.users)
}

func (b Backend) VoiceChannels() repository.Repository[entity.VoiceChannel, snowflake.ID] {
	return newRepository(b.s, b.s.voiceChannels)
}

func (b Backend) VoiceStates() repository.Repository[entity.VoiceState, entity.GuildUserID] {
	return newRepository(b.s, b.s.voiceStates)
}
