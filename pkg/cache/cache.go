// Package cache layers relational resolution on top of a storage backend.
//
// A Cache joins repositories of one Backend: a member's roles, a voice
// participant's channel, every member of a guild. Joins are not transactional.
// A concurrent write between two lookup steps can produce a stale result or no
// relation at all.
package cache

import (
	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/ammar0144/raritycache/pkg/repository"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// Backend is a storage engine producing one repository per entity kind.
// Every repository handed out by a Backend shares the backend's state.
type Backend interface {
	// Name identifies the backend in errors and logs
	Name() string
	// Capabilities reports the optional operations the backend provides
	Capabilities() repository.Capabilities

	Attachments() repository.Repository[entity.Attachment, snowflake.ID]
	CategoryChannels() repository.Repository[entity.CategoryChannel, snowflake.ID]
	Emojis() repository.Repository[entity.Emoji, snowflake.ID]
	Groups() repository.Repository[entity.Group, snowflake.ID]
	Guilds() repository.Repository[entity.Guild, snowflake.ID]
	Members() repository.Repository[entity.Member, entity.GuildUserID]
	Messages() repository.Repository[entity.Message, snowflake.ID]
	Presences() repository.Repository[entity.Presence, entity.GuildUserID]
	PrivateChannels() repository.Repository[entity.PrivateChannel, snowflake.ID]
	Roles() repository.Repository[entity.Role, snowflake.ID]
	TextChannels() repository.Repository[entity.TextChannel, snowflake.ID]
	Users() repository.Repository[entity.User, snowflake.ID]
	VoiceChannels() repository.Repository[entity.VoiceChannel, snowflake.ID]
	VoiceStates() repository.Repository[entity.VoiceState, entity.GuildUserID]
}

// Cache wraps a Backend with relational helpers. The backend's repositories
// remain directly reachable through the embedded interface.
type Cache struct {
	Backend
	logger *zap.Logger
}

// New creates a cache over b. Only the logger option is used; entity-type
// gating belongs to the backend.
func New(b Backend, opts ...repository.Option) *Cache {
	o := repository.NewOptions(opts...)
	return &Cache{
		Backend: b,
		logger:  o.Logger.With(zap.String("backend", b.Name())),
	}
}

// require fails with an UnsupportedError naming op unless the backend has want
func (c *Cache) require(want repository.Capabilities, op string) error {
	if c.Capabilities().Has(want) {
		return nil
	}
	return repository.Unsupported(c.Name(), op)
}

func (c *Cache) dangling(kind entity.Kind, id snowflake.ID, op string) {
	c.logger.Debug("dropping dangling reference",
		zap.String("operation", op),
		zap.Stringer("kind", kind),
		zap.Stringer("id", id),
	)
}
