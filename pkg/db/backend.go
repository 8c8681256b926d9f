package db

import (
	"context"
	"fmt"

	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/ammar0144/raritycache/pkg/repository"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// Name is the backend name reported in errors and logs
const Name = "sql"

// record is one cached entity. Every kind shares the table; rows are keyed
// by the kind tag plus the rendered identifier, the same pair used for remote keys.
type record struct {
	Kind    string `gorm:"primaryKey;size:8;index:idx_cache_entities_kind_guild,priority:1"`
	Key     string `gorm:"column:entity_key;primaryKey;size:64"`
	GuildID uint64 `gorm:"not null;index:idx_cache_entities_kind_guild,priority:2"`
	Data    []byte `gorm:"not null"`
}

func (record) TableName() string {
	return "cache_entities"
}

// Backend persists entities in a relational database through GORM.
// Guild aggregates are answered from the (kind, guild_id) index.
type Backend struct {
	manager *Manager
	opts    repository.Options
}

// NewBackend migrates the cache table and returns a backend over manager
func NewBackend(ctx context.Context, manager *Manager, opts ...repository.Option) (Backend, error) {
	if err := manager.DB().WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return Backend{}, fmt.Errorf("migrate cache table: %w", err)
	}

	o := repository.NewOptions(opts...)
	o.Logger = o.Logger.With(zap.String("backend", Name))
	return Backend{manager: manager, opts: o}, nil
}

// Clone returns another handle sharing the connection pool
func (b Backend) Clone() Backend {
	return b
}

func (b Backend) Name() string {
	return Name
}

func (b Backend) Capabilities() repository.Capabilities {
	return repository.CapabilityList | repository.CapabilityRelations | repository.CapabilityGuildScan
}

// Manager returns the underlying connection manager
func (b Backend) Manager() *Manager {
	return b.manager
}

// Close releases the connection pool shared by every clone
func (b Backend) Close() error {
	return b.manager.Close()
}

func (b Backend) Attachments() repository.Repository[entity.Attachment, snowflake.ID] {
	return newRepository[entity.Attachment, snowflake.ID](b)
}

func (b Backend) CategoryChannels() repository.Repository[entity.CategoryChannel, snowflake.ID] {
	return newRepository[entity.CategoryChannel, snowflake.ID](b)
}

func (b Backend) Emojis() repository.Repository[entity.Emoji, snowflake.ID] {
	return newRepository[entity.Emoji, snowflake.ID](b)
}

func (b Backend) Groups() repository.Repository[entity.Group, snowflake.ID] {
	return newRepository[entity.Group, snowflake.ID](b)
}

func (b Backend) Guilds() repository.Repository[entity.Guild, snowflake.ID] {
	return newRepository[entity.Guild, snowflake.ID](b)
}

func (b Backend) Members() repository.Repository[entity.Member, entity.GuildUserID] {
	return newRepository[entity.Member, entity.GuildUserID](b)
}

func (b Backend) Messages() repository.Repository[entity.Message, snowflake.ID] {
	return newRepository[entity.Message, snowflake.ID](b)
}

func (b Backend) Presences() repository.Repository[entity.Presence, entity.GuildUserID] {
	return newRepository[entity.Presence, entity.GuildUserID](b)
}

func (b Backend) PrivateChannels() repository.Repository[entity.PrivateChannel, snowflake.ID] {
	return newRepository[entity.PrivateChannel, snowflake.ID](b)
}

func (b Backend) Roles() repository.Repository[entity.Role, snowflake.ID] {
	return newRepository[entity.Role, snowflake.ID](b)
}

func (b Backend) TextChannels() repository.Repository[entity.TextChannel, snowflake.ID] {
	return newRepository[entity.TextChannel, snowflake.ID](b)
}

func (b Backend) Users() repository.Repository[entity.User, snowflake.ID] {
	return newRepository[entity.User, snowflake.ID](b)
}

func (b Backend) VoiceChannels() repository.Repository[entity.VoiceChannel, snowflake.ID] {
	return newRepository[entity.VoiceChannel, snowflake.ID](b)
}

func (b Backend) VoiceStates() repository.Repository[entity.VoiceState, entity.GuildUserID] {
	return newRepository[entity.VoiceState, entity.GuildUserID](b)
}
