package cache

import (
	"context"
	"fmt"
	"iter"

	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/ammar0144/raritycache/pkg/repository"
	"github.com/disgoorg/snowflake/v2"
)

// HighlightedRole resolves the role a member is displayed under.
//
// A missing member, an unset highlighted role and a role missing from the
// store all report found == false without an error.
func (c *Cache) HighlightedRole(ctx context.Context, guildID, userID snowflake.ID) (entity.Role, bool, error) {
	const op = "highlighted_role"
	if err := c.require(repository.CapabilityRelations, op); err != nil {
		return entity.Role{}, false, err
	}

	member, found, err := c.Members().Get(ctx, entity.NewGuildUserID(guildID, userID))
	if err != nil {
		return entity.Role{}, false, fmt.Errorf("get member: %w", err)
	}
	if !found || member.HighlightedRoleID == 0 {
		return entity.Role{}, false, nil
	}

	role, found, err := c.Roles().Get(ctx, member.HighlightedRoleID)
	if err != nil {
		return entity.Role{}, false, fmt.Errorf("get role: %w", err)
	}
	if !found {
		c.dangling(entity.KindRole, member.HighlightedRoleID, op)
	}
	return role, found, nil
}

// MemberRoles yields the member's roles in the member's role order.
// Ids that do not resolve are skipped. A missing member yields nothing.
func (c *Cache) MemberRoles(ctx context.Context, guildID, userID snowflake.ID) (iter.Seq2[entity.Role, error], error) {
	const op = "member_roles"
	if err := c.require(repository.CapabilityRelations, op); err != nil {
		return nil, err
	}

	member, found, err := c.Members().Get(ctx, entity.NewGuildUserID(guildID, userID))
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	if !found {
		return repository.Empty[entity.Role](), nil
	}

	return resolveAll(ctx, c, c.Roles(), member.RoleIDs, op), nil
}

// VoiceChannel resolves the channel a user is connected to in a guild.
// A missing voice state, a disconnected state and a missing channel all report found == false.
func (c *Cache) VoiceChannel(ctx context.Context, guildID, userID snowflake.ID) (entity.VoiceChannel, bool, error) {
	const op = "voice_channel"
	if err := c.require(repository.CapabilityRelations, op); err != nil {
		return entity.VoiceChannel{}, false, err
	}

	state, found, err := c.VoiceStates().Get(ctx, entity.NewGuildUserID(guildID, userID))
	if err != nil {
		return entity.VoiceChannel{}, false, fmt.Errorf("get voice state: %w", err)
	}
	if !found || state.ChannelID == 0 {
		return entity.VoiceChannel{}, false, nil
	}

	channel, found, err := c.VoiceChannels().Get(ctx, state.ChannelID)
	if err != nil {
		return entity.VoiceChannel{}, false, fmt.Errorf("get voice channel: %w", err)
	}
	if !found {
		c.dangling(entity.KindVoiceChannel, state.ChannelID, op)
	}
	return channel, found, nil
}

// MessageAuthor resolves the user who sent a message
func (c *Cache) MessageAuthor(ctx context.Context, messageID snowflake.ID) (entity.User, bool, error) {
	const op = "message_author"
	if err := c.require(repository.CapabilityRelations, op); err != nil {
		return entity.User{}, false, err
	}

	msg, found, err := c.Messages().Get(ctx, messageID)
	if err != nil {
		return entity.User{}, false, fmt.Errorf("get message: %w", err)
	}
	if !found || msg.AuthorID == 0 {
		return entity.User{}, false, nil
	}

	user, found, err := c.Users().Get(ctx, msg.AuthorID)
	if err != nil {
		return entity.User{}, false, fmt.Errorf("get user: %w", err)
	}
	if !found {
		c.dangling(entity.KindUser, msg.AuthorID, op)
	}
	return user, found, nil
}

// MessageAttachments yields the cached attachments of a message in upload order
func (c *Cache) MessageAttachments(ctx context.Context, messageID snowflake.ID) (iter.Seq2[entity.Attachment, error], error) {
	const op = "message_attachments"
	if err := c.require(repository.CapabilityRelations, op); err != nil {
		return nil, err
	}

	msg, found, err := c.Messages().Get(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	if !found {
		return repository.Empty[entity.Attachment](), nil
	}

	return resolveAll(ctx, c, c.Attachments(), msg.AttachmentIDs, op), nil
}

// resolveAll looks up ids one at a time as the sequence is consumed.
// Dangling ids are skipped; backend faults are yielded.
func resolveAll[T entity.Entity[snowflake.ID]](
	ctx context.Context,
	c *Cache,
	repo repository.Repository[T, snowflake.ID],
	ids []snowflake.ID,
	op string,
) iter.Seq2[T, error] {
	ids = append([]snowflake.ID(nil), ids...)
	return func(yield func(T, error) bool) {
		for _, id := range ids {
			v, found, err := repo.Get(ctx, id)
			if err != nil {
				if !yield(v, err) {
					return
				}
				continue
			}
			if !found {
				c.dangling(repo.Kind(), id, op)
				continue
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}
