package redis

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ammar0144/raritycache/pkg/cache"
	"github.com/ammar0144/raritycache/pkg/codec"
	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/ammar0144/raritycache/pkg/repository"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestManager(t *testing.T, s *miniredis.Miniredis) *Manager {
	t.Helper()

	port, err := strconv.Atoi(s.Port())
	if err != nil {
		t.Fatalf("parse miniredis port: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Host = s.Host()
	cfg.Port = port
	cfg.MinIdleConns = 0
	cfg.MaxRetries = 0
	cfg.DialTimeout = time.Second

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func newTestBackend(t *testing.T, opts ...repository.Option) (Backend, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	return NewBackend(newTestManager(t, s), opts...), s
}

func TestRoundTripEveryKind(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)
	joined := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)

	roundTrip(t, b.Attachments(), entity.Attachment{ID: 1, MessageID: 2, Filename: "a.png", Size: 42, Width: 10, Height: 20})
	roundTrip(t, b.CategoryChannels(), entity.CategoryChannel{ID: 3, GuildID: 1, Name: "info", Position: 1})
	roundTrip(t, b.Emojis(), entity.Emoji{ID: 4, GuildID: 1, Name: "sparkle", RoleIDs: []snowflake.ID{10}, Animated: true})
	roundTrip(t, b.Groups(), entity.Group{ID: 5, Name: "friends", RecipientIDs: []snowflake.ID{7, 8}})
	roundTrip(t, b.Guilds(), entity.Guild{ID: 1, Name: "boutique", OwnerID: 7, MemberCount: 3, Features: []string{"COMMUNITY"}})
	roundTrip(t, b.Members(), entity.Member{GuildID: 1, UserID: 2, Nick: "rarity", RoleIDs: []snowflake.ID{10, 11}, HighlightedRoleID: 11, JoinedAt: joined})
	roundTrip(t, b.Messages(), entity.Message{ID: 6, ChannelID: 3, GuildID: 1, AuthorID: 2, Content: "hi", Timestamp: joined, AttachmentIDs: []snowflake.ID{1}})
	roundTrip(t, b.Presences(), entity.Presence{GuildID: 1, UserID: 2, Status: "dnd", Activities: []entity.Activity{{Name: "sewing", Type: 0}}})
	roundTrip(t, b.PrivateChannels(), entity.PrivateChannel{ID: 9, RecipientID: 2})
	roundTrip(t, b.Roles(), entity.Role{ID: 10, GuildID: 1, Name: "mod", Color: 0xff00ff, Hoist: true, Position: 3, Permissions: 8})
	roundTrip(t, b.TextChannels(), entity.TextChannel{ID: 11, GuildID: 1, Name: "general", Topic: "chat", NSFW: true})
	roundTrip(t, b.Users(), entity.User{ID: 2, Username: "rarity", GlobalName: "Rarity", Bot: false})
	roundTrip(t, b.VoiceChannels(), entity.VoiceChannel{ID: 12, GuildID: 1, Name: "lounge", Bitrate: 64000, UserLimit: 5})
	roundTrip(t, b.VoiceStates(), entity.VoiceState{GuildID: 1, UserID: 2, ChannelID: 12, SessionID: "abc", SelfMute: true})

	if _, found, err := b.Users().Get(ctx, 404); err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}
}

func roundTrip[T entity.Entity[K], K repository.ID](t *testing.T, repo repository.Repository[T, K], value T) {
	t.Helper()
	ctx := context.Background()

	if err := repo.Upsert(ctx, value); err != nil {
		t.Fatalf("upsert %s: %v", repo.Kind(), err)
	}
	got, found, err := repo.Get(ctx, value.EntityID())
	if err != nil {
		t.Fatalf("get %s: %v", repo.Kind(), err)
	}
	if !found {
		t.Fatalf("get %s: not found", repo.Kind())
	}
	if diff := cmp.Diff(value, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", repo.Kind(), diff)
	}
}

func TestKeyFormat(t *testing.T) {
	ctx := context.Background()
	b, s := newTestBackend(t)

	if err := b.Members().Upsert(ctx, entity.Member{GuildID: 1, UserID: 2}); err != nil {
		t.Fatalf("upsert member: %v", err)
	}
	if err := b.Roles().Upsert(ctx, entity.Role{ID: 10}); err != nil {
		t.Fatalf("upsert role: %v", err)
	}
	if err := b.TextChannels().Upsert(ctx, entity.TextChannel{ID: 10}); err != nil {
		t.Fatalf("upsert channel: %v", err)
	}

	want := []string{"ct:10", "m:1:2", "r:10"}
	if diff := cmp.Diff(want, s.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	b, s := newTestBackend(t)
	users := b.Users()

	if err := users.Upsert(ctx, entity.User{ID: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := users.Remove(ctx, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := users.Remove(ctx, 1); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if s.Exists("u:1") {
		t.Fatal("expected key u:1 to be deleted")
	}
	if _, found, err := users.Get(ctx, 1); err != nil || found {
		t.Fatalf("expected miss after remove, got found=%v err=%v", found, err)
	}
}

func TestDisabledType(t *testing.T) {
	ctx := context.Background()
	b, s := newTestBackend(t, repository.WithEntityTypes(entity.TypesOf(entity.KindUser)))

	if err := b.Messages().Upsert(ctx, entity.Message{ID: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if s.Exists("ms:1") {
		t.Fatal("expected write for disabled kind to be dropped")
	}

	// entries written by someone else stay visible and removals are ignored
	data, err := codec.Marshal(entity.Message{ID: 2, Content: "stale"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := s.Set("ms:2", string(data)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := b.Messages().Remove(ctx, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, found, err := b.Messages().Get(ctx, 2)
	if err != nil || !found || got.Content != "stale" {
		t.Fatalf("expected stale message to remain readable, got found=%v err=%v msg=%+v", found, err, got)
	}
}

func TestMalformedValue(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	b, s := newTestBackend(t, repository.WithLogger(zap.New(core)))

	if err := s.Set("u:1", "definitely not msgpack"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, found, err := b.Users().Get(ctx, 1)
	if found {
		t.Fatal("expected no value for malformed bytes")
	}
	if !codec.IsDecode(err) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if n := logs.FilterMessage("malformed cached value").Len(); n != 1 {
		t.Fatalf("expected one warning, got %d", n)
	}
	if got := b.Manager().GetMetrics().DecodeFailures; got != 1 {
		t.Fatalf("expected one decode failure recorded, got %d", got)
	}
}

func TestListUnsupported(t *testing.T) {
	b, _ := newTestBackend(t)

	seq, err := b.Guilds().List(context.Background())
	if seq != nil {
		t.Fatal("expected no sequence")
	}
	if !repository.IsUnsupported(err) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}

func TestRelationsUnsupported(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)
	c := cache.New(b)

	if err := c.Members().Upsert(ctx, entity.Member{GuildID: 1, UserID: 2, HighlightedRoleID: 10}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, _, err := c.HighlightedRole(ctx, 1, 2); !repository.IsUnsupported(err) {
		t.Fatalf("highlighted role: expected unsupported, got %v", err)
	}
	if _, err := c.MemberRoles(ctx, 1, 2); !repository.IsUnsupported(err) {
		t.Fatalf("member roles: expected unsupported, got %v", err)
	}
	if _, _, err := c.VoiceChannel(ctx, 1, 2); !repository.IsUnsupported(err) {
		t.Fatalf("voice channel: expected unsupported, got %v", err)
	}
	if _, err := c.GuildMembers(ctx, 1); !repository.IsUnsupported(err) {
		t.Fatalf("guild members: expected unsupported, got %v", err)
	}
	if _, err := c.GuildChannels(ctx, 1); !repository.IsUnsupported(err) {
		t.Fatalf("guild channels: expected unsupported, got %v", err)
	}
}

func TestCloneSharesPool(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)
	clone := b.Clone()

	if err := clone.Guilds().Upsert(ctx, entity.Guild{ID: 1, Name: "carousel"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, found, err := b.Guilds().Get(ctx, 1)
	if err != nil || !found || got.Name != "carousel" {
		t.Fatalf("expected original to see clone write, got found=%v err=%v guild=%+v", found, err, got)
	}
	if clone.Manager() != b.Manager() {
		t.Fatal("expected clone to share the manager")
	}
}

func TestDefaultTTL(t *testing.T) {
	s := miniredis.RunT(t)
	m := newTestManager(t, s)
	m.Config().DefaultTTL = time.Minute
	b := NewBackend(m)

	if err := b.Presences().Upsert(context.Background(), entity.Presence{GuildID: 1, UserID: 2}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if ttl := s.TTL("pr:1:2"); ttl != time.Minute {
		t.Fatalf("expected ttl of one minute, got %v", ttl)
	}
}

func TestConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				v := entity.VoiceState{GuildID: 1, UserID: 2, ChannelID: snowflake.ID(i), SessionID: strconv.Itoa(i)}
				if err := b.VoiceStates().Upsert(ctx, v); err != nil {
					t.Errorf("upsert: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	got, found, err := b.VoiceStates().Get(ctx, entity.NewGuildUserID(1, 2))
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if got.SessionID != got.ChannelID.String() {
		t.Fatalf("torn write: %+v", got)
	}
}

func TestServerDown(t *testing.T) {
	ctx := context.Background()
	b, s := newTestBackend(t)
	s.Close()

	if _, _, err := b.Users().Get(ctx, 1); err == nil {
		t.Fatal("expected get to fail with the server down")
	}
	if err := b.Users().Upsert(ctx, entity.User{ID: 1}); err == nil {
		t.Fatal("expected upsert to fail with the server down")
	}
	if err := b.Users().Remove(ctx, 1); err == nil {
		t.Fatal("expected remove to fail with the server down")
	}
	if err := b.Manager().Ping(ctx); !IsConnectionFailed(err) {
		t.Fatalf("expected connection failure from ping, got %v", err)
	}
}

func TestWrapError(t *testing.T) {
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	if err := wrapError("get", netErr); !IsConnectionFailed(err) {
		t.Fatalf("expected network error to be a connection failure, got %v", err)
	}
	other := errors.New("WRONGTYPE")
	err := wrapError("get", other)
	if IsConnectionFailed(err) {
		t.Fatalf("expected command error not to be a connection failure, got %v", err)
	}
	if !errors.Is(err, other) {
		t.Fatalf("expected wrapped command error, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing host", mutate: func(c *Config) { c.Host = "" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.DefaultTTL = -time.Second }, wantErr: true},
		{name: "empty pool", mutate: func(c *Config) { c.PoolSize = 0 }, wantErr: true},
		{name: "cluster without addresses", mutate: func(c *Config) { c.Cluster.Enabled = true }, wantErr: true},
		{
			name: "cluster ignores host",
			mutate: func(c *Config) {
				c.Host = ""
				c.Cluster = ClusterConfig{Enabled: true, Addresses: []string{"a:7000", "b:7000"}}
			},
		},
		{
			name: "cluster negative ttl",
			mutate: func(c *Config) {
				c.Cluster = ClusterConfig{Enabled: true, Addresses: []string{"a:7000"}}
				c.DefaultTTL = -time.Minute
			},
			wantErr: true,
		},
		{
			name: "cluster negative idle conns",
			mutate: func(c *Config) {
				c.Cluster = ClusterConfig{Enabled: true, Addresses: []string{"a:7000"}}
				c.MinIdleConns = -1
			},
			wantErr: true,
		},
		{
			name: "cluster empty pool",
			mutate: func(c *Config) {
				c.Cluster = ClusterConfig{Enabled: true, Addresses: []string{"a:7000"}}
				c.PoolSize = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewManagerRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = -1
	if _, err := NewManager(cfg); err == nil {
		t.Fatal("expected invalid config to be rejected")
	}
}

func TestBackendWithoutManager(t *testing.T) {
	ctx := context.Background()
	b := NewBackend(nil)

	if _, _, err := b.Users().Get(ctx, 1); !errors.Is(err, ErrClientNotInitialized) {
		t.Fatalf("get: expected ErrClientNotInitialized, got %v", err)
	}
	if err := b.Users().Upsert(ctx, entity.User{ID: 1}); !errors.Is(err, ErrClientNotInitialized) {
		t.Fatalf("upsert: expected ErrClientNotInitialized, got %v", err)
	}
	if err := b.Users().Remove(ctx, 1); !errors.Is(err, ErrClientNotInitialized) {
		t.Fatalf("remove: expected ErrClientNotInitialized, got %v", err)
	}
	if err := b.Manager().Ping(ctx); !errors.Is(err, ErrClientNotInitialized) {
		t.Fatalf("ping: expected ErrClientNotInitialized, got %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
