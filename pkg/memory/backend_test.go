package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/ammar0144/raritycache/pkg/repository"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestUpsertGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := New()

	member := entity.Member{
		GuildID:           1,
		UserID:            2,
		Nick:              "rarity",
		RoleIDs:           []snowflake.ID{10, 11},
		HighlightedRoleID: 11,
	}
	if err := b.Members().Upsert(ctx, member); err != nil {
		t.Fatalf("upsert member: %v", err)
	}

	got, found, err := b.Members().Get(ctx, entity.NewGuildUserID(1, 2))
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if !found {
		t.Fatal("expected member to be found")
	}
	if diff := cmp.Diff(member, got); diff != "" {
		t.Fatalf("member mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMissing(t *testing.T) {
	b := New()

	_, found, err := b.Users().Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if found {
		t.Fatal("expected missing user")
	}
}

func TestUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	b := New()
	roles := b.Roles()

	if err := roles.Upsert(ctx, entity.Role{ID: 10, GuildID: 1, Name: "old"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := roles.Upsert(ctx, entity.Role{ID: 10, GuildID: 1, Name: "new"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, _, err := roles.Get(ctx, 10)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "new" {
		t.Fatalf("expected replaced role name %q, got %q", "new", got.Name)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	b := New()
	guilds := b.Guilds()

	if err := guilds.Upsert(ctx, entity.Guild{ID: 1, Name: "g"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := guilds.Remove(ctx, 1); err != nil {
			t.Fatalf("remove #%d: %v", i+1, err)
		}
	}
	if err := guilds.Remove(ctx, 999); err != nil {
		t.Fatalf("remove missing: %v", err)
	}

	_, found, err := guilds.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected guild to be removed")
	}
}

func TestDisabledTypeDropsWrites(t *testing.T) {
	ctx := context.Background()
	b := New(repository.WithEntityTypes(entity.AllTypes.Without(entity.KindPresence)))

	presence := entity.Presence{GuildID: 1, UserID: 2, Status: "online"}
	if err := b.Presences().Upsert(ctx, presence); err != nil {
		t.Fatalf("upsert disabled kind should not fail: %v", err)
	}

	_, found, err := b.Presences().Get(ctx, presence.EntityID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected write to a disabled kind to be dropped")
	}

	// other kinds are unaffected
	if err := b.Users().Upsert(ctx, entity.User{ID: 2}); err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	if _, found, _ := b.Users().Get(ctx, 2); !found {
		t.Fatal("expected enabled kind to be stored")
	}
}

func TestDisabledTypeRemoveIsNoop(t *testing.T) {
	ctx := context.Background()
	shared := New()
	if err := shared.Roles().Upsert(ctx, entity.Role{ID: 10}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// a backend over the same store that no longer tracks roles
	restricted := Backend{s: &store{
		opts:  repository.NewOptions(repository.WithEntityTypes(entity.NoTypes)),
		roles: shared.s.roles,
	}}
	if err := restricted.Roles().Remove(ctx, 10); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, found, _ := shared.Roles().Get(ctx, 10); !found {
		t.Fatal("expected remove on a disabled kind to keep the entry")
	}
}

func TestCloneSharesStore(t *testing.T) {
	ctx := context.Background()
	a := New()
	b := a.Clone()

	if err := a.Users().Upsert(ctx, entity.User{ID: 7, Username: "sweetie"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, found, err := b.Users().Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || got.Username != "sweetie" {
		t.Fatalf("expected clone to observe write, got found=%v user=%+v", found, got)
	}

	if err := b.Users().Remove(ctx, 7); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, found, _ := a.Users().Get(ctx, 7); found {
		t.Fatal("expected original to observe removal through clone")
	}
}

func TestStoredValuesAreIsolated(t *testing.T) {
	ctx := context.Background()
	b := New()

	member := entity.Member{GuildID: 1, UserID: 2, RoleIDs: []snowflake.ID{10}}
	if err := b.Members().Upsert(ctx, member); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	member.RoleIDs[0] = 99

	got, _, err := b.Members().Get(ctx, member.EntityID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RoleIDs[0] != 10 {
		t.Fatalf("stored member aliased caller slice: %v", got.RoleIDs)
	}

	got.RoleIDs[0] = 77
	again, _, _ := b.Members().Get(ctx, member.EntityID())
	if again.RoleIDs[0] != 10 {
		t.Fatalf("stored member aliased returned slice: %v", again.RoleIDs)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	b := New()
	roles := b.Roles()

	want := []entity.Role{}
	for i := 1; i <= 100; i++ {
		r := entity.Role{ID: snowflake.ID(i), GuildID: 1, Name: fmt.Sprintf("role-%d", i)}
		want = append(want, r)
		if err := roles.Upsert(ctx, r); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	seq, err := roles.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got, err := repository.Collect(seq)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	sortRoles := cmpopts.SortSlices(func(a, b entity.Role) bool { return a.ID < b.ID })
	if diff := cmp.Diff(want, got, sortRoles); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestListEmpty(t *testing.T) {
	seq, err := New().Emojis().List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got, err := repository.Collect(seq)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(got))
	}
}

func TestListAllowsWritesWhileIterating(t *testing.T) {
	ctx := context.Background()
	b := New()
	users := b.Users()

	for i := 1; i <= 10; i++ {
		if err := users.Upsert(ctx, entity.User{ID: snowflake.ID(i)}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	seq, err := users.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	seen := 0
	for u, err := range seq {
		if err != nil {
			t.Fatalf("iterate: %v", err)
		}
		seen++
		// would deadlock if the shard lock were held while yielding
		if err := users.Remove(ctx, u.ID); err != nil {
			t.Fatalf("remove during list: %v", err)
		}
	}
	if seen != 10 {
		t.Fatalf("expected 10 users, saw %d", seen)
	}
	if n := b.s.users.Len(); n != 0 {
		t.Fatalf("expected every user removed, %d left", n)
	}
}

func TestListEarlyBreak(t *testing.T) {
	ctx := context.Background()
	b := New()
	for i := 1; i <= 50; i++ {
		if err := b.Messages().Upsert(ctx, entity.Message{ID: snowflake.ID(i)}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	seq, err := b.Messages().List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("expected to stop after 3, got %d", n)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := New()

	if err := b.Guilds().Upsert(ctx, entity.Guild{ID: 1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("upsert: expected context.Canceled, got %v", err)
	}
	if _, _, err := b.Guilds().Get(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("get: expected context.Canceled, got %v", err)
	}
	if _, err := b.Guilds().List(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("list: expected context.Canceled, got %v", err)
	}
	if err := b.Guilds().Remove(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("remove: expected context.Canceled, got %v", err)
	}
}

func TestConcurrentWritersSameID(t *testing.T) {
	ctx := context.Background()
	b := New()
	members := b.Members()

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m := entity.Member{
					GuildID: 1,
					UserID:  2,
					Nick:    fmt.Sprintf("writer-%d", i),
					RoleIDs: []snowflake.ID{snowflake.ID(i)},
				}
				if err := members.Upsert(ctx, m); err != nil {
					t.Errorf("upsert: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	got, found, err := members.Get(ctx, entity.NewGuildUserID(1, 2))
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	// the surviving value must be one writer's complete value, never a mix
	want := fmt.Sprintf("writer-%d", got.RoleIDs[0])
	if got.Nick != want {
		t.Fatalf("torn write: nick %q with roles %v", got.Nick, got.RoleIDs)
	}
}

func TestConcurrentMixedKinds(t *testing.T) {
	ctx := context.Background()
	b := New()

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(id snowflake.ID) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = b.Users().Upsert(ctx, entity.User{ID: id})
				_ = b.Guilds().Upsert(ctx, entity.Guild{ID: id})
				_, _, _ = b.Users().Get(ctx, id)
				if seq, err := b.Guilds().List(ctx); err == nil {
					for range seq {
					}
				}
				_ = b.Users().Remove(ctx, id)
			}
		}(snowflake.ID(i))
	}
	wg.Wait()

	if n := b.s.guilds.Len(); n != 8 {
		t.Fatalf("expected 8 guilds, got %d", n)
	}
	if n := b.s.users.Len(); n != 0 {
		t.Fatalf("expected no users, got %d", n)
	}
}

func TestCapabilities(t *testing.T) {
	b := New()
	want := repository.CapabilityList | repository.CapabilityRelations | repository.CapabilityGuildScan
	if got := b.Capabilities(); got != want {
		t.Fatalf("expected capabilities %v, got %v", want, got)
	}
	if b.Name() != "memory" {
		t.Fatalf("unexpected name %q", b.Name())
	}
}

func TestRepositoryKinds(t *testing.T) {
	b := New()
	got := []entity.Kind{
		b.Attachments().Kind(),
		b.CategoryChannels().Kind(),
		b.Emojis().Kind(),
		b.Groups().Kind(),
		b.Guilds().Kind(),
		b.Members().Kind(),
		b.Messages().Kind(),
		b.Presences().Kind(),
		b.PrivateChannels().Kind(),
		b.Roles().Kind(),
		b.TextChannels().Kind(),
		b.Users().Kind(),
		b.VoiceChannels().Kind(),
		b.VoiceStates().Kind(),
	}
	if !slices.Equal(got, entity.Kinds()) {
		t.Fatalf("accessor kinds out of order: %v", got)
	}
}
