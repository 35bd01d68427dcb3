package command

import (
	"context"
	"errors"
	"testing"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRoleManager tracks role membership in memory.
type fakeRoleManager struct {
	held map[string]struct{}

	lookupErr error
	failAdd   bool
	failRm    bool

	added   []string
	removed []string
}

func newFakeRoleManager(held ...string) *fakeRoleManager {
	set := make(map[string]struct{}, len(held))
	for _, id := range held {
		set[id] = struct{}{}
	}
	return &fakeRoleManager{held: set}
}

func (f *fakeRoleManager) MemberRoles(ctx context.Context, userID string) ([]string, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	out := make([]string, 0, len(f.held))
	for id := range f.held {
		out = append(out, id)
	}
	return out, nil
}

func (f *fakeRoleManager) AddRole(ctx context.Context, userID, roleID string) RoleOpResult {
	if f.failAdd {
		return RoleOpResult{Err: errors.New("missing permissions")}
	}
	f.held[roleID] = struct{}{}
	f.added = append(f.added, roleID)
	return RoleOpResult{OK: true}
}

func (f *fakeRoleManager) RemoveRole(ctx context.Context, userID, roleID string) RoleOpResult {
	if f.failRm {
		return RoleOpResult{Err: errors.New("missing permissions")}
	}
	delete(f.held, roleID)
	f.removed = append(f.removed, roleID)
	return RoleOpResult{OK: true}
}

func testTiers() *progression.TierTable {
	return progression.NewTierTable(map[int]string{
		0:   "role-bronze",
		100: "role-silver",
		500: "role-gold",
	})
}

func TestSyncTierRole_GrantsResolvedTier(t *testing.T) {
	roles := newFakeRoleManager()
	pub := &fakePublisher{}
	h := NewSyncTierRoleHandler(testTiers(), roles, pub)

	result, err := h.Handle(context.Background(), SyncTierRoleCommand{
		DiscordID: testUserID,
		XP:        150,
		ChannelID: testChannel,
	})
	require.NoError(t, err)

	assert.Equal(t, "role-silver", result.TargetRoleID)
	assert.True(t, result.Granted)
	assert.Equal(t, []string{"role-silver"}, roles.added)

	events := pub.byType(member.EventTierGranted)
	require.Len(t, events, 1)
	granted := events[0].(member.TierGrantedEvent)
	assert.Equal(t, "role-silver", granted.RoleID)
	assert.Equal(t, 100, granted.Threshold)
}

func TestSyncTierRole_RemovesLowerTiers(t *testing.T) {
	roles := newFakeRoleManager("role-bronze", "role-silver")
	h := NewSyncTierRoleHandler(testTiers(), roles, &fakePublisher{})

	result, err := h.Handle(context.Background(), SyncTierRoleCommand{
		DiscordID: testUserID,
		XP:        700,
		ChannelID: testChannel,
	})
	require.NoError(t, err)

	assert.Equal(t, "role-gold", result.TargetRoleID)
	assert.True(t, result.Granted)
	assert.ElementsMatch(t, []string{"role-bronze", "role-silver"}, result.RemovedRoles)

	_, holdsGold := roles.held["role-gold"]
	assert.True(t, holdsGold)
	assert.Len(t, roles.held, 1)
}

func TestSyncTierRole_IdempotentWhenAlreadyHeld(t *testing.T) {
	roles := newFakeRoleManager("role-silver")
	pub := &fakePublisher{}
	h := NewSyncTierRoleHandler(testTiers(), roles, pub)

	result, err := h.Handle(context.Background(), SyncTierRoleCommand{
		DiscordID: testUserID,
		XP:        150,
		ChannelID: testChannel,
	})
	require.NoError(t, err)

	assert.False(t, result.Granted)
	assert.Empty(t, roles.added)
	assert.Empty(t, pub.events)
}

func TestSyncTierRole_NoThresholdMatched(t *testing.T) {
	tiers := progression.NewTierTable(map[int]string{500: "role-gold"})
	roles := newFakeRoleManager("role-gold")
	h := NewSyncTierRoleHandler(tiers, roles, &fakePublisher{})

	result, err := h.Handle(context.Background(), SyncTierRoleCommand{
		DiscordID: testUserID,
		XP:        100,
		ChannelID: testChannel,
	})
	require.NoError(t, err)

	// Below every threshold nothing is touched, not even held roles.
	assert.Empty(t, result.TargetRoleID)
	assert.Empty(t, roles.removed)
}

func TestSyncTierRole_LookupFailurePropagates(t *testing.T) {
	roles := newFakeRoleManager()
	roles.lookupErr = errors.New("guild unavailable")
	h := NewSyncTierRoleHandler(testTiers(), roles, &fakePublisher{})

	_, err := h.Handle(context.Background(), SyncTierRoleCommand{
		DiscordID: testUserID,
		XP:        150,
		ChannelID: testChannel,
	})
	assert.Error(t, err)
}

func TestSyncTierRole_RemovalFailureDoesNotAbort(t *testing.T) {
	roles := newFakeRoleManager("role-bronze")
	roles.failRm = true
	h := NewSyncTierRoleHandler(testTiers(), roles, &fakePublisher{})

	result, err := h.Handle(context.Background(), SyncTierRoleCommand{
		DiscordID: testUserID,
		XP:        150,
		ChannelID: testChannel,
	})
	require.NoError(t, err)

	// The failed removal is skipped; the grant still happens.
	assert.Empty(t, result.RemovedRoles)
	assert.True(t, result.Granted)
}
