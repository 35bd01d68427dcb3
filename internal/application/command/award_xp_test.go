package command

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test doubles
// ─────────────────────────────────────────────────────────────────────────────

// fakeRepo is an in-memory member.Repository.
type fakeRepo struct {
	mu      sync.Mutex
	members map[member.DiscordID]*member.Member

	failUpdate error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{members: make(map[member.DiscordID]*member.Member)}
}

func (r *fakeRepo) Create(ctx context.Context, m *member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[m.DiscordID]; ok {
		return member.ErrMemberAlreadyExists
	}
	r.members[m.DiscordID] = m.Clone()
	return nil
}

func (r *fakeRepo) GetByDiscordID(ctx context.Context, id member.DiscordID) (*member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	return m.Clone(), nil
}

func (r *fakeRepo) Update(ctx context.Context, m *member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.members[m.DiscordID]; !ok {
		return member.ErrMemberNotFound
	}
	r.members[m.DiscordID] = m.Clone()
	return nil
}

func (r *fakeRepo) GetTopByXP(ctx context.Context, limit int) ([]*member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*member.Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m.Clone())
	}
	// Selection sort is fine at test sizes.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].XP > out[i].XP {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) ResetProgress(ctx context.Context, id member.DiscordID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return member.ErrMemberNotFound
	}
	m.ResetProgress()
	return nil
}

func (r *fakeRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members), nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []member.Event
}

func (p *fakePublisher) Publish(event member.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) byType(t member.EventType) []member.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []member.Event
	for _, e := range p.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

const (
	testUserID  = member.DiscordID("123456789012345678")
	testChannel = "chan-1"
)

func newAwardHandler(repo *fakeRepo, pub *fakePublisher) *AwardXPHandler {
	rules := progression.NewAwardRules([]string{testChannel})
	return NewAwardXPHandler(repo, rules, pub)
}

// ─────────────────────────────────────────────────────────────────────────────
// Award pipeline
// ─────────────────────────────────────────────────────────────────────────────

func TestAwardXP_FirstMessageCreatesRecord(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	h := newAwardHandler(repo, pub)

	result, err := h.Handle(context.Background(), AwardXPCommand{
		DiscordID:   testUserID,
		DisplayName: "Alice",
		ChannelID:   testChannel,
		RawText:     "hello world",
	})
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.Equal(t, 11, result.XPGained)
	assert.Equal(t, member.XP(11), result.Member.XP)

	stored, err := repo.GetByDiscordID(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, "hello world", stored.LastMessage)

	assert.Len(t, pub.byType(member.EventXPAwarded), 1)
	assert.Empty(t, pub.byType(member.EventLeveledUp))
}

func TestAwardXP_BotAuthorIgnored(t *testing.T) {
	repo := newFakeRepo()
	h := newAwardHandler(repo, &fakePublisher{})

	result, err := h.Handle(context.Background(), AwardXPCommand{
		DiscordID: testUserID,
		ChannelID: testChannel,
		RawText:   "beep boop",
		IsBot:     true,
	})
	require.NoError(t, err)
	assert.False(t, result.Applied)

	// No record is created for bot traffic.
	_, err = repo.GetByDiscordID(context.Background(), testUserID)
	assert.ErrorIs(t, err, member.ErrMemberNotFound)
}

func TestAwardXP_ChannelNotAllowed(t *testing.T) {
	repo := newFakeRepo()
	h := newAwardHandler(repo, &fakePublisher{})

	result, err := h.Handle(context.Background(), AwardXPCommand{
		DiscordID: testUserID,
		ChannelID: "other-channel",
		RawText:   "hello",
	})
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, progression.ReasonChannelNotAllowed, result.Reason)

	_, err = repo.GetByDiscordID(context.Background(), testUserID)
	assert.ErrorIs(t, err, member.ErrMemberNotFound)
}

func TestAwardXP_NoLatinTextCreatesNoRecord(t *testing.T) {
	repo := newFakeRepo()
	h := newAwardHandler(repo, &fakePublisher{})

	result, err := h.Handle(context.Background(), AwardXPCommand{
		DiscordID: testUserID,
		ChannelID: testChannel,
		RawText:   "привет!!!",
	})
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, progression.ReasonNoLatinText, result.Reason)

	_, err = repo.GetByDiscordID(context.Background(), testUserID)
	assert.ErrorIs(t, err, member.ErrMemberNotFound)
}

func TestAwardXP_RepeatSuppressed(t *testing.T) {
	repo := newFakeRepo()
	h := newAwardHandler(repo, &fakePublisher{})
	cmd := AwardXPCommand{
		DiscordID:   testUserID,
		DisplayName: "Alice",
		ChannelID:   testChannel,
		RawText:     "same message",
	}

	first, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, first.Applied)

	second, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, progression.ReasonRepeatedMessage, second.Reason)
	assert.Equal(t, first.Member.XP, second.Member.XP)
}

func TestAwardXP_VocabularyWordSuppressed(t *testing.T) {
	repo := newFakeRepo()
	h := newAwardHandler(repo, &fakePublisher{})
	addWord := NewAddWordHandler(repo)

	_, err := addWord.Handle(context.Background(), AddWordCommand{
		DiscordID:   testUserID,
		DisplayName: "Alice",
		Word:        "serendipity",
	})
	require.NoError(t, err)

	result, err := h.Handle(context.Background(), AwardXPCommand{
		DiscordID:   testUserID,
		DisplayName: "Alice",
		ChannelID:   testChannel,
		RawText:     "serendipity!!!",
	})
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, progression.ReasonVocabularyWord, result.Reason)
}

func TestAwardXP_GainCapped(t *testing.T) {
	repo := newFakeRepo()
	h := newAwardHandler(repo, &fakePublisher{})

	result, err := h.Handle(context.Background(), AwardXPCommand{
		DiscordID:   testUserID,
		DisplayName: "Alice",
		ChannelID:   testChannel,
		RawText:     strings.Repeat("a", 999),
	})
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, progression.MaxXPPerMessage, result.XPGained)
}

func TestAwardXP_LevelUpPublishesEvent(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	h := newAwardHandler(repo, pub)

	result, err := h.Handle(context.Background(), AwardXPCommand{
		DiscordID:   testUserID,
		DisplayName: "Alice",
		ChannelID:   testChannel,
		RawText:     strings.Repeat("x", 150),
	})
	require.NoError(t, err)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, member.Level(2), result.Member.Level)

	leveled := pub.byType(member.EventLeveledUp)
	require.Len(t, leveled, 1)
	event := leveled[0].(member.LeveledUpEvent)
	assert.Equal(t, 1, event.OldLevel)
	assert.Equal(t, 2, event.NewLevel)
}

func TestAwardXP_UpdateFailurePropagates(t *testing.T) {
	repo := newFakeRepo()
	h := newAwardHandler(repo, &fakePublisher{})

	// Seed the record so the failure comes from Update, not Create.
	m, _ := member.NewMember(testUserID, "Alice")
	require.NoError(t, repo.Create(context.Background(), m))
	repo.failUpdate = errors.New("connection reset")

	_, err := h.Handle(context.Background(), AwardXPCommand{
		DiscordID: testUserID,
		ChannelID: testChannel,
		RawText:   "hello",
	})
	assert.Error(t, err)
}

func TestAwardXP_InvalidCommand(t *testing.T) {
	h := newAwardHandler(newFakeRepo(), &fakePublisher{})

	_, err := h.Handle(context.Background(), AwardXPCommand{
		DiscordID: "not-numeric",
		ChannelID: testChannel,
	})
	assert.Error(t, err)

	_, err = h.Handle(context.Background(), AwardXPCommand{
		DiscordID: testUserID,
	})
	assert.Error(t, err)
}

func TestAwardXP_ConcurrentSameUser(t *testing.T) {
	repo := newFakeRepo()
	h := newAwardHandler(repo, &fakePublisher{})

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := h.Handle(context.Background(), AwardXPCommand{
				DiscordID:   testUserID,
				DisplayName: "Alice",
				ChannelID:   testChannel,
				RawText:     strings.Repeat("m", 10+n), // distinct texts, 10+n XP each
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := repo.GetByDiscordID(context.Background(), testUserID)
	require.NoError(t, err)

	// Every award lands: no stale-read clobbering under concurrency.
	want := 0
	for i := 0; i < workers; i++ {
		want += 10 + i
	}
	assert.Equal(t, member.XP(want), stored.XP)
}
