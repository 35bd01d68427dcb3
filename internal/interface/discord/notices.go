package discord

import (
	"context"
	"time"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/interface/discord/presenter"
	"github.com/mailforstudy46-bot/central-discord-bot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVENT SUBSCRIBERS
// Награждения публикуют доменные события; здесь они превращаются в короткие
// уведомления в канале, инвалидацию кэша и журнал начислений.
// ══════════════════════════════════════════════════════════════════════════════

// sideEffectTimeout bounds one subscriber's work per event.
const sideEffectTimeout = 10 * time.Second

// transientSender posts self-deleting channel messages.
type transientSender interface {
	SendTransient(channelID, content string, ttl time.Duration) error
}

// awardRecorder appends to the xp_awards audit log.
type awardRecorder interface {
	RecordAward(ctx context.Context, id member.DiscordID, channelID string, amount, newTotal int) error
}

// cacheInvalidator drops the cached leaderboard after a standings change.
type cacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// eventSubscriber registers event handlers on a bus.
type eventSubscriber interface {
	Subscribe(eventType member.EventType, handler member.EventHandler) error
}

// NoticesConfig contains the subscriber dependencies. Recorder and Cache
// are optional; a nil value disables that side effect.
type NoticesConfig struct {
	Notifier transientSender
	Recorder awardRecorder
	Cache    cacheInvalidator

	XPNoticeTTL      time.Duration
	LevelUpNoticeTTL time.Duration

	Logger *logger.Logger
}

// Notices turns domain events into channel notices and bookkeeping.
type Notices struct {
	cfg NoticesConfig
	log *logger.Logger
}

// NewNotices creates the subscriber set.
func NewNotices(cfg NoticesConfig) *Notices {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	return &Notices{
		cfg: cfg,
		log: cfg.Logger.With(logger.Component("discord_notices")),
	}
}

// Bind subscribes all handlers on the bus.
func (n *Notices) Bind(bus eventSubscriber) error {
	subscriptions := map[member.EventType]member.EventHandler{
		member.EventXPAwarded:     n.onXPAwarded,
		member.EventLeveledUp:     n.onLeveledUp,
		member.EventTierGranted:   n.onTierGranted,
		member.EventProgressReset: n.onProgressReset,
	}

	for eventType, handler := range subscriptions {
		if err := bus.Subscribe(eventType, handler); err != nil {
			return err
		}
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────────────────────────────────────

// onXPAwarded posts the transient XP notice, logs the award and drops the
// cached leaderboard. The notice is cosmetic; only bookkeeping errors
// propagate back to the bus.
func (n *Notices) onXPAwarded(event member.Event) error {
	awarded, ok := event.(member.XPAwardedEvent)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if n.cfg.Notifier != nil {
		notice := presenter.XPNotice(awarded.DisplayName, awarded.Amount, awarded.NewTotal)
		if err := n.cfg.Notifier.SendTransient(awarded.ChannelID, notice, n.cfg.XPNoticeTTL); err != nil {
			n.log.Warn("xp notice failed",
				logger.MemberID(string(awarded.MemberID())),
				logger.Err(err),
			)
		}
	}

	n.invalidateLeaderboard(ctx)

	if n.cfg.Recorder != nil {
		err := n.cfg.Recorder.RecordAward(ctx, awarded.MemberID(), awarded.ChannelID, awarded.Amount, awarded.NewTotal)
		if err != nil {
			return err
		}
	}

	return nil
}

// onLeveledUp posts the level-up congratulation.
func (n *Notices) onLeveledUp(event member.Event) error {
	leveled, ok := event.(member.LeveledUpEvent)
	if !ok {
		return nil
	}

	if n.cfg.Notifier == nil {
		return nil
	}

	notice := presenter.LevelUpNotice(leveled.DisplayName, leveled.NewLevel)
	if err := n.cfg.Notifier.SendTransient(leveled.ChannelID, notice, n.cfg.LevelUpNoticeTTL); err != nil {
		n.log.Warn("level-up notice failed",
			logger.MemberID(string(leveled.MemberID())),
			logger.LevelNum(leveled.NewLevel),
			logger.Err(err),
		)
	}

	return nil
}

// onTierGranted announces the new role tier.
func (n *Notices) onTierGranted(event member.Event) error {
	granted, ok := event.(member.TierGrantedEvent)
	if !ok {
		return nil
	}

	if n.cfg.Notifier == nil {
		return nil
	}

	notice := presenter.TierNotice(string(granted.MemberID()), granted.Threshold)
	if err := n.cfg.Notifier.SendTransient(granted.ChannelID, notice, n.cfg.XPNoticeTTL); err != nil {
		n.log.Warn("tier notice failed",
			logger.MemberID(string(granted.MemberID())),
			logger.RoleID(granted.RoleID),
			logger.Err(err),
		)
	}

	return nil
}

// onProgressReset drops the cached leaderboard so the standings reflect
// the reset immediately.
func (n *Notices) onProgressReset(event member.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	n.invalidateLeaderboard(ctx)
	return nil
}

func (n *Notices) invalidateLeaderboard(ctx context.Context) {
	if n.cfg.Cache == nil {
		return
	}

	if err := n.cfg.Cache.Invalidate(ctx); err != nil {
		n.log.Warn("leaderboard cache invalidation failed", logger.Err(err))
	}
}
