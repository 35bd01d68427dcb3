package progression

import (
	"sort"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROLE TIERS
// Ступени наград: каждому порогу XP соответствует роль Discord.
// Пороги и идентификаторы ролей - конфигурация развёртывания.
// ══════════════════════════════════════════════════════════════════════════════

// Tier - одна ступень наград.
type Tier struct {
	// Threshold - минимальный XP для получения ступени.
	Threshold int

	// RoleID - идентификатор роли Discord.
	RoleID string
}

// TierTable - неизменяемая таблица ступеней, отсортированная по убыванию порога.
type TierTable struct {
	tiers []Tier
}

// NewTierTable строит таблицу из отображения порог -> роль.
func NewTierTable(thresholds map[int]string) *TierTable {
	tiers := make([]Tier, 0, len(thresholds))
	for threshold, roleID := range thresholds {
		if roleID == "" {
			continue
		}
		tiers = append(tiers, Tier{Threshold: threshold, RoleID: roleID})
	}

	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].Threshold > tiers[j].Threshold
	})

	return &TierTable{tiers: tiers}
}

// Tiers возвращает ступени по убыванию порога.
func (t *TierTable) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// Len возвращает количество ступеней.
func (t *TierTable) Len() int {
	return len(t.tiers)
}

// RoleIDs возвращает идентификаторы всех ролей таблицы.
func (t *TierTable) RoleIDs() []string {
	ids := make([]string, 0, len(t.tiers))
	for _, tier := range t.tiers {
		ids = append(ids, tier.RoleID)
	}
	return ids
}

// Contains проверяет, принадлежит ли роль таблице ступеней.
func (t *TierTable) Contains(roleID string) bool {
	for _, tier := range t.tiers {
		if tier.RoleID == roleID {
			return true
		}
	}
	return false
}

// Resolve возвращает ступень с наибольшим порогом, не превышающим xp.
// Второе значение false означает, что ни один порог не подошёл -
// в этом случае никаких изменений ролей быть не должно.
func (t *TierTable) Resolve(xp member.XP) (Tier, bool) {
	for _, tier := range t.tiers {
		if int(xp) >= tier.Threshold {
			return tier, true
		}
	}
	return Tier{}, false
}
