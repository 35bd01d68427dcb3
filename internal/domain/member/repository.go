package member

import (
	"context"
	"errors"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Контракт хранилища прогресса. Реализации находятся в
// infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранилища прогресса участников.
type Repository interface {
	// Create создаёт нового участника.
	// Возвращает ErrMemberAlreadyExists, если участник уже существует.
	Create(ctx context.Context, m *Member) error

	// GetByDiscordID возвращает участника по Discord ID.
	// Возвращает ErrMemberNotFound, если участник не найден.
	GetByDiscordID(ctx context.Context, id DiscordID) (*Member, error)

	// Update сохраняет изменения участника.
	// Возвращает ErrMemberNotFound, если участник не найден.
	Update(ctx context.Context, m *Member) error

	// GetTopByXP возвращает участников, отсортированных по XP по убыванию,
	// не более limit записей.
	GetTopByXP(ctx context.Context, limit int) ([]*Member, error)

	// ResetProgress сбрасывает xp=0, level=1 и последнее сообщение,
	// не трогая словарь. Возвращает ErrMemberNotFound, если участника нет.
	ResetProgress(ctx context.Context, id DiscordID) error

	// Count возвращает общее количество участников.
	Count(ctx context.Context) (int, error)
}

// GetOrCreate загружает участника или лениво создаёт запись с нулевым
// прогрессом. Гонка на создании с другим обработчиком разрешается повторным
// чтением.
func GetOrCreate(ctx context.Context, repo Repository, id DiscordID, displayName string) (*Member, error) {
	m, err := repo.GetByDiscordID(ctx, id)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}

	m, err = NewMember(id, displayName)
	if err != nil {
		return nil, err
	}

	if err := repo.Create(ctx, m); err != nil {
		if errors.Is(err, ErrMemberAlreadyExists) {
			return repo.GetByDiscordID(ctx, id)
		}
		return nil, err
	}

	return m, nil
}
