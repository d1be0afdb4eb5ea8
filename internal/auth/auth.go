package auth

import (
	"fmt"

	"github.com/letsssgooo/gateQuiz/internal/telegram"
)

// BotAuth пускает к боту только пользователей из списка.
// Пустой список означает, что бот открыт для всех.
type BotAuth struct {
	allowed map[string]struct{}
}

// NewBotAuth создаёт BotAuth по списку username.
func NewBotAuth(usernames []string) (*BotAuth, error) {
	allowed := make(map[string]struct{}, len(usernames))

	for _, raw := range usernames {
		username, err := NormalizeUsername(raw)
		if err != nil {
			return nil, err
		}

		allowed[username] = struct{}{}
	}

	return &BotAuth{allowed: allowed}, nil
}

// Open сообщает, что ограничений нет.
func (a *BotAuth) Open() bool {
	return len(a.allowed) == 0
}

// CheckUser возвращает ErrForbidden, если пользователю нельзя пользоваться ботом.
func (a *BotAuth) CheckUser(user *telegram.User) error {
	if a.Open() {
		return nil
	}

	if user == nil || user.Username == "" {
		return fmt.Errorf("%w, user has no username", ErrForbidden)
	}

	username, err := NormalizeUsername(user.Username)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	}

	if _, ok := a.allowed[username]; !ok {
		return fmt.Errorf("%w, user %s is not in the allowlist", ErrForbidden, username)
	}

	return nil
}
