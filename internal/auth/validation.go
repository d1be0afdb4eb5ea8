package auth

import (
	"fmt"
	"regexp"
	"strings"
)

var usernameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// NormalizeUsername валидирует username и приводит его к виду без "@" в нижнем регистре
func NormalizeUsername(raw string) (string, error) {
	username := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "@"))

	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return "", fmt.Errorf("%w, username %q must be %d-%d characters long",
			ErrValidation, raw, minUsernameLen, maxUsernameLen)
	}

	if !usernameRe.MatchString(username) {
		return "", fmt.Errorf("%w, username %q may contain only latin letters, digits and '_'", ErrValidation, raw)
	}

	return username, nil
}

// ParseAllowlist разбирает список username, разделённых запятыми или пробелами
func ParseAllowlist(raw string) ([]string, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	usernames := make([]string, 0, len(fields))

	for _, field := range fields {
		username, err := NormalizeUsername(field)
		if err != nil {
			return nil, err
		}

		usernames = append(usernames, username)
	}

	return usernames, nil
}
