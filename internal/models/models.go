package models

import "github.com/google/uuid"

func ensureID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{&User{}, &Writer{}, &Order{}, &Resource{}, &Review{}}
}
