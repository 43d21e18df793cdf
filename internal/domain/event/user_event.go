package event

import (
	"time"

	"github.com/oksasatya/user-cache-api/internal/domain/entity"
)

// Type names a user lifecycle transition.
type Type string

const (
	UserCreated Type = "user.created"
	UserUpdated Type = "user.updated"
	UserDeleted Type = "user.deleted"
)

// UserEvent is the JSON message published after a successful write.
// It never carries the password hash.
type UserEvent struct {
	Type       Type      `json:"type"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewUserEvent(t Type, u *entity.User, at time.Time) UserEvent {
	return UserEvent{
		Type:       t,
		UserID:     u.ID,
		Name:       u.Name,
		Email:      u.Email,
		OccurredAt: at.UTC(),
	}
}
