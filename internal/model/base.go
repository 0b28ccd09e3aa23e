package model

import (
	"github.com/google/uuid"
)

// ensureID assigns an application-side id so inserts work on both postgres and sqlite.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every table for AutoMigrate, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&OAuthAccount{},
		&PasswordResetToken{},
		&EmailVerificationToken{},
		&Conversation{},
		&Message{},
		&Document{},
		&Summary{},
		&LawyerConnection{},
		&Notification{},
	}
}
