package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Intent{},
		&Invite{},
		&Member{},
	); err != nil {
		return err
	}

	// Case-insensitive unique member email.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_members_email_lower ON members ((lower(email)))",
	).Error; err != nil {
		return err
	}

	// At most one pending intent per email.
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_intents_pending_email ON intents (email) WHERE status = 'PENDING'",
	).Error
}
