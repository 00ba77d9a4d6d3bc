package db

import (
	"fmt"

	"gorm.io/gorm"
)

// The DDL sticks to types both Postgres and SQLite understand so the same
// statements back the service and the test databases. UUIDs travel as text;
// dates and times of day keep their wire form.
var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status TEXT NOT NULL DEFAULT 'draft',
		applicable_local TEXT NOT NULL DEFAULT 'Local802',
		applicable_scale TEXT NOT NULL DEFAULT 'ClassicalConcert_23_24',
		engagement_date TEXT NOT NULL DEFAULT '',
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		leader_name TEXT NOT NULL DEFAULT '',
		leader_card_no TEXT NOT NULL DEFAULT '',
		leader_ssn_ein TEXT NOT NULL DEFAULT '',
		leader_address TEXT NOT NULL DEFAULT '',
		leader_phone TEXT NOT NULL DEFAULT '',
		band_name TEXT NOT NULL DEFAULT '',
		venue_name TEXT NOT NULL DEFAULT '',
		location_borough TEXT NOT NULL DEFAULT '',
		engagement_type TEXT NOT NULL DEFAULT '',
		num_musicians INTEGER NOT NULL DEFAULT 1,
		pre_heat_hours REAL NOT NULL DEFAULT 0,
		actual_hours_engagement REAL NOT NULL DEFAULT 0,
		actual_hours_rehearsal REAL NOT NULL DEFAULT 0,
		has_rehearsal BOOLEAN NOT NULL DEFAULT FALSE,
		is_recorded BOOLEAN NOT NULL DEFAULT FALSE,
		leader_is_incorporated BOOLEAN NOT NULL DEFAULT FALSE,
		leader_instrument TEXT NOT NULL DEFAULT '',
		leader_is_playing BOOLEAN NOT NULL DEFAULT TRUE,
		leader_is_doubling BOOLEAN NOT NULL DEFAULT FALSE,
		leader_has_cartage BOOLEAN NOT NULL DEFAULT FALSE,
		total_gross_comp REAL NOT NULL DEFAULT 0,
		total_work_dues REAL NOT NULL DEFAULT 0,
		total_pension REAL NOT NULL DEFAULT 0,
		total_health REAL NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		last_saved_at TIMESTAMP NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_user_id ON contracts (user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts (status);`,
	`CREATE TABLE IF NOT EXISTS side_musicians (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		card_no TEXT NOT NULL DEFAULT '',
		tax_id TEXT NOT NULL DEFAULT '',
		instrument TEXT NOT NULL DEFAULT '',
		is_doubling BOOLEAN NOT NULL DEFAULT FALSE,
		has_cartage BOOLEAN NOT NULL DEFAULT FALSE
	);`,
	`CREATE INDEX IF NOT EXISTS idx_side_musicians_contract_id ON side_musicians (contract_id);`,
}

// Migrate applies the schema statements in order.
func Migrate(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
