package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'review_status') THEN
			CREATE TYPE review_status AS ENUM ('COMPLETE', 'VAGUE', 'DENIED', 'DELAYED');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'appeal_type') THEN
			CREATE TYPE appeal_type AS ENUM ('FIRST', 'SECOND');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'appeal_status') THEN
			CREATE TYPE appeal_status AS ENUM ('PENDING', 'UNDER_REVIEW', 'DECIDED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		username VARCHAR(100) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name VARCHAR(200) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'staff',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS panchayat_offices (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(200) NOT NULL,
		district VARCHAR(200) NOT NULL,
		state VARCHAR(200) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS rti_requests (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		reference_number VARCHAR(100) NOT NULL UNIQUE,
		applicant_name VARCHAR(200) NOT NULL,
		date_filed DATE NOT NULL,
		subject TEXT NOT NULL,
		panchayat_id UUID NOT NULL REFERENCES panchayat_offices (id) ON DELETE CASCADE,
		original_application TEXT,
		acknowledgement_document TEXT,
		acknowledgement_date DATE,
		response_document TEXT,
		response_date DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_rti_requests_panchayat_id ON rti_requests (panchayat_id);`,
	`CREATE INDEX IF NOT EXISTS idx_rti_requests_date_filed ON rti_requests (date_filed);`,
	`CREATE TABLE IF NOT EXISTS rti_responses (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		rti_request_id UUID NOT NULL UNIQUE REFERENCES rti_requests (id) ON DELETE CASCADE,
		reply_text TEXT NOT NULL,
		date_replied DATE NOT NULL,
		is_delayed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS analyst_reviews (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		response_id UUID NOT NULL UNIQUE REFERENCES rti_responses (id) ON DELETE CASCADE,
		status review_status NOT NULL,
		remarks TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS appeals (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users (id),
		appeal_type appeal_type NOT NULL,
		status appeal_status NOT NULL DEFAULT 'PENDING',
		rti_request_id UUID REFERENCES rti_requests (id) ON DELETE CASCADE,
		parent_appeal_id UUID REFERENCES appeals (id) ON DELETE CASCADE,
		reference_number VARCHAR(100) NOT NULL,
		date_filed DATE NOT NULL,
		request_document TEXT NOT NULL,
		response_document TEXT,
		decision_remarks TEXT,
		decided_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_appeal_shape CHECK (
			(appeal_type = 'FIRST' AND rti_request_id IS NOT NULL AND parent_appeal_id IS NULL) OR
			(appeal_type = 'SECOND' AND rti_request_id IS NULL AND parent_appeal_id IS NOT NULL)
		)
	);`,
	// Uniqueness is the final arbiter for concurrent appeal submissions.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_appeals_first_per_request
		ON appeals (rti_request_id) WHERE appeal_type = 'FIRST';`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_appeals_second_per_parent
		ON appeals (parent_appeal_id) WHERE appeal_type = 'SECOND';`,
	`CREATE INDEX IF NOT EXISTS idx_appeals_user_id ON appeals (user_id);`,
	`CREATE OR REPLACE FUNCTION set_updated_at() RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_rti_requests_updated_at') THEN
			CREATE TRIGGER trg_rti_requests_updated_at
				BEFORE UPDATE ON rti_requests
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_appeals_updated_at') THEN
			CREATE TRIGGER trg_appeals_updated_at
				BEFORE UPDATE ON appeals
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
}

func RunMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
