package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL UNIQUE,
            avatar TEXT NOT NULL DEFAULT '',
            role TEXT NOT NULL DEFAULT 'child',
            is_online BOOLEAN NOT NULL DEFAULT FALSE,
            last_seen TIMESTAMPTZ
        );`,
		`CREATE TABLE IF NOT EXISTS groups (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            owner_id INT NOT NULL REFERENCES users(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS group_members (
            group_id INT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            PRIMARY KEY(group_id, user_id)
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            id SERIAL PRIMARY KEY,
            sender_id INT NOT NULL REFERENCES users(id),
            recipient_id INT REFERENCES users(id),
            group_id INT REFERENCES groups(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            message_type TEXT NOT NULL DEFAULT 'text',
            file_url TEXT,
            file_name TEXT,
            file_size BIGINT,
            reply_to INT REFERENCES messages(id),
            is_read BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CHECK (recipient_id IS NOT NULL OR group_id IS NOT NULL)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_messages_direct
            ON messages (sender_id, recipient_id, created_at)
            WHERE recipient_id IS NOT NULL;`,
		`CREATE INDEX IF NOT EXISTS idx_messages_group
            ON messages (group_id, created_at)
            WHERE group_id IS NOT NULL;`,
		`CREATE TABLE IF NOT EXISTS alerts (
            id SERIAL PRIMARY KEY,
            conversation_key TEXT NOT NULL,
            victim_id INT NOT NULL REFERENCES users(id),
            bully_id INT NOT NULL REFERENCES users(id),
            message_content TEXT NOT NULL,
            bullying_type TEXT NOT NULL DEFAULT 'general_harassment',
            confidence DOUBLE PRECISION NOT NULL,
            severity TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts (status);`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
