package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens the SQLite database and bootstraps the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows one writer; serialize access through a single connection
	// so concurrent workers queue instead of hitting SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS videos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tiktok_url TEXT NOT NULL,
	context TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	creator TEXT NOT NULL DEFAULT '',
	hashtags TEXT NOT NULL DEFAULT '[]',
	view_count INTEGER,
	like_count INTEGER,
	thumbnail_url TEXT NOT NULL DEFAULT '',
	transcript TEXT NOT NULL DEFAULT '',
	investment_analysis TEXT,
	product_analysis TEXT,
	content_analysis TEXT,
	knowledge_analysis TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	error_message TEXT NOT NULL DEFAULT '',
	is_favorite INTEGER NOT NULL DEFAULT 0,
	manual_tags TEXT NOT NULL DEFAULT '[]',
	telegram_chat_id TEXT NOT NULL DEFAULT '',
	telegram_message_id INTEGER,
	discord_channel_id TEXT NOT NULL DEFAULT '',
	discord_message_id TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	processed_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_videos_status ON videos(status);
CREATE INDEX IF NOT EXISTS idx_videos_created_at ON videos(created_at);
CREATE INDEX IF NOT EXISTS idx_videos_url ON videos(tiktok_url);

CREATE TABLE IF NOT EXISTS chat_messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	video_id INTEGER NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_messages_video ON chat_messages(video_id);

CREATE TABLE IF NOT EXISTS api_quota (
	service TEXT PRIMARY KEY,
	month TEXT NOT NULL,
	used INTEGER NOT NULL,
	usage_limit INTEGER NOT NULL
);
`
