package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/NiklavsD/Tikodea/internal/domain"
)

// SQLiteChatRepository implements ChatRepository over SQLite.
type SQLiteChatRepository struct {
	db *sql.DB
}

// NewSQLiteChatRepository creates a SQLite-backed chat repository.
func NewSQLiteChatRepository(db *sql.DB) *SQLiteChatRepository {
	return &SQLiteChatRepository{db: db}
}

// Append stores a message and assigns its ID.
func (r *SQLiteChatRepository) Append(ctx context.Context, msg *domain.ChatMessage) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (video_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		int64(msg.VideoID), string(msg.Role), msg.Content, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	msg.ID = id

	return nil
}

// ListByVideo returns all messages for a video, oldest first.
func (r *SQLiteChatRepository) ListByVideo(ctx context.Context, videoID domain.VideoID) ([]domain.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, video_id, role, content, created_at
		 FROM chat_messages WHERE video_id = ? ORDER BY created_at ASC, id ASC`,
		int64(videoID),
	)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var (
			msg  domain.ChatMessage
			vid  int64
			role string
		)
		if err := rows.Scan(&msg.ID, &vid, &role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		msg.VideoID = domain.VideoID(vid)
		msg.Role = domain.ChatRole(role)
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
