package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NiklavsD/Tikodea/internal/domain"
)

// SQLiteVideoRepository implements VideoRepository over SQLite.
type SQLiteVideoRepository struct {
	db *sql.DB
}

// NewSQLiteVideoRepository creates a SQLite-backed video repository.
func NewSQLiteVideoRepository(db *sql.DB) *SQLiteVideoRepository {
	return &SQLiteVideoRepository{db: db}
}

const videoColumns = `id, tiktok_url, context, title, description, creator, hashtags,
	view_count, like_count, thumbnail_url, transcript,
	investment_analysis, product_analysis, content_analysis, knowledge_analysis,
	status, error_message, is_favorite, manual_tags,
	telegram_chat_id, telegram_message_id, discord_channel_id, discord_message_id,
	created_at, updated_at, processed_at`

// Create inserts a new video record and assigns its ID.
func (r *SQLiteVideoRepository) Create(ctx context.Context, v *domain.Video) error {
	hashtags, err := marshalStrings(v.Hashtags)
	if err != nil {
		return fmt.Errorf("marshal hashtags: %w", err)
	}
	manualTags, err := marshalStrings(v.ManualTags)
	if err != nil {
		return fmt.Errorf("marshal manual tags: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO videos (
			tiktok_url, context, title, description, creator, hashtags,
			view_count, like_count, thumbnail_url, transcript,
			investment_analysis, product_analysis, content_analysis, knowledge_analysis,
			status, error_message, is_favorite, manual_tags,
			telegram_chat_id, telegram_message_id, discord_channel_id, discord_message_id,
			created_at, updated_at, processed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.TikTokURL, v.Context, v.Title, v.Description, v.Creator, hashtags,
		v.ViewCount, v.LikeCount, v.ThumbnailURL, v.Transcript,
		rawOrNil(v.InvestmentAnalysis), rawOrNil(v.ProductAnalysis),
		rawOrNil(v.ContentAnalysis), rawOrNil(v.KnowledgeAnalysis),
		string(v.Status), v.ErrorMessage, v.IsFavorite, manualTags,
		v.TelegramChatID, v.TelegramMessageID, v.DiscordChannelID, v.DiscordMessageID,
		v.CreatedAt, v.UpdatedAt, v.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	v.ID = domain.VideoID(id)

	return nil
}

// Get retrieves a video by ID.
func (r *SQLiteVideoRepository) Get(ctx context.Context, id domain.VideoID) (*domain.Video, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = ?`, int64(id))

	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan video: %w", err)
	}

	return v, nil
}

// Update commits the full video record.
func (r *SQLiteVideoRepository) Update(ctx context.Context, v *domain.Video) error {
	hashtags, err := marshalStrings(v.Hashtags)
	if err != nil {
		return fmt.Errorf("marshal hashtags: %w", err)
	}
	manualTags, err := marshalStrings(v.ManualTags)
	if err != nil {
		return fmt.Errorf("marshal manual tags: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE videos SET
			tiktok_url = ?, context = ?, title = ?, description = ?, creator = ?, hashtags = ?,
			view_count = ?, like_count = ?, thumbnail_url = ?, transcript = ?,
			investment_analysis = ?, product_analysis = ?, content_analysis = ?, knowledge_analysis = ?,
			status = ?, error_message = ?, is_favorite = ?, manual_tags = ?,
			telegram_chat_id = ?, telegram_message_id = ?, discord_channel_id = ?, discord_message_id = ?,
			updated_at = ?, processed_at = ?
		WHERE id = ?`,
		v.TikTokURL, v.Context, v.Title, v.Description, v.Creator, hashtags,
		v.ViewCount, v.LikeCount, v.ThumbnailURL, v.Transcript,
		rawOrNil(v.InvestmentAnalysis), rawOrNil(v.ProductAnalysis),
		rawOrNil(v.ContentAnalysis), rawOrNil(v.KnowledgeAnalysis),
		string(v.Status), v.ErrorMessage, v.IsFavorite, manualTags,
		v.TelegramChatID, v.TelegramMessageID, v.DiscordChannelID, v.DiscordMessageID,
		v.UpdatedAt, v.ProcessedAt,
		int64(v.ID),
	)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrVideoNotFound
	}

	return nil
}

// List returns videos matching the filter, newest first, plus the total
// match count.
func (r *SQLiteVideoRepository) List(ctx context.Context, filter ListFilter) ([]*domain.Video, int, error) {
	where := "1=1"
	var args []any

	if filter.FavoritesOnly {
		where += " AND is_favorite = 1"
	}
	if filter.Search != "" {
		where += " AND (title LIKE ? OR description LIKE ? OR transcript LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term)
	}
	if filter.Tag != "" {
		// Tags are stored as JSON arrays; match the quoted element.
		where += " AND (hashtags LIKE ? OR manual_tags LIKE ?)"
		quoted := `%"` + filter.Tag + `"%`
		args = append(args, quoted, quoted)
	}

	var total int
	countArgs := make([]any, len(args))
	copy(countArgs, args)
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM videos WHERE `+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE `+where+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var videos []*domain.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, total, nil
}

// StatusCounts returns the number of videos in each status.
func (r *SQLiteVideoRepository) StatusCounts(ctx context.Context) (StatusCounts, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM videos GROUP BY status`)
	if err != nil {
		return StatusCounts{}, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	var counts StatusCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return StatusCounts{}, fmt.Errorf("scan count: %w", err)
		}
		switch domain.VideoStatus(status) {
		case domain.StatusPending:
			counts.Pending = n
		case domain.StatusProcessing:
			counts.Processing = n
		case domain.StatusCompleted:
			counts.Completed = n
		case domain.StatusFailed:
			counts.Failed = n
		}
	}

	return counts, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(s scanner) (*domain.Video, error) {
	var (
		v          domain.Video
		id         int64
		hashtags   string
		manualTags string
		viewCount  sql.NullInt64
		likeCount  sql.NullInt64
		tgMsgID    sql.NullInt64
		invest     sql.NullString
		product    sql.NullString
		content    sql.NullString
		knowledge  sql.NullString
		status     string
		processed  sql.NullTime
	)

	err := s.Scan(
		&id, &v.TikTokURL, &v.Context, &v.Title, &v.Description, &v.Creator, &hashtags,
		&viewCount, &likeCount, &v.ThumbnailURL, &v.Transcript,
		&invest, &product, &content, &knowledge,
		&status, &v.ErrorMessage, &v.IsFavorite, &manualTags,
		&v.TelegramChatID, &tgMsgID, &v.DiscordChannelID, &v.DiscordMessageID,
		&v.CreatedAt, &v.UpdatedAt, &processed,
	)
	if err != nil {
		return nil, err
	}

	v.ID = domain.VideoID(id)
	v.Status = domain.VideoStatus(status)

	if err := json.Unmarshal([]byte(hashtags), &v.Hashtags); err != nil {
		return nil, fmt.Errorf("unmarshal hashtags: %w", err)
	}
	if err := json.Unmarshal([]byte(manualTags), &v.ManualTags); err != nil {
		return nil, fmt.Errorf("unmarshal manual tags: %w", err)
	}

	if viewCount.Valid {
		v.ViewCount = &viewCount.Int64
	}
	if likeCount.Valid {
		v.LikeCount = &likeCount.Int64
	}
	if tgMsgID.Valid {
		v.TelegramMessageID = &tgMsgID.Int64
	}
	if processed.Valid {
		t := processed.Time
		v.ProcessedAt = &t
	}

	v.InvestmentAnalysis = rawFromNull(invest)
	v.ProductAnalysis = rawFromNull(product)
	v.ContentAnalysis = rawFromNull(content)
	v.KnowledgeAnalysis = rawFromNull(knowledge)

	return &v, nil
}

func marshalStrings(s []string) (string, error) {
	if s == nil {
		s = []string{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func rawOrNil(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func rawFromNull(ns sql.NullString) json.RawMessage {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.RawMessage(ns.String)
}
