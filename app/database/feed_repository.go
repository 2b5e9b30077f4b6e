package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type feedRepository struct {
	db *DB
}

func NewFeedRepository(db *DB) FeedRepository {
	return &feedRepository{db: db}
}

const feedColumns = `name, url, title, position, feed_type, channel_title, language, image_url,
	last_fetched_at, next_fetch_at, last_error, entry_count, created_at, updated_at`

// UpsertFeed registers a section or refreshes its configuration. A changed
// URL makes the section due immediately.
func (r *feedRepository) UpsertFeed(feedName, feedURL, title string, position int) error {
	now := time.Now().UTC()

	_, err := r.db.Exec(`
		INSERT INTO feeds (name, url, title, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			position = excluded.position,
			next_fetch_at = CASE WHEN feeds.url != excluded.url THEN NULL ELSE feeds.next_fetch_at END,
			updated_at = excluded.updated_at
	`, feedName, feedURL, title, position, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert feed: %w", err)
	}

	return nil
}

func (r *feedRepository) UpdateFeedMetadata(feedName string, metadata FeedMetadata, nextFetch time.Time) error {
	now := time.Now().UTC()

	result, err := r.db.Exec(`
		UPDATE feeds
		SET feed_type = ?, channel_title = ?, language = ?, image_url = ?,
			last_fetched_at = ?, next_fetch_at = ?, last_error = '', updated_at = ?
		WHERE name = ?
	`, metadata.FeedType, metadata.ChannelTitle, metadata.Language, metadata.ImageURL,
		now, nextFetch.UTC(), now, feedName)
	if err != nil {
		return fmt.Errorf("failed to update feed metadata: %w", err)
	}

	return requireAffected(result, "feed", feedName)
}

// RecordFetchFailure keeps the stored entries and only notes the failure.
func (r *feedRepository) RecordFetchFailure(feedName string, reason string, nextFetch time.Time) error {
	now := time.Now().UTC()

	result, err := r.db.Exec(`
		UPDATE feeds
		SET last_error = ?, last_fetched_at = ?, next_fetch_at = ?
		WHERE name = ?
	`, reason, now, nextFetch.UTC(), feedName)
	if err != nil {
		return fmt.Errorf("failed to record fetch failure: %w", err)
	}

	return requireAffected(result, "feed", feedName)
}

func (r *feedRepository) GetFeed(feedName string) (*Feed, error) {
	row := r.db.QueryRow(`SELECT `+feedColumns+` FROM feeds WHERE name = ?`, feedName)

	feed, err := scanFeed(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}

	return feed, nil
}

func (r *feedRepository) GetFeeds() ([]Feed, error) {
	rows, err := r.db.Query(`SELECT ` + feedColumns + ` FROM feeds ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to get feeds: %w", err)
	}
	defer rows.Close()

	feeds := []Feed{}
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		feeds = append(feeds, *feed)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return feeds, nil
}

func (r *feedRepository) GetFeedCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM feeds").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get feed count: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeed(s scanner) (*Feed, error) {
	var feed Feed
	var lastFetchedAt, nextFetchAt sql.NullTime

	err := s.Scan(
		&feed.Name, &feed.URL, &feed.Title, &feed.Position, &feed.FeedType, &feed.ChannelTitle,
		&feed.Language, &feed.ImageURL, &lastFetchedAt, &nextFetchAt, &feed.LastError,
		&feed.EntryCount, &feed.CreatedAt, &feed.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	feed.LastFetchedAt = nullTimePtr(lastFetchedAt)
	feed.NextFetchAt = nullTimePtr(nextFetchAt)

	return &feed, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func requireAffected(result sql.Result, kind, key string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s '%s': %w", kind, key, ErrNotFound)
	}
	return nil
}
