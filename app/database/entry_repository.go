package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

type entryRepository struct {
	db *DB
}

func NewEntryRepository(db *DB) EntryRepository {
	return &entryRepository{db: db}
}

const entryColumns = `feed_name, position, title, link, excerpt, image_url, is_filtered, filter_reason, created_at`

// ReplaceEntries swaps the stored snapshot of a section for a new one.
// Readers see either the old snapshot or the new one, never a mix.
func (r *entryRepository) ReplaceEntries(feedName string, entries []Entry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	result, err := tx.Exec(`UPDATE feeds SET entry_count = ?, updated_at = ? WHERE name = ?`,
		len(entries), now, feedName)
	if err != nil {
		return fmt.Errorf("failed to update entry count: %w", err)
	}
	if err := requireAffected(result, "feed", feedName); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM entries WHERE feed_name = ?`, feedName); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO entries (feed_name, position, title, link, excerpt, image_url, is_filtered, filter_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		_, err := stmt.Exec(feedName, entry.Position, entry.Title, entry.Link, entry.Excerpt,
			entry.ImageURL, entry.IsFiltered, entry.FilterReason, now)
		if err != nil {
			return fmt.Errorf("failed to insert entry %d: %w", entry.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit entries: %w", err)
	}

	return nil
}

// GetVisibleEntries returns unfiltered entries in document order. A limit of
// zero or less returns all of them.
func (r *entryRepository) GetVisibleEntries(feedName string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(`
		SELECT `+entryColumns+`
		FROM entries
		WHERE feed_name = ? AND is_filtered = 0
		ORDER BY position
		LIMIT ?
	`, feedName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get visible entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *entryRepository) GetAllEntries(feedName string) ([]Entry, error) {
	rows, err := r.db.Query(`
		SELECT `+entryColumns+`
		FROM entries
		WHERE feed_name = ?
		ORDER BY position
	`, feedName)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *entryRepository) GetEntry(feedName string, position int) (*Entry, error) {
	row := r.db.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE feed_name = ? AND position = ?`,
		feedName, position)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry, nil
}

func (r *entryRepository) GetEntryStats(feedName string) (EntryStats, error) {
	var stats EntryStats

	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN is_filtered = 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN is_filtered = 1 THEN 1 ELSE 0 END), 0)
		FROM entries
		WHERE feed_name = ?
	`, feedName).Scan(&stats.Total, &stats.Visible, &stats.Filtered)
	if err != nil {
		return EntryStats{}, fmt.Errorf("failed to get entry stats: %w", err)
	}

	return stats, nil
}

func (r *entryRepository) UpdateEntryFilterStatus(feedName string, position int, isFiltered bool, reason string) error {
	result, err := r.db.Exec(`
		UPDATE entries SET is_filtered = ?, filter_reason = ?
		WHERE feed_name = ? AND position = ?
	`, isFiltered, reason, feedName, position)
	if err != nil {
		return fmt.Errorf("failed to update entry filter status: %w", err)
	}

	return requireAffected(result, "entry", feedName+"/"+strconv.Itoa(position))
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	entries := []Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, nil
}

func scanEntry(s scanner) (*Entry, error) {
	var entry Entry
	var imageURL sql.NullString

	err := s.Scan(&entry.FeedName, &entry.Position, &entry.Title, &entry.Link, &entry.Excerpt,
		&imageURL, &entry.IsFiltered, &entry.FilterReason, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	entry.ImageURL = nullStringPtr(imageURL)

	return &entry, nil
}
