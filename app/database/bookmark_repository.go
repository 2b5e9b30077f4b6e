package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type bookmarkRepository struct {
	db *DB
}

func NewBookmarkRepository(db *DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

const bookmarkColumns = `id, title, link, excerpt, image_url, feed_name, created_at`

// AddBookmark stores an article keyed by its link. Bookmarking the same link
// again returns the existing record and false.
func (r *bookmarkRepository) AddBookmark(bookmark Bookmark) (*Bookmark, bool, error) {
	if bookmark.Link == "" {
		return nil, false, fmt.Errorf("bookmark link is required")
	}

	bookmark.ID = BookmarkID(bookmark.Link)

	result, err := r.db.Exec(`
		INSERT INTO bookmarks (id, title, link, excerpt, image_url, feed_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, bookmark.ID, bookmark.Title, bookmark.Link, bookmark.Excerpt, bookmark.ImageURL,
		bookmark.FeedName, time.Now().UTC())
	if err != nil {
		return nil, false, fmt.Errorf("failed to add bookmark: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	stored, err := r.GetBookmark(bookmark.ID)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, fmt.Errorf("bookmark '%s': %w", bookmark.ID, ErrNotFound)
	}

	return stored, affected > 0, nil
}

func (r *bookmarkRepository) GetBookmark(id string) (*Bookmark, error) {
	row := r.db.QueryRow(`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = ?`, id)

	bookmark, err := scanBookmark(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	return bookmark, nil
}

// GetBookmarks returns bookmarks newest first.
func (r *bookmarkRepository) GetBookmarks() ([]Bookmark, error) {
	rows, err := r.db.Query(`SELECT ` + bookmarkColumns + ` FROM bookmarks ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []Bookmark{}
	for rows.Next() {
		bookmark, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		bookmarks = append(bookmarks, *bookmark)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmark rows: %w", err)
	}

	return bookmarks, nil
}

func (r *bookmarkRepository) GetBookmarkCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM bookmarks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get bookmark count: %w", err)
	}
	return count, nil
}

func (r *bookmarkRepository) DeleteBookmark(id string) error {
	result, err := r.db.Exec(`DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	return requireAffected(result, "bookmark", id)
}

func scanBookmark(s scanner) (*Bookmark, error) {
	var bookmark Bookmark
	var imageURL sql.NullString

	err := s.Scan(&bookmark.ID, &bookmark.Title, &bookmark.Link, &bookmark.Excerpt,
		&imageURL, &bookmark.FeedName, &bookmark.CreatedAt)
	if err != nil {
		return nil, err
	}

	bookmark.ImageURL = nullStringPtr(imageURL)

	return &bookmark, nil
}
