package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/pixelvault-dev/pixelvault/internal/domain"
	internal_errors "github.com/pixelvault-dev/pixelvault/internal/errors"
)

// Saves a new image record. The record's createdAt is assigned here and
// never changes afterwards.
func (s *Storage) CreateImage(ctx context.Context, data domain.ImageCreationData) error {
	createdTs := time.Now().UTC().Round(time.Microsecond) // database anyway rounds to microsecond
	err := s.insertImage(ctx, data, createdTs)
	if isUniqueViolation(err) {
		// The id may be squatted by an expired row the sweep has not
		// reached yet. Uniqueness only holds across live records, so
		// reclaim the row and retry once.
		reclaimed, derr := s.deleteIfExpired(ctx, data.Id, createdTs)
		if derr != nil {
			return wrapStoreError(derr)
		}
		if reclaimed {
			err = s.insertImage(ctx, data, time.Now().UTC().Round(time.Microsecond))
		}
	}
	if isUniqueViolation(err) {
		return &internal_errors.DuplicateIdError{Id: data.Id}
	}
	return wrapStoreError(err)
}

func (s *Storage) insertImage(ctx context.Context, data domain.ImageCreationData, createdTs time.Time) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO images(image_id, image_data, message, created_at, expires_at, view_count, allow_download)
	VALUES($1, $2, $3, $4, $5, 0, $6)`,
		data.Id, data.Data, data.Message, createdTs, data.ExpiresAt.UTC(), data.AllowDownload)
	return err
}

// GetImage returns a live record and counts the view in the same atomic
// statement, so concurrent reads each observe a distinct view count.
// An expired record is deleted on access and reported as expired; later
// reads of the same id report not found.
func (s *Storage) GetImage(ctx context.Context, id string) (*domain.Image, error) {
	now := time.Now().UTC()

	var img domain.Image
	err := s.db.QueryRowContext(ctx, `
	UPDATE images
	SET view_count = view_count + 1
	WHERE image_id = $1 AND expires_at >= $2 AND created_at >= $3
	RETURNING image_id, image_data, message, created_at, expires_at, view_count, allow_download`,
		id, now, now.Add(-domain.BackstopTTL)).Scan(
		&img.Id, &img.Data, &img.Message, &img.CreatedAt, &img.ExpiresAt, &img.ViewCount, &img.AllowDownload)
	if err == nil {
		return &img, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, wrapStoreError(err)
	}

	// No live row. Either the id never existed or the record lapsed;
	// an expired row is removed eagerly so the two stay distinguishable.
	deleted, derr := s.deleteIfExpired(ctx, id, now)
	if derr != nil {
		return nil, wrapStoreError(derr)
	}
	if deleted {
		return nil, &internal_errors.ExpiredError{Id: id}
	}
	return nil, &internal_errors.NotFoundError{Id: id}
}

// DeleteImage removes a record by id. The bool reports whether a record
// was actually there, so manual deletes and the sweep can race benignly.
func (s *Storage) DeleteImage(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE image_id = $1`, id)
	if err != nil {
		return false, wrapStoreError(err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, wrapStoreError(err)
	}
	return deleted > 0, nil
}

// ListRecentImages returns payload-free summaries ordered by creation time
// descending. Records whose expiry just passed may still appear until the
// next sweep or read removes them.
func (s *Storage) ListRecentImages(ctx context.Context, limit int) ([]domain.ImageMetadata, error) {
	images := make([]domain.ImageMetadata, 0, limit)

	rows, err := s.db.QueryContext(ctx, `
	SELECT image_id, created_at, expires_at, view_count, allow_download
	FROM images
	ORDER BY created_at DESC
	LIMIT $1`, limit)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var meta domain.ImageMetadata
		if err := rows.Scan(&meta.Id, &meta.CreatedAt, &meta.ExpiresAt, &meta.ViewCount, &meta.AllowDownload); err != nil {
			return nil, wrapStoreError(err)
		}
		images = append(images, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(err)
	}

	return images, nil
}

// DeleteExpiredImages removes every record past either expiry deadline.
// Safe to run concurrently with reads and deletes: it is a single
// statement and double-removal of an already-gone row is a no-op.
func (s *Storage) DeleteExpiredImages(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
	DELETE FROM images WHERE expires_at < $1 OR created_at < $2`,
		now, now.Add(-domain.BackstopTTL))
	if err != nil {
		return 0, wrapStoreError(err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, wrapStoreError(err)
	}
	return deleted, nil
}

func (s *Storage) deleteIfExpired(ctx context.Context, id string, now time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
	DELETE FROM images WHERE image_id = $1 AND (expires_at < $2 OR created_at < $3)`,
		id, now, now.Add(-domain.BackstopTTL))
	if err != nil {
		return false, err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
