package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cole-vita-unc/CheekyWebScraper/internal/models"
)

// RecordRow is the persisted form of one extraction result.
type RecordRow struct {
	ID             uuid.UUID       `db:"id"`
	URL            string          `db:"url"`
	Record         json.RawMessage `db:"record"`
	ImageURL       sql.NullString  `db:"image_url"`
	EnrichedFields int             `db:"enriched_fields"`
	Status         string          `db:"status"`
	ErrorMessage   sql.NullString  `db:"error_message"`
	ExtractedAt    time.Time       `db:"extracted_at"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

var ErrRecordNotFound = errors.New("record not found")

// RecordRepository persists extraction results keyed by page URL.
type RecordRepository struct {
	db *DB
}

func NewRecordRepository(db *DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Save inserts the result or replaces an earlier attempt for the same URL.
func (r *RecordRepository) Save(ctx context.Context, result *models.Result) error {
	if result == nil || result.URL == "" {
		return fmt.Errorf("result must carry a URL")
	}

	var recordJSON []byte
	if result.Record != nil {
		data, err := json.Marshal(result.Record)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		recordJSON = data
	}

	query := `
		INSERT INTO product_records (id, url, record, image_url, enriched_fields, status, error_message, extracted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (url) DO UPDATE SET
			record = EXCLUDED.record,
			image_url = EXCLUDED.image_url,
			enriched_fields = EXCLUDED.enriched_fields,
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message,
			extracted_at = EXCLUDED.extracted_at,
			updated_at = CURRENT_TIMESTAMP`

	_, err := r.db.Exec(ctx, query,
		uuid.New(), result.URL, recordJSON,
		nullString(result.ImageURL), result.EnrichedFields,
		string(result.Status), nullString(result.Error), result.ExtractedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	return nil
}

// GetByURL loads the stored result for a page URL.
func (r *RecordRepository) GetByURL(ctx context.Context, url string) (*models.Result, error) {
	query := `
		SELECT url, record, image_url, enriched_fields, status, error_message, extracted_at
		FROM product_records
		WHERE url = $1`

	result, err := scanResult(r.db.QueryRow(ctx, query, url))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return result, nil
}

// List returns stored results, newest first.
func (r *RecordRepository) List(ctx context.Context, limit int) ([]*models.Result, error) {
	query := `
		SELECT url, record, image_url, enriched_fields, status, error_message, extracted_at
		FROM product_records
		ORDER BY extracted_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var results []*models.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// CountByStatus tallies stored records per terminal status.
func (r *RecordRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM product_records GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

func scanResult(row pgx.Row) (*models.Result, error) {
	var (
		result     models.Result
		recordJSON []byte
		imageURL   sql.NullString
		errMsg     sql.NullString
		status     string
	)

	err := row.Scan(&result.URL, &recordJSON, &imageURL,
		&result.EnrichedFields, &status, &errMsg, &result.ExtractedAt)
	if err != nil {
		return nil, err
	}

	result.Status = models.ResultStatus(status)
	result.ImageURL = imageURL.String
	result.Error = errMsg.String

	if len(recordJSON) > 0 {
		record := models.NewProductRecord()
		if err := json.Unmarshal(recordJSON, record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		result.Record = record
	}

	return &result, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
