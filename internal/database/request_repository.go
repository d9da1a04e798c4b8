package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ravishyamsingh/Drone-Service/internal/domain"
	"github.com/Ravishyamsingh/Drone-Service/internal/metrics"
)

// requestColumns must match the Scan order in scanRequest.
const requestColumns = `id, code, client_name, client_email, client_phone, service_type, location, scheduled_at, notes, status, created_at, updated_at`

// RequestRepo implements domain.RequestRepository backed by PostgreSQL.
type RequestRepo struct {
	pool *pgxpool.Pool
}

var _ domain.RequestRepository = (*RequestRepo)(nil)

// NewRequestRepo creates a RequestRepo from the shared connection pool.
func NewRequestRepo(pool *pgxpool.Pool) *RequestRepo {
	return &RequestRepo{pool: pool}
}

func scanRequest(row pgx.Row) (*domain.ServiceRequest, error) {
	var req domain.ServiceRequest
	err := row.Scan(
		&req.ID, &req.Code, &req.ClientName, &req.ClientEmail, &req.ClientPhone,
		&req.ServiceType, &req.Location, &req.ScheduledAt, &req.Notes,
		&req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func observe(query string, start time.Time, err error) {
	metrics.DBQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		metrics.DBErrorsTotal.WithLabelValues(query).Inc()
	}
}

// Create inserts a new request in pending state, assigning the next
// human-readable code (DR-<year>-<sequence>).
func (r *RequestRepo) Create(ctx context.Context, params domain.CreateRequestParams) (req *domain.ServiceRequest, err error) {
	start := time.Now()
	defer func() { observe("create_request", start, err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var seq int64
	if err = tx.QueryRow(ctx, `SELECT nextval('service_request_code_seq')`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("failed to allocate request code: %w", err)
	}
	code := fmt.Sprintf("DR-%d-%06d", time.Now().UTC().Year(), seq)

	req, err = scanRequest(tx.QueryRow(ctx, `
		INSERT INTO service_requests (code, client_name, client_email, client_phone, service_type, location, scheduled_at, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
		RETURNING `+requestColumns,
		code, params.ClientName, params.ClientEmail, params.ClientPhone,
		params.ServiceType, params.Location, params.ScheduledAt, params.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert request: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return req, nil
}

// List returns requests newest first, optionally filtered by status.
func (r *RequestRepo) List(ctx context.Context, status domain.RequestStatus) (result []domain.ServiceRequest, err error) {
	start := time.Now()
	defer func() { observe("list_requests", start, err) }()

	query := `SELECT ` + requestColumns + ` FROM service_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	result = make([]domain.ServiceRequest, 0)
	for rows.Next() {
		req, scanErr := scanRequest(rows)
		if scanErr != nil {
			err = fmt.Errorf("failed to scan request: %w", scanErr)
			return nil, err
		}
		result = append(result, *req)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read requests: %w", err)
	}
	return result, nil
}

// GetByCode returns the request with the given code, or
// domain.ErrRequestNotFound.
func (r *RequestRepo) GetByCode(ctx context.Context, code string) (req *domain.ServiceRequest, err error) {
	start := time.Now()
	defer func() { observe("get_request", start, err) }()

	req, err = scanRequest(r.pool.QueryRow(ctx, `
		SELECT `+requestColumns+` FROM service_requests WHERE code = $1
	`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// UpdateStatus sets the status (and notes, when provided) of the request
// with the given code and returns the updated record.
func (r *RequestRepo) UpdateStatus(ctx context.Context, code string, status domain.RequestStatus, notes string) (req *domain.ServiceRequest, err error) {
	start := time.Now()
	defer func() { observe("update_request", start, err) }()

	req, err = scanRequest(r.pool.QueryRow(ctx, `
		UPDATE service_requests
		SET status = $1, notes = CASE WHEN $2 <> '' THEN $2 ELSE notes END, updated_at = NOW()
		WHERE code = $3
		RETURNING `+requestColumns,
		string(status), notes, code,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}
	return req, nil
}

// Delete removes the request with the given code, or returns
// domain.ErrRequestNotFound if no row matched.
func (r *RequestRepo) Delete(ctx context.Context, code string) (err error) {
	start := time.Now()
	defer func() { observe("delete_request", start, err) }()

	tag, err := r.pool.Exec(ctx, `DELETE FROM service_requests WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}
