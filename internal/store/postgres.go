package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const recordColumns = `id, borrower, value, origination_year, maturity_year,
	risk_grade, risk_score, collateral_category, collateral_value,
	created_at, updated_at`

func (s *PostgresStore) CreateCreditRecord(ctx context.Context, rec *CreditRecord) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO credit_records (borrower, value, origination_year, maturity_year,
			risk_grade, risk_score, collateral_category, collateral_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		rec.Borrower, rec.Value, rec.OriginationYear, rec.MaturityYear,
		rec.RiskGrade, rec.RiskScore, rec.CollateralCategory, rec.CollateralValue,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (s *PostgresStore) GetCreditRecord(ctx context.Context, id uuid.UUID) (*CreditRecord, error) {
	rec := &CreditRecord{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM credit_records WHERE id = $1`, id,
	).Scan(
		&rec.ID, &rec.Borrower, &rec.Value, &rec.OriginationYear, &rec.MaturityYear,
		&rec.RiskGrade, &rec.RiskScore, &rec.CollateralCategory, &rec.CollateralValue,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *PostgresStore) ListCreditRecords(ctx context.Context, filter RecordFilter) ([]*CreditRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM credit_records WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Grade != "" {
		n++
		query += fmt.Sprintf(" AND risk_grade = $%d", n)
		args = append(args, filter.Grade)
	}
	if filter.Category != "" {
		n++
		query += fmt.Sprintf(" AND collateral_category = $%d", n)
		args = append(args, filter.Category)
	}
	if filter.Borrower != "" {
		n++
		query += fmt.Sprintf(" AND borrower = $%d", n)
		args = append(args, filter.Borrower)
	}

	query += " ORDER BY created_at ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *PostgresStore) UpdateCreditRecord(ctx context.Context, rec *CreditRecord) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE credit_records
		SET borrower = $2, value = $3, origination_year = $4, maturity_year = $5,
			risk_grade = $6, risk_score = $7, collateral_category = $8,
			collateral_value = $9, updated_at = NOW()
		WHERE id = $1`,
		rec.ID, rec.Borrower, rec.Value, rec.OriginationYear, rec.MaturityYear,
		rec.RiskGrade, rec.RiskScore, rec.CollateralCategory, rec.CollateralValue,
	)
	return err
}

func (s *PostgresStore) GetRiskWeights(ctx context.Context) (*RiskWeights, error) {
	w := &RiskWeights{}
	err := s.pool.QueryRow(ctx, `
		SELECT weights, updated_by, updated_at
		FROM risk_weights WHERE id = 1`,
	).Scan(&w.Weights, &w.UpdatedBy, &w.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// SaveRiskWeights writes the vector in a single upsert so readers never
// observe a partially updated allocation.
func (s *PostgresStore) SaveRiskWeights(ctx context.Context, w *RiskWeights) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO risk_weights (id, weights, updated_by, updated_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
		SET weights = EXCLUDED.weights,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING updated_at`,
		w.Weights, w.UpdatedBy,
	).Scan(&w.UpdatedAt)
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO portfolio_snapshots (record_count, total_exposure, total_ead,
			total_ecl, average_pd, coverage_ratio)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		snap.RecordCount, snap.TotalExposure, snap.TotalEAD,
		snap.TotalECL, snap.AveragePD, snap.CoverageRatio,
	).Scan(&snap.ID, &snap.CreatedAt)
}

func (s *PostgresStore) ListSnapshots(ctx context.Context, limit int) ([]*Snapshot, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, record_count, total_exposure, total_ead, total_ecl,
			average_pd, coverage_ratio, created_at
		FROM portfolio_snapshots
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []*Snapshot
	for rows.Next() {
		snap := &Snapshot{}
		if err := rows.Scan(
			&snap.ID, &snap.RecordCount, &snap.TotalExposure, &snap.TotalEAD,
			&snap.TotalECL, &snap.AveragePD, &snap.CoverageRatio, &snap.CreatedAt,
		); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func scanRecords(rows pgx.Rows) ([]*CreditRecord, error) {
	var records []*CreditRecord
	for rows.Next() {
		rec := &CreditRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.Borrower, &rec.Value, &rec.OriginationYear, &rec.MaturityYear,
			&rec.RiskGrade, &rec.RiskScore, &rec.CollateralCategory, &rec.CollateralValue,
			&rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
