// Package ratestore keeps the tariff rate tables and HS catalog in sqlite so
// they can be edited without a redeploy. Tables are read once at startup and
// handed to the estimator; quotes are never written here.
package ratestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/simonting/portfolio/internal/tariff"
)

// Store wraps the sqlite handle holding rate data.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to the sqlite database at path and applies the schema.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open rate store: %w", err)
	}
	// sqlite serialises writers; one connection also keeps ":memory:" coherent.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the rate tables when absent.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS duty_rates (
			hs_code TEXT NOT NULL,
			destination TEXT NOT NULL,
			rate_percent TEXT NOT NULL, -- decimal text, e.g. "12.5"
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (hs_code, destination)
		)`,
		`CREATE TABLE IF NOT EXISTS vat_rates (
			destination TEXT PRIMARY KEY,
			rate TEXT NOT NULL, -- fraction, e.g. "0.05"
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS hs_codes (
			code TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate rate store: %w", err)
		}
	}
	return nil
}

// Seed fills empty tables from the given data. Tables that already hold
// rows are left untouched, so edits made in the database survive restarts.
func (s *Store) Seed(ctx context.Context, tables tariff.Tables, catalog *tariff.Catalog) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed rate store: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if n, err := countRows(ctx, tx, "duty_rates"); err != nil {
		return err
	} else if n == 0 {
		for _, row := range tables.Duty.Rows() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO duty_rates (hs_code, destination, rate_percent) VALUES (?, ?, ?)`,
				row.HSCode, string(row.Destination), row.Percent.String()); err != nil {
				return fmt.Errorf("seed duty rate %s/%s: %w", row.HSCode, row.Destination, err)
			}
		}
		s.logger.Info("seeded duty rates", zap.Int("rows", len(tables.Duty.Rows())))
	}

	if n, err := countRows(ctx, tx, "vat_rates"); err != nil {
		return err
	} else if n == 0 {
		for dest, rate := range tables.VAT.Rates() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO vat_rates (destination, rate) VALUES (?, ?)`,
				string(dest), rate.String()); err != nil {
				return fmt.Errorf("seed vat rate %s: %w", dest, err)
			}
		}
		s.logger.Info("seeded vat rates", zap.Int("rows", len(tables.VAT.Rates())))
	}

	if catalog != nil {
		if n, err := countRows(ctx, tx, "hs_codes"); err != nil {
			return err
		} else if n == 0 {
			for i, e := range catalog.Entries() {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO hs_codes (code, description, position) VALUES (?, ?, ?)`,
					e.Code, e.Description, i); err != nil {
					return fmt.Errorf("seed hs code %s: %w", e.Code, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed rate store: %w", err)
	}
	return nil
}

// Load reads both rate tables. Rows with unparsable or out-of-range rates
// fail the whole load rather than silently changing a quote.
func (s *Store) Load(ctx context.Context) (tariff.Tables, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT hs_code, destination, rate_percent FROM duty_rates`)
	if err != nil {
		return tariff.Tables{}, fmt.Errorf("load duty rates: %w", err)
	}
	defer rows.Close()

	var dutyRows []tariff.DutyRate
	for rows.Next() {
		var code, dest, raw string
		if err := rows.Scan(&code, &dest, &raw); err != nil {
			return tariff.Tables{}, fmt.Errorf("scan duty rate: %w", err)
		}
		pct, err := decimal.NewFromString(raw)
		if err != nil {
			return tariff.Tables{}, fmt.Errorf("duty rate %s/%s: %w", code, dest, err)
		}
		dutyRows = append(dutyRows, tariff.DutyRate{HSCode: code, Destination: tariff.NormalizeCountry(dest), Percent: pct})
	}
	if err := rows.Err(); err != nil {
		return tariff.Tables{}, fmt.Errorf("load duty rates: %w", err)
	}
	duty, err := tariff.NewDutyTable(dutyRows)
	if err != nil {
		return tariff.Tables{}, err
	}

	vatRows, err := s.db.QueryContext(ctx, `SELECT destination, rate FROM vat_rates`)
	if err != nil {
		return tariff.Tables{}, fmt.Errorf("load vat rates: %w", err)
	}
	defer vatRows.Close()

	vatRates := make(map[tariff.Country]decimal.Decimal)
	for vatRows.Next() {
		var dest, raw string
		if err := vatRows.Scan(&dest, &raw); err != nil {
			return tariff.Tables{}, fmt.Errorf("scan vat rate: %w", err)
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return tariff.Tables{}, fmt.Errorf("vat rate %s: %w", dest, err)
		}
		vatRates[tariff.NormalizeCountry(dest)] = rate
	}
	if err := vatRows.Err(); err != nil {
		return tariff.Tables{}, fmt.Errorf("load vat rates: %w", err)
	}
	vat, err := tariff.NewVATTable(vatRates)
	if err != nil {
		return tariff.Tables{}, err
	}

	s.logger.Info("rate tables loaded",
		zap.Int("hs_codes", duty.Len()),
		zap.Int("vat_destinations", len(vatRates)),
	)
	return tariff.Tables{Duty: duty, VAT: vat}, nil
}

// LoadCatalog reads the HS code catalog in its stored order.
func (s *Store) LoadCatalog(ctx context.Context) (*tariff.Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, description FROM hs_codes ORDER BY position, code`)
	if err != nil {
		return nil, fmt.Errorf("load hs codes: %w", err)
	}
	defer rows.Close()

	var entries []tariff.HSCode
	for rows.Next() {
		var e tariff.HSCode
		if err := rows.Scan(&e.Code, &e.Description); err != nil {
			return nil, fmt.Errorf("scan hs code: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load hs codes: %w", err)
	}
	return tariff.NewCatalog(entries), nil
}

// SetDutyRate upserts one duty rate. It exists for maintenance tooling and
// tests; running estimators keep the tables they were started with.
func (s *Store) SetDutyRate(ctx context.Context, code string, dest tariff.Country, pct decimal.Decimal) error {
	if pct.IsNegative() {
		return errors.New("duty rate must not be negative")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO duty_rates (hs_code, destination, rate_percent, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(hs_code, destination) DO UPDATE SET
			rate_percent = excluded.rate_percent,
			updated_at = CURRENT_TIMESTAMP
	`, code, string(dest), pct.String())
	if err != nil {
		return fmt.Errorf("set duty rate %s/%s: %w", code, dest, err)
	}
	return nil
}

func countRows(ctx context.Context, tx *sql.Tx, table string) (int, error) {
	var n int
	// table names are package constants, never user input
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
