package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second

	pgCheckViolation = "23514"
)

// PostgresStore is an optional Store backend for deployments that outgrow
// the flat file. Insertion order is preserved through the pos sequence:
//
//	CREATE TABLE products (
//	    pos      bigserial PRIMARY KEY,
//	    name     text NOT NULL CHECK (name <> ''),
//	    category text NOT NULL,
//	    price    double precision NOT NULL CHECK (price >= 0),
//	    rating   double precision NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) List(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT name, category, price, rating
			FROM products
			ORDER BY pos ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.Name, &p.Category, &p.Price, &p.Rating); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Add(ctx context.Context, p Product) error {
	if err := validate(p); err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO products (name, category, price, rating)
			VALUES ($1, $2, $3, $4)
		`, p.Name, p.Category, p.Price, p.Rating)

		if err == nil {
			return nil
		}
		if isCheckViolation(err) {
			return ErrEmptyName
		}
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation
}
