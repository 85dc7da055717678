package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"stocktrack/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound     = errors.New("item not found")
	ErrDuplicateSKU = errors.New("an item with this SKU already exists")
)

type dialect struct {
	driver      string
	likeOp      string
	placeholder func(n int) string
	schema      string
}

var (
	sqliteDialect = dialect{
		driver:      "sqlite",
		likeOp:      "LIKE",
		placeholder: func(int) string { return "?" },
		schema: `CREATE TABLE IF NOT EXISTS inventory_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			sku TEXT NOT NULL UNIQUE,
			quantity INTEGER NOT NULL CHECK (quantity >= 0),
			description TEXT NOT NULL DEFAULT ''
		);`,
	}
	pgxDialect = dialect{
		driver:      "pgx",
		likeOp:      "ILIKE",
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		schema: `CREATE TABLE IF NOT EXISTS inventory_items (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			sku VARCHAR(100) NOT NULL UNIQUE,
			quantity INT NOT NULL CHECK (quantity >= 0),
			description TEXT NOT NULL DEFAULT ''
		);`,
	}
)

// SearchParams mirrors the query string of GET /items/search.
type SearchParams struct {
	Query       string
	MinQuantity *int
	// Sort is one of name_asc (default), name_desc, qty_asc, qty_desc.
	Sort string
}

var orderClauses = map[string]string{
	"name_asc":  " ORDER BY name ASC, id ASC",
	"name_desc": " ORDER BY name DESC, id ASC",
	"qty_asc":   " ORDER BY quantity ASC, id ASC",
	"qty_desc":  " ORDER BY quantity DESC, id ASC",
}

// Repository stores inventory items in SQLite or Postgres.
type Repository struct {
	db *sql.DB
	d  dialect
}

// Open connects to driver ("sqlite" or "pgx") and creates the schema.
// An empty sqlite dsn opens a private in-memory database.
func Open(ctx context.Context, driver, dsn string) (*Repository, error) {
	var d dialect
	switch driver {
	case "", "sqlite":
		d = sqliteDialect
		if strings.TrimSpace(dsn) == "" {
			dsn = ":memory:"
		}
	case "pgx", "postgres":
		d = pgxDialect
		if strings.TrimSpace(dsn) == "" {
			return nil, errors.New("pgx driver needs a dsn")
		}
	default:
		return nil, fmt.Errorf("unknown driver: %s", driver)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, err
	}
	if d.driver == "sqlite" {
		// One connection keeps :memory: databases shared and serializes writers.
		db.SetMaxOpenConns(1)
		pragmas := []string{
			"PRAGMA foreign_keys=ON;",
			"PRAGMA busy_timeout=5000;",
		}
		if dsn != ":memory:" {
			pragmas = append(pragmas, "PRAGMA journal_mode=WAL;", "PRAGMA synchronous=NORMAL;")
		}
		for _, p := range pragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Repository{db: db, d: d}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) Driver() string { return r.d.driver }

func (r *Repository) List(ctx context.Context, p SearchParams) ([]model.Item, error) {
	var b strings.Builder
	b.WriteString("SELECT id, name, sku, quantity, description FROM inventory_items WHERE 1=1")
	var args []any

	if q := strings.TrimSpace(p.Query); q != "" {
		pattern := "%" + q + "%"
		args = append(args, pattern, pattern)
		fmt.Fprintf(&b, " AND (name %s %s OR sku %s %s)", r.d.likeOp, r.d.placeholder(len(args)-1), r.d.likeOp, r.d.placeholder(len(args)))
	}
	if p.MinQuantity != nil {
		args = append(args, *p.MinQuantity)
		fmt.Fprintf(&b, " AND quantity >= %s", r.d.placeholder(len(args)))
	}
	order, ok := orderClauses[p.Sort]
	if !ok {
		order = orderClauses["name_asc"]
	}
	b.WriteString(order)

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(s rowScanner) (model.Item, error) {
	var (
		id  int64
		it  model.Item
		dsc sql.NullString
	)
	if err := s.Scan(&id, &it.Name, &it.SKU, &it.Quantity, &dsc); err != nil {
		return model.Item{}, err
	}
	it.Description = dsc.String
	return it.WithID(id), nil
}

func (r *Repository) Get(ctx context.Context, id int64) (model.Item, error) {
	q := "SELECT id, name, sku, quantity, description FROM inventory_items WHERE id = " + r.d.placeholder(1)
	it, err := scanItem(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, ErrNotFound
	}
	return it, err
}

func (r *Repository) Create(ctx context.Context, it model.Item) (model.Item, error) {
	q := fmt.Sprintf(
		"INSERT INTO inventory_items (name, sku, quantity, description) VALUES (%s, %s, %s, %s) RETURNING id",
		r.d.placeholder(1), r.d.placeholder(2), r.d.placeholder(3), r.d.placeholder(4),
	)
	var id int64
	err := r.db.QueryRowContext(ctx, q, it.Name, it.SKU, it.Quantity, it.Description).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Item{}, ErrDuplicateSKU
		}
		return model.Item{}, err
	}
	return it.WithID(id), nil
}

func (r *Repository) Update(ctx context.Context, id int64, it model.Item) error {
	q := fmt.Sprintf(
		"UPDATE inventory_items SET name = %s, sku = %s, quantity = %s, description = %s WHERE id = %s",
		r.d.placeholder(1), r.d.placeholder(2), r.d.placeholder(3), r.d.placeholder(4), r.d.placeholder(5),
	)
	res, err := r.db.ExecContext(ctx, q, it.Name, it.SKU, it.Quantity, it.Description, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSKU
		}
		return err
	}
	return requireAffected(res)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM inventory_items WHERE id = "+r.d.placeholder(1), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
