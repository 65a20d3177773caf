package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notifyhub/dashcore/internal/domain"
)

const customerColumns = `id, name, email, phone, country, description, created_at, updated_at`

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type pgCustomerRepository struct {
	pool *pgxpool.Pool
}

// NewPgCustomerRepository returns a CustomerRepository backed by PostgreSQL.
func NewPgCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &pgCustomerRepository{pool: pool}
}

func (r *pgCustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.Name, c.Email, c.Phone, c.Country, c.Description, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *pgCustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, country = $4, description = $5, updated_at = $6
		WHERE id = $7`,
		c.Name, c.Email, c.Phone, c.Country, c.Description, c.UpdatedAt, c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)

	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (r *pgCustomerRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Customer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+customerColumns+` FROM customers
		WHERE id = ANY($1) ORDER BY created_at ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("get customers by ids: %w", err)
	}
	defer rows.Close()
	return scanCustomers(rows)
}

func (r *pgCustomerRepository) List(ctx context.Context, f domain.CustomerFilter) ([]*domain.Customer, int, error) {
	f = f.Normalize()
	where, args := buildCustomerWhere(f)
	offset := f.Offset()

	// Count total matching rows for pagination metadata.
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM customers"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	// Append pagination args after the WHERE args.
	args = append(args, f.PageSize, offset)
	limitPlaceholder := fmt.Sprintf("$%d", len(args)-1)
	offsetPlaceholder := fmt.Sprintf("$%d", len(args))

	// OrderBy and SortDirection are whitelisted by Normalize.
	query := fmt.Sprintf(`
		SELECT %s FROM customers%s
		ORDER BY %s %s, id ASC
		LIMIT %s OFFSET %s`,
		customerColumns, where, f.OrderBy, strings.ToUpper(f.SortDirection), limitPlaceholder, offsetPlaceholder)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers, err := scanCustomers(rows)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *pgCustomerRepository) Delete(ctx context.Context, ids []string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("delete customers: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---- helpers ----

// scanCustomer reads a single customer row from any pgx row type.
func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Country, &c.Description,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCustomers(rows pgx.Rows) ([]*domain.Customer, error) {
	var result []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// buildCustomerWhere builds a parameterised WHERE clause from a CustomerFilter.
// The keyword is matched literally against every searchable column.
func buildCustomerWhere(f domain.CustomerFilter) (string, []any) {
	if f.Keyword == "" {
		return "", nil
	}
	conds := make([]string, len(searchColumns))
	for i, col := range searchColumns {
		conds[i] = col + ` ILIKE $1 ESCAPE '\'`
	}
	return " WHERE (" + strings.Join(conds, " OR ") + ")", []any{"%" + escapeLike(f.Keyword) + "%"}
}

// searchColumns are the columns a keyword search looks at.
var searchColumns = []string{"name", "email", "phone", "country", "description"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in s match themselves.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
