// internal/repository/postgres/customer_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leadtrack-service/internal/domain/customer"
	xerrors "leadtrack-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// FindByContact retrieves a customer by exact contact match.
func (r *CustomerRepository) FindByContact(ctx context.Context, contact string) (*customer.Customer, error) {
	query := `
		SELECT id, name, contact, location, pincode, profession, designation,
		       email, preferences, created_at, updated_at
		FROM customers
		WHERE contact = $1
	`

	var c customer.Customer
	err := r.db.QueryRow(ctx, query, contact).Scan(
		&c.ID, &c.Name, &c.Contact, &c.Location, &c.Pincode, &c.Profession,
		&c.Designation, &c.Email, &c.Preferences, &c.CreatedAt, &c.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	return &c, nil
}

// FindIDByContactTx looks up a customer id by contact inside a transaction.
func (r *CustomerRepository) FindIDByContactTx(ctx context.Context, tx pgx.Tx, contact string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM customers WHERE contact = $1`, contact).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, xerrors.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find customer: %w", err)
	}
	return id, nil
}

// InsertTx inserts a new customer row inside a transaction.
func (r *CustomerRepository) InsertTx(ctx context.Context, tx pgx.Tx, c *customer.Customer) error {
	query := `
		INSERT INTO customers (name, contact, location, pincode, profession, designation, email, preferences)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		c.Name, c.Contact, c.Location, c.Pincode, c.Profession,
		c.Designation, c.Email, c.Preferences,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// OverwriteDemographicsTx replaces the demographic fields of an existing
// customer inside a transaction. Later submissions win wholesale.
func (r *CustomerRepository) OverwriteDemographicsTx(ctx context.Context, tx pgx.Tx, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, location = $2, pincode = $3, profession = $4,
		    designation = $5, email = $6, preferences = $7, updated_at = now()
		WHERE id = $8
	`

	result, err := tx.Exec(
		ctx, query,
		c.Name, c.Location, c.Pincode, c.Profession,
		c.Designation, c.Email, c.Preferences, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// ApplyDemographicsTx updates only the demographic fields present in upd,
// leaving the rest of the customer row alone.
func (r *CustomerRepository) ApplyDemographicsTx(ctx context.Context, tx pgx.Tx, customerID int64, upd *customer.UpdateAssignmentRequest) error {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	appendSet := func(column string, value *string) {
		if value == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, *value)
		argPos++
	}

	appendSet("name", upd.Name)
	appendSet("location", upd.Location)
	appendSet("pincode", upd.Pincode)
	appendSet("profession", upd.Profession)
	appendSet("designation", upd.Designation)
	appendSet("email", upd.Email)

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = now()")
	query := fmt.Sprintf("UPDATE customers SET %s WHERE id = $%d", strings.Join(sets, ", "), argPos)
	args = append(args, customerID)

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
