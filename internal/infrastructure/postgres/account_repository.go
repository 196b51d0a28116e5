package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

const accountColumns = `id, email, clave, service_id, external_status, profile, active, customer_id, supplier_id, expires_at, created_at, updated_at`

// AccountRepo implementación de AccountRepository sobre PostgreSQL (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create persiste una nueva cuenta.
func (r *AccountRepo) Create(account *entity.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.Email, account.Clave, account.ServiceID, account.ExternalStatus,
		account.Profile, account.Active, account.CustomerID, account.SupplierID,
		account.ExpiresAt, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(id string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByEmailAndService obtiene la cuenta por (email, service_id).
// El email debe venir ya normalizado. Si varios perfiles comparten el par,
// devuelve el de menor profile (determinista).
func (r *AccountRepo) GetByEmailAndService(email string, serviceID int64) (*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts WHERE email = $1 AND service_id = $2
		ORDER BY profile LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, email, serviceID))
}

// List lista cuentas con filtros opcionales y paginación.
func (r *AccountRepo) List(filter repository.AccountFilter, limit, offset int) ([]*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`
	args := []any{}
	if filter.ServiceID != nil {
		args = append(args, *filter.ServiceID)
		query += fmt.Sprintf(" AND service_id = $%d", len(args))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		query += fmt.Sprintf(" AND active = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY email, profile LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListActiveBySupplier lista las cuentas activas de un proveedor (pase de verificación de borrados).
func (r *AccountRepo) ListActiveBySupplier(supplierID string) ([]*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts WHERE supplier_id = $1 AND active = true`
	rows, err := r.q.Query(context.Background(), query, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list accounts by supplier: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// Update actualiza una cuenta.
func (r *AccountRepo) Update(account *entity.Account) error {
	query := `
		UPDATE accounts SET email = $2, clave = $3, service_id = $4, external_status = $5,
			profile = $6, active = $7, customer_id = $8, supplier_id = $9, expires_at = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.Email, account.Clave, account.ServiceID, account.ExternalStatus,
		account.Profile, account.Active, account.CustomerID, account.SupplierID,
		account.ExpiresAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

func (r *AccountRepo) scanOne(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.Clave, &a.ServiceID, &a.ExternalStatus, &a.Profile,
		&a.Active, &a.CustomerID, &a.SupplierID, &a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

func (r *AccountRepo) scanMany(rows pgx.Rows) ([]*entity.Account, error) {
	var list []*entity.Account
	for rows.Next() {
		var a entity.Account
		if err := rows.Scan(
			&a.ID, &a.Email, &a.Clave, &a.ServiceID, &a.ExternalStatus, &a.Profile,
			&a.Active, &a.CustomerID, &a.SupplierID, &a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
