package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"starbook/internal/domain/entity"
	"starbook/internal/domain/repository"
	"starbook/pkg/money"
)

// Store is the production persistence layer backing the ledger server.
// Amounts live in NUMERIC columns and travel as text so no float ever
// touches them.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Users() repository.UserRepository             { return (*userRepo)(s) }
func (s *Store) Accounts() repository.AccountRepository       { return (*accountRepo)(s) }
func (s *Store) Records() repository.RecordRepository         { return (*recordRepo)(s) }
func (s *Store) AccessRules() repository.AccessRuleRepository { return (*accessRuleRepo)(s) }

var _ repository.Store = (*Store)(nil)

// ---- users ----

type userRepo Store

func (r *userRepo) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Name, u.Email, u.PasswordHash)
	return row.Scan(&u.ID, &u.CreatedAt)
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`, id)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = $1
		ORDER BY id
		LIMIT 1
	`, email)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepo) ListByName(ctx context.Context, name string) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE name = $1
		ORDER BY id
	`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.User{}
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepo) Update(ctx context.Context, u *entity.User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4
		WHERE id = $1
	`, u.ID, u.Name, u.Email, u.PasswordHash)
	return err
}

// ---- accounts ----

type accountRepo Store

func (r *accountRepo) Create(ctx context.Context, a *entity.Account, ownerRule *entity.AccessRule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO accounts (name)
		VALUES ($1)
		RETURNING id, created_at
	`, a.Name)
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return err
	}
	ownerRule.AccountID = a.ID
	row = tx.QueryRow(ctx, `
		INSERT INTO account_access_rules (user_id, account_id, role)
		VALUES ($1, $2, $3)
		RETURNING id
	`, ownerRule.UserID, ownerRule.AccountID, int(ownerRule.Role))
	if err := row.Scan(&ownerRule.ID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *accountRepo) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	a := &entity.Account{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, created_at
		FROM accounts
		WHERE id = $1
	`, id)
	if err := row.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (r *accountRepo) UpdateName(ctx context.Context, id int64, name string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET name = $2
		WHERE id = $1
	`, id, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *accountRepo) DeleteCascade(ctx context.Context, id int64) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM records WHERE account_id = $1`, id); err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM account_access_rules WHERE account_id = $1`, id); err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ---- records ----

type recordRepo Store

func (r *recordRepo) Create(ctx context.Context, rec *entity.Record) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO records (name, type, date, amount, account_id, create_user_id, last_modified_user_id)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
		RETURNING id, created_at
	`, rec.Name, rec.Type, rec.Date, money.Format(rec.Amount), rec.AccountID, rec.CreateUserID, rec.LastModifiedUserID)
	return row.Scan(&rec.ID, &rec.CreatedAt)
}

func scanRecord(row pgx.Row, rec *entity.Record) error {
	var amount string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Type, &rec.Date, &amount,
		&rec.AccountID, &rec.CreateUserID, &rec.LastModifiedUserID, &rec.CreatedAt); err != nil {
		return err
	}
	parsed, err := money.Parse(amount)
	if err != nil {
		return err
	}
	rec.Amount = parsed
	return nil
}

const recordColumns = `id, name, type, date, amount::text, account_id, create_user_id, last_modified_user_id, created_at`

func (r *recordRepo) GetByID(ctx context.Context, id int64) (*entity.Record, error) {
	rec := &entity.Record{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE id = $1
	`, id)
	if err := scanRecord(row, rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (r *recordRepo) ListByAccountID(ctx context.Context, accountID int64) ([]entity.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE account_id = $1
		ORDER BY id
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Record{}
	for rows.Next() {
		var rec entity.Record
		if err := scanRecord(rows, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *recordRepo) CountByAccountID(ctx context.Context, accountID int64) (int64, error) {
	var n int64
	row := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM records WHERE account_id = $1
	`, accountID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *recordRepo) SumAmountByAccountID(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	var sum string
	row := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::text FROM records WHERE account_id = $1
	`, accountID)
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return money.Parse(sum)
}

func (r *recordRepo) Update(ctx context.Context, rec *entity.Record) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE records
		SET name = $2, type = $3, date = $4, amount = $5::numeric, last_modified_user_id = $6
		WHERE id = $1
	`, rec.ID, rec.Name, rec.Type, rec.Date, money.Format(rec.Amount), rec.LastModifiedUserID)
	return err
}

func (r *recordRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ---- access rules ----

type accessRuleRepo Store

func (r *accessRuleRepo) Create(ctx context.Context, rule *entity.AccessRule) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO account_access_rules (user_id, account_id, role)
		VALUES ($1, $2, $3)
		RETURNING id
	`, rule.UserID, rule.AccountID, int(rule.Role))
	return row.Scan(&rule.ID)
}

func (r *accessRuleRepo) ListByAccountID(ctx context.Context, accountID int64) ([]entity.AccessRule, error) {
	return r.listRules(ctx, `account_id`, accountID)
}

func (r *accessRuleRepo) ListByUserID(ctx context.Context, userID int64) ([]entity.AccessRule, error) {
	return r.listRules(ctx, `user_id`, userID)
}

func (r *accessRuleRepo) listRules(ctx context.Context, column string, id int64) ([]entity.AccessRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, account_id, role
		FROM account_access_rules
		WHERE `+column+` = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.AccessRule{}
	for rows.Next() {
		var rule entity.AccessRule
		var role int
		if err := rows.Scan(&rule.ID, &rule.UserID, &rule.AccountID, &role); err != nil {
			return nil, err
		}
		rule.Role = entity.Role(role)
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (r *accessRuleRepo) DeleteByAccountAndUser(ctx context.Context, accountID, userID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM account_access_rules WHERE account_id = $1 AND user_id = $2
	`, accountID, userID)
	return err
}
