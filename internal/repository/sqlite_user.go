package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/HKK13/hello-bott/internal/db"
	"github.com/HKK13/hello-bott/internal/domain"
)

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(conn db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: conn}
}

const userColumns = `id, chat_id, chat_name, first_name, last_name, email, is_admin, is_owner, created_at, updated_at`

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.ChatID,
		u.ChatName,
		u.FirstName,
		u.LastName,
		nullableString(u.Email),
		boolToInt(u.IsAdmin),
		boolToInt(u.IsOwner),
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", uniqueViolation(err, "user"))
	}
	return nil
}

func (r *SQLiteUserRepo) GetByChatID(ctx context.Context, chatID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE chat_id = ?`
	row := r.db.QueryRowContext(ctx, query, chatID)

	var u domain.User
	var email sql.NullString
	var isAdmin, isOwner int
	var createdAtStr, updatedAtStr string
	err := row.Scan(&u.ID, &u.ChatID, &u.ChatName, &u.FirstName, &u.LastName, &email,
		&isAdmin, &isOwner, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return populateUser(&u, email, isAdmin, isOwner, createdAtStr, updatedAtStr)
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, chat_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		var email sql.NullString
		var isAdmin, isOwner int
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&u.ID, &u.ChatID, &u.ChatName, &u.FirstName, &u.LastName, &email,
			&isAdmin, &isOwner, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		populated, err := populateUser(&u, email, isAdmin, isOwner, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		users = append(users, populated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

func (r *SQLiteUserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET chat_name = ?, first_name = ?, last_name = ?, email = ?,
		is_admin = ?, is_owner = ?, updated_at = ?
		WHERE chat_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		u.ChatName,
		u.FirstName,
		u.LastName,
		nullableString(u.Email),
		boolToInt(u.IsAdmin),
		boolToInt(u.IsOwner),
		formatTime(u.UpdatedAt),
		u.ChatID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", uniqueViolation(err, "user"))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", u.ChatID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteUserRepo) DeleteByChatID(ctx context.Context, chatID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE chat_id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", chatID, ErrNotFound)
	}
	return nil
}

func populateUser(u *domain.User, email sql.NullString, isAdmin, isOwner int, createdAtStr, updatedAtStr string) (*domain.User, error) {
	var err error
	u.Email = email.String
	u.IsAdmin = intToBool(isAdmin)
	u.IsOwner = intToBool(isOwner)
	if u.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if u.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return u, nil
}
