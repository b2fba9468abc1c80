package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/model"
	"github.com/IKS-cod/TW2/internal/repository"
)

// UserRepo implements repository.UserRepository on top of the shared DB.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates the user repository.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// compile-time interface check
var _ repository.UserRepository = (*UserRepo)(nil)

// CreateWithAvatar inserts the user and their avatar row in one transaction.
//
// Registration provisions a default avatar, and a half-registered user
// (row committed, avatar failed) must not exist: either both rows commit
// or neither does. The avatar FILE is written by the caller before this
// runs, so a failed commit strands at worst an unreferenced file on disk,
// never a row pointing at nothing.
func (r *UserRepo) CreateWithAvatar(ctx context.Context, user *model.User, avatar *model.Avatar) error {
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (email, password_hash, first_name, last_name, phone, role)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			user.Email,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.Phone,
			string(user.Role),
		)
		if err != nil {
			// The UNIQUE constraint on email is the authoritative duplicate
			// check; the service's ExistsByEmail is only a fast path.
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return apperror.Conflict("user", "email "+user.Email+" already registered")
			}
			return fmt.Errorf("sqlite: inserting user: %w", err)
		}

		user.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading user id: %w", err)
		}

		avatar.UserID = user.ID
		avatar.EndpointPath = fmt.Sprintf("/image/avatar/%d", user.ID)

		res, err = tx.ExecContext(ctx,
			`INSERT INTO avatars (file_path, endpoint_path, media_type, user_id)
			 VALUES (?, ?, ?, ?)`,
			avatar.FilePath,
			avatar.EndpointPath,
			avatar.MediaType,
			avatar.UserID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting avatar for user %d: %w", user.ID, err)
		}

		avatar.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading avatar id: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a user by their id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.scanUser(r.db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, phone, role
		 FROM users WHERE id = ?`, id), id, "")
}

// GetByIDs batch-loads users in one query, keyed by id. Ids with no
// matching row are simply absent from the result map.
func (r *UserRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]model.User, error) {
	result := make(map[int64]model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, phone, role
		 FROM users WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: batch loading users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u model.User
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &role); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		u.Role = model.Role(role)
		result[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}
	return result, nil
}

// GetByEmail retrieves a user by their login email.
// Returns apperror.ErrNotFound if no row matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanUser(r.db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, phone, role
		 FROM users WHERE email = ?`, email), 0, email)
}

func (r *UserRepo) scanUser(row *sql.Row, id int64, email string) (*model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &role)
	if err != nil {
		if err == sql.ErrNoRows {
			if email != "" {
				return nil, &apperror.AppError{
					Err:     apperror.ErrNotFound,
					Message: "user not found with email " + email,
				}
			}
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}
	u.Role = model.Role(role)
	return &u, nil
}

// ExistsByEmail reports whether a user row with the given email exists.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, email,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking email %s: %w", email, err)
	}
	return n > 0, nil
}

// Update writes the mutable user fields (profile data and password hash).
// Email and role are fixed after registration and deliberately absent from
// the SET list.
func (r *UserRepo) Update(ctx context.Context, user *model.User) error {
	result, err := r.db.conn.ExecContext(ctx,
		`UPDATE users
		 SET password_hash = ?, first_name = ?, last_name = ?, phone = ?
		 WHERE id = ?`,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %d: %w", user.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", user.ID)
	}
	return nil
}
