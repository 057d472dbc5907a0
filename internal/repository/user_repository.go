package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/fleetease-rental/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `user_id, name, email, phone, password_hash, tc_kimlik, picture, external_id,
	license_no, license_class, license_date, birth_date, address, created_at`

// NormalizeEmail lower-cases and trims an address before storage or lookup.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create inserts a user. Unique-key violations on email or phone come back
// as ErrDuplicateEmail / ErrDuplicatePhone.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = NormalizeEmail(u.Email)
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		u.ID, u.Name, u.Email, u.Phone, nullString(u.PasswordHash), u.NationalID, u.Picture, u.ExternalID,
		u.LicenseNo, u.LicenseClass, u.LicenseDate, u.BirthDate, u.Address, u.CreatedAt)
	return mapDuplicate(err)
}

// GetByID fetches a user by its public id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE user_id=? LIMIT 1", id)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", NormalizeEmail(email))
}

// GetByPhone fetches a user by phone number.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE phone=? LIMIT 1", phone)
}

// UpdateProfile applies the set fields of upd. A phone already owned by
// another user yields ErrDuplicatePhone.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, upd model.ProfileUpdate) error {
	var (
		sets []string
		args []any
	)
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+"=?")
			args = append(args, *v)
		}
	}
	add("name", upd.Name)
	add("phone", upd.Phone)
	add("tc_kimlik", upd.NationalID)
	add("license_no", upd.LicenseNo)
	add("license_class", upd.LicenseClass)
	add("license_date", upd.LicenseDate)
	add("birth_date", upd.BirthDate)
	add("address", upd.Address)
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET "+strings.Join(sets, ", ")+" WHERE user_id=?", args...)
	if err != nil {
		return mapDuplicate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkExternal records the external identity id and fills in the picture
// when the user has none yet.
func (r *UserRepo) LinkExternal(ctx context.Context, id, externalID string, picture *string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET external_id=?, picture=COALESCE(picture, ?) WHERE user_id=?`,
		externalID, picture, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (*model.User, error) {
	var (
		u    model.User
		hash sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &hash, &u.NationalID, &u.Picture, &u.ExternalID,
		&u.LicenseNo, &u.LicenseClass, &u.LicenseDate, &u.BirthDate, &u.Address, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash.String
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
