package model

import "time"

// User is a registered customer as stored in the `users` table. Optional
// profile fields are pointers so that NULL columns round-trip and partial
// updates can tell "absent" from "empty".
//
// Externally authenticated users have no PasswordHash and no Phone.
type User struct {
	ID           string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone"`
	PasswordHash string    `json:"-"`
	NationalID   *string   `json:"tc_kimlik"`
	Picture      *string   `json:"picture"`
	ExternalID   *string   `json:"google_id,omitempty"`
	LicenseNo    *string   `json:"ehliyet_no"`
	LicenseClass *string   `json:"ehliyet_sinifi"`
	LicenseDate  *string   `json:"ehliyet_tarihi"`
	BirthDate    *string   `json:"dogum_tarihi"`
	Address      *string   `json:"adres"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasPassword reports whether the user can log in with a password.
func (u *User) HasPassword() bool { return u != nil && u.PasswordHash != "" }

// ProfileUpdate carries the user-editable profile fields. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Name         *string
	Phone        *string
	NationalID   *string
	LicenseNo    *string
	LicenseClass *string
	LicenseDate  *string
	BirthDate    *string
	Address      *string
}

// Empty reports whether no field is set.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.NationalID == nil &&
		p.LicenseNo == nil && p.LicenseClass == nil && p.LicenseDate == nil &&
		p.BirthDate == nil && p.Address == nil
}

// Apply copies the set fields onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
	if p.NationalID != nil {
		u.NationalID = p.NationalID
	}
	if p.LicenseNo != nil {
		u.LicenseNo = p.LicenseNo
	}
	if p.LicenseClass != nil {
		u.LicenseClass = p.LicenseClass
	}
	if p.LicenseDate != nil {
		u.LicenseDate = p.LicenseDate
	}
	if p.BirthDate != nil {
		u.BirthDate = p.BirthDate
	}
	if p.Address != nil {
		u.Address = p.Address
	}
}

// Session maps the SHA-256 digest of an opaque token to its owner. The raw
// token is never stored.
type Session struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Valid reports whether the session is still usable at now.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && now.Before(s.ExpiresAt)
}
