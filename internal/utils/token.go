package utils // package utils provides helpers for session tokens, identifiers and password hashing

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewSessionToken returns 32 random bytes encoded as URL-safe base64
// without padding. The raw token goes to the client once; only
// HashToken(raw) is persisted.
func NewSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the hex SHA-256 digest of a raw session token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// NewID returns prefix + "_" + 12 lowercase hex characters taken from a
// random UUID, e.g. "res_1a2b3c4d5e6f".
func NewID(prefix string) string {
	hexID := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + hexID[:12]
}

// QRCode derives the display string printed on a reservation voucher.
func QRCode(reservationID string) string {
	return "FLEETEASE-" + strings.ToUpper(reservationID)
}
