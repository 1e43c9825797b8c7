package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const argon2Prefix = "$argon2id$"

// HashParams tunes argon2id. Zero fields fall back to DefaultHashParams.
type HashParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  int
}

// DefaultHashParams matches the cost used for service accounts elsewhere.
var DefaultHashParams = HashParams{
	Memory:      64 * 1024,
	Iterations:  2,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

func (p HashParams) withDefaults() HashParams {
	if p.Memory == 0 {
		p.Memory = DefaultHashParams.Memory
	}
	if p.Iterations == 0 {
		p.Iterations = DefaultHashParams.Iterations
	}
	if p.Parallelism == 0 {
		p.Parallelism = DefaultHashParams.Parallelism
	}
	if p.KeyLength == 0 {
		p.KeyLength = DefaultHashParams.KeyLength
	}
	if p.SaltLength == 0 {
		p.SaltLength = DefaultHashParams.SaltLength
	}
	return p
}

// HashSecret encodes password as "$argon2id$v=19$m=..,t=..,p=..$salt$hash".
func HashSecret(password string, params HashParams) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	p := params.withDefaults()
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	hash := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Iterations,
		p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// IsHashed reports whether stored is an argon2id encoding.
func IsHashed(stored string) bool { return strings.HasPrefix(stored, argon2Prefix) }

// VerifySecret checks password against stored. Besides argon2id it accepts
// bcrypt hashes and unhashed legacy values; for those upgrade is true so the
// caller can re-encode the secret.
func VerifySecret(stored, password string) (ok bool, upgrade bool) {
	switch {
	case IsHashed(stored):
		return verifyArgon2(stored, password), false
	case strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, true
	default:
		if stored == "" {
			return false, false
		}
		return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1, true
	}
}

func verifyArgon2(encoded, password string) bool {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}
	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}
	got := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(want))) //nolint:gosec // length bounded by decoded hash
	return subtle.ConstantTimeCompare(got, want) == 1
}
