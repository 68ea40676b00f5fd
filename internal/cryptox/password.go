// Package cryptox implements password hashing for stored credentials.
//
// Hashes are self-describing strings: bcrypt's modular crypt format
// ("$2a$...") or a PHC-style argon2id string ("$argon2id$v=19$..."). A Hasher
// produces hashes with one configured algorithm and verifies any supported
// format, so the algorithm can be changed without invalidating stored hashes.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// PasswordHasher hashes plaintext passwords and verifies them against
// stored hashes.
//
// Verify returns (false, nil) on mismatch. A stored hash that cannot be
// parsed yields an error wrapping common.ErrorIntegrity.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}

// Hasher hashes with a primary algorithm and verifies bcrypt and argon2id.
type Hasher struct {
	primary PasswordHasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

// NewPasswordHasher returns a Hasher producing hashes with algorithm.
// bcryptCost is only used by bcrypt.
func NewPasswordHasher(algorithm string, bcryptCost int) (*Hasher, error) {
	b, err := NewBcryptHasher(bcryptCost)
	if err != nil {
		return nil, err
	}
	h := &Hasher{bcrypt: b, argon2: NewArgon2Hasher(DefaultArgon2Params)}

	switch strings.ToLower(algorithm) {
	case AlgorithmBcrypt, "":
		h.primary = h.bcrypt
	case AlgorithmArgon2id:
		h.primary = h.argon2
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm %q", algorithm)
	}
	return h, nil
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	return h.primary.Hash(plaintext)
}

func (h *Hasher) Verify(plaintext, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return h.bcrypt.Verify(plaintext, hash)
	case strings.HasPrefix(hash, "$"+AlgorithmArgon2id+"$"):
		return h.argon2.Verify(plaintext, hash)
	default:
		return false, fmt.Errorf("%w: unrecognised password hash format", common.ErrorIntegrity)
	}
}

// BcryptHasher wraps golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

func (b *BcryptHasher) Hash(plaintext string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password must not exceed 72 bytes", common.ErrorValidation)
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (b *BcryptHasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", common.ErrorIntegrity, err)
	}
}

// Argon2Params tunes argon2id key derivation.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// DefaultArgon2Params follows the RFC 9106 low-memory profile.
var DefaultArgon2Params = Argon2Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}

// Argon2Hasher produces PHC-formatted argon2id hashes.
type Argon2Hasher struct {
	params Argon2Params
}

func NewArgon2Hasher(p Argon2Params) *Argon2Hasher {
	return &Argon2Hasher{params: p}
}

func (a *Argon2Hasher) Hash(plaintext string) (string, error) {
	salt := common.GenerateRandByteArray(a.params.SaltLen)
	key := argon2.IDKey([]byte(plaintext), salt, a.params.Time, a.params.Memory, a.params.Threads, a.params.KeyLen)
	defer common.WipeByteArray(key)

	enc := base64.RawStdEncoding
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		AlgorithmArgon2id, argon2.Version,
		a.params.Memory, a.params.Time, a.params.Threads,
		enc.EncodeToString(salt), enc.EncodeToString(key)), nil
}

func (a *Argon2Hasher) Verify(plaintext, hash string) (bool, error) {
	p, salt, want, err := decodeArgon2(hash)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrorIntegrity, err)
	}

	got := argon2.IDKey([]byte(plaintext), salt, p.Time, p.Memory, p.Threads, uint32(len(want)))
	defer common.WipeByteArray(got)

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func decodeArgon2(hash string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != AlgorithmArgon2id {
		return p, nil, nil, errors.New("malformed argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("argon2id version: %w", err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, fmt.Errorf("argon2id params: %w", err)
	}
	if p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, errors.New("argon2id params out of range")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("argon2id salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, errors.New("argon2id key: malformed")
	}

	return p, salt, key, nil
}
