package cryptox

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testArgon2Params = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func testHashers(t *testing.T) map[string]PasswordHasher {
	t.Helper()
	b, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return map[string]PasswordHasher{
		"bcrypt":   b,
		"argon2id": NewArgon2Hasher(testArgon2Params),
	}
}

func TestHashers_RoundTrip(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("correct horse")
			require.NoError(t, err)
			assert.NotContains(t, hash, "correct horse")

			ok, err := h.Verify("correct horse", hash)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.Verify("wrong horse", hash)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestHashers_SaltedHashesDiffer(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("same-password")
			require.NoError(t, err)
			b, err := h.Hash("same-password")
			require.NoError(t, err)
			assert.NotEqual(t, a, b)
		})
	}
}

func TestHashers_MalformedHashIsIntegrityFault(t *testing.T) {
	cases := map[string][]string{
		"bcrypt": {"$2a$short", "plain"},
		"argon2id": {
			"$argon2id$v=19$m=8192,t=1,p=1$",
			"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$a2V5",
			"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
			"$argon2id$v=19$m=8192,t=1,p=1$!!!$a2V5",
			"$argon2id$v=19$m=8192,t=0,p=1$c2FsdA$a2V5",
		},
	}
	hashers := testHashers(t)
	for name, hashes := range cases {
		for _, hash := range hashes {
			ok, err := hashers[name].Verify("pw", hash)
			assert.False(t, ok, hash)
			assert.ErrorIs(t, err, common.ErrorIntegrity, hash)
		}
	}
}

func TestBcryptHasher_CostBounds(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)

	h, err := NewBcryptHasher(0)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}

func TestBcryptHasher_TooLongPasswordIsValidationError(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestArgon2Hasher_Format(t *testing.T) {
	hash, err := NewArgon2Hasher(testArgon2Params).Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"), hash)
	assert.Len(t, strings.Split(hash, "$"), 6)
}

func TestHasher_VerifiesAnySupportedFormat(t *testing.T) {
	h, err := NewPasswordHasher(AlgorithmArgon2id, bcrypt.MinCost)
	require.NoError(t, err)
	h.argon2 = NewArgon2Hasher(testArgon2Params)
	h.primary = h.argon2

	argonHash, err := h.Hash("pw-123456")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(argonHash, "$argon2id$"))

	legacy, err := bcrypt.GenerateFromPassword([]byte("pw-123456"), bcrypt.MinCost)
	require.NoError(t, err)

	for _, stored := range []string{argonHash, string(legacy)} {
		ok, err := h.Verify("pw-123456", stored)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	_, err = h.Verify("pw-123456", "$md5$abc")
	assert.ErrorIs(t, err, common.ErrorIntegrity)
}

func TestNewPasswordHasher(t *testing.T) {
	h, err := NewPasswordHasher("", bcrypt.MinCost)
	require.NoError(t, err)
	assert.Same(t, h.bcrypt, h.primary)

	_, err = NewPasswordHasher("md5", bcrypt.MinCost)
	assert.Error(t, err)

	_, err = NewPasswordHasher(AlgorithmBcrypt, 99)
	assert.Error(t, err)
}
