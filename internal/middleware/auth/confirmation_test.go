package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfirmationCode(t *testing.T) {
	code, err := GenerateConfirmationCode(8)
	require.NoError(t, err)
	assert.Len(t, code, 8)

	for _, r := range code {
		assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected character %q", r)
	}
}

func TestGenerateConfirmationCode_Distinct(t *testing.T) {
	a, err := GenerateConfirmationCode(16)
	require.NoError(t, err)
	b, err := GenerateConfirmationCode(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashAndVerifyCode(t *testing.T) {
	code := "ABCD2345"
	hash, err := HashCode(code)
	require.NoError(t, err)
	assert.NotEqual(t, code, hash)

	assert.NoError(t, VerifyCode(hash, code))
	assert.Error(t, VerifyCode(hash, "WRONG234"))
}
