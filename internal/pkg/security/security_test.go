package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("64f0c2a1b3d4e5f60718293a", "user")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64f0c2a1b3d4e5f60718293a", claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "Inkcard", claims.Issuer)
}

func TestValidateTokenTampered(t *testing.T) {
	token, err := GenerateToken("64f0c2a1b3d4e5f60718293a", "user")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestExtractSignature(t *testing.T) {
	token, err := GenerateToken("64f0c2a1b3d4e5f60718293a", "admin")
	require.NoError(t, err)

	signature, err := ExtractSignature(token)
	require.NoError(t, err)
	assert.Equal(t, strings.Split(token, ".")[2], signature)

	_, err = ExtractSignature("two.parts")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("secret-66")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-66", hashed)

	assert.True(t, VerifyPassword(hashed, "secret-66"))
	assert.False(t, VerifyPassword(hashed, "secret-67"))
}
