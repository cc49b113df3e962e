package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	signer := NewSigner("test-secret")

	claims := Claims{
		Email:     "anna@example.com",
		Role:      RoleRequester,
		BookingID: "6e8bc430-9c3a-4bfa-b2a5-3e0e0f5b9a11",
	}

	tok, err := signer.Generate(claims)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	got, ok := signer.Verify(tok)
	require.True(t, ok)
	assert.Equal(t, claims.Email, got.Email)
	assert.Equal(t, claims.Role, got.Role)
	assert.Equal(t, claims.BookingID, got.BookingID)
	assert.NotZero(t, got.IssuedAt)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	signer := NewSigner("test-secret")

	tok, err := signer.Generate(Claims{Email: "anna@example.com", Role: RoleRequester, BookingID: "b1"})
	require.NoError(t, err)

	// Flip the first character so the signed message no longer matches.
	flip := "A"
	if tok[0] == 'A' {
		flip = "B"
	}
	tampered := flip + tok[1:]

	_, ok := signer.Verify(tampered)
	assert.False(t, ok)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := NewSigner("secret-a").Generate(Claims{Email: "anna@example.com", Role: RoleApprover, Party: "Ingeborg"})
	require.NoError(t, err)

	_, ok := NewSigner("secret-b").Verify(tok)
	assert.False(t, ok)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	signer := NewSigner("test-secret")

	for _, tok := range []string{"", "not-base64!!!", "aGVsbG8"} {
		_, ok := signer.Verify(tok)
		assert.False(t, ok, "token %q", tok)
	}
}

func TestApproverClaimsCarryParty(t *testing.T) {
	signer := NewSigner("test-secret")

	tok, err := signer.Generate(Claims{
		Email:     "cornelia@example.com",
		Role:      RoleApprover,
		BookingID: "b1",
		Party:     "Cornelia",
	})
	require.NoError(t, err)

	got, ok := signer.Verify(tok)
	require.True(t, ok)
	assert.Equal(t, RoleApprover, got.Role)
	assert.Equal(t, "Cornelia", got.Party)
}
