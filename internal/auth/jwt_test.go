package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.Issue(Identity{Email: "ada@example.com", UserID: "u-1", Role: "Admin"})
	require.NoError(t, err)

	id, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, Identity{Email: "ada@example.com", UserID: "u-1", Role: "Admin"}, id)
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.Issue(Identity{Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "ada@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Hour).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTRequiresSubject(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.Issue(Identity{})
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type stubFirebase struct {
	token *fbauth.Token
	err   error
}

func (s stubFirebase) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return s.token, s.err
}

type stubResolver struct {
	gotUID, gotEmail, gotName string
	err                       error
}

func (s *stubResolver) ResolveFirebase(_ context.Context, uid, email, name string) (Identity, error) {
	s.gotUID, s.gotEmail, s.gotName = uid, email, name
	if s.err != nil {
		return Identity{}, s.err
	}
	return Identity{Email: email, UserID: "u-7", Role: "Developer"}, nil
}

func TestFirebaseVerifier(t *testing.T) {
	res := &stubResolver{}
	v := NewFirebaseVerifier(stubFirebase{token: &fbauth.Token{
		UID:    "fb-1",
		Claims: map[string]interface{}{"email": "ada@example.com", "name": "Ada Lovelace"},
	}}, res)

	id, err := v.Verify(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, Identity{Email: "ada@example.com", UserID: "u-7", Role: "Developer", FirebaseUID: "fb-1"}, id)
	assert.Equal(t, "Ada Lovelace", res.gotName)
}

func TestFirebaseVerifierRejects(t *testing.T) {
	v := NewFirebaseVerifier(stubFirebase{err: errors.New("expired")}, &stubResolver{})
	_, err := v.Verify(context.Background(), "t")
	assert.ErrorIs(t, err, ErrInvalidToken)

	v = NewFirebaseVerifier(stubFirebase{token: &fbauth.Token{UID: "fb-1", Claims: map[string]interface{}{}}}, &stubResolver{})
	_, err = v.Verify(context.Background(), "t")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFirebaseVerifierKeepsResolverFailuresDistinct(t *testing.T) {
	dbDown := errors.New("connection refused")
	v := NewFirebaseVerifier(stubFirebase{token: &fbauth.Token{
		UID:    "fb-1",
		Claims: map[string]interface{}{"email": "ada@example.com"},
	}}, &stubResolver{err: dbDown})

	_, err := v.Verify(context.Background(), "t")
	assert.ErrorIs(t, err, dbDown)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}
