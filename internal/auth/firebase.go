package auth

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// InitializeFirebase initializes the Firebase Admin SDK and returns an Auth client.
func InitializeFirebase(ctx context.Context, credentialsPath string) (*fbauth.Client, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return authClient, nil
}

// IDTokenVerifier is satisfied by *fbauth.Client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseResolver maps a verified Firebase identity onto a local user,
// creating one on first sight.
type FirebaseResolver interface {
	ResolveFirebase(ctx context.Context, uid, email, name string) (Identity, error)
}

// FirebaseVerifier verifies Firebase ID tokens in place of local JWTs.
type FirebaseVerifier struct {
	client IDTokenVerifier
	users  FirebaseResolver
}

func NewFirebaseVerifier(client IDTokenVerifier, users FirebaseResolver) *FirebaseVerifier {
	return &FirebaseVerifier{client: client, users: users}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, _ := decoded.Claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return Identity{}, fmt.Errorf("%w: token carries no email", ErrInvalidToken)
	}
	name, _ := decoded.Claims["name"].(string)

	id, err := v.users.ResolveFirebase(ctx, decoded.UID, email, name)
	if err != nil {
		return Identity{}, fmt.Errorf("resolve firebase user %s: %w", decoded.UID, err)
	}
	id.FirebaseUID = decoded.UID
	return id, nil
}
