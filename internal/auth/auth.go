package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	gotrue "github.com/supabase-community/gotrue-go"
)

// ErrNoSignedInUser is returned when the access token does not resolve to a user.
var ErrNoSignedInUser = errors.New("no signed-in user")

// User is the identity resolved from an access token.
type User struct {
	ID    uuid.UUID
	Email string
}

// SupabaseIdentity resolves access tokens through Supabase Auth.
type SupabaseIdentity struct {
	client gotrue.Client
}

// NewSupabaseIdentity wraps the auth client of an initialized Supabase client.
func NewSupabaseIdentity(client gotrue.Client) *SupabaseIdentity {
	return &SupabaseIdentity{client: client}
}

// CurrentUser returns the user owning accessToken.
func (s *SupabaseIdentity) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	if accessToken == "" {
		return nil, ErrNoSignedInUser
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := s.client.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSignedInUser, err)
	}
	if resp == nil || resp.User.ID == uuid.Nil {
		return nil, ErrNoSignedInUser
	}

	return &User{ID: resp.User.ID, Email: resp.User.Email}, nil
}
