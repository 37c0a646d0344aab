// Package session authenticates partition admins and issues access tokens.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/orgstack/orghub/internal/auth"
	"github.com/orgstack/orghub/internal/directory"
)

// ErrInvalidCredentials covers every login failure: unknown email, unknown
// account, and wrong password are indistinguishable to the caller so the
// endpoint cannot be used to probe which admin emails exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash absorbs a bcrypt comparison on the unknown-email path so response
// timing does not reveal whether the email exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// LoginResult is the successful outcome of a login.
type LoginResult struct {
	AccessToken string
	TokenType   string
	OrgID       string
}

// Service resolves an admin's tenant through the master index, verifies the
// credentials inside that tenant's partition, and mints a token.
type Service struct {
	dir    directory.Directory
	hasher *auth.Hasher
	tokens *auth.TokenIssuer
}

// NewService creates a session Service.
func NewService(dir directory.Directory, hasher *auth.Hasher, tokens *auth.TokenIssuer) *Service {
	return &Service{dir: dir, hasher: hasher, tokens: tokens}
}

// Login authenticates an admin by email and password and returns a bearer
// token scoped to the admin's organization.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	meta, err := s.dir.FindIndexEntryByAdminEmail(ctx, email)
	if errors.Is(err, directory.ErrNotFound) {
		s.hasher.Verify(password, dummyHash)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find organization for admin: %w", err)
	}

	partition, _, err := s.dir.ResolvePartition(ctx, meta.PartitionID)
	if err != nil {
		return nil, fmt.Errorf("resolve partition: %w", err)
	}

	admin, err := partition.GetAdminByEmail(ctx, email)
	if errors.Is(err, directory.ErrNotFound) {
		s.hasher.Verify(password, dummyHash)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up admin account: %w", err)
	}

	if !s.hasher.Verify(password, admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(email, meta.OrganizationName)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		OrgID:       meta.OrganizationName,
	}, nil
}
