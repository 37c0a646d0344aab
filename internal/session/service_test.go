package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/orgstack/orghub/internal/auth"
	"github.com/orgstack/orghub/internal/directory"
	"github.com/orgstack/orghub/internal/session"
	"github.com/orgstack/orghub/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeDirectory holds one organization with one admin.
type fakeDirectory struct {
	directory.Directory

	meta   *models.OrganizationMetadata
	admins map[string]*models.AdminAccount
}

func (f *fakeDirectory) FindIndexEntryByAdminEmail(ctx context.Context, email string) (*models.OrganizationMetadata, error) {
	if f.meta != nil && f.meta.AdminEmail == email {
		return f.meta, nil
	}
	return nil, directory.ErrNotFound
}

func (f *fakeDirectory) ResolvePartition(ctx context.Context, id string) (directory.Partition, bool, error) {
	return &fakePartition{admins: f.admins, id: id}, false, nil
}

type fakePartition struct {
	admins map[string]*models.AdminAccount
	id     string
}

func (p *fakePartition) ID() string { return p.id }

func (p *fakePartition) InsertAdmin(ctx context.Context, admin *models.AdminAccount) error {
	p.admins[admin.Email] = admin
	return nil
}

func (p *fakePartition) GetAdminByEmail(ctx context.Context, email string) (*models.AdminAccount, error) {
	a, ok := p.admins[email]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return a, nil
}

func (p *fakePartition) DeleteAdmin(ctx context.Context, email string) error {
	delete(p.admins, email)
	return nil
}

func setup(t *testing.T) (*session.Service, *auth.TokenIssuer) {
	t.Helper()
	hasher := auth.NewHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("pw123")
	require.NoError(t, err)

	dir := &fakeDirectory{
		meta: &models.OrganizationMetadata{
			OrganizationName: "Tesla",
			PartitionID:      "org_tesla",
			AdminEmail:       "a@x.com",
		},
		admins: map[string]*models.AdminAccount{
			"a@x.com": {Email: "a@x.com", PasswordHash: hash, Role: models.RoleAdmin},
		},
	}

	tokens, err := auth.NewTokenIssuer("test-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)

	return session.NewService(dir, hasher, tokens), tokens
}

func TestLogin_Success(t *testing.T) {
	svc, tokens := setup(t)

	result, err := svc.Login(context.Background(), "a@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, "Tesla", result.OrgID)

	claims, err := tokens.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, "Tesla", claims.Organization)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Login(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Login(context.Background(), "nobody@x.com", "pw123")
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
}

func TestLogin_NoExistenceLeakage(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, unknownErr := svc.Login(ctx, "nobody@x.com", "pw123")
	_, wrongPwErr := svc.Login(ctx, "a@x.com", "wrong")

	// Same error value for both, so the response body cannot differ.
	assert.Equal(t, unknownErr, wrongPwErr)
}

func TestLogin_IndexEntryWithoutAdminAccount(t *testing.T) {
	// Index entry exists but the partition holds no matching account (the
	// non-transactional delete window): still invalid credentials.
	hasher := auth.NewHasher(bcrypt.MinCost)
	dir := &fakeDirectory{
		meta: &models.OrganizationMetadata{
			OrganizationName: "Tesla",
			PartitionID:      "org_tesla",
			AdminEmail:       "a@x.com",
		},
		admins: map[string]*models.AdminAccount{},
	}
	tokens, err := auth.NewTokenIssuer("test-secret", "HS256", time.Minute)
	require.NoError(t, err)
	svc := session.NewService(dir, hasher, tokens)

	_, err = svc.Login(context.Background(), "a@x.com", "pw123")
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
}
