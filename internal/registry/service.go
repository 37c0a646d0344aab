// Package registry orchestrates the organization lifecycle: create, get,
// update, and delete, backed by the partition directory and the credential
// helper.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/orgstack/orghub/internal/auth"
	"github.com/orgstack/orghub/internal/directory"
	"github.com/orgstack/orghub/pkg/models"
)

var (
	// ErrAlreadyExists is returned by Create when the organization name is
	// already registered.
	ErrAlreadyExists = errors.New("organization name already exists")
	// ErrNotFound is returned by Get and Delete for unknown organizations.
	ErrNotFound = errors.New("organization not found")
	// ErrNameTaken is returned by Update when the target name is in use.
	ErrNameTaken = errors.New("organization name already taken")
	// ErrPartialFailure is returned when a failed create could not be
	// compensated and may have left orphaned partition state.
	ErrPartialFailure = errors.New("create failed and compensation did not complete")
)

// UpdateMessage is the informational response of the update stub. A real
// rename needs the caller to identify the organization by its current name
// and migrate partition data; that operation is deliberately not implemented.
const UpdateMessage = "Update logic for migration requires specific old_org_name parameter"

// Service implements the organization lifecycle.
type Service struct {
	dir    directory.Directory
	hasher *auth.Hasher
}

// NewService creates a registry Service.
func NewService(dir directory.Directory, hasher *auth.Hasher) *Service {
	return &Service{dir: dir, hasher: hasher}
}

// Create registers an organization: it provisions the partition, writes the
// initial admin account into it, and records the master-index entry. The
// index write is the commit point; on index-write failure the partition side
// is rolled back (the partition is dropped if this call created it, otherwise
// only the inserted admin row is removed). Uniqueness of the organization
// name is guaranteed by the index's storage constraint, so a concurrent
// duplicate create loses cleanly instead of overwriting.
func (s *Service) Create(ctx context.Context, organizationName, email, password string) (*models.OrganizationMetadata, error) {
	// Fast path; the authoritative check is the index constraint below.
	if _, err := s.dir.GetIndexEntry(ctx, organizationName); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, directory.ErrNotFound) {
		return nil, fmt.Errorf("check existing organization: %w", err)
	}

	partitionID := directory.DerivePartitionID(organizationName)
	partition, created, err := s.dir.ResolvePartition(ctx, partitionID)
	if err != nil {
		return nil, fmt.Errorf("resolve partition: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	admin := &models.AdminAccount{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := partition.InsertAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("write admin account: %w", err)
	}

	meta := &models.OrganizationMetadata{
		OrganizationName: organizationName,
		PartitionID:      partitionID,
		AdminEmail:       email,
	}
	if err := s.dir.PutIndexEntry(ctx, meta); err != nil {
		if cErr := s.compensate(ctx, partition, created, email); cErr != nil {
			slog.Error("create compensation failed",
				"organization", organizationName,
				"partition", partitionID,
				"error", cErr,
			)
			return nil, fmt.Errorf("%w: %s", ErrPartialFailure, cErr)
		}
		if errors.Is(err, directory.ErrDuplicateKey) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("write index entry: %w", err)
	}

	return meta, nil
}

// compensate undoes the partition-side effects of a create whose index write
// failed. A pre-existing partition is never dropped: two names can normalize
// to the same partition id, and dropping would destroy the other
// organization's data.
func (s *Service) compensate(ctx context.Context, partition directory.Partition, created bool, email string) error {
	if created {
		return s.dir.DropPartition(ctx, partition.ID())
	}
	return partition.DeleteAdmin(ctx, email)
}

// Get returns the master-index record for the organization.
func (s *Service) Get(ctx context.Context, organizationName string) (*models.OrganizationMetadata, error) {
	meta, err := s.dir.GetIndexEntry(ctx, organizationName)
	if errors.Is(err, directory.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// Update validates that the target organization name is free and returns an
// informational message. It performs no mutation: the rename-with-migration
// flow needs the current name to identify the organization, which this
// request shape does not carry.
func (s *Service) Update(ctx context.Context, organizationName, email, password string) (string, error) {
	_, err := s.dir.GetIndexEntry(ctx, organizationName)
	if err == nil {
		return "", ErrNameTaken
	}
	if !errors.Is(err, directory.ErrNotFound) {
		return "", fmt.Errorf("check target name: %w", err)
	}
	return UpdateMessage, nil
}

// Delete removes the master-index entry, then drops the partition. The index
// entry goes first: an organization without an index entry does not exist,
// so a crash between the two steps leaves at worst an orphaned partition,
// never a dangling index reference.
func (s *Service) Delete(ctx context.Context, organizationName string) error {
	removed, err := s.dir.DeleteIndexEntry(ctx, organizationName)
	if err != nil {
		return fmt.Errorf("delete index entry: %w", err)
	}
	if !removed {
		return ErrNotFound
	}

	partitionID := directory.DerivePartitionID(organizationName)
	if err := s.dir.DropPartition(ctx, partitionID); err != nil {
		return fmt.Errorf("drop partition: %w", err)
	}
	return nil
}
