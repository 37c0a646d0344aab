// Package directory owns the mapping from organization identity to partition
// identifier, and from partition identifier to the underlying data partition.
package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/orgstack/orghub/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// PartitionPrefix is prepended to every derived partition identifier.
const PartitionPrefix = "org_"

// DerivePartitionID maps an organization name to its partition identifier:
// trim, lowercase, spaces to underscores, "org_" prefix. Pure and
// deterministic; distinct names that normalize to the same identifier are
// not detected here.
func DerivePartitionID(organizationName string) string {
	safe := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(organizationName)), " ", "_")
	return PartitionPrefix + safe
}

// Partition is a handle to one organization's isolated data region.
type Partition interface {
	// ID returns the partition identifier this handle points at.
	ID() string
	InsertAdmin(ctx context.Context, admin *models.AdminAccount) error
	// GetAdminByEmail returns ErrNotFound when no account matches.
	GetAdminByEmail(ctx context.Context, email string) (*models.AdminAccount, error)
	DeleteAdmin(ctx context.Context, email string) error
}

// Directory is the data access interface for the master index and the
// per-organization partitions.
type Directory interface {
	Ping(ctx context.Context) error

	// ResolvePartition returns a handle to the partition, creating its
	// backing storage if needed. The boolean reports whether this call
	// created the partition. Idempotent: resolving the same id twice
	// yields equivalent handles.
	ResolvePartition(ctx context.Context, partitionID string) (Partition, bool, error)
	// DropPartition irreversibly destroys the partition's data. Dropping a
	// partition that does not exist is a no-op.
	DropPartition(ctx context.Context, partitionID string) error

	// GetIndexEntry returns ErrNotFound when no organization matches.
	GetIndexEntry(ctx context.Context, organizationName string) (*models.OrganizationMetadata, error)
	// PutIndexEntry inserts the master record; ErrDuplicateKey when the
	// organization name is already taken. Uniqueness is enforced by the
	// storage layer, not by a check-then-act pattern.
	PutIndexEntry(ctx context.Context, meta *models.OrganizationMetadata) error
	// FindIndexEntryByAdminEmail is the reverse lookup used by login.
	FindIndexEntryByAdminEmail(ctx context.Context, email string) (*models.OrganizationMetadata, error)
	// DeleteIndexEntry reports whether a record was removed.
	DeleteIndexEntry(ctx context.Context, organizationName string) (bool, error)
}
