package models

import (
	"time"

	"github.com/google/uuid"
)

// OrganizationMetadata is the master-index record for one organization. It is
// the single source of truth for "does this organization exist" and for which
// partition holds its data.
type OrganizationMetadata struct {
	ID               uuid.UUID `db:"id"                json:"-"`
	OrganizationName string    `db:"organization_name" json:"organization_name"`
	PartitionID      string    `db:"partition_id"      json:"partition_id"`
	AdminEmail       string    `db:"admin_email"       json:"admin_email"`
	CreatedAt        time.Time `db:"created_at"        json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"        json:"updated_at"`
}
