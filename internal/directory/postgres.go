package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgstack/orghub/pkg/models"
)

// PostgresDirectory implements Directory using pgx/v5. Each partition is a
// table named by its partition id; the master index is the
// organization_metadata table. Both live in the schema the pool's
// search_path points at.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory creates a new PostgresDirectory.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

// Ping checks database connectivity.
func (d *PostgresDirectory) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// --- Partitions ---

func (d *PostgresDirectory) ResolvePartition(ctx context.Context, partitionID string) (Partition, bool, error) {
	// Catalog lookup rather than to_regclass: the id is data, not SQL
	// identifier syntax, and names like "org_tesla-motors" must match the
	// table they created.
	var exists bool
	err := d.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM pg_tables
			WHERE schemaname = current_schema() AND tablename = $1
		)`, partitionID,
	).Scan(&exists)
	if err != nil {
		return nil, false, fmt.Errorf("check partition %s: %w", partitionID, err)
	}

	created := false
	if !exists {
		table := pgx.Identifier{partitionID}.Sanitize()
		_, err := d.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+table+` (
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
		if err != nil {
			return nil, false, fmt.Errorf("create partition %s: %w", partitionID, err)
		}
		created = true
	}

	return &postgresPartition{pool: d.pool, id: partitionID}, created, nil
}

func (d *PostgresDirectory) DropPartition(ctx context.Context, partitionID string) error {
	table := pgx.Identifier{partitionID}.Sanitize()
	if _, err := d.pool.Exec(ctx, `DROP TABLE IF EXISTS `+table); err != nil {
		return fmt.Errorf("drop partition %s: %w", partitionID, err)
	}
	return nil
}

// postgresPartition is a handle to one per-organization table.
type postgresPartition struct {
	pool *pgxpool.Pool
	id   string
}

func (p *postgresPartition) ID() string {
	return p.id
}

func (p *postgresPartition) InsertAdmin(ctx context.Context, admin *models.AdminAccount) error {
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now()
	}
	table := pgx.Identifier{p.id}.Sanitize()
	_, err := p.pool.Exec(ctx,
		`INSERT INTO `+table+` (email, password_hash, role, created_at) VALUES ($1, $2, $3, $4)`,
		admin.Email, admin.PasswordHash, admin.Role, admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert admin into %s: %w", p.id, err)
	}
	return nil
}

func (p *postgresPartition) GetAdminByEmail(ctx context.Context, email string) (*models.AdminAccount, error) {
	table := pgx.Identifier{p.id}.Sanitize()
	var a models.AdminAccount
	err := p.pool.QueryRow(ctx,
		`SELECT email, password_hash, role, created_at FROM `+table+` WHERE email = $1 LIMIT 1`,
		email,
	).Scan(&a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin from %s: %w", p.id, err)
	}
	return &a, nil
}

func (p *postgresPartition) DeleteAdmin(ctx context.Context, email string) error {
	table := pgx.Identifier{p.id}.Sanitize()
	if _, err := p.pool.Exec(ctx, `DELETE FROM `+table+` WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete admin from %s: %w", p.id, err)
	}
	return nil
}

// --- Master index ---

func (d *PostgresDirectory) GetIndexEntry(ctx context.Context, organizationName string) (*models.OrganizationMetadata, error) {
	var m models.OrganizationMetadata
	err := d.pool.QueryRow(ctx,
		`SELECT id, organization_name, partition_id, admin_email, created_at, updated_at
		 FROM organization_metadata WHERE organization_name = $1`, organizationName,
	).Scan(&m.ID, &m.OrganizationName, &m.PartitionID, &m.AdminEmail, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get index entry: %w", err)
	}
	return &m, nil
}

func (d *PostgresDirectory) PutIndexEntry(ctx context.Context, meta *models.OrganizationMetadata) error {
	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
	}
	now := time.Now()
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = now
	}
	meta.UpdatedAt = now

	_, err := d.pool.Exec(ctx,
		`INSERT INTO organization_metadata (id, organization_name, partition_id, admin_email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		meta.ID, meta.OrganizationName, meta.PartitionID, meta.AdminEmail, meta.CreatedAt, meta.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("put index entry: %w", err)
	}
	return nil
}

func (d *PostgresDirectory) FindIndexEntryByAdminEmail(ctx context.Context, email string) (*models.OrganizationMetadata, error) {
	var m models.OrganizationMetadata
	err := d.pool.QueryRow(ctx,
		`SELECT id, organization_name, partition_id, admin_email, created_at, updated_at
		 FROM organization_metadata WHERE admin_email = $1 LIMIT 1`, email,
	).Scan(&m.ID, &m.OrganizationName, &m.PartitionID, &m.AdminEmail, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find index entry by admin email: %w", err)
	}
	return &m, nil
}

func (d *PostgresDirectory) DeleteIndexEntry(ctx context.Context, organizationName string) (bool, error) {
	tag, err := d.pool.Exec(ctx,
		`DELETE FROM organization_metadata WHERE organization_name = $1`, organizationName)
	if err != nil {
		return false, fmt.Errorf("delete index entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
