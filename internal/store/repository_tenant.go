package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/models"
)

// tenantRepository is the SQL-backed implementation of [TenantRepository].
//
// PII columns hold ciphertext and never plaintext. Uniqueness of NIC and
// contact numbers is enforced through the fingerprint columns, so the store
// can detect duplicates without being able to read the values.
type tenantRepository struct {
	*DB
	logger *logger.Logger
}

// NewTenantRepository constructs a [TenantRepository] backed by the provided
// database connection and logger.
func NewTenantRepository(db *DB, logger *logger.Logger) TenantRepository {
	logger.Debug().Msg("creating tenant repository")
	return &tenantRepository{
		DB:     db,
		logger: logger,
	}
}

// Create persists a new tenant record.
//
// Unique violations map to field-level sentinels:
//   - nic_no_hash → [ErrNICAlreadyExists]
//   - contact_no_hash → [ErrContactAlreadyExists]
//   - tenant_id → [ErrDisplayIDTaken]
func (r *tenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, createTenant,
		tenant.ID,
		tenant.TenantID,
		tenant.FullName,
		tenant.CallingName,
		tenant.NICNo,
		tenant.NICNoHash,
		tenant.ContactNo,
		tenant.ContactNoHash,
		tenant.Address,
		tenant.JoinedDate,
		tenant.IsActive,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "tenantRepository.Create").
			Str("tenant_id", tenant.TenantID).
			Msg("failed to insert tenant")

		switch {
		case isUniqueViolation(err, "nic_no_hash"):
			return ErrNICAlreadyExists
		case isUniqueViolation(err, "contact_no_hash"):
			return ErrContactAlreadyExists
		case isUniqueViolation(err, "tenant_id"):
			return ErrDisplayIDTaken
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// GetByDisplayID retrieves a tenant by its display identifier.
// Returns [ErrNotFound] when no tenant carries the id.
func (r *tenantRepository) GetByDisplayID(ctx context.Context, tenantID string) (models.Tenant, error) {
	log := logger.FromContext(ctx)

	var tenant models.Tenant
	err := r.DB.QueryRowContext(ctx, getTenantByDisplayID, tenantID).Scan(
		&tenant.ID,
		&tenant.TenantID,
		&tenant.FullName,
		&tenant.CallingName,
		&tenant.NICNo,
		&tenant.NICNoHash,
		&tenant.ContactNo,
		&tenant.ContactNoHash,
		&tenant.Address,
		&tenant.JoinedDate,
		&tenant.IsActive,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tenant{}, ErrNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "tenantRepository.GetByDisplayID").
			Str("tenant_id", tenantID).
			Msg("failed to query tenant")
		return models.Tenant{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return tenant, nil
}

// List returns a page of tenants, newest first. Search filters on the
// full_name column — the only identity column stored in plaintext.
func (r *tenantRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Tenant, int64, error) {
	log := logger.FromContext(ctx)
	filter = normalizeFilter(filter)

	columns := []string{"id", "tenant_id", "full_name", "calling_name", "nic_no", "nic_no_hash", "contact_no", "contact_no_hash", "address", "joined_date", "is_active", "created_at", "updated_at"}
	listSQL, listArgs, countSQL, countArgs, err := buildListQuery("tenants", columns, "full_name", filter, nil)
	if err != nil {
		log.Err(err).Str("func", "tenantRepository.List").Msg("failed to build list query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "tenantRepository.List").Msg("failed to count tenants")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		log.Err(err).Str("func", "tenantRepository.List").Msg("failed to query tenants")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tenants := make([]models.Tenant, 0, filter.PageSize)
	for rows.Next() {
		var tenant models.Tenant
		if err := rows.Scan(
			&tenant.ID,
			&tenant.TenantID,
			&tenant.FullName,
			&tenant.CallingName,
			&tenant.NICNo,
			&tenant.NICNoHash,
			&tenant.ContactNo,
			&tenant.ContactNoHash,
			&tenant.Address,
			&tenant.JoinedDate,
			&tenant.IsActive,
			&tenant.CreatedAt,
			&tenant.UpdatedAt,
		); err != nil {
			log.Err(err).Str("func", "tenantRepository.List").Msg("failed to scan tenant row")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		tenants = append(tenants, tenant)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "tenantRepository.List").Msg("error occurred during rows iteration")
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return tenants, total, nil
}

// Update applies a partial tenant update. Encrypted fields arrive already
// protected; replacing a value replaces its fingerprint in the same
// statement, so the uniqueness indexes always match the ciphertext columns.
func (r *tenantRepository) Update(ctx context.Context, tenantID string, patch TenantPatch, now time.Time) error {
	log := logger.FromContext(ctx)

	update := queryBuilder.Update("tenants").Set("updated_at", now)
	changed := false
	if patch.FullName != nil {
		update = update.Set("full_name", *patch.FullName)
		changed = true
	}
	if patch.CallingName != nil {
		update = update.Set("calling_name", *patch.CallingName)
		changed = true
	}
	if patch.NIC != nil {
		update = update.
			Set("nic_no", patch.NIC.Ciphertext).
			Set("nic_no_hash", patch.NIC.Fingerprint)
		changed = true
	}
	if patch.Contact != nil {
		update = update.
			Set("contact_no", patch.Contact.Ciphertext).
			Set("contact_no_hash", patch.Contact.Fingerprint)
		changed = true
	}
	if patch.Address != nil {
		update = update.Set("address", *patch.Address)
		changed = true
	}
	if !changed {
		return nil
	}

	query, args, err := update.Where(sq.Eq{"tenant_id": tenantID}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "tenantRepository.Update").
			Str("tenant_id", tenantID).
			Msg("failed to update tenant")

		switch {
		case isUniqueViolation(err, "nic_no_hash"):
			return ErrNICAlreadyExists
		case isUniqueViolation(err, "contact_no_hash"):
			return ErrContactAlreadyExists
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetActive flips the soft-delete flag.
func (r *tenantRepository) SetActive(ctx context.Context, tenantID string, active bool, now time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, setTenantActive, active, now, tenantID)
	if err != nil {
		log.Err(err).
			Str("func", "tenantRepository.SetActive").
			Str("tenant_id", tenantID).
			Bool("active", active).
			Msg("failed to update tenant active flag")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}

	return nil
}

// LatestDisplayID returns the display id of the most recently created
// tenant, or [ErrNotFound] when the table is empty.
func (r *tenantRepository) LatestDisplayID(ctx context.Context) (string, error) {
	return latestDisplayID(ctx, r.DB, latestTenantDisplayID)
}
