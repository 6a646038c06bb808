package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ashenlk/tenant-keeper/internal/crypto"
	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/internal/sequence"
	"github.com/ashenlk/tenant-keeper/internal/store"
	"github.com/ashenlk/tenant-keeper/models"
)

// tenantService is the concrete implementation of [TenantService].
//
// Plaintext PII only exists inside this service: requests are protected
// before they reach the repository and storage rows are revealed into
// [models.TenantView] values on the way out. A row that no longer decrypts
// under the current key is flagged, not dropped, so operators can see the
// record exists and repair it.
type tenantService struct {
	tenants   store.TenantRepository
	codec     crypto.PiiCodec
	allocator *Allocator
	logger    *logger.Logger
}

// NewTenantService constructs a [TenantService].
func NewTenantService(tenants store.TenantRepository, codec crypto.PiiCodec, allocator *Allocator, logger *logger.Logger) TenantService {
	return &tenantService{
		tenants:   tenants,
		codec:     codec,
		allocator: allocator,
		logger:    logger,
	}
}

// Create validates the payload, protects the PII fields and persists the
// tenant under the next "T-NNNN" identifier.
//
// Duplicate NIC or contact numbers surface as [store.ErrNICAlreadyExists] /
// [store.ErrContactAlreadyExists] via the fingerprint indexes.
func (s *tenantService) Create(ctx context.Context, req models.CreateTenantRequest) (models.TenantView, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(req.FullName) == "" {
		return models.TenantView{}, invalidField("fullName", "must not be empty")
	}
	if strings.TrimSpace(req.NICNo) == "" {
		return models.TenantView{}, invalidField("nicNo", "must not be empty")
	}
	if strings.TrimSpace(req.ContactNo) == "" {
		return models.TenantView{}, invalidField("contactNo", "must not be empty")
	}

	nic, err := s.codec.Protect(req.NICNo)
	if err != nil {
		return models.TenantView{}, fmt.Errorf("protecting nic number: %w", err)
	}
	contact, err := s.codec.Protect(req.ContactNo)
	if err != nil {
		return models.TenantView{}, fmt.Errorf("protecting contact number: %w", err)
	}
	address, err := s.codec.Encrypt(req.Address)
	if err != nil {
		return models.TenantView{}, fmt.Errorf("encrypting address: %w", err)
	}

	now := time.Now().UTC()
	joined := now
	if req.JoinedDate != nil {
		joined = req.JoinedDate.UTC()
	}

	tenant := models.Tenant{
		ID:            uuid.NewString(),
		FullName:      req.FullName,
		CallingName:   req.CallingName,
		NICNo:         nic.Ciphertext,
		NICNoHash:     nic.Fingerprint,
		ContactNo:     contact.Ciphertext,
		ContactNoHash: contact.Fingerprint,
		Address:       address,
		JoinedDate:    joined,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	displayID, err := s.allocator.CreateWithID(ctx, sequence.Tenant, func(ctx context.Context, displayID string) error {
		tenant.TenantID = displayID
		return s.tenants.Create(ctx, &tenant)
	})
	if err != nil {
		log.Err(err).Str("func", "tenantService.Create").Msg("tenant creation ended with error")
		return models.TenantView{}, fmt.Errorf("tenant creation ended with error: %w", err)
	}

	tenant.TenantID = displayID
	return s.view(ctx, tenant), nil
}

// Get returns one tenant with PII revealed.
func (s *tenantService) Get(ctx context.Context, tenantID string) (models.TenantView, error) {
	tenant, err := s.tenants.GetByDisplayID(ctx, tenantID)
	if err != nil {
		return models.TenantView{}, err
	}

	return s.view(ctx, tenant), nil
}

// List returns one page of tenants with PII revealed. A record that fails to
// decrypt is included with DecryptionFailed set rather than aborting the
// listing.
func (s *tenantService) List(ctx context.Context, filter models.ListFilter) ([]models.TenantView, models.Pagination, error) {
	tenants, total, err := s.tenants.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	views := make([]models.TenantView, 0, len(tenants))
	for _, tenant := range tenants {
		views = append(views, s.view(ctx, tenant))
	}

	return views, paginate(filter, total), nil
}

// Update applies a partial update, re-protecting any changed PII field so
// ciphertext and fingerprint always move together.
func (s *tenantService) Update(ctx context.Context, tenantID string, req models.UpdateTenantRequest) (models.TenantView, error) {
	log := logger.FromContext(ctx)

	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return models.TenantView{}, invalidField("fullName", "must not be empty")
	}
	if req.NICNo != nil && strings.TrimSpace(*req.NICNo) == "" {
		return models.TenantView{}, invalidField("nicNo", "must not be empty")
	}
	if req.ContactNo != nil && strings.TrimSpace(*req.ContactNo) == "" {
		return models.TenantView{}, invalidField("contactNo", "must not be empty")
	}

	patch := store.TenantPatch{
		FullName:    req.FullName,
		CallingName: req.CallingName,
	}
	if req.NICNo != nil {
		nic, err := s.codec.Protect(*req.NICNo)
		if err != nil {
			return models.TenantView{}, fmt.Errorf("protecting nic number: %w", err)
		}
		patch.NIC = &nic
	}
	if req.ContactNo != nil {
		contact, err := s.codec.Protect(*req.ContactNo)
		if err != nil {
			return models.TenantView{}, fmt.Errorf("protecting contact number: %w", err)
		}
		patch.Contact = &contact
	}
	if req.Address != nil {
		address, err := s.codec.Encrypt(*req.Address)
		if err != nil {
			return models.TenantView{}, fmt.Errorf("encrypting address: %w", err)
		}
		patch.Address = &address
	}

	if err := s.tenants.Update(ctx, tenantID, patch, time.Now().UTC()); err != nil {
		log.Err(err).
			Str("func", "tenantService.Update").
			Str("tenant_id", tenantID).
			Msg("tenant update ended with error")
		return models.TenantView{}, err
	}

	return s.Get(ctx, tenantID)
}

// SetActive flips the soft-delete flag.
func (s *tenantService) SetActive(ctx context.Context, tenantID string, active bool) error {
	return s.tenants.SetActive(ctx, tenantID, active, time.Now().UTC())
}

// view reveals a storage row into the read shape. Fields that fail to
// decrypt keep their ciphertext and flag the view; the listing must not lose
// the record.
func (s *tenantService) view(ctx context.Context, tenant models.Tenant) models.TenantView {
	nic, nicOK := s.codec.Reveal(tenant.NICNo)
	contact, contactOK := s.codec.Reveal(tenant.ContactNo)
	address, addressOK := s.codec.Reveal(tenant.Address)

	failed := !nicOK || !contactOK || !addressOK
	if failed {
		logger.FromContext(ctx).Warn().
			Str("func", "tenantService.view").
			Str("tenant_id", tenant.TenantID).
			Msg("tenant record failed to decrypt under current key")
	}

	return models.TenantView{
		TenantID:         tenant.TenantID,
		FullName:         tenant.FullName,
		CallingName:      tenant.CallingName,
		NICNo:            nic,
		ContactNo:        contact,
		Address:          address,
		JoinedDate:       tenant.JoinedDate,
		IsActive:         tenant.IsActive,
		DecryptionFailed: failed,
	}
}
