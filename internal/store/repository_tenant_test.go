package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/models"
)

func testTenant() *models.Tenant {
	now := time.Now()
	return &models.Tenant{
		ID:            "3f9e0a44-6f31-4a11-9c86-0d8b7f3f1a01",
		TenantID:      "T-0001",
		FullName:      "Kasun Perera",
		CallingName:   "Kasun",
		NICNo:         "ciphertext-nic",
		NICNoHash:     "fp-nic",
		ContactNo:     "ciphertext-contact",
		ContactNoHash: "fp-contact",
		Address:       "ciphertext-address",
		JoinedDate:    now,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestCreateTenant_Success(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewTenantRepository(db, logger.Nop())
	tenant := testTenant()

	mock.ExpectExec("INSERT INTO tenants").
		WithArgs(
			tenant.ID, tenant.TenantID, tenant.FullName, tenant.CallingName,
			tenant.NICNo, tenant.NICNoHash, tenant.ContactNo, tenant.ContactNoHash,
			tenant.Address, tenant.JoinedDate, tenant.IsActive,
			tenant.CreatedAt, tenant.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), tenant); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateTenant_DuplicateNIC(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewTenantRepository(db, logger.Nop())

	mock.ExpectExec("INSERT INTO tenants").
		WillReturnError(pgUniqueError("uq_tenants_nic_no_hash"))

	err := repo.Create(context.Background(), testTenant())
	if !errors.Is(err, ErrNICAlreadyExists) {
		t.Fatalf("expected ErrNICAlreadyExists, got %v", err)
	}
}

func TestCreateTenant_DuplicateContact(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewTenantRepository(db, logger.Nop())

	mock.ExpectExec("INSERT INTO tenants").
		WillReturnError(pgUniqueError("uq_tenants_contact_no_hash"))

	err := repo.Create(context.Background(), testTenant())
	if !errors.Is(err, ErrContactAlreadyExists) {
		t.Fatalf("expected ErrContactAlreadyExists, got %v", err)
	}
}

func TestCreateTenant_DisplayIDCollision(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewTenantRepository(db, logger.Nop())

	mock.ExpectExec("INSERT INTO tenants").
		WillReturnError(pgUniqueError("uq_tenants_tenant_id"))

	err := repo.Create(context.Background(), testTenant())
	if !errors.Is(err, ErrDisplayIDTaken) {
		t.Fatalf("expected ErrDisplayIDTaken, got %v", err)
	}
}

func TestGetTenantByDisplayID_NotFound(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewTenantRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT id, tenant_id").
		WithArgs("T-9999").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByDisplayID(context.Background(), "T-9999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTenant_ReplacesFingerprintWithCiphertext(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewTenantRepository(db, logger.Nop())
	now := time.Now()

	nic := &models.EncryptedField{Ciphertext: "new-ct", Fingerprint: "new-fp"}

	mock.ExpectExec("UPDATE tenants").
		WithArgs(now, "new-ct", "new-fp", "T-0001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "T-0001", TenantPatch{NIC: nic}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateTenant_NoFields_NoQuery(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewTenantRepository(db, logger.Nop())

	err := repo.Update(context.Background(), "T-0001", TenantPatch{}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no queries should run for an empty patch: %v", err)
	}
}

func TestUpdateTenant_DuplicateNIC(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewTenantRepository(db, logger.Nop())

	nic := &models.EncryptedField{Ciphertext: "ct", Fingerprint: "fp"}
	mock.ExpectExec("UPDATE tenants").
		WillReturnError(pgUniqueError("uq_tenants_nic_no_hash"))

	err := repo.Update(context.Background(), "T-0001", TenantPatch{NIC: nic}, time.Now())
	if !errors.Is(err, ErrNICAlreadyExists) {
		t.Fatalf("expected ErrNICAlreadyExists, got %v", err)
	}
}

func TestSetTenantActive_NotFound(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewTenantRepository(db, logger.Nop())

	mock.ExpectExec("UPDATE tenants SET is_active").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetActive(context.Background(), "T-9999", false, time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestTenantDisplayID_EmptyTable(t *testing.T) {
	db, mock, raw := newTestDB(t)
	defer raw.Close()

	repo := NewTenantRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT tenant_id FROM tenants").
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id"}))

	_, err := repo.LatestDisplayID(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
