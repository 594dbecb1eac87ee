package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	directoryerrors "mediq/internal/directory/errors"
	"mediq/internal/directory/validator"
	"mediq/pkg/config"
	apperrors "mediq/pkg/errors"
	"mediq/pkg/logger"
	"mediq/pkg/model"
)

type mockDirectoryRepository struct {
	createDoctorFunc   func(ctx context.Context, d *model.Doctor) error
	findDoctorFunc     func(ctx context.Context, id string) (*model.Doctor, error)
	findDoctorsFunc    func(ctx context.Context, specialization string, limit int, offset int64) ([]*model.Doctor, error)
	countDoctorsFunc   func(ctx context.Context, specialization string) (int64, error)
	updateDoctorFunc   func(ctx context.Context, id string, updates *model.DoctorUpdate) error
	createPatientFunc  func(ctx context.Context, p *model.Patient) error
	findPatientFunc    func(ctx context.Context, id string) (*model.Patient, error)
	updatePatientFunc  func(ctx context.Context, id string, updates *model.PatientUpdate) error
}

func (m *mockDirectoryRepository) CreateDoctor(ctx context.Context, d *model.Doctor) error {
	if m.createDoctorFunc != nil {
		return m.createDoctorFunc(ctx, d)
	}
	d.ID = "64a000000000000000000001"
	return nil
}

func (m *mockDirectoryRepository) FindDoctorByID(ctx context.Context, id string) (*model.Doctor, error) {
	if m.findDoctorFunc != nil {
		return m.findDoctorFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDirectoryRepository) FindDoctors(ctx context.Context, specialization string, limit int, offset int64) ([]*model.Doctor, error) {
	if m.findDoctorsFunc != nil {
		return m.findDoctorsFunc(ctx, specialization, limit, offset)
	}
	return nil, nil
}

func (m *mockDirectoryRepository) CountDoctors(ctx context.Context, specialization string) (int64, error) {
	if m.countDoctorsFunc != nil {
		return m.countDoctorsFunc(ctx, specialization)
	}
	return 0, nil
}

func (m *mockDirectoryRepository) UpdateDoctor(ctx context.Context, id string, updates *model.DoctorUpdate) error {
	if m.updateDoctorFunc != nil {
		return m.updateDoctorFunc(ctx, id, updates)
	}
	return nil
}

func (m *mockDirectoryRepository) CreatePatient(ctx context.Context, p *model.Patient) error {
	if m.createPatientFunc != nil {
		return m.createPatientFunc(ctx, p)
	}
	p.ID = "64a000000000000000000002"
	return nil
}

func (m *mockDirectoryRepository) FindPatientByID(ctx context.Context, id string) (*model.Patient, error) {
	if m.findPatientFunc != nil {
		return m.findPatientFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDirectoryRepository) UpdatePatient(ctx context.Context, id string, updates *model.PatientUpdate) error {
	if m.updatePatientFunc != nil {
		return m.updatePatientFunc(ctx, id, updates)
	}
	return nil
}

func newTestService(repo *mockDirectoryRepository) DirectoryService {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})

	cfg := &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	return NewDirectoryService(repo, validator.NewDirectoryValidator(log), cfg)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError with code %s, got %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
}

func TestCreateDoctor_ValidationFailure(t *testing.T) {
	s := newTestService(&mockDirectoryRepository{})

	err := s.CreateDoctor(context.Background(), &model.Doctor{Name: "X"})
	assertAppErrorCode(t, err, apperrors.CodeValidation)
}

func TestCreateDoctor_Success(t *testing.T) {
	s := newTestService(&mockDirectoryRepository{})

	d := &model.Doctor{
		UserID:         "u-100",
		Name:           "Asha Rao",
		Specialization: "cardiology",
	}
	if err := s.CreateDoctor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == "" {
		t.Error("expected doctor ID to be assigned")
	}
}

func TestGetDoctor_NotFound(t *testing.T) {
	s := newTestService(&mockDirectoryRepository{
		findDoctorFunc: func(ctx context.Context, id string) (*model.Doctor, error) {
			return nil, fmt.Errorf("%w: %s", directoryerrors.ErrDoctorNotFound, id)
		},
	})

	_, err := s.GetDoctor(context.Background(), "64a000000000000000000009")
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestCreatePatient_ValidationFailure(t *testing.T) {
	s := newTestService(&mockDirectoryRepository{})

	err := s.CreatePatient(context.Background(), &model.Patient{
		UserID: "u-200",
		Name:   "Lee",
		Age:    30,
		Gender: "unspecified",
	})
	assertAppErrorCode(t, err, apperrors.CodeValidation)
}

func TestUpdatePatient_NotFound(t *testing.T) {
	s := newTestService(&mockDirectoryRepository{
		updatePatientFunc: func(ctx context.Context, id string, updates *model.PatientUpdate) error {
			return fmt.Errorf("%w: %s", directoryerrors.ErrPatientNotFound, id)
		},
	})

	err := s.UpdatePatient(context.Background(), "64a000000000000000000009", &model.PatientUpdate{Name: "New Name"})
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}
