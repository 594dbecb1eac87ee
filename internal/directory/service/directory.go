package service

import (
	"context"
	"errors"

	directoryerrors "mediq/internal/directory/errors"
	"mediq/internal/directory/repository"
	"mediq/internal/directory/validator"
	"mediq/pkg/config"
	apperrors "mediq/pkg/errors"
	"mediq/pkg/model"
)

type DirectoryService interface {
	CreateDoctor(ctx context.Context, d *model.Doctor) error
	GetDoctor(ctx context.Context, id string) (*model.Doctor, error)
	ListDoctors(ctx context.Context, specialization string, limit int, offset int64) ([]*model.Doctor, int64, error)
	UpdateDoctor(ctx context.Context, id string, updates *model.DoctorUpdate) error

	CreatePatient(ctx context.Context, p *model.Patient) error
	GetPatient(ctx context.Context, id string) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id string, updates *model.PatientUpdate) error
}

type directoryService struct {
	repo      repository.DirectoryRepository
	validator *validator.DirectoryValidator
	cfg       *config.Config
}

func NewDirectoryService(
	repo repository.DirectoryRepository,
	validator *validator.DirectoryValidator,
	cfg *config.Config,
) DirectoryService {
	return &directoryService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *directoryService) CreateDoctor(ctx context.Context, d *model.Doctor) error {
	if err := s.validator.ValidateDoctor(d); err != nil {
		return apperrors.Validation("Doctor validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.CreateDoctor(ctx, d); err != nil {
		s.cfg.Log.Error("Failed to create doctor", "name", d.Name, "error", err)
		return apperrors.Internal("Failed to create doctor", err)
	}

	s.cfg.Log.Info("Doctor created", "id", d.ID, "specialization", d.Specialization)
	return nil
}

func (s *directoryService) GetDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Doctor ID cannot be empty")
	}

	d, err := s.repo.FindDoctorByID(ctx, id)
	if err != nil {
		if errors.Is(err, directoryerrors.ErrDoctorNotFound) {
			return nil, apperrors.NotFoundWithID("Doctor", id)
		}
		if errors.Is(err, directoryerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid doctor ID format")
		}
		s.cfg.Log.Error("Failed to get doctor", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve doctor", err)
	}

	return d, nil
}

func (s *directoryService) ListDoctors(ctx context.Context, specialization string, limit int, offset int64) ([]*model.Doctor, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	doctors, err := s.repo.FindDoctors(ctx, specialization, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list doctors", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve doctors", err)
	}

	count, err := s.repo.CountDoctors(ctx, specialization)
	if err != nil {
		s.cfg.Log.Error("Failed to count doctors", "error", err)
		return nil, 0, apperrors.Internal("Failed to count doctors", err)
	}

	return doctors, count, nil
}

func (s *directoryService) UpdateDoctor(ctx context.Context, id string, updates *model.DoctorUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Doctor ID cannot be empty")
	}

	if err := s.validator.ValidateDoctorUpdate(updates); err != nil {
		return apperrors.Validation("Doctor validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.UpdateDoctor(ctx, id, updates); err != nil {
		if errors.Is(err, directoryerrors.ErrDoctorNotFound) {
			return apperrors.NotFoundWithID("Doctor", id)
		}
		if errors.Is(err, directoryerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid doctor ID format")
		}
		s.cfg.Log.Error("Failed to update doctor", "id", id, "error", err)
		return apperrors.Internal("Failed to update doctor", err)
	}

	s.cfg.Log.Info("Doctor updated", "id", id)
	return nil
}

func (s *directoryService) CreatePatient(ctx context.Context, p *model.Patient) error {
	if err := s.validator.ValidatePatient(p); err != nil {
		return apperrors.Validation("Patient validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.CreatePatient(ctx, p); err != nil {
		s.cfg.Log.Error("Failed to create patient", "name", p.Name, "error", err)
		return apperrors.Internal("Failed to create patient", err)
	}

	s.cfg.Log.Info("Patient created", "id", p.ID)
	return nil
}

func (s *directoryService) GetPatient(ctx context.Context, id string) (*model.Patient, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Patient ID cannot be empty")
	}

	p, err := s.repo.FindPatientByID(ctx, id)
	if err != nil {
		if errors.Is(err, directoryerrors.ErrPatientNotFound) {
			return nil, apperrors.NotFoundWithID("Patient", id)
		}
		if errors.Is(err, directoryerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid patient ID format")
		}
		s.cfg.Log.Error("Failed to get patient", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve patient", err)
	}

	return p, nil
}

func (s *directoryService) UpdatePatient(ctx context.Context, id string, updates *model.PatientUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Patient ID cannot be empty")
	}

	if err := s.validator.ValidatePatientUpdate(updates); err != nil {
		return apperrors.Validation("Patient validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.UpdatePatient(ctx, id, updates); err != nil {
		if errors.Is(err, directoryerrors.ErrPatientNotFound) {
			return apperrors.NotFoundWithID("Patient", id)
		}
		if errors.Is(err, directoryerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid patient ID format")
		}
		s.cfg.Log.Error("Failed to update patient", "id", id, "error", err)
		return apperrors.Internal("Failed to update patient", err)
	}

	s.cfg.Log.Info("Patient updated", "id", id)
	return nil
}
