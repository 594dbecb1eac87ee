package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	appointmenterrors "mediq/internal/appointments/errors"
	"mediq/internal/appointments/repository"
	"mediq/internal/appointments/validator"
	"mediq/pkg/booking"
	"mediq/pkg/config"
	apperrors "mediq/pkg/errors"
	"mediq/pkg/kafka"
	"mediq/pkg/middleware"
	"mediq/pkg/model"
	"mediq/pkg/timewindow"
)

type AppointmentService interface {
	Book(ctx context.Context, actor middleware.Actor, req *model.AppointmentRequest) (*model.Appointment, error)
	GetByID(ctx context.Context, actor middleware.Actor, id string) (*model.Appointment, error)
	GetByPatient(ctx context.Context, actor middleware.Actor, patientID string, limit int, offset int64) ([]*model.Appointment, int64, error)
	GetByDoctor(ctx context.Context, actor middleware.Actor, doctorID string, limit int, offset int64) ([]*model.Appointment, int64, error)
	Move(ctx context.Context, actor middleware.Actor, id string, req *model.MoveRequest) (*model.Appointment, error)
	Cancel(ctx context.Context, actor middleware.Actor, id string) error
}

type appointmentService struct {
	repo      repository.AppointmentRepository
	validator *validator.AppointmentValidator
	cfg       *config.Config
	events    *kafka.Publisher
	now       func() time.Time
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	validator *validator.AppointmentValidator,
	cfg *config.Config,
	events *kafka.Publisher,
) AppointmentService {
	return &appointmentService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		events:    events,
		now:       time.Now,
	}
}

func (s *appointmentService) Book(ctx context.Context, actor middleware.Actor, req *model.AppointmentRequest) (*model.Appointment, error) {
	if actor.Role != middleware.RolePatient {
		return nil, apperrors.Unauthorized("Only patients may book appointments")
	}

	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, apperrors.Validation("Appointment validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	exists, err := s.repo.PatientExists(ctx, actor.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to check patient existence", "patient_id", actor.ID, "error", err)
		return nil, apperrors.Internal("Failed to verify patient", err)
	}
	if !exists {
		return nil, apperrors.NotFoundWithID("Patient", actor.ID)
	}

	exists, err = s.repo.DoctorExists(ctx, req.DoctorID)
	if err != nil {
		s.cfg.Log.Error("Failed to check doctor existence", "doctor_id", req.DoctorID, "error", err)
		return nil, apperrors.Internal("Failed to verify doctor", err)
	}
	if !exists {
		return nil, apperrors.NotFoundWithID("Doctor", req.DoctorID)
	}

	appt := &model.Appointment{
		PatientID: actor.ID,
		DoctorID:  req.DoctorID,
		SlotID:    req.SlotID,
		Status:    model.StatusConfirmed,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		slot, err := s.findSlot(sessCtx, req.SlotID)
		if err != nil {
			return err
		}

		av, err := s.repo.FindAvailabilityByID(sessCtx, slot.AvailabilityID)
		if err != nil {
			return apperrors.Internal("Failed to resolve slot availability", err)
		}
		if av.DoctorID != req.DoctorID {
			return apperrors.InvalidInput("Slot does not belong to the specified doctor")
		}
		// Elastic slots outlive their window: a reshape deactivates the
		// original availability but its elastic slots stay bookable.
		if !av.IsAvailable && !slot.IsElastic {
			return apperrors.Conflict("Availability window has been withdrawn")
		}

		if err := s.bookSlot(sessCtx, slot, av); err != nil {
			return err
		}

		return s.repo.Create(sessCtx, appt)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to book appointment",
			"patient_id", actor.ID,
			"slot_id", req.SlotID,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Appointment booked",
		"id", appt.ID,
		"patient_id", appt.PatientID,
		"doctor_id", appt.DoctorID,
		"slot_id", appt.SlotID,
	)

	s.events.Emit(ctx, kafka.EventAppointmentBooked, appt.ID, appt)
	return appt, nil
}

func (s *appointmentService) GetByID(ctx context.Context, actor middleware.Actor, id string) (*model.Appointment, error) {
	appt, err := s.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actorOwns(actor, appt) {
		return nil, apperrors.Forbidden("Appointment belongs to another user")
	}
	return appt, nil
}

func (s *appointmentService) GetByPatient(ctx context.Context, actor middleware.Actor, patientID string, limit int, offset int64) ([]*model.Appointment, int64, error) {
	if patientID == "" {
		return nil, 0, apperrors.InvalidInput("Patient ID cannot be empty")
	}
	if actor.Role != middleware.RolePatient || actor.ID != patientID {
		return nil, 0, apperrors.Forbidden("Patients may only list their own appointments")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	appointments, err := s.repo.FindByPatient(ctx, patientID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list patient appointments", "patient_id", patientID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve appointments", err)
	}

	count, err := s.repo.CountByPatient(ctx, patientID)
	if err != nil {
		s.cfg.Log.Error("Failed to count patient appointments", "patient_id", patientID, "error", err)
		return nil, 0, apperrors.Internal("Failed to count appointments", err)
	}

	return appointments, count, nil
}

func (s *appointmentService) GetByDoctor(ctx context.Context, actor middleware.Actor, doctorID string, limit int, offset int64) ([]*model.Appointment, int64, error) {
	if doctorID == "" {
		return nil, 0, apperrors.InvalidInput("Doctor ID cannot be empty")
	}
	if actor.Role != middleware.RoleDoctor || actor.ID != doctorID {
		return nil, 0, apperrors.Forbidden("Doctors may only list their own appointments")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	appointments, err := s.repo.FindByDoctor(ctx, doctorID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list doctor appointments", "doctor_id", doctorID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve appointments", err)
	}

	count, err := s.repo.CountByDoctor(ctx, doctorID)
	if err != nil {
		s.cfg.Log.Error("Failed to count doctor appointments", "doctor_id", doctorID, "error", err)
		return nil, 0, apperrors.Internal("Failed to count appointments", err)
	}

	return appointments, count, nil
}

func (s *appointmentService) Move(ctx context.Context, actor middleware.Actor, id string, req *model.MoveRequest) (*model.Appointment, error) {
	if err := s.validator.ValidateMove(req); err != nil {
		return nil, apperrors.Validation("Move validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	appt, err := s.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Role != middleware.RolePatient || actor.ID != appt.PatientID {
		return nil, apperrors.Unauthorized("Only the booking patient may move an appointment")
	}

	if appt.Status != model.StatusConfirmed && appt.Status != model.StatusRescheduled {
		return nil, apperrors.Conflict("Only active appointments can be moved")
	}

	if appt.SlotID == req.SlotID {
		return nil, apperrors.Validation("Appointment already occupies the requested slot", nil)
	}

	if appt.SlotID != "" {
		if err := s.checkLockout(ctx, appt.SlotID); err != nil {
			return nil, err
		}
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		target, err := s.findSlot(sessCtx, req.SlotID)
		if err != nil {
			return err
		}

		targetAv, err := s.repo.FindAvailabilityByID(sessCtx, target.AvailabilityID)
		if err != nil {
			return apperrors.Internal("Failed to resolve slot availability", err)
		}
		if targetAv.DoctorID != appt.DoctorID {
			return apperrors.InvalidInput("Target slot belongs to a different doctor")
		}

		// Book the target before releasing the source so a failure
		// leaves the original booking intact.
		if err := s.bookSlot(sessCtx, target, targetAv); err != nil {
			return err
		}

		if appt.SlotID != "" {
			if err := s.releaseSlot(sessCtx, appt.SlotID); err != nil {
				return err
			}
		}

		return s.repo.UpdateSlotAndStatus(sessCtx, appt.ID, target.ID, model.StatusRescheduled)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to move appointment",
			"id", id,
			"target_slot_id", req.SlotID,
			"error", err,
		)
		return nil, err
	}

	appt.SlotID = req.SlotID
	appt.Status = model.StatusRescheduled

	s.cfg.Log.Info("Appointment moved",
		"id", appt.ID,
		"slot_id", appt.SlotID,
	)

	s.events.Emit(ctx, kafka.EventAppointmentRescheduled, appt.ID, appt)
	return appt, nil
}

func (s *appointmentService) Cancel(ctx context.Context, actor middleware.Actor, id string) error {
	appt, err := s.findAppointment(ctx, id)
	if err != nil {
		return err
	}

	if !actorOwns(actor, appt) {
		return apperrors.Unauthorized("Only the booking patient or the doctor may cancel")
	}

	if appt.Status == model.StatusCancelled {
		return apperrors.Conflict("Appointment is already cancelled")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if appt.SlotID != "" {
			if err := s.releaseSlot(sessCtx, appt.SlotID); err != nil {
				return err
			}
		}
		return s.repo.UpdateSlotAndStatus(sessCtx, appt.ID, "", model.StatusCancelled)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel appointment", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Appointment cancelled", "id", id)
	s.events.Emit(ctx, kafka.EventAppointmentCancelled, id, map[string]string{"appointment_id": id})
	return nil
}

func actorOwns(actor middleware.Actor, appt *model.Appointment) bool {
	switch actor.Role {
	case middleware.RolePatient:
		return actor.ID == appt.PatientID
	case middleware.RoleDoctor:
		return actor.ID == appt.DoctorID
	default:
		return false
	}
}

func (s *appointmentService) findAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmenterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Appointment", id)
		}
		if errors.Is(err, appointmenterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid appointment ID format")
		}
		s.cfg.Log.Error("Failed to get appointment by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve appointment", err)
	}
	return appt, nil
}

func (s *appointmentService) findSlot(ctx context.Context, id string) (*model.Slot, error) {
	slot, err := s.repo.FindSlotByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmenterrors.ErrSlotNotFound) {
			return nil, apperrors.NotFoundWithID("Slot", id)
		}
		if errors.Is(err, appointmenterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid slot ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve slot", err)
	}
	return slot, nil
}

// bookSlot applies the slot's booking discipline and persists the result.
func (s *appointmentService) bookSlot(ctx context.Context, slot *model.Slot, av *model.Availability) error {
	maxBookings := 0
	if av.MaxBookings != nil {
		maxBookings = *av.MaxBookings
	}

	discipline, err := booking.For(slot.Mode, maxBookings)
	if err != nil {
		return apperrors.Internal("Failed to resolve booking discipline", err)
	}

	if err := discipline.Book(slot); err != nil {
		return err
	}

	if err := s.repo.UpdateSlotBooking(ctx, slot); err != nil {
		return apperrors.Internal("Failed to persist slot booking", err)
	}
	return nil
}

// releaseSlot frees one booking on the slot, making the capacity visible
// to new bookings immediately.
func (s *appointmentService) releaseSlot(ctx context.Context, slotID string) error {
	slot, err := s.findSlot(ctx, slotID)
	if err != nil {
		return err
	}

	av, err := s.repo.FindAvailabilityByID(ctx, slot.AvailabilityID)
	if err != nil {
		return apperrors.Internal("Failed to resolve slot availability", err)
	}

	maxBookings := 0
	if av.MaxBookings != nil {
		maxBookings = *av.MaxBookings
	}

	discipline, err := booking.For(slot.Mode, maxBookings)
	if err != nil {
		return apperrors.Internal("Failed to resolve booking discipline", err)
	}

	discipline.Release(slot)

	if err := s.repo.UpdateSlotBooking(ctx, slot); err != nil {
		return apperrors.Internal("Failed to persist slot release", err)
	}
	return nil
}

// checkLockout forbids patient-initiated moves inside the lockout period
// before the booked slot starts.
func (s *appointmentService) checkLockout(ctx context.Context, slotID string) error {
	slot, err := s.findSlot(ctx, slotID)
	if err != nil {
		return err
	}

	start, err := timewindow.OccurrenceStart(slot.Date, slot.StartTime, time.UTC)
	if err != nil {
		return apperrors.Internal("Stored slot time is malformed", err)
	}

	if s.now().After(start.Add(-s.cfg.RescheduleLockout)) {
		return apperrors.Forbidden("Reschedule window has closed for this appointment")
	}
	return nil
}
