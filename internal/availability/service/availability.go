package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	availabilityerrors "mediq/internal/availability/errors"
	"mediq/internal/availability/planner"
	"mediq/internal/availability/repository"
	"mediq/internal/availability/validator"
	"mediq/pkg/booking"
	"mediq/pkg/config"
	apperrors "mediq/pkg/errors"
	"mediq/pkg/kafka"
	"mediq/pkg/middleware"
	"mediq/pkg/model"
	"mediq/pkg/timewindow"
)

type AvailabilityService interface {
	Create(ctx context.Context, actor middleware.Actor, av *model.Availability) error
	GetByID(ctx context.Context, id string) (*model.Availability, error)
	GetByDoctor(ctx context.Context, doctorID string, limit int, offset int64) ([]*model.Availability, int64, error)
	GetDoctorSlots(ctx context.Context, doctorID string, date string) ([]*model.Slot, error)
	DeleteSlot(ctx context.Context, actor middleware.Actor, slotID string) error
	Reshape(ctx context.Context, actor middleware.Actor, availabilityID string, req *model.ReshapeRequest) (*model.ElasticSchedule, error)
}

// ReshapeOutcome summarizes what a reshape did to downstream appointments.
type ReshapeOutcome struct {
	Schedule  *model.ElasticSchedule
	Migrated  []string // appointment IDs moved to a surviving or new slot
	Orphaned  []string // appointment IDs left without a slot
	SlotsKept int
	SlotsNew  int
}

type availabilityService struct {
	repo      repository.AvailabilityRepository
	validator *validator.AvailabilityValidator
	cfg       *config.Config
	events    *kafka.Publisher
	now       func() time.Time
}

func NewAvailabilityService(
	repo repository.AvailabilityRepository,
	validator *validator.AvailabilityValidator,
	cfg *config.Config,
	events *kafka.Publisher,
) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		events:    events,
		now:       time.Now,
	}
}

func (s *availabilityService) Create(ctx context.Context, actor middleware.Actor, av *model.Availability) error {
	if actor.Role != middleware.RoleDoctor || actor.ID != av.DoctorID {
		return apperrors.Unauthorized("Only the owning doctor may publish availability")
	}

	if av.SlotDurationMin > 0 && av.SlotDurationMin < s.cfg.MinSlotDurationMin {
		return apperrors.Validation("Availability validation failed", map[string]any{
			"error": "slot_duration_min is below the configured minimum",
		})
	}

	if err := s.validator.Validate(av); err != nil {
		s.cfg.Log.Warn("Availability validation failed",
			"doctor_id", av.DoctorID,
			"error", err,
		)
		return apperrors.Validation("Availability validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	window, err := timewindow.NewInterval(av.StartTime, av.EndTime)
	if err != nil {
		return apperrors.Validation("Availability validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	dates, err := timewindow.NextWeekdayOccurrences(av.Date, string(av.Weekday), s.cfg.HorizonWeeks)
	if err != nil {
		return apperrors.Validation("Availability validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	exists, err := s.repo.DoctorExists(ctx, av.DoctorID)
	if err != nil {
		s.cfg.Log.Error("Failed to check doctor existence", "doctor_id", av.DoctorID, "error", err)
		return apperrors.Internal("Failed to verify doctor", err)
	}
	if !exists {
		return apperrors.NotFoundWithID("Doctor", av.DoctorID)
	}

	av.IsAvailable = true

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		sameDay, err := s.repo.FindByDoctorAndWeekday(sessCtx, av.DoctorID, av.Weekday, av.Session)
		if err != nil {
			return apperrors.Internal("Failed to check for overlapping availability", err)
		}

		for _, existing := range sameDay {
			other, err := timewindow.NewInterval(existing.StartTime, existing.EndTime)
			if err != nil {
				continue
			}
			if window.Overlaps(other) {
				return apperrors.Conflict("Availability overlaps an existing window on the same weekday")
			}
		}

		if err := s.repo.Create(sessCtx, av); err != nil {
			return apperrors.Internal("Failed to create availability", err)
		}

		return s.repo.InsertSlots(sessCtx, generateSlots(av, window, dates))
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create availability",
			"doctor_id", av.DoctorID,
			"weekday", av.Weekday,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Availability created successfully",
		"id", av.ID,
		"doctor_id", av.DoctorID,
		"weekday", av.Weekday,
		"occurrences", len(dates),
	)

	s.events.Emit(ctx, kafka.EventAvailabilityCreated, av.DoctorID, av)
	return nil
}

// generateSlots tiles the window over every occurrence date. Remainders
// shorter than the slot duration are dropped.
func generateSlots(av *model.Availability, window timewindow.Interval, dates []string) []*model.Slot {
	intervals := timewindow.Tile(window, av.SlotDurationMin)

	slots := make([]*model.Slot, 0, len(intervals)*len(dates))
	for _, date := range dates {
		for _, iv := range intervals {
			slots = append(slots, &model.Slot{
				AvailabilityID: av.ID,
				Date:           date,
				StartTime:      iv.StartClock(),
				EndTime:        iv.EndClock(),
				Mode:           av.Mode,
			})
		}
	}
	return slots
}

func (s *availabilityService) GetByID(ctx context.Context, id string) (*model.Availability, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Availability ID cannot be empty")
	}

	av, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Availability", id)
		}
		if errors.Is(err, availabilityerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid availability ID format")
		}
		s.cfg.Log.Error("Failed to get availability by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability", err)
	}

	return av, nil
}

func (s *availabilityService) GetByDoctor(ctx context.Context, doctorID string, limit int, offset int64) ([]*model.Availability, int64, error) {
	if doctorID == "" {
		return nil, 0, apperrors.InvalidInput("Doctor ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	avs, err := s.repo.FindByDoctor(ctx, doctorID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list availabilities", "doctor_id", doctorID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve availabilities", err)
	}

	count, err := s.repo.CountByDoctor(ctx, doctorID)
	if err != nil {
		s.cfg.Log.Error("Failed to count availabilities", "doctor_id", doctorID, "error", err)
		return nil, 0, apperrors.Internal("Failed to count availabilities", err)
	}

	return avs, count, nil
}

func (s *availabilityService) GetDoctorSlots(ctx context.Context, doctorID string, date string) ([]*model.Slot, error) {
	if doctorID == "" {
		return nil, apperrors.InvalidInput("Doctor ID cannot be empty")
	}
	if date != "" {
		if _, err := time.Parse(timewindow.DateLayout, date); err != nil {
			return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
		}
	}

	slots, err := s.repo.FindSlotsByDoctor(ctx, doctorID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to list doctor slots", "doctor_id", doctorID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve slots", err)
	}
	return slots, nil
}

func (s *availabilityService) DeleteSlot(ctx context.Context, actor middleware.Actor, slotID string) error {
	if slotID == "" {
		return apperrors.InvalidInput("Slot ID cannot be empty")
	}

	slot, err := s.repo.FindSlotByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrSlotNotFound) {
			return apperrors.NotFoundWithID("Slot", slotID)
		}
		if errors.Is(err, availabilityerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid slot ID format")
		}
		s.cfg.Log.Error("Failed to get slot", "id", slotID, "error", err)
		return apperrors.Internal("Failed to retrieve slot", err)
	}

	av, err := s.repo.FindByID(ctx, slot.AvailabilityID)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve slot owner", "slot_id", slotID, "error", err)
		return apperrors.Internal("Failed to resolve slot owner", err)
	}

	if actor.Role != middleware.RoleDoctor || actor.ID != av.DoctorID {
		return apperrors.Unauthorized("Only the owning doctor may remove a slot")
	}

	if slot.BookingCount > 0 {
		return apperrors.Conflict("Slot has active bookings and cannot be removed")
	}

	if err := s.repo.DeleteSlot(ctx, slotID); err != nil {
		s.cfg.Log.Error("Failed to delete slot", "id", slotID, "error", err)
		return apperrors.Internal("Failed to delete slot", err)
	}

	s.cfg.Log.Info("Slot deleted", "id", slotID, "availability_id", slot.AvailabilityID)
	return nil
}

func (s *availabilityService) Reshape(ctx context.Context, actor middleware.Actor, availabilityID string, req *model.ReshapeRequest) (*model.ElasticSchedule, error) {
	if availabilityID == "" {
		return nil, apperrors.InvalidInput("Availability ID cannot be empty")
	}

	if err := s.validator.ValidateReshape(req); err != nil {
		return nil, apperrors.Validation("Reshape validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	av, err := s.GetByID(ctx, availabilityID)
	if err != nil {
		return nil, err
	}

	if actor.Role != middleware.RoleDoctor || actor.ID != av.DoctorID {
		return nil, apperrors.Unauthorized("Only the owning doctor may reshape this availability")
	}

	current, err := timewindow.NewInterval(av.StartTime, av.EndTime)
	if err != nil {
		return nil, apperrors.Internal("Stored availability window is malformed", err)
	}
	proposed, err := timewindow.NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, apperrors.Validation("Reshape validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if current.Equal(proposed) {
		return nil, apperrors.Validation("Reshaped window must differ from the current window", nil)
	}

	occurrenceStart, err := timewindow.OccurrenceStart(av.Date, av.StartTime, time.UTC)
	if err != nil {
		return nil, apperrors.Internal("Stored availability date is malformed", err)
	}
	if s.now().After(occurrenceStart.Add(-s.cfg.RescheduleLockout)) {
		return nil, apperrors.Forbidden("Reshape window has closed for this occurrence")
	}

	duplicate, err := s.repo.FindElasticSchedule(ctx, av.Date, av.Weekday, req.StartTime, req.EndTime)
	if err != nil {
		s.cfg.Log.Error("Failed to check for duplicate elastic schedule", "availability_id", availabilityID, "error", err)
		return nil, apperrors.Internal("Failed to check for duplicate reshape", err)
	}
	if duplicate != nil {
		return nil, apperrors.Conflict("An identical reshape already exists for this occurrence")
	}

	outcome := &ReshapeOutcome{}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindSlotsByAvailabilityAndDate(sessCtx, availabilityID, av.Date)
		if err != nil {
			return apperrors.Internal("Failed to load slots for reshape", err)
		}

		plan := planner.Reshape(current, proposed, existing, av.SlotDurationMin)

		es := &model.ElasticSchedule{
			AvailabilityID:  av.ID,
			Date:            av.Date,
			Weekday:         av.Weekday,
			Session:         av.Session,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			Mode:            av.Mode,
			MaxBookings:     av.MaxBookings,
			SlotDurationMin: av.SlotDurationMin,
		}
		if err := s.repo.CreateElasticSchedule(sessCtx, es); err != nil {
			return apperrors.Internal("Failed to record reshape", err)
		}

		created := make([]*model.Slot, 0, len(plan.Create))
		for i := range plan.Create {
			slot := plan.Create[i]
			slot.AvailabilityID = av.ID
			slot.ElasticScheduleID = es.ID
			slot.Date = av.Date
			slot.Mode = av.Mode
			created = append(created, &slot)
		}
		if err := s.repo.InsertSlots(sessCtx, created); err != nil {
			return apperrors.Internal("Failed to insert reshaped slots", err)
		}

		if err := s.migrateAppointments(sessCtx, plan, created, av, outcome); err != nil {
			return err
		}

		// Outside and shrunk reshapes retire the published window; the
		// elastic slots carry the occurrence from here on.
		if plan.Shape != planner.Expanded {
			if err := s.repo.UpdateAvailabilityStatus(sessCtx, av.ID, false); err != nil {
				return apperrors.Internal("Failed to deactivate reshaped availability", err)
			}
		}

		deleteIDs := make([]string, 0, len(plan.Delete))
		for _, slot := range plan.Delete {
			deleteIDs = append(deleteIDs, slot.ID)
		}
		if err := s.repo.DeleteSlots(sessCtx, deleteIDs); err != nil {
			return apperrors.Internal("Failed to delete displaced slots", err)
		}

		outcome.Schedule = es
		outcome.SlotsKept = len(plan.Keep)
		outcome.SlotsNew = len(created)
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reshape availability",
			"availability_id", availabilityID,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Availability reshaped",
		"availability_id", availabilityID,
		"elastic_schedule_id", outcome.Schedule.ID,
		"slots_kept", outcome.SlotsKept,
		"slots_created", outcome.SlotsNew,
		"appointments_migrated", len(outcome.Migrated),
		"appointments_orphaned", len(outcome.Orphaned),
	)

	s.events.Emit(ctx, kafka.EventScheduleReshaped, av.DoctorID, outcome.Schedule)
	for _, id := range outcome.Migrated {
		s.events.Emit(ctx, kafka.EventAppointmentRescheduled, id, map[string]string{"appointment_id": id})
	}
	for _, id := range outcome.Orphaned {
		s.events.Emit(ctx, kafka.EventAppointmentOrphaned, id, map[string]string{"appointment_id": id})
	}

	return outcome.Schedule, nil
}

// migrateAppointments moves every active appointment on a deleted slot into
// the earliest surviving or newly created slot with room. When the reshape moved
// the window entirely (Outside) and an appointment cannot be placed, the
// whole reshape fails. Otherwise the appointment is orphaned: status pending,
// slot reference cleared.
func (s *availabilityService) migrateAppointments(
	sessCtx mongo.SessionContext,
	plan *planner.Plan,
	created []*model.Slot,
	av *model.Availability,
	outcome *ReshapeOutcome,
) error {
	deleteIDs := make([]string, 0, len(plan.Delete))
	for _, slot := range plan.Delete {
		deleteIDs = append(deleteIDs, slot.ID)
	}

	displaced, err := s.repo.FindAppointmentsBySlotIDs(sessCtx, deleteIDs)
	if err != nil {
		return apperrors.Internal("Failed to load displaced appointments", err)
	}
	if len(displaced) == 0 {
		return nil
	}

	maxBookings := 0
	if av.MaxBookings != nil {
		maxBookings = *av.MaxBookings
	}
	discipline, err := booking.For(av.Mode, maxBookings)
	if err != nil {
		return apperrors.Internal("Failed to resolve booking discipline", err)
	}

	targets := append(append([]*model.Slot{}, plan.Keep...), created...)
	sort.Slice(targets, func(i, j int) bool {
		return targets[i].StartTime < targets[j].StartTime
	})

	for _, appt := range displaced {
		placed := false
		for _, target := range targets {
			if !discipline.HasRoom(target) {
				continue
			}
			if err := discipline.Book(target); err != nil {
				continue
			}
			if err := s.repo.UpdateSlotBooking(sessCtx, target); err != nil {
				return apperrors.Internal("Failed to persist migrated booking", err)
			}
			if err := s.repo.UpdateAppointmentSlot(sessCtx, appt.ID, target.ID, model.StatusRescheduled); err != nil {
				return apperrors.Internal("Failed to re-point appointment", err)
			}
			outcome.Migrated = append(outcome.Migrated, appt.ID)
			placed = true
			break
		}

		if placed {
			continue
		}

		if plan.Shape == planner.Outside {
			return apperrors.NotFound("No slot with capacity for displaced appointment")
		}

		if err := s.repo.UpdateAppointmentSlot(sessCtx, appt.ID, "", model.StatusPending); err != nil {
			return apperrors.Internal("Failed to orphan appointment", err)
		}
		outcome.Orphaned = append(outcome.Orphaned, appt.ID)
	}

	return nil
}
