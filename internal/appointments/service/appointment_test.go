package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"mediq/internal/appointments/validator"
	"mediq/pkg/config"
	mongotx "mediq/pkg/db/mongo"
	apperrors "mediq/pkg/errors"
	"mediq/pkg/logger"
	"mediq/pkg/middleware"
	"mediq/pkg/model"
)

const (
	testDoctorID       = "64a000000000000000000001"
	testPatientID      = "64a000000000000000000002"
	testAvailabilityID = "64a000000000000000000003"
	testSlotID         = "64b000000000000000000001"
	testTargetSlotID   = "64b000000000000000000002"
	testAppointmentID  = "64d000000000000000000001"
)

type mockAppointmentRepository struct {
	createFunc              func(ctx context.Context, appt *model.Appointment) error
	findByIDFunc            func(ctx context.Context, id string) (*model.Appointment, error)
	findByPatientFunc       func(ctx context.Context, patientID string, limit int, offset int64) ([]*model.Appointment, error)
	countByPatientFunc      func(ctx context.Context, patientID string) (int64, error)
	findByDoctorFunc        func(ctx context.Context, doctorID string, limit int, offset int64) ([]*model.Appointment, error)
	countByDoctorFunc       func(ctx context.Context, doctorID string) (int64, error)
	updateSlotAndStatusFunc func(ctx context.Context, id string, slotID string, status model.AppointmentStatus) error
	findSlotByIDFunc        func(ctx context.Context, id string) (*model.Slot, error)
	updateSlotBookingFunc   func(ctx context.Context, slot *model.Slot) error
	findAvailabilityFunc    func(ctx context.Context, id string) (*model.Availability, error)
	patientExistsFunc       func(ctx context.Context, id string) (bool, error)
	doctorExistsFunc        func(ctx context.Context, id string) (bool, error)
}

func (m *mockAppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, appt)
	}
	appt.ID = testAppointmentID
	return nil
}

func (m *mockAppointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAppointmentRepository) FindByPatient(ctx context.Context, patientID string, limit int, offset int64) ([]*model.Appointment, error) {
	if m.findByPatientFunc != nil {
		return m.findByPatientFunc(ctx, patientID, limit, offset)
	}
	return nil, nil
}

func (m *mockAppointmentRepository) CountByPatient(ctx context.Context, patientID string) (int64, error) {
	if m.countByPatientFunc != nil {
		return m.countByPatientFunc(ctx, patientID)
	}
	return 0, nil
}

func (m *mockAppointmentRepository) FindByDoctor(ctx context.Context, doctorID string, limit int, offset int64) ([]*model.Appointment, error) {
	if m.findByDoctorFunc != nil {
		return m.findByDoctorFunc(ctx, doctorID, limit, offset)
	}
	return nil, nil
}

func (m *mockAppointmentRepository) CountByDoctor(ctx context.Context, doctorID string) (int64, error) {
	if m.countByDoctorFunc != nil {
		return m.countByDoctorFunc(ctx, doctorID)
	}
	return 0, nil
}

func (m *mockAppointmentRepository) UpdateSlotAndStatus(ctx context.Context, id string, slotID string, status model.AppointmentStatus) error {
	if m.updateSlotAndStatusFunc != nil {
		return m.updateSlotAndStatusFunc(ctx, id, slotID, status)
	}
	return nil
}

func (m *mockAppointmentRepository) FindSlotByID(ctx context.Context, id string) (*model.Slot, error) {
	if m.findSlotByIDFunc != nil {
		return m.findSlotByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAppointmentRepository) UpdateSlotBooking(ctx context.Context, slot *model.Slot) error {
	if m.updateSlotBookingFunc != nil {
		return m.updateSlotBookingFunc(ctx, slot)
	}
	return nil
}

func (m *mockAppointmentRepository) FindAvailabilityByID(ctx context.Context, id string) (*model.Availability, error) {
	if m.findAvailabilityFunc != nil {
		return m.findAvailabilityFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAppointmentRepository) PatientExists(ctx context.Context, id string) (bool, error) {
	if m.patientExistsFunc != nil {
		return m.patientExistsFunc(ctx, id)
	}
	return true, nil
}

func (m *mockAppointmentRepository) DoctorExists(ctx context.Context, id string) (bool, error) {
	if m.doctorExistsFunc != nil {
		return m.doctorExistsFunc(ctx, id)
	}
	return true, nil
}

func (m *mockAppointmentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

func newTestService(repo *mockAppointmentRepository) *appointmentService {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})

	cfg := &config.Config{
		Log:               log,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		RescheduleLockout: 4 * time.Hour,
	}

	return &appointmentService{
		repo:      repo,
		validator: validator.NewAppointmentValidator(log),
		cfg:       cfg,
		now:       func() time.Time { return time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func patientActor() middleware.Actor {
	return middleware.Actor{ID: testPatientID, Role: middleware.RolePatient}
}

func streamSlot(id string) *model.Slot {
	return &model.Slot{
		ID:             id,
		AvailabilityID: testAvailabilityID,
		Date:           "2025-08-04",
		StartTime:      "09:00",
		EndTime:        "09:30",
		Mode:           model.ModeStream,
	}
}

func streamAvailability() *model.Availability {
	return &model.Availability{
		ID:          testAvailabilityID,
		DoctorID:    testDoctorID,
		Date:        "2025-08-04",
		Weekday:     model.Monday,
		StartTime:   "09:00",
		EndTime:     "11:00",
		Mode:        model.ModeStream,
		IsAvailable: true,
	}
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

func TestBook_RejectsNonPatient(t *testing.T) {
	s := newTestService(&mockAppointmentRepository{})

	actor := middleware.Actor{ID: testDoctorID, Role: middleware.RoleDoctor}
	_, err := s.Book(context.Background(), actor, &model.AppointmentRequest{
		DoctorID: testDoctorID, SlotID: testSlotID,
	})
	assertAppErrorCode(t, err, apperrors.CodeUnauthorized)
}

func TestBook_StreamSlot(t *testing.T) {
	var savedSlot *model.Slot
	s := newTestService(&mockAppointmentRepository{
		findSlotByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return streamSlot(id), nil
		},
		findAvailabilityFunc: func(ctx context.Context, id string) (*model.Availability, error) {
			return streamAvailability(), nil
		},
		updateSlotBookingFunc: func(ctx context.Context, slot *model.Slot) error {
			savedSlot = slot
			return nil
		},
	})

	appt, err := s.Book(context.Background(), patientActor(), &model.AppointmentRequest{
		DoctorID: testDoctorID, SlotID: testSlotID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if appt.Status != model.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", appt.Status)
	}
	if savedSlot == nil || !savedSlot.IsBooked || savedSlot.BookingCount != 1 {
		t.Errorf("slot not booked: %+v", savedSlot)
	}
}

func TestBook_StreamConflictWhenBooked(t *testing.T) {
	s := newTestService(&mockAppointmentRepository{
		findSlotByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			slot := streamSlot(id)
			slot.BookingCount = 1
			slot.IsBooked = true
			return slot, nil
		},
		findAvailabilityFunc: func(ctx context.Context, id string) (*model.Availability, error) {
			return streamAvailability(), nil
		},
	})

	_, err := s.Book(context.Background(), patientActor(), &model.AppointmentRequest{
		DoctorID: testDoctorID, SlotID: testSlotID,
	})
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestBook_RejectsWithdrawnWindow(t *testing.T) {
	s := newTestService(&mockAppointmentRepository{
		findSlotByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return streamSlot(id), nil
		},
		findAvailabilityFunc: func(ctx context.Context, id string) (*model.Availability, error) {
			av := streamAvailability()
			av.IsAvailable = false
			return av, nil
		},
	})

	_, err := s.Book(context.Background(), patientActor(), &model.AppointmentRequest{
		DoctorID: testDoctorID, SlotID: testSlotID,
	})
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestBook_ElasticSlotSurvivesWithdrawnWindow(t *testing.T) {
	// A reshape deactivates the original window but leaves elastic slots
	// behind; those stay bookable.
	var savedSlot *model.Slot
	s := newTestService(&mockAppointmentRepository{
		findSlotByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			slot := streamSlot(id)
			slot.IsElastic = true
			slot.ElasticScheduleID = "64c000000000000000000001"
			return slot, nil
		},
		findAvailabilityFunc: func(ctx context.Context, id string) (*model.Availability, error) {
			av := streamAvailability()
			av.IsAvailable = false
			return av, nil
		},
		updateSlotBookingFunc: func(ctx context.Context, slot *model.Slot) error {
			savedSlot = slot
			return nil
		},
	})

	appt, err := s.Book(context.Background(), patientActor(), &model.AppointmentRequest{
		DoctorID: testDoctorID, SlotID: testSlotID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != model.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", appt.Status)
	}
	if savedSlot == nil || !savedSlot.IsBooked {
		t.Errorf("slot not booked: %+v", savedSlot)
	}
}

func TestBook_WaveFillsToCapacity(t *testing.T) {
	max := 2
	slot := &model.Slot{
		ID:             testSlotID,
		AvailabilityID: testAvailabilityID,
		Date:           "2025-08-04",
		StartTime:      "09:00",
		EndTime:        "09:30",
		Mode:           model.ModeWave,
		BookingCount:   1,
	}

	av := streamAvailability()
	av.Mode = model.ModeWave
	av.MaxBookings = &max

	var savedSlot *model.Slot
	s := newTestService(&mockAppointmentRepository{
		findSlotByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return slot, nil
		},
		findAvailabilityFunc: func(ctx context.Context, id string) (*model.Availability, error) {
			return av, nil
		},
		updateSlotBookingFunc: func(ctx context.Context, s *model.Slot) error {
			savedSlot = s
			return nil
		},
	})

	_, err := s.Book(context.Background(), patientActor(), &model.AppointmentRequest{
		DoctorID: testDoctorID, SlotID: testSlotID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if savedSlot.BookingCount != 2 || !savedSlot.IsBooked {
		t.Errorf("second wave booking should fill the slot: %+v", savedSlot)
	}

	// a third booking must be rejected
	_, err = s.Book(context.Background(), patientActor(), &model.AppointmentRequest{
		DoctorID: testDoctorID, SlotID: testSlotID,
	})
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestBook_RejectsForeignDoctorSlot(t *testing.T) {
	s := newTestService(&mockAppointmentRepository{
		findSlotByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return streamSlot(id), nil
		},
		findAvailabilityFunc: func(ctx context.Context, id string) (*model.Availability, error) {
			av := streamAvailability()
			av.DoctorID = "64a0000000000000000000ff"
			return av, nil
		},
	})

	_, err := s.Book(context.Background(), patientActor(), &model.AppointmentRequest{
		DoctorID: testDoctorID, SlotID: testSlotID,
	})
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestCancel_ReleasesSlotImmediately(t *testing.T) {
	slot := streamSlot(testSlotID)
	slot.BookingCount = 1
	slot.IsBooked = true

	var savedSlot *model.Slot
	var clearedSlotID string
	var newStatus model.AppointmentStatus
	s := newTestService(&mockAppointmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			return &model.Appointment{
				ID: id, PatientID: testPatientID, DoctorID: testDoctorID,
				SlotID: testSlotID, Status: model.StatusConfirmed,
			}, nil
		},
		findSlotByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return slot, nil
		},
		findAvailabilityFunc: func(ctx context.Context, id string) (*model.Availability, error) {
			return streamAvailability(), nil
		},
		updateSlotBookingFunc: func(ctx context.Context, s *model.Slot) error {
			savedSlot = s
			return nil
		},
		updateSlotAndStatusFunc: func(ctx context.Context, id string, slotID string, status model.AppointmentStatus) error {
			clearedSlotID = slotID
			newStatus = status
			return nil
		},
	})

	if err := s.Cancel(context.Background(), patientActor(), testAppointmentID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if savedSlot.IsBooked || savedSlot.BookingCount != 0 {
		t.Errorf("slot capacity not freed: %+v", savedSlot)
	}
	if clearedSlotID != "" {
		t.Errorf("appointment slot should be cleared, got %q", clearedSlotID)
	}
	if newStatus != model.StatusCancelled {
		t.Errorf("status = %s, want cancelled", newStatus)
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	s := newTestService(&mockAppointmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			return &model.Appointment{
				ID: id, PatientID: testPatientID, DoctorID: testDoctorID,
				Status: model.StatusCancelled,
			}, nil
		},
	})

	err := s.Cancel(context.Background(), patientActor(), testAppointmentID)
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestCancel_RejectsStranger(t *testing.T) {
	s := newTestService(&mockAppointmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			return &model.Appointment{
				ID: id, PatientID: testPatientID, DoctorID: testDoctorID,
				Status: model.StatusConfirmed,
			}, nil
		},
	})

	actor := middleware.Actor{ID: "64a0000000000000000000ff", Role: middleware.RolePatient}
	err := s.Cancel(context.Background(), actor, testAppointmentID)
	assertAppErrorCode(t, err, apperrors.CodeUnauthorized)
}

func TestMove_BooksTargetBeforeReleasingSource(t *testing.T) {
	source := streamSlot(testSlotID)
	source.BookingCount = 1
	source.IsBooked = true
	target := streamSlot(testTargetSlotID)
	target.Date = "2025-08-11"

	var order []string
	s := newTestService(&mockAppointmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			return &model.Appointment{
				ID: id, PatientID: testPatientID, DoctorID: testDoctorID,
				SlotID: testSlotID, Status: model.StatusConfirmed,
			}, nil
		},
		findSlotByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			if id == testTargetSlotID {
				return target, nil
			}
			return source, nil
		},
		findAvailabilityFunc: func(ctx context.Context, id string) (*model.Availability, error) {
			return streamAvailability(), nil
		},
		updateSlotBookingFunc: func(ctx context.Context, slot *model.Slot) error {
			order = append(order, slot.ID)
			return nil
		},
	})

	appt, err := s.Move(context.Background(), patientActor(), testAppointmentID, &model.MoveRequest{
		SlotID: testTargetSlotID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(order) != 2 || order[0] != testTargetSlotID || order[1] != testSlotID {
		t.Errorf("slot update order = %v, want target booked before source released", order)
	}
	if !target.IsBooked || source.IsBooked {
		t.Errorf("target booked=%v source booked=%v", target.IsBooked, source.IsBooked)
	}
	if appt.Status != model.StatusRescheduled || appt.SlotID != testTargetSlotID {
		t.Errorf("appointment after move: %+v", appt)
	}
}

func TestMove_ConflictLeavesSourceIntact(t *testing.T) {
	source := streamSlot(testSlotID)
	source.BookingCount = 1
	source.IsBooked = true
	target := streamSlot(testTargetSlotID)
	target.Date = "2025-08-11"
	target.BookingCount = 1
	target.IsBooked = true

	s := newTestService(&mockAppointmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			return &model.Appointment{
				ID: id, PatientID: testPatientID, DoctorID: testDoctorID,
				SlotID: testSlotID, Status: model.StatusConfirmed,
			}, nil
		},
		findSlotByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			if id == testTargetSlotID {
				return target, nil
			}
			return source, nil
		},
		findAvailabilityFunc: func(ctx context.Context, id string) (*model.Availability, error) {
			return streamAvailability(), nil
		},
	})

	_, err := s.Move(context.Background(), patientActor(), testAppointmentID, &model.MoveRequest{
		SlotID: testTargetSlotID,
	})
	assertAppErrorCode(t, err, apperrors.CodeConflict)

	if !source.IsBooked || source.BookingCount != 1 {
		t.Errorf("source slot must remain booked after failed move: %+v", source)
	}
}

func TestMove_LockoutForbidsLateMove(t *testing.T) {
	source := streamSlot(testSlotID)
	s := newTestService(&mockAppointmentRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			return &model.Appointment{
				ID: id, PatientID: testPatientID, DoctorID: testDoctorID,
				SlotID: testSlotID, Status: model.StatusConfirmed,
			}, nil
		},
		findSlotByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return source, nil
		},
	})
	// slot starts 2025-08-04T09:00Z; two hours before is inside the 4h lockout
	s.now = func() time.Time { return time.Date(2025, 8, 4, 7, 0, 0, 0, time.UTC) }

	_, err := s.Move(context.Background(), patientActor(), testAppointmentID, &model.MoveRequest{
		SlotID: testTargetSlotID,
	})
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestGetByPatient_RestrictedToSelf(t *testing.T) {
	s := newTestService(&mockAppointmentRepository{})

	actor := middleware.Actor{ID: "64a0000000000000000000ff", Role: middleware.RolePatient}
	_, _, err := s.GetByPatient(context.Background(), actor, testPatientID, 10, 0)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestGetByDoctor_RestrictedToSelf(t *testing.T) {
	s := newTestService(&mockAppointmentRepository{})

	actor := middleware.Actor{ID: testPatientID, Role: middleware.RolePatient}
	_, _, err := s.GetByDoctor(context.Background(), actor, testDoctorID, 10, 0)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}
