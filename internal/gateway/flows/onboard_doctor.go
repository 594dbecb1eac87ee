package flows

import (
	"fmt"
	"net/http"

	gateway "mediq/internal/gateway/core"
	"mediq/pkg/client"
	"mediq/pkg/middleware"
	"mediq/pkg/model"
)

// OnboardDoctor registers a doctor in the directory and publishes their
// first recurring availability in one call.
// requires: user_id, name, specialization, date, weekday, session,
// start_time, end_time, mode, slot_duration_min
// optional: contact, max_bookings
func OnboardDoctor(ctx *gateway.GatewayContext) error {
	userID, err := ctx.ExtractString("user_id")
	if err != nil {
		return err
	}
	name, err := ctx.ExtractString("name")
	if err != nil {
		return err
	}
	specialization, err := ctx.ExtractString("specialization")
	if err != nil {
		return err
	}

	doctor := model.Doctor{
		UserID:         userID,
		Name:           name,
		Specialization: specialization,
		Contact:        ctx.ExtractOptionalString("contact"),
	}

	resp, err := ctx.Client.DirectoryClient.CreateDoctor(ctx.Ctx, doctor, ctx.Headers)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("doctor creation failed: %s", client.GetErrorMessage(resp))
	}
	created, err := ctx.Client.DirectoryClient.DecodeDoctor(resp)
	if err != nil {
		return err
	}
	ctx.Output["doctor"] = created

	availability, err := availabilityFromInput(ctx, created.ID)
	if err != nil {
		return err
	}

	// The availability service checks window ownership against the actor,
	// and the doctor created a moment ago is that actor.
	headers := map[string]string{
		middleware.HeaderActorID:   created.ID,
		middleware.HeaderActorRole: middleware.RoleDoctor,
	}

	resp, err = ctx.Client.AvailabilityClient.Create(ctx.Ctx, availability, headers)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("availability creation failed: %s", client.GetErrorMessage(resp))
	}
	published, err := ctx.Client.AvailabilityClient.DecodeAvailability(resp)
	if err != nil {
		return err
	}
	ctx.Output["availability"] = published

	return nil
}

func availabilityFromInput(ctx *gateway.GatewayContext, doctorID string) (*model.Availability, error) {
	date, err := ctx.ExtractString("date")
	if err != nil {
		return nil, err
	}
	weekday, err := ctx.ExtractString("weekday")
	if err != nil {
		return nil, err
	}
	session, err := ctx.ExtractString("session")
	if err != nil {
		return nil, err
	}
	startTime, err := ctx.ExtractString("start_time")
	if err != nil {
		return nil, err
	}
	endTime, err := ctx.ExtractString("end_time")
	if err != nil {
		return nil, err
	}
	mode, err := ctx.ExtractString("mode")
	if err != nil {
		return nil, err
	}

	slotDuration, ok := ctx.Input["slot_duration_min"].(float64)
	if !ok {
		return nil, gateway.MissingParamErr("slot_duration_min")
	}

	availability := &model.Availability{
		DoctorID:        doctorID,
		Date:            date,
		Weekday:         model.Weekday(weekday),
		Session:         model.Session(session),
		StartTime:       startTime,
		EndTime:         endTime,
		Mode:            model.BookingMode(mode),
		SlotDurationMin: int(slotDuration),
	}

	if raw, ok := ctx.Input["max_bookings"].(float64); ok {
		maxBookings := int(raw)
		availability.MaxBookings = &maxBookings
	}

	return availability, nil
}
