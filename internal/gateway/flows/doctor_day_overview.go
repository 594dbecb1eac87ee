package flows

import (
	"fmt"
	"net/http"
	"sort"

	gateway "mediq/internal/gateway/core"
	"mediq/internal/gateway/types"
	"mediq/pkg/client"
	"mediq/pkg/config"
)

// DoctorDayOverview assembles one doctor's slots for a date together
// with the appointments sitting in them. The appointment listing is
// restricted to the doctor themselves, so the caller's identity is
// forwarded as-is.
func DoctorDayOverview(ctx *gateway.GatewayContext) error {
	input, err := types.FromMapDoctorDayOverview(ctx.Input)
	if err != nil {
		return err
	}

	resp, err := ctx.Client.DirectoryClient.GetDoctor(ctx.Ctx, input.DoctorID, ctx.Headers)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("doctor lookup failed: %s", client.GetErrorMessage(resp))
	}
	doctor, err := ctx.Client.DirectoryClient.DecodeDoctor(resp)
	if err != nil {
		return err
	}

	resp, err = ctx.Client.AvailabilityClient.GetDoctorSlots(ctx.Ctx, input.DoctorID, input.Date, ctx.Headers)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slot lookup failed: %s", client.GetErrorMessage(resp))
	}
	slots, err := ctx.Client.AvailabilityClient.DecodeSlots(resp)
	if err != nil {
		return err
	}

	resp, err = ctx.Client.AppointmentClient.GetByDoctor(ctx.Ctx, input.DoctorID, config.DefaultPaginationLimit, 0, ctx.Headers)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("appointment lookup failed: %s", client.GetErrorMessage(resp))
	}
	appointments, err := ctx.Client.AppointmentClient.DecodeAppointments(resp)
	if err != nil {
		return err
	}

	bySlot := map[string][]*types.DayAppointment{}
	for _, appointment := range appointments {
		if appointment.SlotID == "" {
			continue
		}
		bySlot[appointment.SlotID] = append(bySlot[appointment.SlotID], &types.DayAppointment{
			AppointmentID: appointment.ID,
			PatientID:     appointment.PatientID,
			Status:        appointment.Status,
		})
	}

	overview := &types.DayOverview{
		Doctor: doctor,
		Date:   input.Date,
		Slots:  make([]*types.DaySlot, 0, len(slots)),
	}
	for _, slot := range slots {
		overview.Slots = append(overview.Slots, &types.DaySlot{
			SlotID:       slot.ID,
			StartTime:    slot.StartTime,
			EndTime:      slot.EndTime,
			Mode:         slot.Mode,
			BookingCount: slot.BookingCount,
			IsBooked:     slot.IsBooked,
			IsElastic:    slot.IsElastic,
			Appointments: bySlot[slot.ID],
		})
	}
	sort.Slice(overview.Slots, func(i, j int) bool {
		return overview.Slots[i].StartTime < overview.Slots[j].StartTime
	})

	ctx.Output["result"] = overview
	return nil
}
