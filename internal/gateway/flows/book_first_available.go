package flows

import (
	"fmt"
	"net/http"
	"sort"

	gateway "mediq/internal/gateway/core"
	"mediq/pkg/client"
	"mediq/pkg/model"
)

// BookFirstAvailable books the earliest open slot a doctor has. Booking
// races against other patients are absorbed by moving on to the next
// open slot whenever the service answers with a conflict.
// requires: doctor_id
// optional: date
func BookFirstAvailable(ctx *gateway.GatewayContext) error {
	doctorID, err := ctx.ExtractString("doctor_id")
	if err != nil {
		return err
	}
	date := ctx.ExtractOptionalString("date")

	resp, err := ctx.Client.AvailabilityClient.GetDoctorSlots(ctx.Ctx, doctorID, date, ctx.Headers)
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

	open := make([]model.Slot, 0, len(slots))
	for _, slot := range slots {
		if !slot.IsBooked {
			open = append(open, slot)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		if open[i].Date != open[j].Date {
			return open[i].Date < open[j].Date
		}
		return open[i].StartTime < open[j].StartTime
	})

	if len(open) == 0 {
		return fmt.Errorf("doctor %s has no open slots", doctorID)
	}

	for _, slot := range open {
		body := model.AppointmentRequest{
			DoctorID: doctorID,
			SlotID:   slot.ID,
		}
		resp, err := ctx.Client.AppointmentClient.Book(ctx.Ctx, body, ctx.Headers)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusConflict {
			continue
		}
		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("booking failed: %s", client.GetErrorMessage(resp))
		}

		appointment, err := ctx.Client.AppointmentClient.DecodeAppointment(resp)
		if err != nil {
			return err
		}
		ctx.Output["appointment"] = appointment
		ctx.Output["slot"] = slot
		return nil
	}

	return fmt.Errorf("doctor %s has no open slots", doctorID)
}
