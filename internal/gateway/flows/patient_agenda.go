package flows

import (
	"fmt"
	"net/http"
	"sync"

	gateway "mediq/internal/gateway/core"
	"mediq/pkg/client"
	"mediq/pkg/config"
	"mediq/pkg/model"
)

// PatientAgenda lists a patient's appointments enriched with the doctor
// behind each one. Doctor lookups fan out concurrently under the shared
// request limiter.
// requires: patient_id
func PatientAgenda(ctx *gateway.GatewayContext) error {
	patientID, err := ctx.ExtractString("patient_id")
	if err != nil {
		return err
	}

	resp, err := ctx.Client.DirectoryClient.GetPatient(ctx.Ctx, patientID, ctx.Headers)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("patient lookup failed: %s", client.GetErrorMessage(resp))
	}
	patient, err := ctx.Client.DirectoryClient.DecodePatient(resp)
	if err != nil {
		return err
	}

	resp, err = ctx.Client.AppointmentClient.GetByPatient(ctx.Ctx, patientID, config.DefaultPaginationLimit, 0, ctx.Headers)
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

	doctorIDs := map[string]struct{}{}
	for _, appointment := range appointments {
		doctorIDs[appointment.DoctorID] = struct{}{}
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		doctors = make(map[string]*model.Doctor, len(doctorIDs))
		errs    []error
	)
	for doctorID := range doctorIDs {
		wg.Add(1)
		go func(doctorID string) {
			defer wg.Done()
			gateway.RunWithRateLimitedConcurrency(func() {
				resp, err := ctx.Client.DirectoryClient.GetDoctor(ctx.Ctx, doctorID, ctx.Headers)
				if err == nil && resp.StatusCode != http.StatusOK {
					err = fmt.Errorf("doctor lookup failed: %s", client.GetErrorMessage(resp))
				}
				var doctor *model.Doctor
				if err == nil {
					doctor, err = ctx.Client.DirectoryClient.DecodeDoctor(resp)
				}

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return
				}
				doctors[doctorID] = doctor
			})
		}(doctorID)
	}
	wg.Wait()

	if len(errs) > 0 {
		return errs[0]
	}

	type agendaEntry struct {
		Appointment model.Appointment `json:"appointment"`
		Doctor      *model.Doctor     `json:"doctor"`
	}

	agenda := make([]agendaEntry, 0, len(appointments))
	for _, appointment := range appointments {
		agenda = append(agenda, agendaEntry{
			Appointment: appointment,
			Doctor:      doctors[appointment.DoctorID],
		})
	}

	ctx.Output["patient"] = patient
	ctx.Output["agenda"] = agenda
	return nil
}
