package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"mediq/pkg/model"
)

type AppointmentClient struct {
	httpClient *HttpClient
}

func NewAppointmentClient(baseUrl string) *AppointmentClient {
	return &AppointmentClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *AppointmentClient) Book(ctx context.Context, body any, headers map[string]string) (*Response, error) {
	return c.httpClient.POSTWithHeaders(ctx, "/api/v1/appointments", body, headers)
}

func (c *AppointmentClient) GetByID(ctx context.Context, id string, headers map[string]string) (*Response, error) {
	path := "/api/v1/appointments/id/" + url.PathEscape(id)
	return c.httpClient.GETWithHeaders(ctx, path, headers)
}

func (c *AppointmentClient) GetByPatient(ctx context.Context, patientID string, limit int, offset int64, headers map[string]string) (*Response, error) {
	path := fmt.Sprintf("/api/v1/appointments/patient/%s?limit=%d&offset=%d", url.PathEscape(patientID), limit, offset)
	return c.httpClient.GETWithHeaders(ctx, path, headers)
}

func (c *AppointmentClient) GetByDoctor(ctx context.Context, doctorID string, limit int, offset int64, headers map[string]string) (*Response, error) {
	path := fmt.Sprintf("/api/v1/appointments/doctor/%s?limit=%d&offset=%d", url.PathEscape(doctorID), limit, offset)
	return c.httpClient.GETWithHeaders(ctx, path, headers)
}

func (c *AppointmentClient) Move(ctx context.Context, id string, body any, headers map[string]string) (*Response, error) {
	path := "/api/v1/appointments/id/" + url.PathEscape(id) + "/slot"
	return c.httpClient.PATCHWithHeaders(ctx, path, body, headers)
}

func (c *AppointmentClient) Cancel(ctx context.Context, id string, headers map[string]string) (*Response, error) {
	path := "/api/v1/appointments/id/" + url.PathEscape(id)
	return c.httpClient.DELETEWithHeaders(ctx, path, headers)
}

func (c *AppointmentClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}

func (c *AppointmentClient) DecodeAppointment(resp *Response) (*model.Appointment, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode appointment wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var appointment model.Appointment
	if err := json.Unmarshal(wrapper.Data, &appointment); err != nil {
		return nil, fmt.Errorf("could not decode appointment:\n%+v\n%s", resp.ToString(), err)
	}

	return &appointment, nil
}

func (c *AppointmentClient) DecodeAppointments(resp *Response) ([]model.Appointment, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode appointments wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var appointments []model.Appointment
	if err := json.Unmarshal(wrapper.Data, &appointments); err != nil {
		return nil, fmt.Errorf("could not decode appointments:\n%+v\n%s", resp.ToString(), err)
	}

	return appointments, nil
}
