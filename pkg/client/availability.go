package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"mediq/pkg/model"
)

type AvailabilityClient struct {
	httpClient *HttpClient
}

func NewAvailabilityClient(baseUrl string) *AvailabilityClient {
	return &AvailabilityClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *AvailabilityClient) Create(ctx context.Context, body any, headers map[string]string) (*Response, error) {
	return c.httpClient.POSTWithHeaders(ctx, "/api/v1/availabilities", body, headers)
}

func (c *AvailabilityClient) GetByID(ctx context.Context, id string, headers map[string]string) (*Response, error) {
	path := "/api/v1/availabilities/id/" + url.PathEscape(id)
	return c.httpClient.GETWithHeaders(ctx, path, headers)
}

func (c *AvailabilityClient) GetByDoctor(ctx context.Context, doctorID string, limit int, offset int64, headers map[string]string) (*Response, error) {
	path := fmt.Sprintf("/api/v1/availabilities/doctor/%s?limit=%d&offset=%d", url.PathEscape(doctorID), limit, offset)
	return c.httpClient.GETWithHeaders(ctx, path, headers)
}

func (c *AvailabilityClient) GetDoctorSlots(ctx context.Context, doctorID string, date string, headers map[string]string) (*Response, error) {
	path := "/api/v1/availabilities/doctor/" + url.PathEscape(doctorID) + "/slots"
	if date != "" {
		q := url.Values{}
		q.Set("date", date)
		path += "?" + q.Encode()
	}
	return c.httpClient.GETWithHeaders(ctx, path, headers)
}

func (c *AvailabilityClient) Reshape(ctx context.Context, id string, body any, headers map[string]string) (*Response, error) {
	path := "/api/v1/availabilities/id/" + url.PathEscape(id) + "/reshape"
	return c.httpClient.PATCHWithHeaders(ctx, path, body, headers)
}

func (c *AvailabilityClient) DeleteSlot(ctx context.Context, slotID string, headers map[string]string) (*Response, error) {
	path := "/api/v1/slots/id/" + url.PathEscape(slotID)
	return c.httpClient.DELETEWithHeaders(ctx, path, headers)
}

func (c *AvailabilityClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}

func (c *AvailabilityClient) DecodeAvailability(resp *Response) (*model.Availability, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode availability wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var availability model.Availability
	if err := json.Unmarshal(wrapper.Data, &availability); err != nil {
		return nil, fmt.Errorf("could not decode availability:\n%+v\n%s", resp.ToString(), err)
	}

	return &availability, nil
}

func (c *AvailabilityClient) DecodeSlots(resp *Response) ([]model.Slot, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode slots wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var slots []model.Slot
	if err := json.Unmarshal(wrapper.Data, &slots); err != nil {
		return nil, fmt.Errorf("could not decode slots:\n%+v\n%s", resp.ToString(), err)
	}

	return slots, nil
}
