package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"mediq/pkg/model"
)

type DirectoryClient struct {
	httpClient *HttpClient
}

func NewDirectoryClient(baseUrl string) *DirectoryClient {
	return &DirectoryClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *DirectoryClient) CreateDoctor(ctx context.Context, body any, headers map[string]string) (*Response, error) {
	return c.httpClient.POSTWithHeaders(ctx, "/api/v1/doctors", body, headers)
}

func (c *DirectoryClient) GetDoctor(ctx context.Context, id string, headers map[string]string) (*Response, error) {
	path := "/api/v1/doctors/id/" + url.PathEscape(id)
	return c.httpClient.GETWithHeaders(ctx, path, headers)
}

func (c *DirectoryClient) ListDoctors(ctx context.Context, specialization string, limit int, offset int64, headers map[string]string) (*Response, error) {
	q := url.Values{}
	if specialization != "" {
		q.Set("specialization", specialization)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	path := "/api/v1/doctors?" + q.Encode()
	return c.httpClient.GETWithHeaders(ctx, path, headers)
}

func (c *DirectoryClient) UpdateDoctor(ctx context.Context, id string, body any, headers map[string]string) (*Response, error) {
	path := "/api/v1/doctors/id/" + url.PathEscape(id)
	return c.httpClient.PATCHWithHeaders(ctx, path, body, headers)
}

func (c *DirectoryClient) CreatePatient(ctx context.Context, body any, headers map[string]string) (*Response, error) {
	return c.httpClient.POSTWithHeaders(ctx, "/api/v1/patients", body, headers)
}

func (c *DirectoryClient) GetPatient(ctx context.Context, id string, headers map[string]string) (*Response, error) {
	path := "/api/v1/patients/id/" + url.PathEscape(id)
	return c.httpClient.GETWithHeaders(ctx, path, headers)
}

func (c *DirectoryClient) UpdatePatient(ctx context.Context, id string, body any, headers map[string]string) (*Response, error) {
	path := "/api/v1/patients/id/" + url.PathEscape(id)
	return c.httpClient.PATCHWithHeaders(ctx, path, body, headers)
}

func (c *DirectoryClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}

func (c *DirectoryClient) DecodeDoctor(resp *Response) (*model.Doctor, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode doctor wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var doctor model.Doctor
	if err := json.Unmarshal(wrapper.Data, &doctor); err != nil {
		return nil, fmt.Errorf("could not decode doctor:\n%+v\n%s", resp.ToString(), err)
	}

	return &doctor, nil
}

func (c *DirectoryClient) DecodeDoctors(resp *Response) ([]model.Doctor, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode doctors wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var doctors []model.Doctor
	if err := json.Unmarshal(wrapper.Data, &doctors); err != nil {
		return nil, fmt.Errorf("could not decode doctors:\n%+v\n%s", resp.ToString(), err)
	}

	return doctors, nil
}

func (c *DirectoryClient) DecodePatient(resp *Response) (*model.Patient, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode patient wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var patient model.Patient
	if err := json.Unmarshal(wrapper.Data, &patient); err != nil {
		return nil, fmt.Errorf("could not decode patient:\n%+v\n%s", resp.ToString(), err)
	}

	return &patient, nil
}
