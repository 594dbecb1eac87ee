package core

import (
	"context"

	"mediq/pkg/client"
	"mediq/pkg/logger"
)

// GatewayContext carries one flow execution: the caller's input, scratch
// state shared between steps, and the output returned to the caller.
// Headers hold the actor identity forwarded to downstream services.
type GatewayContext struct {
	Ctx     context.Context
	Input   map[string]any
	Process map[string]any
	Output  map[string]any
	Headers map[string]string
	Client  *client.Client
	Log     *logger.Logger
}

func NewGatewayContext(ctx context.Context, input map[string]any, headers map[string]string, client *client.Client, log *logger.Logger) *GatewayContext {
	return &GatewayContext{
		Ctx:     ctx,
		Input:   input,
		Process: make(map[string]any),
		Output:  make(map[string]any),
		Headers: headers,
		Client:  client,
		Log:     log,
	}
}

func (c *GatewayContext) ExtractString(key string) (string, error) {
	raw, ok := c.Input[key]
	if !ok {
		return "", MissingParamErr(key)
	}
	str, ok := raw.(string)
	if !ok || IsMissing(str) {
		return "", MissingParamErr(key)
	}
	return str, nil
}

// ExtractOptionalString returns "" when the key is absent or not a string.
func (c *GatewayContext) ExtractOptionalString(key string) string {
	raw, ok := c.Input[key]
	if !ok {
		return ""
	}
	str, _ := raw.(string)
	return str
}
