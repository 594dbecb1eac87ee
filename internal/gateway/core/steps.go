package core

type Step struct {
	Name    string
	Execute func(ctx *GatewayContext) error
}

func NewStep(name string, execute func(ctx *GatewayContext) error) *Step {
	return &Step{
		Name:    name,
		Execute: execute,
	}
}
