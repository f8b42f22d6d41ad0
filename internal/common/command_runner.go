package common

import (
	"context"

	"salaryinsights/internal/errors"
)

// FlowFunc is any generation flow
type FlowFunc[Input, Output any] func(context.Context, Input) (Output, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// RunFlowCommand runs one flow and writes its presented result. present maps
// the flow output to the value handed to the formatters; nil writes the
// output itself. The raw output is returned for follow-up work.
func RunFlowCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	input Input,
	flow FlowFunc[Input, Output],
	present func(Output) any,
	logDetails LogDetailsFunc[Input],
) (Output, error) {
	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	result, err := flow(ctx, input)
	if err != nil {
		var zero Output
		return zero, err
	}

	var data any = result
	if present != nil {
		data = present(result)
	}

	return result, NewOutputHandler(logger).HandleOutput(data, cmdConfig)
}
