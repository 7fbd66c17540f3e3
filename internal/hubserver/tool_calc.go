package hubserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// The calculator is the hub's demo tool: a trivial arithmetic agent kept
// around for end-to-end smoke testing of the tool plumbing.

type CalcInput struct {
	Operation string  `json:"operation" jsonschema:"One of: add, subtract, multiply, divide"`
	A         float64 `json:"a" jsonschema:"First operand"`
	B         float64 `json:"b" jsonschema:"Second operand"`
}

type CalcOutput struct {
	Result float64 `json:"result"`
}

func registerCalc(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "calc",
		Description: "Perform basic arithmetic: add, subtract, multiply, or divide two numbers.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input CalcInput) (*mcp.CallToolResult, CalcOutput, error) {
		result, err := calculate(input.Operation, input.A, input.B)
		if err != nil {
			return nil, CalcOutput{}, err
		}
		return nil, CalcOutput{Result: result}, nil
	})
}

func calculate(operation string, a, b float64) (float64, error) {
	switch operation {
	case "add":
		return a + b, nil
	case "subtract":
		return a - b, nil
	case "multiply":
		return a * b, nil
	case "divide":
		if b == 0 {
			return 0, errors.New("division by zero")
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("unknown operation %q (want add, subtract, multiply, divide)", operation)
	}
}
