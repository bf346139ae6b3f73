package engine

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/flowmesh/flowmesh/internal/utils"
)

// Code and router nodes evaluate user-supplied expressions through a
// capability-limited expression language rather than a general scripting
// host: no file, network, or process access is reachable from an
// expression. The only binding is "input", the joined upstream text.

// evalExpression compiles and runs a user expression with the given input
// bound. Compilation and runtime failures are returned verbatim so the
// caller can wrap them with the node-facing message prefix.
func evalExpression(source, input string) (any, error) {
	env := map[string]any{"input": input}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, err
	}

	return expr.Run(program, env)
}

// evalScript runs a code node's expression and stringifies the result:
// strings pass through unchanged, nil becomes the empty string, scalars use
// their canonical formatting, and composite values are JSON-encoded.
func evalScript(script, input string) (string, error) {
	result, err := evalExpression(script, input)
	if err != nil {
		return "", &ScriptError{Op: "code", Err: err}
	}
	return stringify(result), nil
}

// evalCondition runs a router node's condition and coerces the result to a
// boolean using truthiness rules: false, zero, empty string, and nil are
// false; everything else is true.
func evalCondition(condition, input string) (bool, error) {
	result, err := evalExpression(condition, input)
	if err != nil {
		return false, &ScriptError{Op: "router", Err: err}
	}
	return truthy(result), nil
}

func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool, int, int64, uint64, float64:
		return fmt.Sprintf("%v", typed)
	default:
		return utils.JSONToString(typed)
	}
}

func truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case int:
		return typed != 0
	case int64:
		return typed != 0
	case uint64:
		return typed != 0
	case float64:
		return typed != 0
	default:
		return true
	}
}
