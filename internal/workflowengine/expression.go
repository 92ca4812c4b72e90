package workflowengine

import "github.com/expr-lang/expr"

// evaluateExpression compiles and runs a boolean expr-lang expression
// against vars. Compilation or evaluation failures, and non-boolean
// results, are treated as false — this is an additive filter, not a
// mandatory branch mechanism, so a broken expression simply pre-skips its
// edge's target rather than failing the run.
func evaluateExpression(expression string, vars map[string]any) bool {
	program, err := expr.Compile(expression, expr.Env(vars), expr.AsBool())
	if err != nil {
		return false
	}
	out, err := expr.Run(program, vars)
	if err != nil {
		return false
	}
	result, ok := out.(bool)
	return ok && result
}
