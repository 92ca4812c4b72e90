package execctx

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// singleExprPattern matches a template that is exactly one {{ expr }}
// reference with no other characters.
var singleExprPattern = regexp.MustCompile(`^\{\{\s*([^}]+?)\s*\}\}$`)

// scanExprPattern finds every {{ expr }} occurrence within a larger string.
var scanExprPattern = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)

// Interpolate substitutes {{ expr }} references in template. A template
// that isn't a string is returned verbatim. A template that is exactly one
// {{ expr }} reference returns the raw resolved value, preserving its
// runtime type; otherwise every occurrence is substituted with its value
// coerced to string.
func (c *Context) Interpolate(template any) any {
	s, ok := template.(string)
	if !ok {
		return template
	}

	if m := singleExprPattern.FindStringSubmatch(s); m != nil {
		return c.resolveExpr(m[1])
	}

	if !strings.Contains(s, "{{") {
		return s
	}

	return scanExprPattern.ReplaceAllStringFunc(s, func(match string) string {
		sub := scanExprPattern.FindStringSubmatch(match)
		if sub == nil {
			return match
		}
		return stringify(c.resolveExpr(sub[1]))
	})
}

// InterpolateObject recurses through obj, applying Interpolate to every
// string leaf and leaving non-string leaves unchanged.
func (c *Context) InterpolateObject(obj any) any {
	switch v := obj.(type) {
	case string:
		return c.Interpolate(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = c.InterpolateObject(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = c.InterpolateObject(val)
		}
		return out
	default:
		return obj
	}
}

func (c *Context) resolveExpr(expr string) any {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "$") {
		return c.EvaluateJSONPath(expr)
	}
	return c.ResolveNestedPath(expr)
}

// stringify applies the template coercion rules: absent/null -> "", string
// verbatim, number/bool canonical text, list comma-space-joined, map/other
// canonical JSON.
func stringify(v any) string {
	if v == nil || IsAbsent(v) {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(t)
	case float32:
		return formatNumber(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []any:
		parts := make([]string, len(t))
		for i, el := range t {
			parts[i] = stringify(el)
		}
		return strings.Join(parts, ", ")
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}

func formatNumber(f float64) string {
	if !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
