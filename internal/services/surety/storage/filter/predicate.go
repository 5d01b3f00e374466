package filter

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
)

// Predicate reports whether an event matches a compiled filter.
type Predicate func(event.Event) bool

// All matches every event.
func All(event.Event) bool { return true }

// ParsePredicate compiles an AIP-160 filter for in-memory evaluation with the
// same semantics as ParseEventFilter. An empty filter yields All.
func ParsePredicate(filterStr string) (Predicate, error) {
	if strings.TrimSpace(filterStr) == "" {
		return All, nil
	}
	e, err := parse(filterStr)
	if err != nil {
		return nil, err
	}
	return compileExpr(e)
}

func compileExpr(e *expr.Expr) (Predicate, error) {
	call, ok := e.GetExprKind().(*expr.Expr_CallExpr)
	if !ok {
		return nil, fmt.Errorf("unsupported expression type: %T", e.GetExprKind())
	}
	args := call.CallExpr.Args
	switch call.CallExpr.Function {
	case "_&&_", "AND", "_||_", "OR":
		if len(args) != 2 {
			return nil, fmt.Errorf("%s requires 2 arguments", call.CallExpr.Function)
		}
		left, err := compileExpr(args[0])
		if err != nil {
			return nil, err
		}
		right, err := compileExpr(args[1])
		if err != nil {
			return nil, err
		}
		if f := call.CallExpr.Function; f == "_&&_" || f == "AND" {
			return func(evt event.Event) bool { return left(evt) && right(evt) }, nil
		}
		return func(evt event.Event) bool { return left(evt) || right(evt) }, nil
	}

	op, ok := comparisonOperator(call.CallExpr.Function)
	if !ok {
		return nil, fmt.Errorf("unsupported function: %s", call.CallExpr.Function)
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("comparison requires 2 arguments")
	}
	field, err := extractFieldName(args[0])
	if err != nil {
		return nil, err
	}
	value, err := extractValue(args[1])
	if err != nil {
		return nil, err
	}

	switch field {
	case "seq":
		want, ok := value.(int64)
		if !ok {
			return nil, fmt.Errorf("seq requires an integer")
		}
		return func(evt event.Event) bool {
			return holds(op, cmp.Compare(int64(evt.Seq), want))
		}, nil
	case "ts":
		want, ok := value.(time.Time)
		if !ok {
			return nil, fmt.Errorf("ts requires a timestamp")
		}
		return func(evt event.Event) bool {
			return holds(op, evt.Timestamp.Compare(want))
		}, nil
	}

	get, ok := stringFields[field]
	if !ok {
		return nil, fmt.Errorf("unknown field: %s", field)
	}
	want, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%s requires a string", field)
	}
	return func(evt event.Event) bool {
		return holds(op, strings.Compare(get(evt), want))
	}, nil
}

var stringFields = map[string]func(event.Event) string{
	"type":        func(evt event.Event) string { return string(evt.Type) },
	"actor_id":    func(evt event.Event) string { return evt.ActorID },
	"relay_id":    func(evt event.Event) string { return evt.RelayID },
	"entity_type": func(evt event.Event) string { return evt.EntityType },
	"entity_id":   func(evt event.Event) string { return evt.EntityID },
}

func holds(op string, c int) bool {
	switch op {
	case "=":
		return c == 0
	case "!=":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	default:
		return false
	}
}
