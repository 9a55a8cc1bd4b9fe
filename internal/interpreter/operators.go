package interpreter

import (
	"reflect"
	"strings"
)

// ApplyOperator applies a named binary operator with SQL-style ternary null
// semantics:
//
//   - both operands nil: "=", ">=", "<=" are true, every other operator is false
//   - exactly one operand nil: every operator is false
//   - neither nil: the real operator semantics apply
//
// An unrecognized operator name is a fatal inconsistency: the lowered IR
// only ever contains operators from the closed set below.
func ApplyOperator(operator string, left, right any) any {
	if left == nil && right == nil {
		switch operator {
		case "=", ">=", "<=":
			return true
		default:
			return false
		}
	}
	if left == nil || right == nil {
		return false
	}

	switch operator {
	case "=":
		return equalValues(left, right)
	case "!=":
		return !equalValues(left, right)
	case "<":
		return compareValues(left, right) < 0
	case "<=":
		return compareValues(left, right) <= 0
	case ">":
		return compareValues(left, right) > 0
	case ">=":
		return compareValues(left, right) >= 0
	case "&&":
		return asBool(left) && asBool(right)
	case "||":
		return asBool(left) || asBool(right)
	case "contains":
		return collectionContains(left, right)
	case "not_contains":
		return !collectionContains(left, right)
	case "in_collection":
		return collectionContains(right, left)
	case "not_in_collection":
		return !collectionContains(right, left)
	case "has_substring":
		return strings.Contains(asString(left), asString(right))
	case "starts_with":
		return strings.HasPrefix(asString(left), asString(right))
	case "ends_with":
		return strings.HasSuffix(asString(left), asString(right))
	default:
		internalf("ApplyOperator", "unrecognized operator %q", operator)
		return nil // unreachable
	}
}

// equalValues compares two non-nil values, normalizing numeric types so
// int(3) equals int64(3).
func equalValues(left, right any) bool {
	lf, lok := asNumber(left)
	rf, rok := asNumber(right)
	if lok && rok {
		return lf == rf
	}
	return reflect.DeepEqual(left, right)
}

// compareValues returns -1, 0, or 1. Only numbers compare with numbers and
// strings with strings; anything else is a type inconsistency in the
// lowered IR.
func compareValues(left, right any) int {
	lf, lok := asNumber(left)
	rf, rok := asNumber(right)
	if lok && rok {
		switch {
		case lf < rf:
			return -1
		case lf > rf:
			return 1
		default:
			return 0
		}
	}

	ls, lok := left.(string)
	rs, rok := right.(string)
	if lok && rok {
		return strings.Compare(ls, rs)
	}

	internalf("compareValues", "cannot order %T against %T", left, right)
	return 0 // unreachable
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func asBool(v any) bool {
	b, ok := v.(bool)
	if !ok {
		internalf("asBool", "expected bool operand, got %T", v)
	}
	return b
}

func asString(v any) string {
	s, ok := v.(string)
	if !ok {
		internalf("asString", "expected string operand, got %T", v)
	}
	return s
}

// collectionContains reports whether the collection holds a member equal to
// needle. Any slice type counts as a collection.
func collectionContains(collection, needle any) bool {
	rv := reflect.ValueOf(collection)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		internalf("collectionContains", "expected collection operand, got %T", collection)
	}
	for i := 0; i < rv.Len(); i++ {
		if equalValues(rv.Index(i).Interface(), needle) {
			return true
		}
	}
	return false
}
