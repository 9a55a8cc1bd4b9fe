package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/graphwalk/internal/location"
)

// DomainPlan is the domain-separation prefix for plan fingerprints. The
// version suffix enables future algorithm migration.
const DomainPlan = "graphwalk/plan/v1"

// Fingerprint computes a content-addressed identity for a compiled block
// sequence: SHA-256 over the domain prefix, a null separator, and the
// canonical JSON encoding of the blocks. Two plans fingerprint identically
// iff they contain the same blocks in the same order.
func Fingerprint(blocks []BasicBlock) (string, error) {
	encoded := make([]any, len(blocks))
	for i, block := range blocks {
		m, err := EncodeBlock(block)
		if err != nil {
			return "", fmt.Errorf("block %d: %w", i, err)
		}
		encoded[i] = m
	}
	canonical, err := MarshalCanonical(encoded)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(DomainPlan))
	h.Write([]byte{0x00}) // null separator prevents domain/data boundary ambiguity
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// EncodeBlock converts a block to its canonical map form, with a "kind"
// discriminator naming the variant.
func EncodeBlock(block BasicBlock) (map[string]any, error) {
	switch b := block.(type) {
	case *QueryRoot:
		return map[string]any{"kind": "QueryRoot", "start_type": b.StartType}, nil
	case *Traverse:
		return map[string]any{
			"kind":      "Traverse",
			"direction": b.Direction,
			"edge_name": b.EdgeName,
			"optional":  b.Optional,
		}, nil
	case *Backtrack:
		return map[string]any{
			"kind":     "Backtrack",
			"location": encodeLocation(b.Location),
			"optional": b.Optional,
		}, nil
	case *CoerceType:
		return map[string]any{"kind": "CoerceType", "target_type": b.TargetType}, nil
	case *Filter:
		pred, err := EncodeExpression(b.Predicate)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": "Filter", "predicate": pred}, nil
	case *Fold:
		return map[string]any{"kind": "Fold", "location": encodeLocation(b.FoldScopeLocation)}, nil
	case *Unfold:
		return map[string]any{"kind": "Unfold"}, nil
	case *Recurse:
		return map[string]any{
			"kind":      "Recurse",
			"direction": b.Direction,
			"edge_name": b.EdgeName,
			"depth":     b.Depth,
		}, nil
	case *MarkLocation:
		return map[string]any{"kind": "MarkLocation", "location": encodeLocation(b.Location)}, nil
	case *OutputSource:
		return map[string]any{"kind": "OutputSource"}, nil
	case *EndOptional:
		return map[string]any{"kind": "EndOptional"}, nil
	case *GlobalOperationsStart:
		return map[string]any{"kind": "GlobalOperationsStart"}, nil
	case *ConstructResult:
		fields := make([]any, len(b.Fields))
		for i, f := range b.Fields {
			value, err := EncodeExpression(f.Value)
			if err != nil {
				return nil, fmt.Errorf("output %q: %w", f.Name, err)
			}
			fields[i] = map[string]any{"name": f.Name, "value": value}
		}
		return map[string]any{"kind": "ConstructResult", "fields": fields}, nil
	default:
		return nil, fmt.Errorf("unencodable block type %T", block)
	}
}

// EncodeExpression converts an expression to its canonical map form.
func EncodeExpression(expr Expression) (map[string]any, error) {
	switch e := expr.(type) {
	case *Literal:
		return map[string]any{"kind": "Literal", "value": e.Value}, nil
	case *Variable:
		return map[string]any{"kind": "Variable", "name": e.VariableName, "type": e.InferredType}, nil
	case *LocalField:
		return map[string]any{"kind": "LocalField", "field": e.FieldName}, nil
	case *ContextField:
		return map[string]any{"kind": "ContextField", "location": encodeLocation(e.Location)}, nil
	case *OutputContextField:
		return map[string]any{"kind": "OutputContextField", "location": encodeLocation(e.Location)}, nil
	case *ContextFieldExistence:
		return map[string]any{"kind": "ContextFieldExistence", "location": encodeLocation(e.Location)}, nil
	case *BinaryComposition:
		left, err := EncodeExpression(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := EncodeExpression(e.Right)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": "BinaryComposition", "op": e.Operator, "left": left, "right": right}, nil
	case *TernaryConditional:
		pred, err := EncodeExpression(e.Predicate)
		if err != nil {
			return nil, err
		}
		ifTrue, err := EncodeExpression(e.IfTrue)
		if err != nil {
			return nil, err
		}
		ifFalse, err := EncodeExpression(e.IfFalse)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": "TernaryConditional", "predicate": pred, "if_true": ifTrue, "if_false": ifFalse}, nil
	default:
		return nil, fmt.Errorf("unencodable expression type %T", expr)
	}
}

func encodeLocation(loc location.BaseLocation) map[string]any {
	switch l := loc.(type) {
	case location.Location:
		return map[string]any{
			"path":  l.QueryPath(),
			"field": l.Field(),
			"visit": l.VisitCounter(),
		}
	case location.FoldScopeLocation:
		direction, edgeName := l.RelativePosition()
		return map[string]any{
			"base":      encodeLocation(l.BaseLocation()),
			"direction": direction,
			"edge_name": edgeName,
			"field":     l.Field(),
		}
	default:
		// The location interface is sealed; this is unreachable.
		panic(fmt.Sprintf("unencodable location type %T", loc))
	}
}
