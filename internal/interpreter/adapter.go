package interpreter

import (
	"iter"

	"github.com/roach88/graphwalk/internal/ir"
)

// Adapter is the sole abstraction boundary between the interpreter and a
// concrete data source. Tokens are opaque to the interpreter: a token may be
// a row, a record, a file, anything the adapter chooses to thread through.
//
// Laziness contract: every method returns a lazily produced, single-pass,
// forward-only sequence, and must not touch the backing data until that
// sequence is advanced. The interpreter preserves adapter ordering exactly;
// it never sorts, deduplicates, or re-iterates.
//
// The hints argument on every method is the advisory bundle derived from
// query metadata (see VertexHints). Adapters may ignore all of it.
type Adapter interface {
	// GetTokensOfType yields every instance of a root vertex type. The
	// sequence may be unbounded; it is consumed lazily.
	GetTokensOfType(typeName string, hints *VertexHints) iter.Seq[any]

	// ProjectProperty yields, for each context, the value of the named
	// property field on the context's current token. Contexts with a nil
	// token yield a nil value.
	ProjectProperty(contexts iter.Seq[*DataContext], typeName, fieldName string, hints *VertexHints) iter.Seq2[*DataContext, any]

	// ProjectNeighbors yields, for each context, the sequence of neighbor
	// tokens along the given edge. Contexts with a nil token must yield an
	// empty neighbor sequence. Neighbor order is preserved by the
	// interpreter exactly as returned.
	ProjectNeighbors(contexts iter.Seq[*DataContext], typeName string, edge ir.EdgeDescriptor, hints *VertexHints) iter.Seq2[*DataContext, iter.Seq[any]]

	// CanCoerceToType yields, for each context, whether the context's
	// current token can be coerced from typeName to coerceToType.
	CanCoerceToType(contexts iter.Seq[*DataContext], typeName, coerceToType string, hints *VertexHints) iter.Seq2[*DataContext, bool]
}
