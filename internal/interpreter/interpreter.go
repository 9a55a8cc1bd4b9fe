package interpreter

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/location"
)

// IRAndMetadata bundles everything the interpreter consumes for one
// compiled query: the block sequence, the fully populated metadata table,
// and the expected shape of the runtime arguments.
type IRAndMetadata struct {
	Blocks   []ir.BasicBlock
	Metadata *location.QueryMetadataTable

	// InputMetadata maps each expected argument name (without sigil) to its
	// type name, e.g. "String" or "[Int]".
	InputMetadata map[string]string
}

// Frontend is the compiler boundary that lowers a surface query string into
// IR plus metadata. It is an external collaborator; the interpreter only
// consumes its output.
type Frontend interface {
	CompileToIR(query string) (*IRAndMetadata, error)
}

// run carries the per-interpretation state threaded through every block
// handler and expression evaluation. The hint cache is exclusively owned by
// one InterpretIR invocation and never outlives it.
type run struct {
	adapter  Adapter
	metadata *location.QueryMetadataTable
	args     map[string]any
	hints    *hintCache
	logger   *slog.Logger
}

// Option configures one interpretation run.
type Option func(*run)

// WithLogger routes the run's diagnostics to the given logger. The default
// discards them.
func WithLogger(logger *slog.Logger) Option {
	return func(r *run) { r.logger = logger }
}

// InterpretIR executes a compiled query against the adapter and returns the
// lazily produced sequence of result rows.
//
// The returned sequence is single-pass and forward-only. No adapter call
// happens until it is advanced: a caller that constructs the pipeline but
// never pulls a row causes zero adapter I/O. Row order is determined solely
// by adapter iteration order composed with the depth levels of any Recurse
// expansion; the interpreter never reorders or deduplicates.
//
// Malformed IR panics with InternalError: by this boundary the block
// sequence is a compiler artifact, and a bad one is a bug upstream, not a
// user mistake. Argument validation is the caller's responsibility via
// ValidateArguments before interpretation.
func InterpretIR(adapter Adapter, plan *IRAndMetadata, args map[string]any, opts ...Option) iter.Seq[Row] {
	local, global, err := ir.SplitBlocks(plan.Blocks)
	if err != nil {
		internalf("InterpretIR", "malformed IR: %s", err)
	}

	ownArgs := make(map[string]any, len(args))
	for k, v := range args {
		ownArgs[k] = v
	}

	r := &run{
		adapter:  adapter,
		metadata: plan.Metadata,
		args:     ownArgs,
		logger:   slog.New(slog.DiscardHandler),
	}
	r.hints = newHintCache(plan.Metadata, ownArgs)
	for _, opt := range opts {
		opt(r)
	}

	postLocations := computePostBlockLocations(local)
	root := local[0].(*ir.QueryRoot)
	rootLocation := postLocations[0]

	r.logger.Debug("interpreting plan",
		"start_type", root.StartType,
		"local_blocks", len(local),
		"global_blocks", len(global))

	// The root context sequence is an explicit generator: the adapter call
	// happens on first pull, never at construction.
	contexts := iter.Seq[*DataContext](func(yield func(*DataContext) bool) {
		tokens := r.adapter.GetTokensOfType(root.StartType, r.hints.Get(rootLocation))
		for token := range tokens {
			if !yield(NewDataContext(token)) {
				return
			}
		}
	})

	for i := 1; i < len(local); i++ {
		contexts = r.generateBlockOutputs(postLocations[i], local[i], contexts)
	}
	for _, block := range global[:len(global)-1] {
		contexts = r.generateBlockOutputs(nil, block, contexts)
	}

	construct := global[len(global)-1].(*ir.ConstructResult)
	return r.constructResult(construct, contexts)
}

// InterpretQuery composes the frontend's lowering with InterpretIR:
// compile, validate arguments, interpret.
func InterpretQuery(frontend Frontend, adapter Adapter, query string, args map[string]any, opts ...Option) (iter.Seq[Row], error) {
	plan, err := frontend.CompileToIR(query)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	if err := ValidateArguments(plan.InputMetadata, args); err != nil {
		return nil, err
	}
	return InterpretIR(adapter, plan, args, opts...), nil
}

// ArgumentError reports one problem with the supplied query arguments.
// These are user-input errors, reported before interpretation begins.
type ArgumentError struct {
	Name    string
	Message string
}

func (e ArgumentError) Error() string {
	return fmt.Sprintf("argument %q: %s", e.Name, e.Message)
}

// ValidateArguments checks the supplied arguments against the expected
// input metadata: every expected argument present, no unexpected extras,
// and scalar kinds matching the declared type. All problems are reported
// together rather than fail-fast.
func ValidateArguments(inputMetadata map[string]string, args map[string]any) error {
	var errs []error

	for name, typeName := range inputMetadata {
		value, ok := args[name]
		if !ok {
			errs = append(errs, ArgumentError{Name: name, Message: "missing"})
			continue
		}
		if err := checkArgumentKind(typeName, value); err != nil {
			errs = append(errs, ArgumentError{Name: name, Message: err.Error()})
		}
	}
	for name := range args {
		if _, ok := inputMetadata[name]; !ok {
			errs = append(errs, ArgumentError{Name: name, Message: "unexpected argument"})
		}
	}

	return errors.Join(errs...)
}

// checkArgumentKind verifies a value's Go kind against a declared type
// name. List types are checked shallowly; unrecognized type names pass
// unchecked, since scalar vocabularies are schema-defined.
func checkArgumentKind(typeName string, value any) error {
	if strings.HasPrefix(typeName, "[") {
		switch value.(type) {
		case []any, []string, []int, []int64:
			return nil
		default:
			return fmt.Errorf("expected a list for type %s, got %T", typeName, value)
		}
	}

	switch typeName {
	case "String", "ID":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected a string for type %s, got %T", typeName, value)
		}
	case "Int":
		switch value.(type) {
		case int, int64:
		default:
			return fmt.Errorf("expected an integer for type %s, got %T", typeName, value)
		}
	case "Boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected a boolean for type %s, got %T", typeName, value)
		}
	}
	return nil
}
