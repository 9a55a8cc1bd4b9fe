package ir

import "fmt"

// SplitBlocks validates the shape of a compiled block sequence and splits it
// at the GlobalOperationsStart marker into the local-operations prefix and
// the global-operations suffix.
//
// Shape rules:
//   - the sequence is non-empty
//   - exactly one GlobalOperationsStart appears
//   - the local prefix before it is non-empty and starts with QueryRoot
//   - the global suffix after it is non-empty and ends with ConstructResult
//
// The marker itself is returned as the first element of the global suffix,
// matching the order blocks are driven through dispatch.
func SplitBlocks(blocks []BasicBlock) (local, global []BasicBlock, err error) {
	if len(blocks) == 0 {
		return nil, nil, fmt.Errorf("empty IR block sequence")
	}

	markerIndex := -1
	for i, block := range blocks {
		if _, ok := block.(*GlobalOperationsStart); ok {
			if markerIndex != -1 {
				return nil, nil, fmt.Errorf("multiple GlobalOperationsStart markers at indexes %d and %d", markerIndex, i)
			}
			markerIndex = i
		}
	}
	if markerIndex == -1 {
		return nil, nil, fmt.Errorf("missing GlobalOperationsStart marker")
	}

	local, global = blocks[:markerIndex], blocks[markerIndex:]
	if len(local) == 0 {
		return nil, nil, fmt.Errorf("empty local-operations prefix")
	}
	if len(global) < 2 {
		return nil, nil, fmt.Errorf("empty global-operations suffix")
	}
	if _, ok := local[0].(*QueryRoot); !ok {
		return nil, nil, fmt.Errorf("first block must be QueryRoot, got %s", BlockName(local[0]))
	}
	if _, ok := global[len(global)-1].(*ConstructResult); !ok {
		return nil, nil, fmt.Errorf("last block must be ConstructResult, got %s", BlockName(global[len(global)-1]))
	}
	return local, global, nil
}
