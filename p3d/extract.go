package p3d

// Extract collects variants matching pred in depth-first pre-order. The
// subtree of a matched node is not searched.
func Extract(root *Node, pred func(Variant) bool) []Variant {
	var result []Variant
	if root == nil {
		return result
	}

	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if pred(n.Variant) {
			result = append(result, n.Variant)
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return result
}

// ExtractAs returns every variant of type T, with Extract's ordering and pruning.
func ExtractAs[T Variant](root *Node) []T {
	var result []T
	for _, v := range Extract(root, func(v Variant) bool {
		_, ok := v.(T)
		return ok
	}) {
		result = append(result, v.(T))
	}
	return result
}

// KindPredicate matches variants of the given kind. "all" matches every
// decoded geometry or locator variant, skipping containers.
// KIND_ALL selects every dispatched record kind except the root.
const KIND_ALL = "all"

var extractKinds = map[string]bool{
	KIND_ALL:          true,
	KIND_FENCE:        true,
	KIND_OBBOX:        true,
	KIND_SPHERE:       true,
	KIND_CYLINDER:     true,
	KIND_COLLISIONVEC: true,
	KIND_INTERSECT:    true,
	KIND_LOCATOR:      true,
	KIND_UNKNOWN:      true,
}

// IsExtractKind reports whether kind names something KindPredicate can select.
func IsExtractKind(kind string) bool {
	return extractKinds[kind]
}

func KindPredicate(kind string) func(Variant) bool {
	if kind == KIND_ALL {
		return func(v Variant) bool {
			return IsKnownTag(v.Tag()) && v.Tag() != TAG_ROOT
		}
	}
	return func(v Variant) bool {
		return v.Kind() == kind
	}
}

// Walk visits every node in pre-order. Returning false from fn skips the
// children of that node.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	type item struct {
		n     *Node
		depth int
	}
	if root == nil {
		return
	}

	stack := []item{{root, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(it.n, it.depth) {
			continue
		}
		for i := len(it.n.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.n.Children[i], it.depth + 1})
		}
	}
}

// Count returns the number of nodes per variant kind.
func Count(root *Node) map[string]int {
	counts := make(map[string]int)
	Walk(root, func(n *Node, _ int) bool {
		counts[n.Variant.Kind()]++
		return true
	})
	return counts
}
