package ingestion

// Walk visits roots and their descendants in pre-order: each node before its
// children, children in insertion order. children returns the direct
// children of a node and may return nil for leaves. Walk never modifies the
// tree.
func Walk[N any](roots []N, children func(N) []N, visit func(N)) {
	for _, n := range roots {
		visit(n)
		Walk(children(n), children, visit)
	}
}

// Flatten returns the pre-order sequence Walk would visit.
func Flatten[N any](roots []N, children func(N) []N) []N {
	var out []N
	Walk(roots, children, func(n N) {
		out = append(out, n)
	})
	return out
}
