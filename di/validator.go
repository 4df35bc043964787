package di

import "sort"

// Validate checks a complete binding set before any instance is built:
// every dependency (direct or behind a Provider[T]) must be bound, and the
// direct-reference subgraph must be acyclic. IndirectProvider edges are
// never pushed onto the cycle-detection stack — a Provider[T] dependency
// breaks a cycle by construction, since it defers resolution past
// validation time.
//
// Keys are walked in a deterministic (sorted) order so which error
// surfaces first is stable across runs, which matters for tests asserting
// on a specific component/dependency pair.
func Validate(bindings map[ComponentKey]Binding) error {
	keys := sortedKeys(bindings)

	for _, k := range keys {
		for _, ref := range bindings[k].Dependencies() {
			if _, ok := bindings[ref.Key]; !ok {
				return DependencyNotFoundError{Component: k, Dependency: ref.Key}
			}
		}
	}

	visiting := map[ComponentKey]bool{}
	visited := map[ComponentKey]bool{}
	for _, k := range keys {
		if visited[k] {
			continue
		}
		if path, cyc := detectCycle(k, bindings, nil, visiting, visited); cyc {
			return CyclicDependenciesFoundError{Components: path}
		}
	}
	return nil
}

func sortedKeys(bindings map[ComponentKey]Binding) []ComponentKey {
	keys := make([]ComponentKey, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

func detectCycle(
	k ComponentKey,
	bindings map[ComponentKey]Binding,
	path []ComponentKey,
	visiting, visited map[ComponentKey]bool,
) ([]ComponentKey, bool) {
	if visiting[k] {
		idx := indexOf(path, k)
		cyc := append(append([]ComponentKey{}, path[idx:]...), k)
		return cyc, true
	}
	if visited[k] {
		return nil, false
	}

	visiting[k] = true
	path = append(path, k)

	if p, ok := bindings[k]; ok {
		for _, ref := range p.Dependencies() {
			if ref.Kind != Direct {
				continue
			}
			if cyc, found := detectCycle(ref.Key, bindings, path, visiting, visited); found {
				return cyc, true
			}
		}
	}

	visiting[k] = false
	visited[k] = true
	return nil, false
}

func indexOf(path []ComponentKey, k ComponentKey) int {
	for i, p := range path {
		if p == k {
			return i
		}
	}
	return -1
}
