package territory

// AssignLevels computes the hierarchy depth of every record reachable from
// a root.
//
// Roots (records with no parent) are assigned level 0. Every other record
// gets its parent's level plus one. The returned map contains an entry for
// each reached record only: a record whose ancestry never terminates in a
// root - a dangling parent reference, a self-parent, or any cycle among
// non-root records - is simply absent from the result. Callers that style
// output by level must handle missing entries (see render.Build).
//
// # Algorithm
//
// AssignLevels performs an explicit worklist traversal instead of
// recursion, so arbitrarily deep hierarchies cannot exhaust the stack:
//
//  1. Index children by parent ID (input order preserved).
//  2. Seed the queue with all roots at level 0.
//  3. Pop a node, assign each not-yet-leveled child parent+1, push it.
//
// A node is assigned at most once; nodes reachable via multiple parent
// links are never re-descended. Because the traversal only ever moves from
// an assigned node to an unassigned child, it terminates on any finite
// input regardless of cycles.
//
// AssignLevels is a total function: it never fails, and malformed input
// only shrinks the result.
func AssignLevels(records []Record) map[string]int {
	children := BuildChildIndex(records)
	levels := make(map[string]int, len(records))

	queue := make([]string, 0, len(records))
	for _, r := range records {
		if r.IsRoot() {
			levels[r.ID] = 0
			queue = append(queue, r.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range children[curr] {
			if _, seen := levels[child]; seen {
				continue
			}
			levels[child] = levels[curr] + 1
			queue = append(queue, child)
		}
	}

	return levels
}

// MaxLevel returns the deepest level present in a level map, or -1 when
// the map is empty.
func MaxLevel(levels map[string]int) int {
	deepest := -1
	for _, l := range levels {
		if l > deepest {
			deepest = l
		}
	}
	return deepest
}
