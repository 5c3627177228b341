// Package territory defines the territory hierarchy model and level
// assignment.
//
// A territory record carries an ID, a display name, and an optional parent
// reference. Records with no parent are roots. [AssignLevels] computes each
// record's depth (edge count to its nearest root ancestor), which drives
// per-level edge coloring during rendering.
package territory

// Record is one node in the territory hierarchy.
//
// ParentID is empty for roots. IDs are opaque and expected to be unique
// within one record set; Name is a display label and need not be unique.
type Record struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

// IsRoot reports whether the record has no parent reference.
func (r Record) IsRoot() bool { return r.ParentID == "" }

// ChildIndex maps each parent ID to the ordered list of its direct
// children's IDs. Order is the input order of the records, which makes
// traversal (and therefore any order-sensitive output) deterministic -
// this is a contract, not an accident of map iteration.
//
// If the input contains duplicate IDs, the last-seen record wins in the
// index. That is a documented limitation of the source data, not something
// this package tries to repair.
type ChildIndex map[string][]string

// BuildChildIndex builds the parent→children index from records in input
// order.
func BuildChildIndex(records []Record) ChildIndex {
	idx := make(ChildIndex)
	for _, r := range records {
		if !r.IsRoot() {
			idx[r.ParentID] = append(idx[r.ParentID], r.ID)
		}
	}
	return idx
}
