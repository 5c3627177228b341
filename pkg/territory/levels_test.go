package territory

import (
	"reflect"
	"strconv"
	"testing"
)

func TestAssignLevels_RootsAreZero(t *testing.T) {
	records := []Record{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
	}

	levels := AssignLevels(records)

	for _, id := range []string{"a", "b"} {
		if levels[id] != 0 {
			t.Errorf("levels[%q] = %d, want 0", id, levels[id])
		}
	}
}

func TestAssignLevels_ChildIsParentPlusOne(t *testing.T) {
	records := []Record{
		{ID: "a", Name: "Root"},
		{ID: "b", Name: "Child", ParentID: "a"},
		{ID: "c", Name: "Grandchild", ParentID: "b"},
	}

	levels := AssignLevels(records)

	want := map[string]int{"a": 0, "b": 1, "c": 2}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("AssignLevels() = %v, want %v", levels, want)
	}
}

func TestAssignLevels_TwoIndependentRoots(t *testing.T) {
	records := []Record{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: "a"},
		{ID: "x", Name: "X"},
		{ID: "y", Name: "Y", ParentID: "x"},
	}

	levels := AssignLevels(records)

	if levels["b"] != 1 || levels["y"] != 1 {
		t.Errorf("levels = %v, want b and y both at 1", levels)
	}
}

func TestAssignLevels_SelfParentGetsNoLevel(t *testing.T) {
	records := []Record{{ID: "a", Name: "A", ParentID: "a"}}

	levels := AssignLevels(records)

	if len(levels) != 0 {
		t.Errorf("AssignLevels() = %v, want empty map", levels)
	}
}

func TestAssignLevels_CycleTerminates(t *testing.T) {
	// b and c reference each other; neither is reachable from a root.
	records := []Record{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: "c"},
		{ID: "c", Name: "C", ParentID: "b"},
	}

	levels := AssignLevels(records)

	want := map[string]int{"a": 0}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("AssignLevels() = %v, want %v", levels, want)
	}
}

func TestAssignLevels_DanglingParentGetsNoLevel(t *testing.T) {
	records := []Record{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: "ghost"},
		{ID: "c", Name: "C", ParentID: "b"},
	}

	levels := AssignLevels(records)

	if _, ok := levels["b"]; ok {
		t.Error("record with dangling parent should have no level")
	}
	if _, ok := levels["c"]; ok {
		t.Error("descendant of dangling chain should have no level")
	}
}

func TestAssignLevels_DiamondAssignedOnce(t *testing.T) {
	// d is listed twice with different parents; the traversal must not
	// re-descend into it once leveled.
	records := []Record{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: "a"},
		{ID: "c", Name: "C", ParentID: "a"},
		{ID: "d", Name: "D", ParentID: "b"},
		{ID: "d", Name: "D", ParentID: "c"},
	}

	levels := AssignLevels(records)

	if levels["d"] != 2 {
		t.Errorf("levels[d] = %d, want 2", levels["d"])
	}
}

func TestAssignLevels_DeepChainNoRecursion(t *testing.T) {
	// Deep enough that naive recursion would be risky; the worklist
	// traversal must handle it in linear time.
	const depth = 100000
	records := make([]Record, 0, depth)
	records = append(records, Record{ID: "n0", Name: "n0"})
	for i := 1; i < depth; i++ {
		records = append(records, Record{
			ID:       nodeID(i),
			Name:     nodeID(i),
			ParentID: nodeID(i - 1),
		})
	}

	levels := AssignLevels(records)

	if got := levels[nodeID(depth-1)]; got != depth-1 {
		t.Errorf("levels[last] = %d, want %d", got, depth-1)
	}
}

func nodeID(i int) string {
	return "n" + strconv.Itoa(i)
}

func TestBuildChildIndex_PreservesInputOrder(t *testing.T) {
	records := []Record{
		{ID: "root", Name: "Root"},
		{ID: "z", Name: "Z", ParentID: "root"},
		{ID: "a", Name: "A", ParentID: "root"},
		{ID: "m", Name: "M", ParentID: "root"},
	}

	idx := BuildChildIndex(records)

	want := []string{"z", "a", "m"}
	if !reflect.DeepEqual(idx["root"], want) {
		t.Errorf("idx[root] = %v, want %v", idx["root"], want)
	}
}

func TestMaxLevel(t *testing.T) {
	if got := MaxLevel(nil); got != -1 {
		t.Errorf("MaxLevel(nil) = %d, want -1", got)
	}
	if got := MaxLevel(map[string]int{"a": 0, "b": 3, "c": 1}); got != 3 {
		t.Errorf("MaxLevel() = %d, want 3", got)
	}
}
