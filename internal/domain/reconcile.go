package domain

// GoalFields are the mutable fields of a goal considered by reconciliation.
type GoalFields struct {
	Title       string
	Description string
	Category    string
	Timeframe   string
}

// GoalItem is a goal as seen by the reconciler. Submitted items carry a
// negative placeholder ID when new and the persisted ID when existing.
type GoalItem struct {
	ID int64
	GoalFields
}

// GoalChangeSet is the minimal set of storage operations that brings the
// persisted list in line with a submitted full list.
type GoalChangeSet struct {
	ToInsert    []GoalFields
	ToUpdate    []GoalItem
	ToDeleteIDs []int64
}

// Empty reports whether the change set requires no storage operations.
func (c GoalChangeSet) Empty() bool {
	return len(c.ToInsert) == 0 && len(c.ToUpdate) == 0 && len(c.ToDeleteIDs) == 0
}

// ReconcileGoals diffs the persisted goal list against a client-submitted
// full list. Items with negative IDs become inserts (placeholder stripped),
// persisted items absent from the submission become deletes, and submitted
// items whose fields differ from the persisted record become updates.
// Submitted positive IDs unknown to the persisted list are ignored rather
// than resurrected. The same algorithm serves both goals and suggested
// goals.
func ReconcileGoals(existing, submitted []GoalItem) GoalChangeSet {
	var cs GoalChangeSet

	persisted := make(map[int64]GoalItem, len(existing))
	for _, g := range existing {
		persisted[g.ID] = g
	}

	kept := make(map[int64]struct{}, len(submitted))
	for _, item := range submitted {
		if item.ID < 0 {
			cs.ToInsert = append(cs.ToInsert, item.GoalFields)
			continue
		}
		prev, ok := persisted[item.ID]
		if !ok {
			continue
		}
		kept[item.ID] = struct{}{}
		if prev.GoalFields != item.GoalFields {
			cs.ToUpdate = append(cs.ToUpdate, item)
		}
	}

	for _, g := range existing {
		if _, ok := kept[g.ID]; !ok {
			cs.ToDeleteIDs = append(cs.ToDeleteIDs, g.ID)
		}
	}

	return cs
}
