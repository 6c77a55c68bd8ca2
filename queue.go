package pocketcube

// Queue is the last-in-first-out sequence of pending move identifiers.
// Interactive moves are recorded here as they are applied; playback consumes
// entries from the top.
type Queue struct {
	items []MoveID
}

// Push appends id to the top of the queue.
func (q *Queue) Push(id MoveID) {
	q.items = append(q.items, id)
}

// Pop removes and returns the most recently pushed entry.
func (q *Queue) Pop() (MoveID, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	id := q.items[len(q.items)-1]
	q.items = q.items[:len(q.items)-1]
	return id, true
}

// Peek returns the top entry without removing it.
func (q *Queue) Peek() (MoveID, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	return q.items[len(q.items)-1], true
}

// Len returns the number of pending entries.
func (q *Queue) Len() int {
	return len(q.items)
}

// Empty reports whether the queue has no entries.
func (q *Queue) Empty() bool {
	return len(q.items) == 0
}

// Clear drops every entry.
func (q *Queue) Clear() {
	q.items = q.items[:0]
}

// Snapshot returns a copy of the entries, bottom first.
func (q *Queue) Snapshot() []MoveID {
	out := make([]MoveID, len(q.items))
	copy(out, q.items)
	return out
}
