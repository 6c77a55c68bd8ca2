package pocketcube

import "testing"

func TestQueueLIFO(t *testing.T) {
	var q Queue
	q.Push(F)
	q.Push(R)
	q.Push(U)

	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}
	if top, ok := q.Peek(); !ok || top != U {
		t.Errorf("Peek = %v, %v, want U", top, ok)
	}
	for _, want := range []MoveID{U, R, F} {
		got, ok := q.Pop()
		if !ok || got != want {
			t.Errorf("Pop = %v, %v, want %v", got, ok, want)
		}
	}
	if !q.Empty() {
		t.Error("queue should be empty")
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue should report false")
	}
	if _, ok := q.Peek(); ok {
		t.Error("Peek on empty queue should report false")
	}
}

func TestQueueSnapshotIsCopy(t *testing.T) {
	var q Queue
	q.Push(L)
	q.Push(D)
	snap := q.Snapshot()
	snap[0] = B

	if FormatMoves(q.Snapshot()) != "L D" {
		t.Errorf("Snapshot aliased the queue: %v", q.Snapshot())
	}
}

func TestQueueClear(t *testing.T) {
	var q Queue
	q.Push(L)
	q.Clear()
	if !q.Empty() || q.Len() != 0 {
		t.Error("Clear should empty the queue")
	}
}
