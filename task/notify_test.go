package task

import (
	"errors"
	"reflect"
	"testing"
)

func TestHighPriorityDigest(t *testing.T) {
	tasks := []Task{
		{ID: "a", Title: "high", Due: dueIn(2)},
		{ID: "b", Title: "low", Due: dueIn(30)},
		{ID: "c", Title: "overdue", Due: dueIn(-1)},
		{ID: "d", Title: "done", Due: dueIn(-1), Completed: true, CompletedAt: NewStamp(testNow)},
		{ID: "e", Title: "saved", Due: dueIn(0), Saved: true, SavedAt: NewStamp(testNow)},
		{ID: "f", Title: "deleted", Due: dueIn(0), Deleted: true, DeletedAt: NewStamp(testNow)},
		{ID: "g", Title: "unknown", Due: "someday"},
	}

	digest := HighPriorityDigest(tasks, testNow)
	if digest.Count != 2 {
		t.Fatalf("expected 2 tasks, got %d", digest.Count)
	}
	if got := indexes(digest.Tasks); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("expected [1 3], got %v", got)
	}
}

func TestHighPriorityDigestEmpty(t *testing.T) {
	digest := HighPriorityDigest(nil, testNow)
	if digest.Count != 0 || digest.Tasks == nil {
		t.Fatalf("expected empty, non-nil digest, got %+v", digest)
	}
}

func TestDiffPriority(t *testing.T) {
	if _, changed := DiffPriority(nil, PriorityHigh); changed {
		t.Fatalf("expected no transition without a previous value")
	}
	if _, changed := DiffPriority(PriorityPtr(PriorityHigh), PriorityHigh); changed {
		t.Fatalf("expected no transition for an unchanged value")
	}
	transition, changed := DiffPriority(PriorityPtr(PriorityMedium), PriorityHigh)
	if !changed || transition != (Transition{From: PriorityMedium, To: PriorityHigh}) {
		t.Fatalf("expected MEDIUM -> HIGH, got %+v (changed=%v)", transition, changed)
	}
}

func TestRecordPriorityCheckpoint(t *testing.T) {
	tasks := []Task{{ID: "abcdefgh", Title: "x"}}
	if err := RecordPriorityCheckpoint(tasks, "ABCDEFGH", PriorityLow); err != nil {
		t.Fatalf("record checkpoint: %v", err)
	}
	if tasks[0].PreviousPriority == nil || *tasks[0].PreviousPriority != PriorityLow {
		t.Fatalf("expected LOW checkpoint, got %v", tasks[0].PreviousPriority)
	}
	if err := RecordPriorityCheckpoint(tasks, "missing", PriorityLow); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestDetectTransitionFiresOnce(t *testing.T) {
	task := Task{ID: "abcdefgh", Title: "report", Due: dueIn(2), PreviousPriority: PriorityPtr(PriorityMedium)}

	event, fired := DetectTransition(&task, testNow)
	if !fired {
		t.Fatalf("expected a transition on the first check")
	}
	if event.From != PriorityMedium || event.To != PriorityHigh || event.TaskID != "abcdefgh" || !event.Timestamp.Equal(testNow) {
		t.Fatalf("unexpected event %+v", event)
	}
	if *task.PreviousPriority != PriorityHigh {
		t.Fatalf("expected checkpoint overwritten, got %s", *task.PreviousPriority)
	}

	if _, fired := DetectTransition(&task, testNow); fired {
		t.Fatalf("expected no transition on an immediate second check")
	}
}

func TestDetectTransitionFirstCheckRecordsOnly(t *testing.T) {
	task := Task{ID: "abcdefgh", Title: "report", Due: dueIn(2)}
	if _, fired := DetectTransition(&task, testNow); fired {
		t.Fatalf("expected no transition without a previous value")
	}
	if task.PreviousPriority == nil || *task.PreviousPriority != PriorityHigh {
		t.Fatalf("expected checkpoint recorded, got %v", task.PreviousPriority)
	}
}

func TestDetectTransitionsSkipsInactive(t *testing.T) {
	tasks := []Task{
		{ID: "a", Due: dueIn(2), PreviousPriority: PriorityPtr(PriorityLow)},
		{ID: "b", Due: dueIn(2), PreviousPriority: PriorityPtr(PriorityLow), Completed: true, CompletedAt: NewStamp(testNow)},
		{ID: "c", Due: dueIn(2), PreviousPriority: PriorityPtr(PriorityLow), Deleted: true, DeletedAt: NewStamp(testNow)},
	}

	events, changed := DetectTransitions(tasks, testNow)
	if !changed || len(events) != 1 || events[0].TaskID != "a" {
		t.Fatalf("expected one event for task a, got %+v", events)
	}
	if *tasks[1].PreviousPriority != PriorityLow || *tasks[2].PreviousPriority != PriorityLow {
		t.Fatalf("expected inactive checkpoints untouched")
	}

	events, changed = DetectTransitions(tasks, testNow)
	if changed || len(events) != 0 {
		t.Fatalf("expected a second pass to change nothing, got %+v", events)
	}
}
