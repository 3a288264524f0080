package service

import (
	"testing"

	"coursechain/internal/model"
)

func TestTrackerBegin(t *testing.T) {
	tracker := NewTxTracker()
	id := tracker.Begin(model.TxEnroll)

	record, ok := tracker.Get(id)
	if !ok {
		t.Fatal("record not found after Begin")
	}
	if record.Kind != model.TxEnroll {
		t.Errorf("Kind = %q, want %q", record.Kind, model.TxEnroll)
	}
	if record.Status != model.TxValidating {
		t.Errorf("Status = %q, want %q", record.Status, model.TxValidating)
	}
	if record.SubmittedAt.IsZero() {
		t.Error("SubmittedAt not set")
	}
}

func TestTrackerLifecycle(t *testing.T) {
	tracker := NewTxTracker()
	id := tracker.Begin(model.TxCreateCourse)

	tracker.Advance(id, model.TxPublishing)
	tracker.Advance(id, model.TxSubmitting)
	tracker.SetHash(id, "0xabc")
	tracker.Advance(id, model.TxConfirming)
	tracker.Succeed(id)

	record, _ := tracker.Get(id)
	if record.Status != model.TxSucceeded {
		t.Errorf("Status = %q, want %q", record.Status, model.TxSucceeded)
	}
	if record.TxHash != "0xabc" {
		t.Errorf("TxHash = %q, want 0xabc", record.TxHash)
	}
	if record.SettledAt.IsZero() {
		t.Error("SettledAt not set after settle")
	}
}

func TestTrackerTerminalStatesAreFinal(t *testing.T) {
	tracker := NewTxTracker()
	id := tracker.Begin(model.TxWithdraw)
	tracker.Fail(id, "it broke")

	tracker.Advance(id, model.TxSubmitting)
	tracker.Succeed(id)

	record, _ := tracker.Get(id)
	if record.Status != model.TxFailed {
		t.Errorf("Status = %q, terminal record must not move", record.Status)
	}
	if record.Error != "it broke" {
		t.Errorf("Error = %q, want preserved message", record.Error)
	}
}

func TestTrackerListNewestFirst(t *testing.T) {
	tracker := NewTxTracker()
	first := tracker.Begin(model.TxEnroll)
	second := tracker.Begin(model.TxWithdraw)

	list := tracker.List()
	if len(list) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(list))
	}
	if list[0].ID != second || list[1].ID != first {
		t.Error("List is not newest first")
	}
}

func TestTrackerGetReturnsCopy(t *testing.T) {
	tracker := NewTxTracker()
	id := tracker.Begin(model.TxEnroll)

	record, _ := tracker.Get(id)
	record.Status = model.TxSucceeded

	fresh, _ := tracker.Get(id)
	if fresh.Status != model.TxValidating {
		t.Error("mutating a returned record leaked into the tracker")
	}
}

func TestTrackerGetMissing(t *testing.T) {
	tracker := NewTxTracker()
	if _, ok := tracker.Get("nope"); ok {
		t.Error("Get on an unknown id reported ok")
	}
}
