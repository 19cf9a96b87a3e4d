package batch

import (
	"errors"
	"testing"
)

func TestNewOK(t *testing.T) {
	r := NewOK("42", OpPublish, 3)
	if r.ID() != "42" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Op() != OpPublish {
		t.Errorf("Op() = %q", r.Op())
	}
	if r.Status() != StatusOK {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusOK)
	}
	if r.Docs() != 3 {
		t.Errorf("Docs() = %d", r.Docs())
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestNewError(t *testing.T) {
	err := errors.New("index unavailable")
	r := NewError("7_1", OpRemove, err)
	if r.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusError)
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v, want %v", r.Err(), err)
	}
}

func TestCount(t *testing.T) {
	boom := errors.New("boom")
	tally := Count([]Result{
		NewOK("1", OpAdd, 1),
		NewOK("2", OpAdd, 1),
		NewError("3", OpAdd, boom),
		NewOK("4", OpRemove, 1),
		NewError("5", OpUpdate, boom),
	})

	if tally.OK[OpAdd] != 2 || tally.OK[OpRemove] != 1 {
		t.Errorf("OK = %v", tally.OK)
	}
	if tally.Failed[OpAdd] != 1 || tally.Failed[OpUpdate] != 1 {
		t.Errorf("Failed = %v", tally.Failed)
	}
	if tally.TotalFailed() != 2 {
		t.Errorf("TotalFailed() = %d", tally.TotalFailed())
	}
}

func TestCount_Empty(t *testing.T) {
	tally := Count(nil)
	if tally.TotalFailed() != 0 || len(tally.OK) != 0 {
		t.Errorf("unexpected tally: %+v", tally)
	}
}
