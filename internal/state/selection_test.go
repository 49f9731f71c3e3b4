package state

import (
	"reflect"
	"testing"

	"github.com/leadpilot/leadpilot/internal/backend"
)

func TestBulkSelectionToggle(t *testing.T) {
	sel := NewBulkSelection()

	if !sel.Toggle("a") {
		t.Error("first toggle should select")
	}
	if sel.Toggle("a") {
		t.Error("second toggle should deselect")
	}
	if sel.Count() != 0 {
		t.Errorf("count = %d, want 0", sel.Count())
	}
}

func TestBulkSelectionIDsSorted(t *testing.T) {
	sel := NewBulkSelection()
	sel.Add("c")
	sel.Add("a")
	sel.Add("b")

	if got := sel.IDs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("IDs() = %v", got)
	}
}

func TestBulkSelectionClearedOnPartialSuccess(t *testing.T) {
	sel := NewBulkSelection()
	sel.Add("a")
	sel.Add("b")

	sel.ApplyBulkResult(&backend.BulkSendResponse{Total: 2, Successful: 1, Failed: 1})

	if sel.Count() != 0 {
		t.Errorf("count = %d after partial success, want 0", sel.Count())
	}
}

func TestBulkSelectionKeptOnTotalFailure(t *testing.T) {
	sel := NewBulkSelection()
	sel.Add("a")
	sel.Add("b")

	sel.ApplyBulkResult(&backend.BulkSendResponse{Total: 2, Successful: 0, Failed: 2})

	if sel.Count() != 2 {
		t.Errorf("count = %d after total failure, want 2 (selection retryable)", sel.Count())
	}
	if !sel.Has("a") || !sel.Has("b") {
		t.Error("original selection lost")
	}
}

func TestBulkSelectionNilResult(t *testing.T) {
	sel := NewBulkSelection()
	sel.Add("a")
	sel.ApplyBulkResult(nil)
	if sel.Count() != 1 {
		t.Error("nil result must not clear selection")
	}
}
