package state

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/cellgit/BearBasic/internal/envelope"
	"github.com/cellgit/BearBasic/internal/jsonvalue"
)

func response(data jsonvalue.Object) *envelope.Response[jsonvalue.Object] {
	return &envelope.Response[jsonvalue.Object]{Message: "Success", Data: data}
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Update(response(jsonvalue.Object{"id": jsonvalue.IntValue(1)}), nil)

	snap := s.Snapshot()
	if !snap.HasData || snap.Message != "Success" {
		t.Fatalf("snapshot = %#v, want HasData and message Success", snap)
	}
	if id, _ := snap.Data.Get("id"); id.String() != "1" {
		t.Fatalf("snapshot id = %s, want 1", id.String())
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
	if snap.Polls != 1 {
		t.Fatalf("Polls = %d, want 1", snap.Polls)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Data["id"] = jsonvalue.IntValue(999)
	snap2 := s.Snapshot()
	if id, _ := snap2.Data.Get("id"); id.String() != "1" {
		t.Fatalf("Snapshot should clone data; got id %s want 1", id.String())
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(response(jsonvalue.Object{"name": jsonvalue.StringValue("bear")}), nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := fmt.Errorf("poll: %w", &envelope.BusinessError{Code: 1004, Message: "未授权"})
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if !snap.HasData || len(snap.Data) != len(prev.Data) {
		t.Fatalf("data changed on error: got %#v want %#v", snap.Data, prev.Data)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != origErr.Error() {
		t.Fatalf("LastError = %v, want %v", snap.LastError, origErr)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if snap.LastCode != 1004 {
		t.Fatalf("LastCode = %d, want 1004", snap.LastCode)
	}
	var be *envelope.BusinessError
	if !errors.As(snap.LastError, &be) {
		t.Fatalf("cloned error lost its chain: %v", snap.LastError)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("zero store = %#v, want online with 0 failures", snap)
	}

	for i := 1; i <= 3; i++ {
		s.Update(nil, fmt.Errorf("fail %d", i))
		snap = s.Snapshot()
		if snap.ConsecutiveFailures != i {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i)
		}
		if got, want := snap.IsOffline(), i >= 2; got != want {
			t.Fatalf("IsOffline() = %v with %d failures, want %v", got, i, want)
		}
		if snap.LastCode != 0 {
			t.Fatalf("LastCode = %d, want 0 for uncoded error", snap.LastCode)
		}
	}

	// Success resets counter
	s.Update(response(jsonvalue.Object{}), nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success = %#v, want 0 failures", snap)
	}
	if snap.Polls != 4 {
		t.Fatalf("Polls = %d, want 4", snap.Polls)
	}
}
