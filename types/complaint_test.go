package types

import (
	"reflect"
	"testing"
)

func TestComplaintStatusApply(t *testing.T) {
	cases := []struct {
		from   ComplaintStatus
		action ComplaintAction
		want   ComplaintStatus
		ok     bool
	}{
		{ComplaintPending, ComplaintMarkInProgress, ComplaintInProgress, true},
		{ComplaintPending, ComplaintMarkRejected, ComplaintRejected, true},
		{ComplaintPending, ComplaintMarkResolved, "", false},
		{ComplaintInProgress, ComplaintMarkResolved, ComplaintResolved, true},
		{ComplaintInProgress, ComplaintMarkRejected, ComplaintRejected, true},
		{ComplaintInProgress, ComplaintMarkInProgress, "", false},
		{ComplaintResolved, ComplaintMarkInProgress, "", false},
		{ComplaintResolved, ComplaintMarkRejected, "", false},
		{ComplaintRejected, ComplaintMarkResolved, "", false},
		{ComplaintVerified, ComplaintMarkInProgress, "", false},
		{ComplaintPending, ComplaintAction("unknown"), "", false},
	}

	for _, tt := range cases {
		got, ok := tt.from.Apply(tt.action)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("Apply(%q, %q)=(%q, %v), want (%q, %v)", tt.from, tt.action, got, ok, tt.want, tt.ok)
		}
	}
}

func TestComplaintTransitionsStayValid(t *testing.T) {
	for from, actions := range complaintTransitions {
		if !from.Valid() {
			t.Fatalf("transition source %q is not a valid status", from)
		}
		if from.Terminal() {
			t.Fatalf("terminal status %q has outgoing transitions", from)
		}
		for action, to := range actions {
			if !to.Valid() {
				t.Fatalf("transition %q + %q reaches invalid status %q", from, action, to)
			}
		}
	}
}

func TestComplaintActions(t *testing.T) {
	cases := []struct {
		status ComplaintStatus
		want   []ComplaintAction
	}{
		{ComplaintPending, []ComplaintAction{ComplaintMarkInProgress, ComplaintMarkRejected}},
		{ComplaintInProgress, []ComplaintAction{ComplaintMarkResolved, ComplaintMarkRejected}},
		{ComplaintResolved, nil},
		{ComplaintRejected, nil},
		{ComplaintVerified, nil},
	}

	for _, tt := range cases {
		if got := ComplaintActions(tt.status); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("ComplaintActions(%q)=%v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestValidComplaintCategory(t *testing.T) {
	for _, category := range ComplaintCategories {
		if !ValidComplaintCategory(category) {
			t.Fatalf("category %q rejected", category)
		}
	}
	if ValidComplaintCategory("Potholes") {
		t.Fatalf("unknown category accepted")
	}
	if ValidComplaintCategory("") {
		t.Fatalf("empty category accepted")
	}
}
