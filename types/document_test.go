package types

import (
	"reflect"
	"testing"
)

func TestDocumentStatusApply(t *testing.T) {
	cases := []struct {
		from   DocumentStatus
		action DocumentAction
		want   DocumentStatus
		ok     bool
	}{
		{DocumentPending, DocumentVerify, DocumentVerified, true},
		{DocumentPending, DocumentApprove, DocumentApproved, true},
		{DocumentPending, DocumentReject, DocumentRejected, true},
		{DocumentVerified, DocumentApprove, DocumentApproved, true},
		{DocumentVerified, DocumentReject, DocumentRejected, true},
		{DocumentVerified, DocumentVerify, "", false},
		{DocumentApproved, DocumentReject, "", false},
		{DocumentRejected, DocumentApprove, "", false},
		{DocumentPending, DocumentAction("unknown"), "", false},
	}

	for _, tt := range cases {
		got, ok := tt.from.Apply(tt.action)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("Apply(%q, %q)=(%q, %v), want (%q, %v)", tt.from, tt.action, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDocumentActions(t *testing.T) {
	cases := []struct {
		status DocumentStatus
		want   []DocumentAction
	}{
		{DocumentPending, []DocumentAction{DocumentVerify, DocumentApprove, DocumentReject}},
		{DocumentVerified, []DocumentAction{DocumentApprove, DocumentReject}},
		{DocumentApproved, nil},
		{DocumentRejected, nil},
	}

	for _, tt := range cases {
		if got := DocumentActions(tt.status); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("DocumentActions(%q)=%v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestMissingDetailFields(t *testing.T) {
	details := map[string]string{
		"child_name":     "Asha",
		"father_name":    "Ravi",
		"mother_name":    "Meena",
		"date_of_birth":  "2020-01-15",
		"place_of_birth": "District Hospital",
		"address":        "12 Main Road",
	}
	if missing := MissingDetailFields(DocumentBirth, details); len(missing) != 0 {
		t.Fatalf("complete birth details reported missing: %v", missing)
	}

	delete(details, "mother_name")
	details["address"] = "  "
	missing := MissingDetailFields(DocumentBirth, details)
	if !reflect.DeepEqual(missing, []string{"mother_name", "address"}) {
		t.Fatalf("missing=%v, want [mother_name address]", missing)
	}

	// income and residence certificates have no per-type fields
	if missing := MissingDetailFields(DocumentIncome, nil); missing != nil {
		t.Fatalf("income request should not require detail fields, got %v", missing)
	}
	if missing := MissingDetailFields(DocumentOther, map[string]string{}); missing != nil {
		t.Fatalf("other request should not require detail fields, got %v", missing)
	}
}
