package service

import (
	"errors"
	"testing"
	"time"
)

func TestDocumentPolicyValidateFilename(t *testing.T) {
	policy := NewDocumentPolicy([]string{".pdf"})

	if err := policy.ValidateFilename("response_document", "reply.pdf"); err != nil {
		t.Errorf("pdf should be accepted: %v", err)
	}
	if err := policy.ValidateFilename("response_document", "Reply.PDF"); err != nil {
		t.Errorf("extension check must be case-insensitive: %v", err)
	}

	err := policy.ValidateFilename("acknowledgement_document", "scan.exe")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "acknowledgement_document" {
		t.Errorf("error must name the offending field, got %q", validationErr.Field)
	}

	if err := policy.ValidateFilename("request_document", ""); err == nil {
		t.Error("empty filename must be rejected when a document is required")
	}
}

func TestDocumentPolicyMultipleExtensions(t *testing.T) {
	policy := NewDocumentPolicy([]string{".pdf", ".jpg"})
	if err := policy.ValidateFilename("original_application", "scan.jpg"); err != nil {
		t.Errorf("configured extension should be accepted: %v", err)
	}
	if err := policy.ValidateFilename("original_application", "scan.png"); err == nil {
		t.Error("unconfigured extension should be rejected")
	}
}

func TestFirstAppealEligibleOn(t *testing.T) {
	filed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	if got := FirstAppealEligibleOn(filed); !got.Equal(want) {
		t.Errorf("FirstAppealEligibleOn = %s, want %s", got, want)
	}
}
