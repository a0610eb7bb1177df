package service

import (
	"path/filepath"
	"strings"
	"time"
)

// FirstAppealWaitDays is the cooling period between filing an RTI
// request and becoming eligible for a first appeal.
const FirstAppealWaitDays = 30

// FirstAppealEligibleOn returns the first day on which a first appeal
// may be filed; the boundary day itself is eligible.
func FirstAppealEligibleOn(dateFiled time.Time) time.Time {
	return dateFiled.AddDate(0, 0, FirstAppealWaitDays)
}

// DocumentPolicy validates uploaded document filenames against the
// configured set of recognized extensions. Absent optional documents
// are not its concern; callers skip validation when no file was sent.
type DocumentPolicy struct {
	allowed map[string]struct{}
}

func NewDocumentPolicy(extensions []string) DocumentPolicy {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return DocumentPolicy{allowed: allowed}
}

// ValidateFilename rejects unrecognized document types with a
// field-level error naming the offending field.
func (p DocumentPolicy) ValidateFilename(field, filename string) error {
	if filename == "" {
		return validationErr(field, "document is required")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := p.allowed[ext]; !ok {
		return validationErr(field, "unrecognized document type "+ext)
	}
	return nil
}
