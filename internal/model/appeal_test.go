package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAppealValidateShapes(t *testing.T) {
	requestID := uuid.New()
	parentID := uuid.New()

	cases := []struct {
		name    string
		appeal  Appeal
		wantErr bool
	}{
		{
			"valid first appeal",
			Appeal{AppealType: AppealTypeFirst, RTIRequestID: &requestID, RequestDocument: "appeals/first/request/a.pdf"},
			false,
		},
		{
			"valid second appeal",
			Appeal{AppealType: AppealTypeSecond, ParentAppealID: &parentID, RequestDocument: "appeals/second/request/a.pdf"},
			false,
		},
		{
			"first appeal with parent",
			Appeal{AppealType: AppealTypeFirst, RTIRequestID: &requestID, ParentAppealID: &parentID, RequestDocument: "a.pdf"},
			true,
		},
		{
			"first appeal without request",
			Appeal{AppealType: AppealTypeFirst, RequestDocument: "a.pdf"},
			true,
		},
		{
			"second appeal with direct request reference",
			Appeal{AppealType: AppealTypeSecond, ParentAppealID: &parentID, RTIRequestID: &requestID, RequestDocument: "a.pdf"},
			true,
		},
		{
			"second appeal without parent",
			Appeal{AppealType: AppealTypeSecond, RequestDocument: "a.pdf"},
			true,
		},
		{
			"missing document",
			Appeal{AppealType: AppealTypeFirst, RTIRequestID: &requestID},
			true,
		},
		{
			"unknown type",
			Appeal{AppealType: "THIRD", RequestDocument: "a.pdf"},
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.appeal.DateFiled = time.Now()
			err := tc.appeal.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestAppealStatusTransitions(t *testing.T) {
	cases := []struct {
		from AppealStatus
		to   AppealStatus
		want bool
	}{
		{AppealStatusPending, AppealStatusUnderReview, true},
		{AppealStatusPending, AppealStatusDecided, true},
		{AppealStatusUnderReview, AppealStatusDecided, true},
		{AppealStatusUnderReview, AppealStatusPending, false},
		{AppealStatusDecided, AppealStatusPending, false},
		{AppealStatusDecided, AppealStatusUnderReview, false},
		{AppealStatusDecided, AppealStatusDecided, false},
		{AppealStatusPending, AppealStatusPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
