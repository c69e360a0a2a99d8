// Package model defines the core domain models used throughout the application.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Enum parsing errors.
var (
	ErrUnknownStatus         = errors.New("unknown status")
	ErrUnknownType           = errors.New("unknown correspondence type")
	ErrUnknownClassification = errors.New("unknown classification")
)

// Status tracks where a correspondence item is in its lifecycle.
type Status string

// Status constants.
const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In-Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// UpdateStatuses lists the statuses staff can move an item to.
var UpdateStatuses = []Status{StatusInProgress, StatusCompleted}

// CorrespondenceType distinguishes where a letter came from.
type CorrespondenceType string

// Correspondence type constants.
const (
	TypeExternal CorrespondenceType = "External"
	TypeInternal CorrespondenceType = "Internal"
	TypeCircular CorrespondenceType = "Circular"
)

// Types lists every correspondence type in form order.
var Types = []CorrespondenceType{TypeExternal, TypeInternal, TypeCircular}

// Classification is the directorate work stream a letter belongs to.
type Classification string

// Classification constants.
const (
	ClassificationSMEDevelopment Classification = "SME Development"
	ClassificationAdministration Classification = "Administration"
)

// Classifications lists every classification in form order.
var Classifications = []Classification{ClassificationSMEDevelopment, ClassificationAdministration}

// ParseStatus matches s against the known statuses, ignoring case and
// treating spaces, underscores and hyphens alike ("in progress" is In-Progress).
func ParseStatus(s string) (Status, error) {
	for _, status := range Statuses {
		if sameLabel(string(status), s) {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// ParseUpdateStatus matches s against the statuses an item can be moved to.
// Pending is only ever set when an item is logged.
func ParseUpdateStatus(s string) (Status, error) {
	for _, status := range UpdateStatuses {
		if sameLabel(string(status), s) {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want In-Progress or Completed)", ErrUnknownStatus, s)
}

// ParseType matches s against the known correspondence types.
func ParseType(s string) (CorrespondenceType, error) {
	for _, t := range Types {
		if sameLabel(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// ParseClassification matches s against the known classifications.
func ParseClassification(s string) (Classification, error) {
	for _, c := range Classifications {
		if sameLabel(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownClassification, s)
}

func sameLabel(label, input string) bool {
	return strings.EqualFold(normalizeLabel(label), normalizeLabel(input))
}

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(s)), " ")
}
