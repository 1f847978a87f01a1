package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ModerationAction is what a moderator asks for.
type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionReject  ModerationAction = "reject"
	ActionRevert  ModerationAction = "revert"
)

// DecidedPolicy controls how approve/reject behave on a report that is no longer pending.
type DecidedPolicy int

const (
	// RevertDecided treats approve/reject on a decided report as a request to reopen it.
	RevertDecided DecidedPolicy = iota
	// RejectDecided refuses any approve/reject once a report has been decided.
	RejectDecided
)

// DefaultDecidedPolicy is the policy used when none is configured.
const DefaultDecidedPolicy = RevertDecided

// TransitionKind classifies a derived transition.
type TransitionKind int

const (
	TransitionNoop TransitionKind = iota
	TransitionForward
	TransitionRevert
)

// Transition is a state machine edge derived from the observed status and requested action.
type Transition struct {
	Kind   TransitionKind
	From   ReportStatus
	To     ReportStatus
	Action ModerationAction
}

var (
	// ErrAlreadyProcessed is returned under RejectDecided for approve/reject on a decided report.
	ErrAlreadyProcessed = errors.New("report has already been processed")
	// ErrInvalidTransition is returned for statuses or actions outside the state machine.
	ErrInvalidTransition = errors.New("invalid moderation transition")
)

// DeriveTransition resolves the edge for (current, action) under policy.
func DeriveTransition(current ReportStatus, action ModerationAction, policy DecidedPolicy) (Transition, error) {
	t := Transition{From: current, Action: action}

	switch current {
	case ReportStatusPending:
		switch action {
		case ActionApprove:
			t.Kind, t.To = TransitionForward, ReportStatusApproved
		case ActionReject:
			t.Kind, t.To = TransitionForward, ReportStatusRejected
		case ActionRevert:
			t.Kind, t.To = TransitionNoop, ReportStatusPending
		default:
			return Transition{}, fmt.Errorf("%w: action %q", ErrInvalidTransition, action)
		}
	case ReportStatusApproved, ReportStatusRejected:
		switch action {
		case ActionApprove, ActionReject:
			if policy == RejectDecided {
				return Transition{}, ErrAlreadyProcessed
			}
			t.Kind, t.To = TransitionRevert, ReportStatusPending
		case ActionRevert:
			t.Kind, t.To = TransitionRevert, ReportStatusPending
		default:
			return Transition{}, fmt.Errorf("%w: action %q", ErrInvalidTransition, action)
		}
	default:
		return Transition{}, fmt.Errorf("%w: status %q", ErrInvalidTransition, current)
	}

	return t, nil
}

// Update returns the field mutations for the transition. reason is only kept when rejecting.
func (t Transition) Update(moderatorID string, reason string) ModerationUpdate {
	switch t.Kind {
	case TransitionForward:
		upd := ModerationUpdate{Status: t.To, ModeratorID: &moderatorID}
		if t.To == ReportStatusRejected {
			if trimmed := strings.TrimSpace(reason); trimmed != "" {
				upd.RejectionReason = &trimmed
			}
		}
		return upd
	case TransitionRevert:
		return ModerationUpdate{Status: ReportStatusPending}
	}
	return ModerationUpdate{Status: t.From}
}
