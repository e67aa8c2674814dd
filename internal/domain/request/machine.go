package request

import (
	"strings"

	"pts/internal/domain/apperr"
	"pts/internal/domain/auth"
)

// Transition is the outcome of applying one action to a request.
type Transition struct {
	Next     Request
	Action   ActionType
	StepNo   int
	Comment  string
	Finalize bool
}

func invalid(r Request, action ActionType) error {
	return &apperr.InvalidTransitionError{Entity: "request", From: string(r.Status), Action: string(action)}
}

func requireOwner(r Request, actor auth.Actor) error {
	if r.UserID != actor.UserID {
		return apperr.Forbidden("only the request owner may do this")
	}
	return nil
}

// requireApprover checks the request is waiting and the actor holds the role of its current step.
func requireApprover(r Request, actor auth.Actor, action ActionType) error {
	if r.Status != StatusPending {
		return invalid(r, action)
	}
	expected, ok := auth.RequiredRole(auth.ApprovalStep(r.CurrentStep))
	if !ok {
		return apperr.Integrity("request %d is pending at unknown step %d", r.ID, r.CurrentStep)
	}
	if actor.Role != expected {
		return &apperr.RoleMismatchError{Expected: string(expected), Got: string(actor.Role)}
	}
	return nil
}

func Submit(r Request, actor auth.Actor) (Transition, error) {
	if r.Status != StatusDraft && r.Status != StatusReturned {
		return Transition{}, invalid(r, ActionSubmit)
	}
	if err := requireOwner(r, actor); err != nil {
		return Transition{}, err
	}
	if r.RequestedAmount == nil || !r.RequestedAmount.IsPositive() {
		return Transition{}, apperr.Validation("requested amount must be greater than zero")
	}
	if r.EffectiveDate == nil || r.EffectiveDate.IsZero() {
		return Transition{}, apperr.Validation("effective date is required")
	}

	next := r
	next.Status = StatusPending
	next.CurrentStep = int(auth.FirstStep)
	return Transition{Next: next, Action: ActionSubmit, StepNo: SubmitStepNo}, nil
}

func Approve(r Request, actor auth.Actor, comment string) (Transition, error) {
	if err := requireApprover(r, actor, ActionApprove); err != nil {
		return Transition{}, err
	}
	next := r
	next.CurrentStep = r.CurrentStep + 1
	t := Transition{Next: next, Action: ActionApprove, StepNo: r.CurrentStep, Comment: strings.TrimSpace(comment)}
	if next.CurrentStep > int(auth.LastStep) {
		t.Next.CurrentStep = int(auth.StepApproved)
		t.Next.Status = StatusApproved
		t.Finalize = true
	}
	return t, nil
}

func Reject(r Request, actor auth.Actor, comment string) (Transition, error) {
	if err := requireApprover(r, actor, ActionReject); err != nil {
		return Transition{}, err
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return Transition{}, apperr.Validation("comment is required to reject")
	}
	next := r
	next.Status = StatusRejected
	return Transition{Next: next, Action: ActionReject, StepNo: r.CurrentStep, Comment: comment}, nil
}

func Return(r Request, actor auth.Actor, comment string) (Transition, error) {
	if err := requireApprover(r, actor, ActionReturn); err != nil {
		return Transition{}, err
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return Transition{}, apperr.Validation("comment is required to return")
	}
	if r.CurrentStep <= int(auth.FirstStep) {
		return Transition{}, &apperr.InvalidTransitionError{Entity: "request", From: "PENDING at the first step", Action: string(ActionReturn)}
	}
	next := r
	next.Status = StatusReturned
	next.CurrentStep = r.CurrentStep - 1
	return Transition{Next: next, Action: ActionReturn, StepNo: r.CurrentStep, Comment: comment}, nil
}

func Cancel(r Request, actor auth.Actor) (Transition, error) {
	if r.Status != StatusDraft && r.Status != StatusReturned {
		return Transition{}, invalid(r, ActionCancel)
	}
	if err := requireOwner(r, actor); err != nil {
		return Transition{}, err
	}
	next := r
	next.Status = StatusCancelled
	return Transition{Next: next, Action: ActionCancel, StepNo: r.CurrentStep}, nil
}
