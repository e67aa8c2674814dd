package payroll

import (
	"pts/internal/domain/apperr"
)

var periodTransitions = map[Status]map[Action]Status{
	StatusOpen: {
		ActionSubmit: StatusWaitingHR,
	},
	StatusWaitingHR: {
		ActionApproveHR: StatusWaitingDirector,
		ActionReject:    StatusOpen,
	},
	StatusWaitingDirector: {
		ActionApproveDirector: StatusClosed,
		ActionReject:          StatusOpen,
	},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusWaitingHR, StatusWaitingDirector, StatusClosed:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusClosed
}

func (a Action) IsValid() bool {
	switch a {
	case ActionSubmit, ActionApproveHR, ActionApproveDirector, ActionReject:
		return true
	}
	return false
}

// NextStatus returns the status reached by applying action to from.
func NextStatus(from Status, action Action) (Status, error) {
	if to, ok := periodTransitions[from][action]; ok {
		return to, nil
	}
	return "", &apperr.InvalidTransitionError{Entity: "payroll period", From: string(from), Action: string(action)}
}
