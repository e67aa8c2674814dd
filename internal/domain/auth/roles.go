package auth

import "fmt"

// Role is the approver or user role carried in the token.
type Role string

const (
	RoleUser        Role = "USER"
	RoleHeadDept    Role = "HEAD_DEPT"
	RolePTSOfficer  Role = "PTS_OFFICER"
	RoleHeadHR      Role = "HEAD_HR"
	RoleDirector    Role = "DIRECTOR"
	RoleHeadFinance Role = "HEAD_FINANCE"
	RoleAdmin       Role = "ADMIN"
)

var allRoles = []Role{RoleUser, RoleHeadDept, RolePTSOfficer, RoleHeadHR, RoleDirector, RoleHeadFinance, RoleAdmin}

func ParseRole(raw string) (Role, error) {
	for _, r := range allRoles {
		if string(r) == raw {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// ApprovalStep is the position of a request in the approval chain.
type ApprovalStep int

const (
	StepHeadDept ApprovalStep = iota + 1
	StepPTSOfficer
	StepHeadHR
	StepDirector
	StepHeadFinance
	// StepApproved is reached after the last approver signs.
	StepApproved
)

const (
	FirstStep = StepHeadDept
	LastStep  = StepHeadFinance
)

var stepRoles = map[ApprovalStep]Role{
	StepHeadDept:    RoleHeadDept,
	StepPTSOfficer:  RolePTSOfficer,
	StepHeadHR:      RoleHeadHR,
	StepDirector:    RoleDirector,
	StepHeadFinance: RoleHeadFinance,
}

func (s ApprovalStep) IsApprovalStep() bool {
	return s >= FirstStep && s <= LastStep
}

// RequiredRole returns the role that must act on a request sitting at step.
func RequiredRole(step ApprovalStep) (Role, bool) {
	role, ok := stepRoles[step]
	return role, ok
}

// StepForRole is the inverse of RequiredRole.
func StepForRole(role Role) (ApprovalStep, bool) {
	for step, r := range stepRoles {
		if r == role {
			return step, true
		}
	}
	return 0, false
}

// BatchApprovalSteps are the steps whose approver may sign many requests at once.
func BatchApprovalSteps() []ApprovalStep {
	return []ApprovalStep{StepDirector, StepHeadFinance}
}

func IsBatchStep(step ApprovalStep) bool {
	for _, s := range BatchApprovalSteps() {
		if s == step {
			return true
		}
	}
	return false
}
