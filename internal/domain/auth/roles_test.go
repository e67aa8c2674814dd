package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredRoleAndInverse(t *testing.T) {
	expected := map[ApprovalStep]Role{
		1: RoleHeadDept,
		2: RolePTSOfficer,
		3: RoleHeadHR,
		4: RoleDirector,
		5: RoleHeadFinance,
	}
	for step, role := range expected {
		got, ok := RequiredRole(step)
		require.True(t, ok)
		assert.Equal(t, role, got)

		back, ok := StepForRole(role)
		require.True(t, ok)
		assert.Equal(t, step, back)
	}

	_, ok := RequiredRole(StepApproved)
	assert.False(t, ok)
	_, ok = StepForRole(RoleUser)
	assert.False(t, ok)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("HEAD_HR")
	require.NoError(t, err)
	assert.Equal(t, RoleHeadHR, role)

	_, err = ParseRole("head_hr")
	assert.Error(t, err)
}

func TestBatchSteps(t *testing.T) {
	assert.True(t, IsBatchStep(StepDirector))
	assert.True(t, IsBatchStep(StepHeadFinance))
	assert.False(t, IsBatchStep(StepHeadHR))
}
