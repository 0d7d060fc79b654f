package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageTransitionsAreClosed(t *testing.T) {
	// Every reachable stage must itself be declared in the table
	for from, targets := range StageTransitions {
		assert.True(t, IsValidStage(from))
		for _, to := range targets {
			assert.True(t, IsValidStage(to), "stage %s reaches undeclared stage %s", from, to)
		}
	}
}

func TestCanTransitionPipeline(t *testing.T) {
	assert.True(t, CanTransition(StageInitialReview, StageTechnicalReview))
	assert.True(t, CanTransition(StageTechnicalReview, StageCoreBanking))
	assert.True(t, CanTransition(StageCoreBanking, StageDisbursed))

	// Rejection loops back to initial review
	assert.True(t, CanTransition(StageTechnicalReview, StageInitialReview))
}

func TestCanTransitionForbidsSkipsAndReversals(t *testing.T) {
	assert.False(t, CanTransition(StageInitialReview, StageCoreBanking), "cannot skip technical review")
	assert.False(t, CanTransition(StageInitialReview, StageDisbursed))
	assert.False(t, CanTransition(StageCoreBanking, StageTechnicalReview), "core banking cannot move backwards")
	assert.False(t, CanTransition(StageDisbursed, StageInitialReview))
}

func TestDisbursedIsTerminal(t *testing.T) {
	assert.Empty(t, StageTransitions[StageDisbursed])
	for _, stage := range []RequestStage{StageInitialReview, StageTechnicalReview, StageCoreBanking} {
		assert.False(t, CanTransition(StageDisbursed, stage))
	}
}

func TestIsValidStage(t *testing.T) {
	assert.True(t, IsValidStage(StageInitialReview))
	assert.True(t, IsValidStage(StageApproved))
	assert.False(t, IsValidStage("archived"))
	assert.False(t, IsValidStage(""))
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []UserRole{RoleArchiveTeam, RoleOperationsTeam, RoleCoreBankingTeam, RoleLoanAdmin, RoleAdmin, RoleObserver} {
		assert.True(t, IsValidRole(role))
	}
	assert.False(t, IsValidRole("superuser"))
	assert.False(t, IsValidRole(""))
}
