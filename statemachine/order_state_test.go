package statemachine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodie-api/models"
	"foodie-api/statemachine"
)

func TestHappyPathTransitions(t *testing.T) {
	steps := []struct {
		from, to models.OrderStatus
		actor    string
	}{
		{models.StatusPlaced, models.StatusConfirmed, "restaurant"},
		{models.StatusConfirmed, models.StatusPreparing, "restaurant"},
		{models.StatusPreparing, models.StatusReadyForPickup, "restaurant"},
		{models.StatusReadyForPickup, models.StatusPickedUp, "driver"},
		{models.StatusPickedUp, models.StatusDelivered, "driver"},
	}
	for _, s := range steps {
		assert.NoError(t, statemachine.CanTransition(s.from, s.to, s.actor),
			"%s -> %s by %s", s.from, s.to, s.actor)
	}
}

func TestCancellationRules(t *testing.T) {
	assert.NoError(t, statemachine.CanTransition(models.StatusPlaced, models.StatusCancelled, "customer"))
	assert.NoError(t, statemachine.CanTransition(models.StatusConfirmed, models.StatusCancelled, "customer"))
	assert.Error(t, statemachine.CanTransition(models.StatusPreparing, models.StatusCancelled, "customer"))
	assert.Error(t, statemachine.CanTransition(models.StatusPickedUp, models.StatusCancelled, "customer"))
}

func TestActorIsEnforced(t *testing.T) {
	// Right transition, wrong actor
	assert.Error(t, statemachine.CanTransition(models.StatusPlaced, models.StatusConfirmed, "driver"))
	assert.Error(t, statemachine.CanTransition(models.StatusReadyForPickup, models.StatusPickedUp, "restaurant"))
}

func TestTerminalStates(t *testing.T) {
	assert.Empty(t, statemachine.ValidTransitionsFrom(models.StatusDelivered))
	assert.Empty(t, statemachine.ValidTransitionsFrom(models.StatusCancelled))

	err := statemachine.CanTransition(models.StatusDelivered, models.StatusPlaced, "restaurant")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}

func TestValidTransitionsFromDeduplicates(t *testing.T) {
	// PLACED -> CANCELLED exists for two actors but should appear once
	nexts := statemachine.ValidTransitionsFrom(models.StatusPlaced)
	seen := map[models.OrderStatus]int{}
	for _, s := range nexts {
		seen[s]++
	}
	assert.Equal(t, 1, seen[models.StatusCancelled])
	assert.Equal(t, 1, seen[models.StatusConfirmed])
}
