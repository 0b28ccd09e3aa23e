package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactsComplete(t *testing.T) {
	collected := json.RawMessage(`{"collected": true, "location": "Berlin"}`)
	f := Facts{Who: collected, What: collected, When: collected, Where: collected}
	assert.False(t, f.Complete())

	f.Why = json.RawMessage(`{"desired_outcome": "Reparatur"}`)
	assert.False(t, f.Complete())

	f.Why = collected
	assert.True(t, f.Complete())
	assert.Equal(t, map[string]bool{"who": true, "what": true, "when": true, "where": true, "why": true}, f.Collected())
}

func TestConnectionStatusTransitions(t *testing.T) {
	assert.True(t, ConnectionStatusPending.CanTransitionTo(ConnectionStatusAccepted))
	assert.True(t, ConnectionStatusPending.CanTransitionTo(ConnectionStatusRejected))
	assert.True(t, ConnectionStatusPending.CanTransitionTo(ConnectionStatusCancelled))
	assert.False(t, ConnectionStatusPending.CanTransitionTo(ConnectionStatusPending))

	for _, terminal := range []ConnectionStatus{ConnectionStatusAccepted, ConnectionStatusRejected, ConnectionStatusCancelled} {
		assert.False(t, terminal.CanTransitionTo(ConnectionStatusCancelled), string(terminal))
		assert.False(t, terminal.CanTransitionTo(ConnectionStatusAccepted), string(terminal))
	}
}

func TestUserDisplayName(t *testing.T) {
	first, last, nick := "Anna", "Weber", "anni"
	assert.Equal(t, "a@example.com", (&User{Email: "a@example.com"}).DisplayName())
	assert.Equal(t, "anni", (&User{Email: "a@example.com", Nickname: &nick}).DisplayName())
	assert.Equal(t, "Anna Weber", (&User{FirstName: &first, LastName: &last, Nickname: &nick}).DisplayName())
}
