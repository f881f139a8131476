package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketSingleUse(t *testing.T) {
	ticket := IssueTicket("unit", time.Minute)
	require.NotEmpty(t, ticket)

	assert.True(t, ConsumeTicket("unit", ticket))
	assert.False(t, ConsumeTicket("unit", ticket), "second consume must fail")
}

func TestTicketScopeIsolation(t *testing.T) {
	ticket := IssueTicket("scope-a", time.Minute)

	assert.False(t, ConsumeTicket("scope-b", ticket))
	assert.True(t, ConsumeTicket("scope-a", ticket))
}

func TestConsumeTicketEmpty(t *testing.T) {
	assert.False(t, ConsumeTicket("unit", ""))
}

func TestConsumeTicketUnknown(t *testing.T) {
	assert.False(t, ConsumeTicket("unit", "never-issued"))
}

func TestOAuthStateRoundTrip(t *testing.T) {
	SaveState("state-123", time.Minute)

	assert.True(t, ConsumeState("state-123"))
	assert.False(t, ConsumeState("state-123"))
}
