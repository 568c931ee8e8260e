package voice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssistantRejectsBadSession(t *testing.T) {
	_, err := NewAssistant(12345, "deadbeef", "not a telethon session")
	assert.Error(t, err)
}

func TestResolvePeerRequiresUsername(t *testing.T) {
	a := &Assistant{}

	_, err := a.ResolvePeer(context.Background(), "")
	require.ErrorIs(t, err, ErrNeedUsername)
}
