package pkg

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIDs(t *testing.T) {
	// When: generating two IDs of each kind
	gameID, otherGameID := GenerateGameID(), GenerateGameID()
	sessionID := GenerateNewSessionID()

	// Then: they parse as UUIDs and do not repeat
	_, err := uuid.Parse(gameID)
	require.NoError(t, err)
	_, err = uuid.Parse(sessionID)
	require.NoError(t, err)
	assert.NotEqual(t, gameID, otherGameID)
}
