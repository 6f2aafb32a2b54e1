package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

const (
	actionConnect     = "connect"
	actionGameNew     = "game:new"
	actionGameTurn    = "game:turn"
	actionGameRestart = "game:restart"
	actionGameEnd     = "game:end"
	actionGameUpdate  = "game:update"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *entity.Game   `json:"game,omitempty"`
	Cell   *int           `json:"cell,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// client - one websocket connection. gorilla allows a single concurrent
// writer, and bot updates arrive from timer goroutines.
type client struct {
	conn *websocket.Conn

	writeMu  sync.Mutex
	playerID string
}

func (that *client) send(action string, payload Payload) error {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: rawPayload}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
