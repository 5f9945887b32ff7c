package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// streamCandles upgrades to a websocket and pushes each new candle as JSON
// until the client disconnects. Session auth happens in middleware before
// the upgrade.
func (h *handler) streamCandles(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.deps.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	candles, cancel := h.deps.Engine.Subscribe()
	defer cancel()

	// Drain reads so close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case candle, ok := <-candles:
			if !ok {
				return
			}
			if err := conn.WriteJSON(candle); err != nil {
				return
			}
		}
	}
}
