package main

import (
	"time"

	"github.com/gorilla/websocket"
)

// Sessions go quiet while a human thinks, so the writer emits ping
// control frames on idle to keep proxies from dropping the socket.
const (
	wsPingInterval  = 30 * time.Second
	wsWriteDeadline = 10 * time.Second
)

// writeLoop drains the client's send queue onto conn. When the session
// has been idle for a full interval it sends a websocket ping control
// frame instead of a text message. The client is unregistered from its
// hub on the way out, which closes the send queue exactly once.
func (c *Client) writeLoop(conn *websocket.Conn) error {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	defer c.hub.Unregister(c)

	idleSince := time.Now()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return nil
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			idleSince = time.Now()
		case <-ticker.C:
			if time.Since(idleSince) < wsPingInterval {
				continue
			}
			deadline := time.Now().Add(wsWriteDeadline)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return err
			}
			idleSince = time.Now()
		}
	}
}
