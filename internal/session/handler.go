package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ndrandal/price-simulator/internal/market"
	"github.com/ndrandal/price-simulator/internal/simulation"
	"github.com/ndrandal/price-simulator/internal/wire"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// controlMessage represents a client → server control message.
type controlMessage struct {
	Action  string   `json:"action"`
	Format  string   `json:"format,omitempty"`
	Price   *float64 `json:"price,omitempty"`
	EventID int      `json:"eventId,omitempty"`
}

// Handler creates the HTTP handler for WebSocket upgrades. The caller is
// expected to have subscribed mgr.Publish to ctrl so that changes fan out.
func Handler(mgr *Manager, ctrl *simulation.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade error: %v", err)
			return
		}

		client := mgr.Register(conn)
		mgr.SendToClient(client, StateMessage(wire.KindState, ctrl.Snapshot()))

		// Start read and write pumps
		go writePump(client)
		go readPump(client, mgr, ctrl)
	}
}

// readPump processes incoming control messages from the client.
func readPump(c *Client, mgr *Manager, ctrl *simulation.Controller) {
	defer mgr.Unregister(c)

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("client %d read error: %v", c.ID, err)
			}
			return
		}

		var msg controlMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("client %d invalid message: %v", c.ID, err)
			mgr.SendToClient(c, ErrorMessage("invalid control message"))
			continue
		}

		handleControl(c, mgr, ctrl, &msg)
	}
}

// handleControl processes a parsed control message. State changes reach
// the client through the controller's listeners; rejections and check
// results go to this client only.
func handleControl(c *Client, mgr *Manager, ctrl *simulation.Controller, msg *controlMessage) {
	switch msg.Action {
	case "format":
		switch msg.Format {
		case "binary":
			c.SetFormat(FormatBinary)
			log.Printf("client %d switched to binary format", c.ID)
		case "json":
			c.SetFormat(FormatJSON)
			log.Printf("client %d switched to json format", c.ID)
		default:
			log.Printf("client %d unknown format: %s", c.ID, msg.Format)
			mgr.SendToClient(c, ErrorMessage(fmt.Sprintf("unknown format %q", msg.Format)))
		}

	case "setPrice":
		if msg.Price == nil || !market.PriceInRange(*msg.Price) {
			mgr.SendToClient(c, ErrorMessage(fmt.Sprintf("price must be between %g and %g", market.PriceMin, market.PriceMax)))
			return
		}
		ctrl.SetPrice(*msg.Price)

	case "triggerEvent":
		ev, _ := ctrl.TriggerRandomEvent()
		log.Printf("client %d triggered event %d (%s)", c.ID, ev.ID, ev.Name)

	case "applyEvent":
		ev, _, err := ctrl.ApplyEvent(msg.EventID)
		if errors.Is(err, simulation.ErrUnknownEvent) {
			mgr.SendToClient(c, ErrorMessage(fmt.Sprintf("unknown event %d", msg.EventID)))
			return
		}
		log.Printf("client %d applied event %d (%s)", c.ID, ev.ID, ev.Name)

	case "reset":
		ctrl.ResetMarket()
		log.Printf("client %d reset the market", c.ID)

	case "check":
		mgr.SendToClient(c, CheckMessage(ctrl.CheckProfitMaximization()))

	default:
		log.Printf("client %d unknown action: %s", c.ID, msg.Action)
		mgr.SendToClient(c, ErrorMessage(fmt.Sprintf("unknown action %q", msg.Action)))
	}
}

// writePump sends frames from the send channel to the WebSocket.
func writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case f, ok := <-c.SendCh():
			if !ok {
				return
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))

			msgType := websocket.TextMessage
			if f.Binary {
				msgType = websocket.BinaryMessage
			}

			if err := c.Conn.WriteMessage(msgType, f.Data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.Done():
			return
		}
	}
}
