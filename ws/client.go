package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	pongWait     = 10 * time.Second
	pingInterval = (pongWait * 9) / 10
)

// egressBuffer bounds the per-client outbound queue. Broadcasts never
// wait on a recipient: when the buffer is full the event is dropped.
const egressBuffer = 32

// Client is the per-connection session. The room field tracks the one
// room this connection has joined ("" before the first join) and is read
// and written only by the manager's dispatch goroutine.
type Client struct {
	ID         string
	connection *websocket.Conn
	manager    *Manager
	egress     chan Event
	room       string
	err        chan error
}

func NewClient(conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		ID:         uuid.NewString(),
		connection: conn,
		manager:    manager,
		egress:     make(chan Event, egressBuffer),
		err:        make(chan error, 2),
	}
}

// Reads incoming messages from the client's websocket connection and
// queues them for the manager's dispatch loop.
func (c *Client) readMessages(ctx context.Context) {
	c.connection.SetReadLimit(512)

	if err := c.connection.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.handleError(err)
		return
	}

	c.connection.SetPongHandler(c.pongHandler)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, payload, err := c.connection.ReadMessage()

			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
					log.Printf("error reading message: %v", err)
				}
				c.handleError(err)
				return
			}

			var evt Event

			if err := json.Unmarshal(payload, &evt); err != nil {
				// a garbled frame is the sender's problem, not the connection's
				errEvent, err := NewErrorEvent("cannot unmarshal json payload")

				if err != nil {
					log.Println("error creating error event:", err)
					continue
				}

				c.Send(errEvent)
				continue
			}

			c.manager.enqueue(request{client: c, event: evt})
		}
	}
}

// Writes events pushed to the client's egress channel and keeps the
// connection alive with pings.
func (c *Client) writeMessages(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)

	defer func() {
		ticker.Stop()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-c.egress:
			data, err := json.Marshal(event)

			if err != nil {
				c.handleError(err)
				return
			}

			if err := c.connection.WriteMessage(websocket.TextMessage, data); err != nil {
				c.handleError(err)
				return
			}
		case <-ticker.C:
			if err := c.connection.WriteMessage(websocket.PingMessage, []byte("")); err != nil {
				c.handleError(err)
				return
			}
		}
	}
}

// Sets a new read deadline when a pong is received for a ping message.
func (c *Client) pongHandler(pongMsg string) error {
	return c.connection.SetReadDeadline(time.Now().Add(pongWait))
}

// Push error to the client error channel. ServeWS waits on this channel
// and tears the connection down when either pump fails.
func (c *Client) handleError(e error) {
	c.err <- e
}

// Err returns the error channel.
func (c *Client) Err() chan error {
	return c.err
}

// Send queues an event for delivery on the client's connection. Delivery
// is fire-and-forget: a client that has stopped draining its egress loses
// events rather than stalling the dispatch loop.
func (c *Client) Send(evt Event) {
	select {
	case c.egress <- evt:
	default:
		log.Printf("dropping %v event for slow client %v", evt.Type, c.ID)
	}
}

// PushEvent builds an event from a payload and queues it for delivery.
func (c *Client) PushEvent(evtType string, payload any) error {
	evt, err := NewEvent(evtType, payload)

	if err != nil {
		return err
	}

	c.Send(evt)
	return nil
}
