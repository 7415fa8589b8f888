package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/judgegodwins/chess-rooms/util"
	"golang.org/x/exp/slices"
)

// inboundBuffer bounds the dispatch queue shared by every connection.
const inboundBuffer = 256

// request is one inbound event tagged with the connection it arrived on.
type request struct {
	client *Client
	event  Event
}

// Manager owns the room registry and the single dispatch goroutine that
// serializes every inbound event across all connections. Room and
// registry state never needs locking because only Run's goroutine touches
// it; the mutex below guards the connection list alone, which the HTTP
// goroutines also update.
type Manager struct {
	sync.RWMutex
	clients  map[string]*Client
	registry *Registry
	handlers map[string]EventHandler
	inbound  chan request
	validate *validator.Validate
	upgrader websocket.Upgrader
	config   *util.Config
}

func NewManager(config *util.Config, registry *Registry) *Manager {
	m := &Manager{
		clients:  make(map[string]*Client),
		registry: registry,
		handlers: make(map[string]EventHandler),
		inbound:  make(chan request, inboundBuffer),
		validate: validator.New(),
		config:   config,
	}

	m.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     m.checkOrigin,
	}

	m.setupEventHandlers()

	return m
}

func (m *Manager) setupEventHandlers() {
	m.handlers[EventJoinRoom] = JoinRoomHandler
	m.handlers[EventStartGame] = StartGameHandler
	m.handlers[EventMove] = MoveHandler
}

// Run consumes the inbound queue until ctx is cancelled. One event is
// fully handled before the next begins, which makes move order per room
// total and leaves no interleaving hazards on room state.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-m.inbound:
			m.dispatch(req)
		}
	}
}

func (m *Manager) enqueue(req request) {
	m.inbound <- req
}

func (m *Manager) dispatch(req request) {
	if req.event.Type == EventDisconnect {
		m.leaveCurrentRoom(req.client)
		return
	}

	handler, ok := m.handlers[req.event.Type]

	if !ok {
		m.pushError(req.client, "there is no such event type")
		return
	}

	// a handler error concerns the sender alone; room state is unchanged
	if err := handler(req.event, req.client); err != nil {
		log.Printf("error handling %v event from client %v: %v", req.event.Type, req.client.ID, err)
		m.pushError(req.client, err.Error())
	}
}

func (m *Manager) pushError(c *Client, message string) {
	evt, err := NewErrorEvent(message)

	if err != nil {
		log.Println("error creating error event:", err)
		return
	}

	c.Send(evt)
}

// leaveCurrentRoom removes the client from its current room, vacating a
// player slot or discarding a spectator entry. The last member out
// destroys the room. Remaining members hear about a vacated slot so their
// clients can react to the opponent going away.
func (m *Manager) leaveCurrentRoom(c *Client) {
	if c.room == "" {
		return
	}

	room := m.registry.Get(c.room)
	c.room = ""

	if room == nil {
		return
	}

	wasPlayer := room.IsPlayer(c.ID)
	room.RemoveConnection(c.ID)

	if room.Empty() {
		m.registry.Remove(room.ID)
		return
	}

	if wasPlayer {
		evt, err := NewEvent(EventOpponentLeft, nil)

		if err != nil {
			log.Println("error creating disconnect event:", err)
			return
		}

		m.broadcast(room, evt)
	}
}

// broadcast queues evt for every member of the room and nobody else.
func (m *Manager) broadcast(room *Room, evt Event) {
	for _, id := range room.Members() {
		if client := m.client(id); client != nil {
			client.Send(evt)
		}
	}
}

func (m *Manager) client(id string) *Client {
	m.RLock()
	defer m.RUnlock()

	return m.clients[id]
}

func (m *Manager) addClient(client *Client) {
	m.Lock()
	defer m.Unlock()

	m.clients[client.ID] = client
}

func (m *Manager) removeClient(client *Client) {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.clients[client.ID]; ok {
		client.connection.Close()
		delete(m.clients, client.ID)
	}
}

// Websocket connection handler
func (m *Manager) ServeWS(c *gin.Context) {
	conn, err := m.upgrader.Upgrade(c.Writer, c.Request, nil)

	if err != nil {
		log.Printf("error upgrading to websocket connection: %v\n", err)
		c.IndentedJSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "something went wrong",
		})
		return
	}

	client := NewClient(conn, m)

	m.addClient(client)

	ctx, cancel := context.WithCancel(c.Request.Context())

	defer func() {
		cancel()
		m.enqueue(request{client: client, event: Event{Type: EventDisconnect}})
		m.removeClient(client)
		err := client.connection.WriteMessage(websocket.CloseMessage, nil)

		if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
			log.Println("error sending close message:", err)
		}
	}()

	go client.readMessages(ctx)
	go client.writeMessages(ctx)

	err = <-client.Err()

	log.Println("client closed:", err)
}

func (m *Manager) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	if origin == "" || len(m.config.AllowedOrigins) == 0 {
		return true
	}

	return slices.Contains(m.config.AllowedOrigins, origin)
}
