package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"secsentry/types"
)

// Manager manages WebSocket connections for real-time assessment updates
type Manager struct {
	connections map[*websocket.Conn]bool
	mutex       sync.RWMutex
	upgrader    websocket.Upgrader
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	SessionID string      `json:"session_id,omitempty"`
}

// NewManager creates a new WebSocket manager
func NewManager() *Manager {
	return &Manager{
		connections: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleConnection upgrades an HTTP request and serves the client until it
// disconnects.
func (m *Manager) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %s", err.Error())
		return
	}
	defer conn.Close()

	log.Println("WebSocket client connected")

	m.mutex.Lock()
	m.connections[conn] = true
	m.mutex.Unlock()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %s", err.Error())
			}
			break
		}

		var data map[string]interface{}
		if err := json.Unmarshal(message, &data); err != nil {
			log.Printf("Failed to parse message: %s", err.Error())
			continue
		}

		msgType, ok := data["type"].(string)
		if !ok {
			continue
		}

		switch msgType {
		case "ping":
			m.sendMessage(conn, WSMessage{
				Type:      "pong",
				Timestamp: time.Now(),
				Data:      map[string]interface{}{"status": "ok"},
			})
		}
	}

	log.Println("WebSocket client disconnected")

	m.mutex.Lock()
	delete(m.connections, conn)
	m.mutex.Unlock()
}

// BroadcastMessage broadcasts a message to all connected clients
func (m *Manager) BroadcastMessage(msgType, sessionID string, data interface{}) {
	m.mutex.RLock()
	connections := make([]*websocket.Conn, 0, len(m.connections))
	for conn := range m.connections {
		connections = append(connections, conn)
	}
	m.mutex.RUnlock()

	message := WSMessage{
		Type:      msgType,
		Timestamp: time.Now(),
		Data:      data,
		SessionID: sessionID,
	}

	for _, conn := range connections {
		m.sendMessage(conn, message)
	}
}

// sendMessage sends a message to a specific connection
func (m *Manager) sendMessage(conn *websocket.Conn, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal WebSocket message: %v", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("Failed to send WebSocket message: %v", err)
		m.mutex.Lock()
		delete(m.connections, conn)
		m.mutex.Unlock()
	}
}

// GetConnectionCount returns the number of active connections
func (m *Manager) GetConnectionCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.connections)
}

// BroadcastTurnProcessed pushes a completed turn to all listeners.
func (m *Manager) BroadcastTurnProcessed(sessionID string, result *types.TurnResult) {
	m.BroadcastMessage("turn_processed", sessionID, result)
}

// BroadcastReportGenerated pushes a finished report to all listeners.
func (m *Manager) BroadcastReportGenerated(sessionID string, report *types.Report) {
	m.BroadcastMessage("report_generated", sessionID, report)
}

// BroadcastSessionStarted announces a new assessment session.
func (m *Manager) BroadcastSessionStarted(sessionID, firstQuestion string) {
	m.BroadcastMessage("session_started", sessionID, map[string]interface{}{
		"first_question": firstQuestion,
	})
}
