package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"dukanBack/internal/models"
)

const (
	previewWriteDeadline = 5 * time.Second
	previewPingInterval  = 15 * time.Second
	previewReadDeadline  = 120 * time.Second
)

type previewClient struct {
	storeID int
	conn    *websocket.Conn
}

type previewPush struct {
	storeID int
	design  models.DesignResult
}

// PreviewHub fans staged designs out to the open preview tabs of a store, so
// a generated proposal re-renders without polling. All access to the conns
// map happens on the Run goroutine.
type PreviewHub struct {
	conns      map[int]map[*websocket.Conn]struct{}
	register   chan previewClient
	unregister chan previewClient
	push       chan previewPush
}

func NewPreviewHub() *PreviewHub {
	return &PreviewHub{
		conns:      make(map[int]map[*websocket.Conn]struct{}),
		register:   make(chan previewClient),
		unregister: make(chan previewClient),
		push:       make(chan previewPush),
	}
}

func (h *PreviewHub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.conns[client.storeID] == nil {
				h.conns[client.storeID] = make(map[*websocket.Conn]struct{})
			}
			h.conns[client.storeID][client.conn] = struct{}{}
		case client := <-h.unregister:
			if set, ok := h.conns[client.storeID]; ok {
				if _, ok := set[client.conn]; ok {
					client.conn.Close()
					delete(set, client.conn)
					if len(set) == 0 {
						delete(h.conns, client.storeID)
					}
				}
			}
		case msg := <-h.push:
			for conn := range h.conns[msg.storeID] {
				conn.SetWriteDeadline(time.Now().Add(previewWriteDeadline))
				if err := conn.WriteJSON(map[string]interface{}{
					"type":   "pending_design",
					"design": msg.design,
				}); err != nil {
					conn.Close()
					delete(h.conns[msg.storeID], conn)
				}
			}
		}
	}
}

// BroadcastDesign implements services.PreviewBroadcaster.
func (h *PreviewHub) BroadcastDesign(storeID int, design models.DesignResult) {
	if h == nil {
		return
	}
	h.push <- previewPush{storeID: storeID, design: design}
}

var previewUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (app *application) servePreviewWS(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.Atoi(r.URL.Query().Get(":store_id"))
	if err != nil {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return
	}

	conn, err := previewUpgrader.Upgrade(w, r, nil)
	if err != nil {
		app.errorLog.Printf("preview ws upgrade: %v", err)
		return
	}

	client := previewClient{storeID: storeID, conn: conn}
	app.previewHub.register <- client

	conn.SetReadDeadline(time.Now().Add(previewReadDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(previewReadDeadline))
	})

	go func() {
		ticker := time.NewTicker(previewPingInterval)
		defer ticker.Stop()
		for range ticker.C {
			conn.SetWriteDeadline(time.Now().Add(previewWriteDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				app.previewHub.unregister <- client
				return
			}
		}
	}()

	// Preview sockets are push-only; the read loop exists to notice closes.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				app.previewHub.unregister <- client
				return
			}
		}
	}()
}
