package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/bookgraph/internal/chatwidget"
	"github.com/ziadkadry99/bookgraph/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// widgetRequest is the incoming WebSocket message format.
type widgetRequest struct {
	Type    string `json:"type"` // "toggle", "close", "message" or "starter"
	Content string `json:"content,omitempty"`
}

// widgetEvent is the outgoing WebSocket message format.
type widgetEvent struct {
	Type     string            `json:"type"` // "added", "removed", "starters", "state" or "error"
	Entry    *chatwidget.Entry `json:"entry,omitempty"`
	HTML     string            `json:"html,omitempty"`
	Starters []string          `json:"starters,omitempty"`
	Open     *bool             `json:"open,omitempty"`
	Content  string            `json:"content,omitempty"`
}

// pendingLimit bounds the chat messages queued behind a pending reply.
const pendingLimit = 16

// widgetConn pairs a widget with its socket. Chat messages are handled one
// at a time in arrival order by a worker; window state changes are answered
// from the read loop so they never wait on a reply.
type widgetConn struct {
	wb      *Web
	conn    *websocket.Conn
	widget  *chatwidget.Controller
	pending chan widgetRequest

	writeMu sync.Mutex
}

// handleWebSocket runs one chat widget per connection. The page query
// parameter names the embedding page; id is the book on a detail page.
func (wb *Web) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	log := logger.Get()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	query := r.URL.Query()
	wc := &widgetConn{
		wb:      wb,
		conn:    conn,
		widget:  chatwidget.New(wb.chat, query.Get("page"), query),
		pending: make(chan widgetRequest, pendingLimit),
	}
	wc.widget.Transcript().Subscribe(wc.forward)

	ctx, cancel := context.WithCancel(r.Context())
	var wg sync.WaitGroup
	defer func() {
		close(wc.pending)
		cancel()
		wg.Wait()
	}()

	wc.send(widgetEvent{Type: "starters", Starters: wc.widget.LoadConversationStarters(ctx)})

	wg.Add(1)
	go func() {
		defer wg.Done()
		wc.work(ctx)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("websocket read")
			}
			return
		}

		var req widgetRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			wc.send(widgetEvent{Type: "error", Content: "invalid message format"})
			continue
		}

		switch req.Type {
		case "toggle":
			open := wc.widget.Toggle()
			wc.send(widgetEvent{Type: "state", Open: &open})
		case "close":
			wc.widget.Close()
			open := false
			wc.send(widgetEvent{Type: "state", Open: &open})
		case "message", "starter":
			select {
			case wc.pending <- req:
			default:
				wc.send(widgetEvent{Type: "error", Content: "too many pending messages"})
			}
		default:
			wc.send(widgetEvent{Type: "error", Content: "unknown message type: " + req.Type})
		}
	}
}

// work sends queued chat messages to the assistant in arrival order.
func (wc *widgetConn) work(ctx context.Context) {
	for req := range wc.pending {
		if ctx.Err() != nil {
			continue
		}
		if req.Type == "starter" {
			wc.widget.SelectStarter(ctx, req.Content)
		} else {
			wc.widget.SendMessage(ctx, req.Content)
		}
	}
}

// forward mirrors transcript changes to the browser. Bot replies carry
// their markdown rendered to HTML.
func (wc *widgetConn) forward(ev chatwidget.Event) {
	entry := ev.Entry
	out := widgetEvent{Type: string(ev.Kind), Entry: &entry}
	if ev.Kind == chatwidget.EventAdded && entry.Sender == chatwidget.SenderBot && !entry.Typing {
		out.HTML = wc.wb.renderMarkdown(entry.Text)
	}
	wc.send(out)
}

func (wc *widgetConn) send(ev widgetEvent) {
	wc.writeMu.Lock()
	defer wc.writeMu.Unlock()
	if err := wc.conn.WriteJSON(ev); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Str("type", ev.Type).Msg("websocket write")
	}
}
