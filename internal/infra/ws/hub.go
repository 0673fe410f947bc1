package ws

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/net/websocket"
)

var (
	activePeers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ws_active_connections",
		Help: "Number of connected WebSocket clients",
	})

	eventsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_events_delivered_total",
		Help: "Total number of WebSocket frames delivered, by event",
	}, []string{"event"})
)

// Frame é o envelope de todo evento servidor→cliente.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// writeWait limita quanto tempo uma escrita pode segurar o caminho de
// entrega. Broadcast e notify rodam dentro do request da mutação, então
// um assinante que parou de ler não pode bloquear o handler.
var writeWait = 5 * time.Second

// Peer é uma conexão WebSocket. As escritas são serializadas pelo mutex
// porque broadcast e notify podem correr em requests concorrentes.
type Peer struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewPeer(conn *websocket.Conn) *Peer {
	return &Peer{conn: conn}
}

func (p *Peer) send(frame Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return websocket.JSON.Send(p.conn, frame)
}

// Hub é o registry de assinaturas do fan-out. Instância explícita, criada
// no main e injetada — sem estado global. Entrega é "no máximo uma vez por
// cliente conectado": quem está fora perde o evento, não há replay.
type Hub struct {
	mu    sync.Mutex
	peers map[*Peer]struct{}
	rooms map[string]map[*Peer]struct{} // sala privada por id de usuário
}

func NewHub() *Hub {
	return &Hub{
		peers: make(map[*Peer]struct{}),
		rooms: make(map[string]map[*Peer]struct{}),
	}
}

func (h *Hub) Register(p *Peer) {
	h.mu.Lock()
	h.peers[p] = struct{}{}
	h.mu.Unlock()
	activePeers.Inc()
}

// Unregister é idempotente: a entrega e o loop de leitura do handler
// podem ambos remover o mesmo peer.
func (h *Hub) Unregister(p *Peer) {
	h.mu.Lock()
	if _, ok := h.peers[p]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.peers, p)
	for userID, room := range h.rooms {
		delete(room, p)
		if len(room) == 0 {
			delete(h.rooms, userID)
		}
	}
	h.mu.Unlock()
	activePeers.Dec()
}

// JoinUser inscreve a conexão na sala privada do usuário. A identidade vem
// do token verificado pelo transporte, nunca de payload do cliente. Várias
// conexões do mesmo usuário convivem na sala (multi-dispositivo).
func (h *Hub) JoinUser(p *Peer, userID string) {
	if userID == "" {
		return
	}
	h.mu.Lock()
	room, ok := h.rooms[userID]
	if !ok {
		room = make(map[*Peer]struct{})
		h.rooms[userID] = room
	}
	room[p] = struct{}{}
	h.mu.Unlock()
}

// Broadcast entrega o evento a todos os clientes conectados.
func (h *Hub) Broadcast(event string, payload any) {
	h.deliver(h.snapshotAll(), event, payload)
}

// Notify entrega só aos clientes da sala do usuário.
func (h *Hub) Notify(userID string, event string, payload any) {
	h.deliver(h.snapshotRoom(userID), event, payload)
}

func (h *Hub) snapshotAll() []*Peer {
	h.mu.Lock()
	defer h.mu.Unlock()
	peers := make([]*Peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	return peers
}

func (h *Hub) snapshotRoom(userID string) []*Peer {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[userID]
	peers := make([]*Peer, 0, len(room))
	for p := range room {
		peers = append(peers, p)
	}
	return peers
}

func (h *Hub) deliver(peers []*Peer, event string, payload any) {
	frame := Frame{Event: event, Data: payload}
	for _, p := range peers {
		if err := p.send(frame); err != nil {
			// Cliente lento ou desconectado é descartado; quem está fora
			// perde o evento.
			log.Printf("ws: entrega de %s falhou, removendo peer: %v", event, err)
			h.Unregister(p)
			p.conn.Close()
			continue
		}
		eventsDelivered.WithLabelValues(event).Inc()
	}
}
