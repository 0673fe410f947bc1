package ws

import (
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/net/websocket"

	"github.com/xavierca1/ligue-crm/internal/auth"
)

// clientFrame é o que o cliente pode mandar. O join é aceito por
// compatibilidade de protocolo, mas não carrega autoridade nenhuma: a sala
// privada deriva do subject do token verificado na conexão.
type clientFrame struct {
	Type   string `json:"type"`
	UserID string `json:"userId,omitempty"`
}

type Handler struct {
	Hub    *Hub
	Tokens *auth.TokenManager
}

func NewHandler(hub *Hub, tokens *auth.TokenManager) *Handler {
	return &Handler{Hub: hub, Tokens: tokens}
}

// WebSocket devolve o http.Handler do endpoint /ws. Conexão sem token
// válido fica só com os broadcasts globais.
func (h *Handler) WebSocket() http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		peer := NewPeer(conn)
		h.Hub.Register(peer)
		defer h.Hub.Unregister(peer)

		userID := h.identify(conn.Request())
		if userID != "" {
			h.Hub.JoinUser(peer, userID)
		}

		for {
			var in clientFrame
			err := websocket.JSON.Receive(conn, &in)
			if err != nil {
				if err != io.EOF {
					log.Printf("ws: conexão encerrada: %v", err)
				}
				return
			}
			if in.Type == "join" && in.UserID != "" && in.UserID != userID {
				log.Printf("ws: join com identidade %q ignorado (token diz %q)", in.UserID, userID)
			}
		}
	})
}

func (h *Handler) identify(r *http.Request) string {
	token := r.URL.Query().Get("token")
	if token == "" {
		header := r.Header.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if token == "" {
		return ""
	}

	claims, err := h.Tokens.Parse(token)
	if err != nil {
		log.Printf("ws: token inválido na conexão: %v", err)
		return ""
	}
	return claims.Subject
}
