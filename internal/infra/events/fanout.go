package events

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/infra/ws"
)

// Broker é o lado AMQP do espelhamento de eventos (implementado por
// queue.Producer). Opcional: nil desliga o espelho.
type Broker interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// FanOut é o barramento injetado nos use cases: entrega via WebSocket e,
// quando há broker configurado, espelha cada emissão no exchange de
// integrações. Os dois lados são best-effort — falha nunca chega ao
// chamador da mutação.
type FanOut struct {
	Hub    *ws.Hub
	Broker Broker
}

func NewFanOut(hub *ws.Hub, broker Broker) *FanOut {
	return &FanOut{Hub: hub, Broker: broker}
}

func (f *FanOut) Broadcast(event string, payload any) {
	f.Hub.Broadcast(event, payload)
	f.mirror(topicKey(event), payload)
}

func (f *FanOut) Notify(userID string, event string, payload any) {
	f.Hub.Notify(userID, event, payload)
	f.mirror(topicKey(event)+"."+userID, payload)
}

func (f *FanOut) mirror(key string, payload any) {
	if f.Broker == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := f.Broker.Publish(ctx, key, payload); err != nil {
		log.Printf("events: espelho AMQP falhou (%s): %v", key, err)
	}
}

// topicKey converte o nome do evento em routing key de topic:
// "lead:created" → "lead.created".
func topicKey(event string) string {
	return strings.ReplaceAll(event, ":", ".")
}
