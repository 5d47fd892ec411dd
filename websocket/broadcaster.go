package websocket

import (
	"log"

	"volunteer-match-server/models"
)

// RequestBroadcaster turns help request changes into feed events.
// A nil hub turns every method into a no-op.
type RequestBroadcaster struct {
	hub *Hub
}

func NewRequestBroadcaster(hub *Hub) *RequestBroadcaster {
	return &RequestBroadcaster{hub: hub}
}

func requestPayload(r *models.HelpRequest) map[string]interface{} {
	return map[string]interface{}{
		"request_id":  r.ID,
		"title":       r.Title,
		"status":      r.Status,
		"urgency":     r.Urgency,
		"category_id": r.CategoryID,
		"location":    r.Location,
		"anonymous":   r.Anonymous,
		"created_at":  r.CreatedAt,
	}
}

func (b *RequestBroadcaster) publish(eventType string, data interface{}) {
	if b == nil || b.hub == nil {
		return
	}
	b.hub.Publish(eventType, data)
	log.Printf("📡 Broadcast %s to %d client(s)", eventType, b.hub.ClientCount())
}

func (b *RequestBroadcaster) RequestCreated(r *models.HelpRequest) {
	b.publish(EventRequestCreated, requestPayload(r))
}

func (b *RequestBroadcaster) RequestUpdated(r *models.HelpRequest) {
	b.publish(EventRequestUpdated, requestPayload(r))
}

func (b *RequestBroadcaster) RequestDeleted(requestID uint) {
	b.publish(EventRequestDeleted, map[string]interface{}{"request_id": requestID})
}

// RequestMatched announces that csrID took the request, so other CSRs can drop it.
func (b *RequestBroadcaster) RequestMatched(m *models.MatchEntry) {
	b.publish(EventRequestMatched, map[string]interface{}{
		"request_id": m.RequestID,
		"csr_id":     m.CSRID,
		"match_id":   m.ID,
	})
}

func (b *RequestBroadcaster) RequestCompleted(r *models.HelpRequest) {
	b.publish(EventRequestCompleted, requestPayload(r))
}
