package models

// RoomEvent is the payload published to Redis when something happens in a
// room. Delivery to connected clients is handled by an external layer.
type RoomEvent struct {
	RoomID   string `json:"room_id"`
	Type     string `json:"type"` // "message", "correction", "rating"
	EntityID string `json:"entity_id"`
}

const (
	EventMessage    = "message"
	EventCorrection = "correction"
	EventRating     = "rating"
)
