package models

// Hero is the only entity the service exposes.
// ID is assigned by the server on create; zero means "not stored yet".
type Hero struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

// Stored reports whether the hero carries a server-assigned id.
func (h Hero) Stored() bool {
	return h.ID > 0
}

// HeroEventType names the kind of change a HeroEvent describes.
type HeroEventType string

const (
	HeroCreated HeroEventType = "created"
	HeroUpdated HeroEventType = "updated"
	HeroDeleted HeroEventType = "deleted"
)

// HeroEvent is pushed to change-feed subscribers after a successful mutation.
type HeroEvent struct {
	Type HeroEventType `json:"type"`
	Hero Hero          `json:"hero"`
}
