package actor

// NPC is a non-hostile inhabitant of the dungeon.
type NPC struct {
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
	Description string `json:"description,omitempty"`
	Alive       bool   `json:"alive"`
	Hostile     bool   `json:"hostile,omitempty"`
	Attitude    int    `json:"attitude,omitempty"`
}
