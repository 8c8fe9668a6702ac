package actor

// Monster is a hostile creature occupying a room. Unaware monsters
// have not noticed the player yet and can be backstabbed.
type Monster struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"max_hp"`
	Attack      int    `json:"attack"`
	Defense     int    `json:"defense"`
	Stunned     bool   `json:"stunned,omitempty"`
	Unaware     bool   `json:"unaware,omitempty"`
}

// Alive reports whether the monster still has hit points.
func (m *Monster) Alive() bool {
	return m != nil && m.HP > 0
}

// Damage reduces HP by the given amount, flooring at zero, and wakes
// the monster.
func (m *Monster) Damage(amount int) {
	m.Unaware = false
	m.HP -= amount
	if m.HP < 0 {
		m.HP = 0
	}
}
