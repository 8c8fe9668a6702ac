package room

import (
	"fmt"
	"strings"
)

// Direction identifies a door slot on a room.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Opposite returns the mirror direction, used to keep door pairs in
// adjacent rooms in sync.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return d
}

// Step returns the coordinate delta for walking through a door in this
// direction. North decreases y.
func (d Direction) Step() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// directionWords maps the words players use, German and English, to
// directions. Longer words are checked before shorter prefixes.
var directionWords = []struct {
	word string
	dir  Direction
}{
	{"nord", North},
	{"north", North},
	{"süd", South},
	{"south", South},
	{"ost", East},
	{"east", East},
	{"westen", West},
	{"west", West},
}

// ParseDirection finds a direction mentioned in free text. The second
// return is false when no direction word occurs.
func ParseDirection(text string) (Direction, bool) {
	text = strings.ToLower(text)
	for _, dw := range directionWords {
		if strings.Contains(text, dw.word) {
			return dw.dir, true
		}
	}
	return "", false
}

// DoorState is the lifecycle of a door: locked doors need a key,
// closed doors just need opening.
type DoorState string

const (
	DoorOpen   DoorState = "open"
	DoorClosed DoorState = "closed"
	DoorLocked DoorState = "locked"
)

// Door connects two rooms. Locked doors carry the KeyID of the key
// that opens them.
type Door struct {
	State DoorState `json:"state"`
	KeyID string    `json:"keyId,omitempty"`
}

// Unlock transitions a locked door to closed when the key matches.
func (d *Door) Unlock(keyID string) error {
	if d.State != DoorLocked {
		return fmt.Errorf("door is not locked")
	}
	if keyID == "" || keyID != d.KeyID {
		return fmt.Errorf("key %q does not fit this door", keyID)
	}
	d.State = DoorClosed
	return nil
}

// Open transitions a closed door to open. Locked doors must be
// unlocked first.
func (d *Door) Open() error {
	if d.State == DoorLocked {
		return fmt.Errorf("door is locked")
	}
	d.State = DoorOpen
	return nil
}
