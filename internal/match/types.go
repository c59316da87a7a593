package match

import "strings"

// Side identifies one of the two teams in a match. Side 0 plays as red in the
// lobby and side 1 as blue.
type Side int

const (
	NoSide Side = -1
	Red    Side = 0
	Blue   Side = 1
)

// Other returns the opposing side.
func (s Side) Other() Side {
	switch s {
	case Red:
		return Blue
	case Blue:
		return Red
	default:
		return NoSide
	}
}

// Valid reports whether s is one of the two playing sides.
func (s Side) Valid() bool {
	return s == Red || s == Blue
}

// Colour is the lobby team colour for the side.
func (s Side) Colour() string {
	switch s {
	case Red:
		return "red"
	case Blue:
		return "blue"
	default:
		return ""
	}
}

func (s Side) String() string {
	if c := s.Colour(); c != "" {
		return c
	}
	return "none"
}

// SideFromColour maps a lobby team colour to a side.
func SideFromColour(colour string) Side {
	switch strings.ToLower(strings.TrimSpace(colour)) {
	case "red":
		return Red
	case "blue":
		return Blue
	default:
		return NoSide
	}
}

// Team is a configured roster.
type Team struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// HasMember reports whether the normalised name is on the roster.
func (t Team) HasMember(name string) bool {
	n := NormalizeName(name)
	for _, m := range t.Members {
		if NormalizeName(m) == n {
			return true
		}
	}
	return false
}

// PlayerScore is one player's result for a finished game.
type PlayerScore struct {
	Name   string
	Side   Side
	Score  int64
	Passed bool
}

// NormalizeName folds case and treats spaces and underscores alike, since IRC
// nicknames replace spaces with underscores.
func NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(n, " ", "_")
}
