package pool

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrTooShort       = errors.New("input too short to select a map")
	ErrNoMatch        = errors.New("no map matches input")
	ErrAmbiguous      = errors.New("input matches more than one map")
	ErrAlreadyBanned  = errors.New("map already banned")
	ErrAlreadyPicked  = errors.New("map already picked")
	ErrDuplicateCode  = errors.New("duplicate map code")
	ErrEmptyCode      = errors.New("map code is empty")
	ErrUnknownBeatmap = errors.New("beatmap id is missing")
)

const (
	minInputLength     = 4
	minCodeInputLength = 3

	// FreeMod lets players choose their own mods.
	FreeMod = "Freemod"
	// NoFail is appended to every fixed-mod selection.
	NoFail = "NF"
)

// Entry is a single map of the pool. Entries are immutable after Load.
type Entry struct {
	Code        string
	DisplayName string
	BeatmapID   int
	// Mods, when set, overrides the mods derived from the code prefix.
	Mods string
}

// Selection returns the mods to apply when this map is played.
func (e Entry) Selection() string {
	if e.Mods != "" {
		return e.Mods
	}
	prefix := strings.ToUpper(e.Code)
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	switch prefix {
	case "HD", "HR", "DT":
		return prefix + " " + NoFail
	case "NM":
		return NoFail
	default:
		return FreeMod
	}
}

// Taken reports which maps can no longer be chosen.
type Taken interface {
	IsBanned(code string) bool
	IsPicked(code string) bool
}

// Pool is the fixed set of selectable maps.
type Pool struct {
	entries []Entry
}

// New builds a pool, rejecting empty or duplicate codes.
func New(entries []Entry) (*Pool, error) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		code := strings.ToLower(strings.TrimSpace(e.Code))
		if code == "" {
			return nil, ErrEmptyCode
		}
		if seen[code] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, e.Code)
		}
		if e.BeatmapID <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownBeatmap, e.Code)
		}
		seen[code] = true
	}
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	for i := range cp {
		if cp[i].DisplayName == "" {
			cp[i].DisplayName = cp[i].Code
		}
	}
	return &Pool{entries: cp}, nil
}

// Entries returns a copy of the pool in load order.
func (p *Pool) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Codes returns the map codes in load order.
func (p *Pool) Codes() []string {
	out := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e.Code)
	}
	return out
}

// Lookup finds an entry by exact, case-insensitive code.
func (p *Pool) Lookup(code string) (Entry, bool) {
	for _, e := range p.entries {
		if strings.EqualFold(e.Code, code) {
			return e, true
		}
	}
	return Entry{}, false
}

// Resolve turns free text into a pool entry.
//
// An exact code match always wins over a name substring match; several name
// matches without a code match select nothing. Unless force is set, short
// inputs are ignored and maps that were already banned or picked are rejected.
func (p *Pool) Resolve(input string, force bool, taken Taken) (Entry, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Entry{}, ErrTooShort
	}
	if !force && !longEnough(input) {
		return Entry{}, ErrTooShort
	}

	var byCode, byName []Entry
	needle := strings.ToLower(input)
	for _, e := range p.entries {
		if strings.ToLower(e.Code) == needle {
			byCode = append(byCode, e)
		}
		if strings.Contains(strings.ToLower(e.DisplayName), needle) {
			byName = append(byName, e)
		}
	}

	var entry Entry
	switch {
	case len(byCode) == 1:
		entry = byCode[0]
	case len(byName) == 1:
		entry = byName[0]
	case len(byName) > 1:
		return Entry{}, ErrAmbiguous
	default:
		return Entry{}, ErrNoMatch
	}

	if !force && taken != nil {
		if taken.IsBanned(entry.Code) {
			return entry, ErrAlreadyBanned
		}
		if taken.IsPicked(entry.Code) {
			return entry, ErrAlreadyPicked
		}
	}
	return entry, nil
}

// longEnough keeps ordinary chat from selecting maps by accident.
func longEnough(input string) bool {
	n := len([]rune(input))
	if n >= minInputLength {
		return true
	}
	r := []rune(input)
	return n >= minCodeInputLength && unicode.IsDigit(r[n-1])
}
