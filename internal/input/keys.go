// Package input turns raw control-panel key codes into logical keys.
package input

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	Key1 Kind = iota
	Key2
	Key3
	Key4
	Abort
	Execute
	Danger
	Slider
)

// Key is one logical key. Position is the raw slider position (0..5) and
// is zero for every other kind.
type Key struct {
	Kind     Kind
	Position int
}

// SliderAt returns the slider key at position p.
func SliderAt(p int) Key {
	return Key{Kind: Slider, Position: p}
}

// PageKey returns the page-select key for n in 1..4.
func PageKey(n int) (Key, bool) {
	if n < 1 || n > 4 {
		return Key{}, false
	}
	return Key{Kind: Key1 + Kind(n-1)}, true
}

// Number is 1..4 for page-select keys and 0 otherwise.
func (k Key) Number() int {
	if k.Kind >= Key1 && k.Kind <= Key4 {
		return int(k.Kind-Key1) + 1
	}
	return 0
}

func (k Key) String() string {
	switch k.Kind {
	case Key1, Key2, Key3, Key4:
		return fmt.Sprintf("key%d", k.Number())
	case Abort:
		return "abort"
	case Execute:
		return "execute"
	case Danger:
		return "danger"
	case Slider:
		return fmt.Sprintf("slider%d", k.Position)
	default:
		return "unknown"
	}
}

// SliderPositions is the number of detents on the slider.
const SliderPositions = 6

// ParseKey parses a logical key name as written in the keymap config.
func ParseKey(name string) (Key, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "abort":
		return Key{Kind: Abort}, nil
	case "execute":
		return Key{Kind: Execute}, nil
	case "danger":
		return Key{Kind: Danger}, nil
	}
	if rest, ok := strings.CutPrefix(n, "slider"); ok {
		p, err := strconv.Atoi(rest)
		if err != nil || p < 0 || p >= SliderPositions {
			return Key{}, fmt.Errorf("unknown key %q", name)
		}
		return SliderAt(p), nil
	}
	if rest, ok := strings.CutPrefix(n, "key"); ok {
		i, err := strconv.Atoi(rest)
		if k, valid := PageKey(i); err == nil && valid {
			return k, nil
		}
	}
	return Key{}, fmt.Errorf("unknown key %q", name)
}

// KeyMap maps raw key codes to logical keys.
type KeyMap map[uint16]Key

// ParseKeyMap builds a KeyMap from config, where keys are decimal codes and
// values are logical key names.
func ParseKeyMap(raw map[string]string) (KeyMap, error) {
	km := make(KeyMap, len(raw))
	for code, name := range raw {
		c, err := strconv.ParseUint(strings.TrimSpace(code), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("keymap: invalid code %q: %w", code, err)
		}
		k, err := ParseKey(name)
		if err != nil {
			return nil, fmt.Errorf("keymap: code %d: %w", c, err)
		}
		km[uint16(c)] = k
	}
	return km, nil
}

// Lookup returns the logical key for code. Unknown codes report false.
func (m KeyMap) Lookup(code uint16) (Key, bool) {
	k, ok := m[code]
	return k, ok
}
