package roulette

import (
	"fmt"
	"strings"
)

// Player is one of the two local seats on a board.
type Player int

const (
	PlayerOne Player = 1
	PlayerTwo Player = 2
)

func Players() []Player {
	return []Player{PlayerOne, PlayerTwo}
}

func ParsePlayer(v string) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "one", "p1":
		return PlayerOne, nil
	case "2", "two", "p2":
		return PlayerTwo, nil
	default:
		return 0, fmt.Errorf("unknown player %q", v)
	}
}

func (p Player) Valid() bool {
	return p == PlayerOne || p == PlayerTwo
}

// Index is the zero-based seat position.
func (p Player) Index() int {
	return int(p) - 1
}

func (p Player) String() string {
	switch p {
	case PlayerOne:
		return "player_one"
	case PlayerTwo:
		return "player_two"
	default:
		return fmt.Sprintf("player(%d)", int(p))
	}
}

// Selection holds the catalog indices spun for one player.
type Selection []int

func (s Selection) Empty() bool {
	return len(s) == 0
}

func (s Selection) Clone() Selection {
	if s == nil {
		return nil
	}
	out := make(Selection, len(s))
	copy(out, s)
	return out
}

// Validate checks the indices are distinct and inside a catalog of catalogSize.
func (s Selection) Validate(catalogSize int) error {
	seen := make(map[int]struct{}, len(s))
	for _, idx := range s {
		if idx < 0 || idx >= catalogSize {
			return fmt.Errorf("selection index %d out of range [0,%d)", idx, catalogSize)
		}
		if _, dup := seen[idx]; dup {
			return fmt.Errorf("selection index %d repeated", idx)
		}
		seen[idx] = struct{}{}
	}
	return nil
}
