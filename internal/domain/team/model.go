package team

import (
	"fmt"
	"strings"
)

// Kind identifies which remote list a team came from.
type Kind string

const (
	KindClub          Kind = "club"
	KindInternational Kind = "international"
)

func Kinds() []Kind {
	return []Kind{KindClub, KindInternational}
}

func ParseKind(v string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(v))) {
	case KindClub, "clubs":
		return KindClub, nil
	case KindInternational, "intl":
		return KindInternational, nil
	default:
		return "", fmt.Errorf("unknown team kind %q", v)
	}
}

// Team is one entry of a fetched catalog. International teams carry no league.
type Team struct {
	Kind   Kind
	Logo   string
	Name   string
	League string
	Rating float64
}

func (t Team) Validate() error {
	if t.Kind != KindClub && t.Kind != KindInternational {
		return fmt.Errorf("team kind %q is invalid", t.Kind)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Kind == KindInternational && t.League != "" {
		return fmt.Errorf("international team %q must not carry a league", t.Name)
	}

	return nil
}
