package leaguefilter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StorageKey is the key the filter is persisted under.
const StorageKey = "filterLists"

var (
	ErrInvalidFilter   = errors.New("invalid league filter")
	ErrNothingSelected = errors.New("at least one league must be selected")
	ErrUnknownLeague   = errors.New("unknown league")
)

var defaultLeagues = [...]string{"German", "Spanish", "French", "English", "Italian"}

var validate = validator.New()

// Entry is one league toggle.
type Entry struct {
	ID         string `json:"id" validate:"required"`
	IsSelected bool   `json:"isSelected"`
}

// Filter is the ordered list of league toggles a user keeps.
type Filter []Entry

type filterDocument struct {
	Entries []Entry `validate:"min=1,unique=ID,dive"`
}

// Default returns a fresh copy of the built-in leagues, all selected.
func Default() Filter {
	out := make(Filter, 0, len(defaultLeagues))
	for _, id := range defaultLeagues {
		out = append(out, Entry{ID: id, IsSelected: true})
	}
	return out
}

func (f Filter) Clone() Filter {
	if f == nil {
		return nil
	}
	out := make(Filter, len(f))
	copy(out, f)
	return out
}

func (f Filter) SelectedIDs() []string {
	out := make([]string, 0, len(f))
	for _, item := range f {
		if item.IsSelected {
			out = append(out, item.ID)
		}
	}
	return out
}

func (f Filter) AnySelected() bool {
	for _, item := range f {
		if item.IsSelected {
			return true
		}
	}
	return false
}

func (f Filter) AllSelected() bool {
	for _, item := range f {
		if !item.IsSelected {
			return false
		}
	}
	return len(f) > 0
}

// SetAll selects every league when selected is true. Deselecting all is a
// no-op: the "All Leagues" switch only ever turns leagues on.
func (f Filter) SetAll(selected bool) Filter {
	out := f.Clone()
	if !selected {
		return out
	}
	for i := range out {
		out[i].IsSelected = true
	}
	return out
}

func (f Filter) Toggle(id string, selected bool) (Filter, error) {
	id = strings.TrimSpace(id)
	out := f.Clone()
	for i := range out {
		if out[i].ID == id {
			out[i].IsSelected = selected
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLeague, id)
}

func (f Filter) Equal(other Filter) bool {
	if len(f) != len(other) {
		return false
	}
	for i := range f {
		if f[i] != other[i] {
			return false
		}
	}
	return true
}

// Validate checks the structure: at least one entry, unique non-blank IDs.
func (f Filter) Validate() error {
	if err := validate.Struct(filterDocument{Entries: f}); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFilter, err.Error())
	}
	for _, item := range f {
		if strings.TrimSpace(item.ID) != item.ID {
			return fmt.Errorf("%w: league id %q has surrounding whitespace", ErrInvalidFilter, item.ID)
		}
	}
	return nil
}

// ValidateForSave additionally requires one selected league.
func (f Filter) ValidateForSave() error {
	if err := f.Validate(); err != nil {
		return err
	}
	if !f.AnySelected() {
		return ErrNothingSelected
	}
	return nil
}
