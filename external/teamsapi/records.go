package teamsapi

import (
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-roulette/internal/domain/team"
)

var errNotArray = crerr.New("response body is not a JSON array")

// ClubRecord is one item of GET /expressApi/teams. Pointers let the decoder
// tell a missing key from a zero value.
type ClubRecord struct {
	Logo   *string  `json:"logo"`
	Name   *string  `json:"name"`
	League *string  `json:"league"`
	Rating *float64 `json:"rating"`
}

// IntlRecord is one item of GET /expressApi/intl.
type IntlRecord struct {
	Logo   *string  `json:"logo"`
	Name   *string  `json:"name"`
	Rating *float64 `json:"rating"`
}

func (r ClubRecord) toTeam() (team.Team, error) {
	missing := missingFields(
		field{"logo", r.Logo == nil},
		field{"name", r.Name == nil},
		field{"league", r.League == nil},
		field{"rating", r.Rating == nil},
	)
	if missing != "" {
		return team.Team{}, crerr.Newf("club record missing %s", missing)
	}

	item := team.Team{
		Kind:   team.KindClub,
		Logo:   *r.Logo,
		Name:   *r.Name,
		League: *r.League,
		Rating: *r.Rating,
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, crerr.Wrap(err, "club record")
	}
	return item, nil
}

func (r IntlRecord) toTeam() (team.Team, error) {
	missing := missingFields(
		field{"logo", r.Logo == nil},
		field{"name", r.Name == nil},
		field{"rating", r.Rating == nil},
	)
	if missing != "" {
		return team.Team{}, crerr.Newf("international record missing %s", missing)
	}

	item := team.Team{
		Kind:   team.KindInternational,
		Logo:   *r.Logo,
		Name:   *r.Name,
		Rating: *r.Rating,
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, crerr.Wrap(err, "international record")
	}
	return item, nil
}

func decodeClubRecords(raw []byte) ([]team.Team, error) {
	var records []ClubRecord
	if err := sonic.Unmarshal(raw, &records); err != nil {
		return nil, crerr.Wrap(err, "unmarshal club records")
	}
	if records == nil {
		return nil, errNotArray
	}

	out := make([]team.Team, 0, len(records))
	for i, record := range records {
		item, err := record.toTeam()
		if err != nil {
			return nil, crerr.Wrapf(err, "record %d", i)
		}
		out = append(out, item)
	}
	return out, nil
}

func decodeIntlRecords(raw []byte) ([]team.Team, error) {
	var records []IntlRecord
	if err := sonic.Unmarshal(raw, &records); err != nil {
		return nil, crerr.Wrap(err, "unmarshal international records")
	}
	if records == nil {
		return nil, errNotArray
	}

	out := make([]team.Team, 0, len(records))
	for i, record := range records {
		item, err := record.toTeam()
		if err != nil {
			return nil, crerr.Wrapf(err, "record %d", i)
		}
		out = append(out, item)
	}
	return out, nil
}

type field struct {
	name    string
	missing bool
}

func missingFields(fields ...field) string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.missing {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, ",")
}
