package usecase

import (
	"net/url"
	"strings"

	"github.com/riskibarqy/match-roulette/internal/domain/leaguefilter"
)

// BuildLeagueQuery renders the selected league IDs as the value of the
// club endpoint's leagues parameter: each ID escaped, joined by commas.
func BuildLeagueQuery(filter leaguefilter.Filter) string {
	ids := filter.SelectedIDs()
	if len(ids) == 0 {
		return ""
	}

	escaped := make([]string, 0, len(ids))
	for _, id := range ids {
		// QueryEscape renders a space as '+'; the endpoint expects %20.
		escaped = append(escaped, strings.ReplaceAll(url.QueryEscape(id), "+", "%20"))
	}

	return strings.Join(escaped, ",")
}
