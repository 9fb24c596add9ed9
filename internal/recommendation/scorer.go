package recommendation

import (
	"sort"

	"github.com/wichananm65/travel-destination-backend/internal/destination"
	"github.com/wichananm65/travel-destination-backend/internal/user"
)

// TopN is the number of destinations a ranking returns at most.
const TopN = 10

// Weights are the points each matching term contributes to a score.
type Weights struct {
	Interest    float64 `json:"interest"`
	Activity    float64 `json:"activity"`
	Budget      float64 `json:"budget"`
	TravelStyle float64 `json:"travel_style"`
}

func DefaultWeights() Weights {
	return Weights{
		Interest:    2,
		Activity:    1.5,
		Budget:      2,
		TravelStyle: 1,
	}
}

// Scored pairs a destination with its affinity score.
type Scored struct {
	Destination destination.Destination `json:"destination"`
	Score       float64                 `json:"score"`
}

func Score(prefs user.Preferences, d destination.Destination) float64 {
	return ScoreWith(DefaultWeights(), prefs, d)
}

// ScoreWith adds up every term for which both the preferences and the
// destination carry data. Absent data never makes a term negative.
func ScoreWith(w Weights, prefs user.Preferences, d destination.Destination) float64 {
	var score float64

	if len(prefs.Interests) > 0 {
		interests := set(prefs.Interests)
		for c := range set(d.Categories) {
			if _, ok := interests[c]; ok {
				score += w.Interest
			}
		}
	}

	if len(prefs.Activities) > 0 {
		activities := set(prefs.Activities)
		for a := range set(d.Activities) {
			if _, ok := activities[a]; ok {
				score += w.Activity
			}
		}
	}

	if fitsBudget(prefs.BudgetRange, d.EstimatedCost.MidRange) {
		score += w.Budget
	}

	if prefs.TravelStyle != "" {
		for _, c := range d.Categories {
			if c == prefs.TravelStyle {
				score += w.TravelStyle
				break
			}
		}
	}

	return score + d.Ratings.Average
}

// fitsBudget is true only when the mid-range cost lies entirely inside the
// budget. Overshooting by any amount earns nothing.
func fitsBudget(budget *user.BudgetRange, mid *destination.CostRange) bool {
	if budget == nil || mid == nil {
		return false
	}
	return mid.Min >= budget.Min && mid.Max <= budget.Max
}

// RankScored scores every candidate and returns the TopN best, highest
// first. Equal scores keep their input order.
func RankScored(w Weights, prefs user.Preferences, candidates []destination.Destination) []Scored {
	out := make([]Scored, 0, len(candidates))
	for _, d := range candidates {
		out = append(out, Scored{Destination: d, Score: ScoreWith(w, prefs, d)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}

// Rank is RankScored with the default weights, without the scores.
func Rank(prefs user.Preferences, candidates []destination.Destination) []destination.Destination {
	scored := RankScored(DefaultWeights(), prefs, candidates)
	out := make([]destination.Destination, len(scored))
	for i, s := range scored {
		out[i] = s.Destination
	}
	return out
}

func set(values []string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			m[v] = struct{}{}
		}
	}
	return m
}
