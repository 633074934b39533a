package venuescore

// BaseScore is every venue's starting trust score.
const BaseScore = 750

// Weights are the per-count contributions to a venue's trust score. The
// formula shape is fixed; operators tune only these.
type Weights struct {
	EventCompleted float64
	Refund         float64
	Dispute        float64
	SafetyIncident float64
}

// DefaultWeights returns the standard weighting.
func DefaultWeights() Weights {
	return Weights{
		EventCompleted: 10,
		Refund:         -20,
		Dispute:        -50,
		SafetyIncident: -100,
	}
}

// Components is the persisted breakdown of a venue's trust score. Storing
// the inputs next to the total makes every historical score explainable.
type Components struct {
	BaseScore       int `json:"baseScore"`
	EventsCompleted int `json:"eventsCompleted"`
	Refunds         int `json:"refunds"`
	Disputes        int `json:"disputes"`
	SafetyIncidents int `json:"safetyIncidents"`
	TotalScore      int `json:"totalScore"`
}

// DefaultComponents is the neutral breakdown written when a venue's counts
// cannot be read during a sweep.
func DefaultComponents() Components {
	return Components{BaseScore: BaseScore, TotalScore: BaseScore}
}

// clampScore bounds a raw score to the published [0, 1000] range.
func clampScore(raw float64) int {
	if raw < 0 {
		return 0
	}
	if raw > 1000 {
		return 1000
	}
	return int(raw)
}

// VenueOutcome reports one venue's fate in a fleet sweep.
type VenueOutcome struct {
	VenueID    string `json:"venueId"`
	TotalScore int    `json:"totalScore"`
	FellBack   bool   `json:"fellBack"`
	Error      string `json:"error,omitempty"`
}

// SweepResult summarizes a fleet sweep.
type SweepResult struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Outcomes  []VenueOutcome `json:"outcomes"`
}
