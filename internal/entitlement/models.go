package entitlement

// EntityStatus is the minimal account-state view the gate needs to decide
// whether an identity or venue may act. Callers load it from their own
// records and pass it in; the gate never fetches entities itself.
type EntityStatus struct {
	Suspended bool   `json:"suspended"`
	Notes     string `json:"notes,omitempty"`
}

// FeatureView is the gate's answer for a single capability, exposed on the
// ops/debug endpoint.
type FeatureView struct {
	Feature        string `json:"feature"`
	Enabled        bool   `json:"enabled"`
	GlobalReadOnly bool   `json:"globalReadOnly"`
	Degraded       bool   `json:"degraded"`
}
