package actor

// MaxMentalPollution is the hard ceiling of the pollution gauge.
const MaxMentalPollution = 100

// PlayerStats is the player's survival sheet. MentalPollution stays in
// [0,100]; Stamina and Stealth have a floor of 0 and no ceiling.
type PlayerStats struct {
	Stamina         int `json:"stamina"`
	Stealth         int `json:"stealth"`
	MentalPollution int `json:"mental_pollution"`
}

// StatDelta is a signed additive change to the player sheet.
type StatDelta struct {
	Stamina         int `json:"stamina,omitempty"`
	Stealth         int `json:"stealth,omitempty"`
	MentalPollution int `json:"mental_pollution,omitempty"`
}

// Apply adds the delta and clamps. Clamping happens after every
// application, so overshoot never leaks into the stored state.
func (ps *PlayerStats) Apply(d StatDelta) {
	ps.Stamina = max(0, ps.Stamina+d.Stamina)
	ps.Stealth = max(0, ps.Stealth+d.Stealth)
	ps.MentalPollution = min(MaxMentalPollution, max(0, ps.MentalPollution+d.MentalPollution))
}

func (d StatDelta) IsZero() bool {
	return d.Stamina == 0 && d.Stealth == 0 && d.MentalPollution == 0
}
