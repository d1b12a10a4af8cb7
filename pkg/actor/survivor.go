package actor

// SurvivorStatus tracks a roster member's condition. Dead is terminal:
// once set, later status deltas for that name are ignored.
type SurvivorStatus string

const (
	SurvivorAlive    SurvivorStatus = "alive"
	SurvivorInjured  SurvivorStatus = "injured"
	SurvivorPanicked SurvivorStatus = "panicked"
	SurvivorDead     SurvivorStatus = "dead"
)

// Survivor is one member of the group roster. Identity is Name.
type Survivor struct {
	Name   string         `json:"name"`
	Status SurvivorStatus `json:"status"`
}

// FindSurvivor returns the index of the named survivor, or -1.
func FindSurvivor(roster []Survivor, name string) int {
	for i := range roster {
		if roster[i].Name == name {
			return i
		}
	}
	return -1
}
