package actor

// Archetype is a fixed character-creation stat block. The choice is
// presentation-flavored but the stats are load-bearing.
type Archetype struct {
	Name   string      `json:"name"`
	Prompt string      `json:"prompt"`
	Stats  PlayerStats `json:"stats"`
}

// Archetypes returns the three creation choices.
func Archetypes() []Archetype {
	return []Archetype{
		{
			Name:   "Cautious Investigator",
			Prompt: "Carefully investigate the sound.",
			Stats:  PlayerStats{Stamina: 8, Stealth: 10, MentalPollution: 0},
		},
		{
			Name:   "Desperate Survivor",
			Prompt: "Run. Find the nearest hiding spot and pray it does not find you.",
			Stats:  PlayerStats{Stamina: 10, Stealth: 12, MentalPollution: 0},
		},
		{
			Name:   "Reluctant Fighter",
			Prompt: "Prepare to fight, grabbing a makeshift weapon.",
			Stats:  PlayerStats{Stamina: 12, Stealth: 8, MentalPollution: 0},
		},
	}
}

// Vow is the reason the player came to this place; woven into world
// generation.
type Vow struct {
	Prompt string `json:"prompt"`
	Vow    string `json:"vow"`
}

// Vows returns the three creation vow choices.
func Vows() []Vow {
	return []Vow{
		{Prompt: "I came to find someone who was lost.", Vow: "Search for a loved one"},
		{Prompt: "I am haunted by an unsolved mystery here.", Vow: "Unravel the mystery"},
		{Prompt: "I seek a relic rumored to be here.", Vow: "Hunt the relic"},
	}
}
