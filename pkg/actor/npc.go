package actor

import "slices"

// NPCState is the NPC's relationship state toward the player.
type NPCState string

const (
	NPCFriendly NPCState = "friendly"
	NPCNeutral  NPCState = "neutral"
	NPCAfraid   NPCState = "afraid"
	NPCHostile  NPCState = "hostile"
	NPCUnstable NPCState = "unstable"
)

// Identity-concealing defaults overlaid on oracle truth when an NPC first
// enters the player's view. The real name is revealed later, in place.
const (
	ConcealedName       = "Unknown stranger"
	ConcealedBackground = "You know nothing about this person's past."
	ConcealedGoal       = "You do not know what they want."
)

// Skill is an optional notable ability an NPC carries.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NPC is a non-player character. Identity is ID, assigned by the oracle and
// stable for the whole run. Personality is immutable once set. NPCs are
// never deleted, only state-transitioned.
type NPC struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Personality            string   `json:"personality,omitempty"`
	Description            string   `json:"description,omitempty"`
	Background             string   `json:"background,omitempty"`
	Goal                   string   `json:"goal,omitempty"`
	CurrentStatus          string   `json:"current_status,omitempty"`
	State                  NPCState `json:"state,omitempty"`
	Knowledge              []string `json:"knowledge,omitempty"`
	LastInteractionSummary string   `json:"last_interaction_summary,omitempty"`
	Trust                  int      `json:"trust,omitempty"`
	Skill                  *Skill   `json:"skill,omitempty"`
}

// Concealed returns a copy with the identity-concealing defaults applied.
// The oracle's truth record (personality, description, state) is kept.
func (n NPC) Concealed() NPC {
	n.Name = ConcealedName
	n.Background = ConcealedBackground
	n.Goal = ConcealedGoal
	n.Knowledge = nil
	n.LastInteractionSummary = ""
	return n
}

// KnowledgeDelta is a set operation on an NPC's knowledge: removals apply
// before additions, and the result holds no duplicates.
type KnowledgeDelta struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// MindDelta is the psychological refinement payload for a single NPC.
// Absent fields mean "keep the current value".
type MindDelta struct {
	State                  NPCState        `json:"state,omitempty"`
	Goal                   string          `json:"goal,omitempty"`
	CurrentStatus          string          `json:"current_status,omitempty"`
	LastInteractionSummary string          `json:"last_interaction_summary,omitempty"`
	Knowledge              *KnowledgeDelta `json:"knowledge,omitempty"`
}

// ApplyMindDelta merges a refinement into the NPC. A nil delta is a no-op,
// which is also how a failed per-NPC refinement degrades.
func (n *NPC) ApplyMindDelta(d *MindDelta) {
	if d == nil {
		return
	}
	if d.State != "" {
		n.State = d.State
	}
	if d.Goal != "" {
		n.Goal = d.Goal
	}
	if d.CurrentStatus != "" {
		n.CurrentStatus = d.CurrentStatus
	}
	if d.LastInteractionSummary != "" {
		n.LastInteractionSummary = d.LastInteractionSummary
	}
	if d.Knowledge != nil {
		kept := make([]string, 0, len(n.Knowledge)+len(d.Knowledge.Add))
		for _, k := range n.Knowledge {
			if !slices.Contains(d.Knowledge.Remove, k) && !slices.Contains(kept, k) {
				kept = append(kept, k)
			}
		}
		for _, k := range d.Knowledge.Add {
			if !slices.Contains(kept, k) {
				kept = append(kept, k)
			}
		}
		n.Knowledge = kept
	}
}
