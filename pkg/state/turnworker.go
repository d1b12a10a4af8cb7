package state

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/world"
)

// Outcome is the reducer's verdict for one committed turn.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeActTransition
	OutcomeDefeat
	OutcomeVictory
)

// TurnResult is what the controller consumes after a commit: the verdict,
// the human-readable audit entries generated this turn, and the ids of
// NPCs whose minds still need the second-pass refinement.
type TurnResult struct {
	Outcome       Outcome
	BrokenRule    string
	KeyEvents     []string
	TouchedNPCIDs []string
}

// TurnWorker applies one turn proposal to a game state under the merge,
// clamp and dedup rules of the nightmare. It is deterministic and reads
// nothing besides the state it was given; all failure handling happens at
// the oracle boundary before a worker is ever constructed.
type TurnWorker struct {
	gs       *GameState
	proposal *TurnProposal
	action   string
	logger   *slog.Logger

	events  []string
	touched []string
}

// NewTurnWorker creates a worker for committing one proposal.
func NewTurnWorker(gs *GameState, proposal *TurnProposal, action string) *TurnWorker {
	return &TurnWorker{gs: gs, proposal: proposal, action: action}
}

// WithLogger sets an optional logger. Returns the worker for chaining.
func (tw *TurnWorker) WithLogger(logger *slog.Logger) *TurnWorker {
	tw.logger = logger
	return tw
}

// Apply commits the proposal. Processing order matters: later steps read
// collections earlier steps updated. An act-transition short-circuits the
// whole commit and discards the proposal's remaining delta fields.
func (tw *TurnWorker) Apply() *TurnResult {
	p := tw.proposal
	gs := tw.gs

	if p.ActTransition != nil {
		if p.ActTransition.Narrative != "" {
			gs.StoryHistory = append(gs.StoryHistory, p.ActTransition.Narrative)
		}
		act := *p.ActTransition
		gs.PendingAct = &act
		return tw.result(OutcomeActTransition, "")
	}

	tw.applySurvivors()
	tw.applyStats()
	tw.applyRules()
	tw.applyInventory()
	tw.applyLore()
	tw.applyWorldState()
	tw.applyQuests()
	tw.introduceNPCs()
	tw.overlayNPCs()

	outcome, brokenRule := tw.resolveNarrative()
	if outcome == OutcomeContinue {
		gs.TurnCount++
	}
	return tw.result(outcome, brokenRule)
}

func (tw *TurnWorker) result(outcome Outcome, brokenRule string) *TurnResult {
	if len(tw.events) > 0 {
		tw.gs.KeyEvents = append(tw.gs.KeyEvents, tw.events...)
	}
	return &TurnResult{
		Outcome:       outcome,
		BrokenRule:    brokenRule,
		KeyEvents:     tw.events,
		TouchedNPCIDs: tw.touched,
	}
}

func (tw *TurnWorker) event(format string, args ...any) {
	tw.events = append(tw.events, fmt.Sprintf(format, args...))
}

// applySurvivors transitions roster members by name. Dead is terminal;
// unknown names are ignored, since new survivors only enter via NPC
// introduction.
func (tw *TurnWorker) applySurvivors() {
	for _, update := range tw.proposal.SurvivorUpdates {
		i := actor.FindSurvivor(tw.gs.Survivors, update.Name)
		if i == -1 {
			if tw.logger != nil {
				tw.logger.Warn("Survivor not found for status update", "name", update.Name)
			}
			continue
		}
		survivor := &tw.gs.Survivors[i]
		if survivor.Status == actor.SurvivorDead {
			continue
		}
		if update.NewStatus == actor.SurvivorDead {
			if update.Reason != "" {
				tw.event("%s has died: %s", survivor.Name, update.Reason)
			} else {
				tw.event("%s has died.", survivor.Name)
			}
		}
		survivor.Status = update.NewStatus
	}
}

func (tw *TurnWorker) applyStats() {
	if tw.proposal.StatChanges == nil {
		return
	}
	tw.gs.Stats.Apply(*tw.proposal.StatChanges)
}

func (tw *TurnWorker) applyRules() {
	known, added := world.AppendNew(tw.gs.KnownRules, tw.proposal.NewRules)
	if len(added) == 0 {
		return
	}
	tw.gs.KnownRules = known
	tw.event("Discovered new rules: %s", quoteJoin(added))
}

func (tw *TurnWorker) applyInventory() {
	p := tw.proposal
	if p.NewItem != nil && !tw.gs.HasItem(p.NewItem.Name) {
		tw.gs.Inventory = append(tw.gs.Inventory, *p.NewItem)
		tw.event("Found an item: %s.", p.NewItem.Name)
	}
	for _, name := range p.ItemsUsed {
		if tw.removeItem(name) {
			tw.event("Used an item: %s.", name)
		}
	}
	for _, name := range p.ItemsBroken {
		if tw.removeItem(name) {
			tw.event("An item broke: %s.", name)
		}
	}
}

// removeItem removes by exact, case-sensitive name match.
func (tw *TurnWorker) removeItem(name string) bool {
	for i, item := range tw.gs.Inventory {
		if item.Name == name {
			tw.gs.Inventory = append(tw.gs.Inventory[:i], tw.gs.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

func (tw *TurnWorker) applyLore() {
	p := tw.proposal
	if p.NewLoreSnippet != "" {
		tw.gs.DiscoveredLore = append(tw.gs.DiscoveredLore, p.NewLoreSnippet)
		tw.event("Uncovered a secret: %q", p.NewLoreSnippet)
	}
	entries, added := world.AppendNew(tw.gs.LoreEntries, p.NewLoreEntries)
	if len(added) > 0 {
		tw.gs.LoreEntries = entries
		tw.event("Recorded new knowledge in the journal.")
	}
}

func (tw *TurnWorker) applyWorldState() {
	delta := world.CoercePairs(tw.proposal.WorldStateChanges)
	if len(delta) == 0 {
		return
	}
	if tw.gs.World == nil {
		tw.gs.World = make(world.State, len(delta))
	}
	tw.gs.World.Merge(delta)
}

func (tw *TurnWorker) applyQuests() {
	p := tw.proposal
	if p.MainQuestUpdate != "" {
		tw.gs.MainQuest = p.MainQuestUpdate
		tw.event("Main quest updated: %q", p.MainQuestUpdate)
	}
	quests, added := world.AppendNew(tw.gs.SideQuests, p.NewSideQuests)
	if len(added) > 0 {
		tw.gs.SideQuests = quests
		tw.event("New side quests: %s", quoteJoin(added))
	}
	if len(p.CompletedQuests) > 0 {
		remaining := world.Remove(tw.gs.SideQuests, p.CompletedQuests)
		if len(remaining) != len(tw.gs.SideQuests) {
			tw.gs.SideQuests = remaining
			tw.event("Completed side quests: %s", quoteJoin(p.CompletedQuests))
		}
	}
	clues, added := world.AppendNew(tw.gs.KnownClues, p.NewClues)
	if len(added) > 0 {
		tw.gs.KnownClues = clues
		tw.event("Found new clues: %s", quoteJoin(added))
	}
}

// introduceNPCs appends brand-new NPCs with identity-concealing defaults
// over the oracle truth, and registers them on the survivor roster.
func (tw *TurnWorker) introduceNPCs() {
	for _, npc := range tw.proposal.NewNPCs {
		if tw.gs.FindNPC(npc.ID) != nil {
			if tw.logger != nil {
				tw.logger.Warn("Duplicate NPC introduction ignored", "npc_id", npc.ID)
			}
			continue
		}
		tw.gs.NPCs = append(tw.gs.NPCs, npc.Concealed())
		if actor.FindSurvivor(tw.gs.Survivors, npc.Name) == -1 {
			tw.gs.Survivors = append(tw.gs.Survivors, actor.Survivor{Name: npc.Name, Status: actor.SurvivorAlive})
		}
		tw.event("Met a mysterious stranger.")
	}
}

// overlayNPCs shallow-overlays each per-NPC delta and collects the touched
// ids for the mind-update pass. The pass itself runs in the controller, not
// here.
func (tw *TurnWorker) overlayNPCs() {
	for _, update := range tw.proposal.NPCUpdates {
		npc := tw.gs.FindNPC(update.ID)
		if npc == nil {
			if tw.logger != nil {
				tw.logger.Warn("NPC not found for update", "npc_id", update.ID)
			}
			continue
		}
		if update.Name != "" && update.Name != npc.Name {
			tw.event("You learned the stranger's name: %s.", update.Name)
			npc.Name = update.Name
		}
		if update.State != "" && update.State != npc.State {
			npc.State = update.State
			tw.event("%s's attitude has changed to %s.", npc.Name, update.State)
		}
		if update.Description != "" {
			npc.Description = update.Description
		}
		if update.Goal != "" {
			npc.Goal = update.Goal
		}
		if update.CurrentStatus != "" {
			npc.CurrentStatus = update.CurrentStatus
		}
		if update.Trust != nil {
			npc.Trust = min(100, max(0, *update.Trust))
		}
		if !tw.isTouched(update.ID) {
			tw.touched = append(tw.touched, update.ID)
		}
	}
}

func (tw *TurnWorker) isTouched(id string) bool {
	for _, t := range tw.touched {
		if t == id {
			return true
		}
	}
	return false
}

// resolveNarrative handles step 11: terminal flags win over the scene
// commit, victory before defeat.
func (tw *TurnWorker) resolveNarrative() (Outcome, string) {
	p := tw.proposal
	gs := tw.gs
	switch {
	case p.Victory():
		text := p.VictoryText
		if text == "" {
			text = "The nightmare has ended."
		}
		gs.StoryHistory = append(gs.StoryHistory, text)
		return OutcomeVictory, ""
	case p.GameOver():
		if p.GameOverText != "" {
			gs.StoryHistory = append(gs.StoryHistory, p.GameOverText)
		}
		return OutcomeDefeat, p.BrokenRule
	default:
		gs.Scene = &Scene{
			Description:        p.SceneDescription,
			Choices:            p.Choices,
			Hallucination:      p.Hallucination,
			InteractableNPCIDs: p.InteractableNPCIDs,
		}
		if p.SceneDescription != "" {
			gs.StoryHistory = append(gs.StoryHistory, p.SceneDescription)
		}
		return OutcomeContinue, ""
	}
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
