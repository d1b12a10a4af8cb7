package state

import (
	"fmt"
	"strings"
)

type CommandType string

const (
	CmdRules     CommandType = "rules"
	CmdInventory CommandType = "inventory"
	CmdQuests    CommandType = "quests"
	CmdSurvivors CommandType = "survivors"
	CmdNone      CommandType = "" // No command, used for fallback
)

// parseCommand parses the input string and returns the command type if
// recognized. If not recognized, returns CmdNone.
func parseCommand(input string) CommandType {
	known := map[string]CommandType{
		"rules":     CmdRules,
		"r":         CmdRules,
		"inventory": CmdInventory,
		"i":         CmdInventory,
		"quests":    CmdQuests,
		"q":         CmdQuests,
		"journal":   CmdQuests,
		"survivors": CmdSurvivors,
		"s":         CmdSurvivors,
	}
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "" {
		return CmdNone
	}
	cmd, ok := known[trimmed]
	if !ok {
		return CmdNone
	}
	return cmd
}

// CommandResult is an early evaluation of a player input.
type CommandResult struct {
	Handled bool   // True if the input was fully resolved and no oracle call is needed
	Message string // Message to show, or the passthrough action text
}

// TryHandleCommand looks for shortcut commands and answers them from local
// state, so a status query never burns an oracle turn.
func (gs *GameState) TryHandleCommand(input string) *CommandResult {
	switch parseCommand(input) {
	case CmdRules:
		return &CommandResult{Handled: true, Message: gs.DescribeRules()}
	case CmdInventory:
		return &CommandResult{Handled: true, Message: gs.DescribeInventory()}
	case CmdQuests:
		return &CommandResult{Handled: true, Message: gs.DescribeQuests()}
	case CmdSurvivors:
		return &CommandResult{Handled: true, Message: gs.DescribeSurvivors()}
	default:
		return &CommandResult{Handled: false, Message: input}
	}
}

func (gs *GameState) DescribeRules() string {
	if len(gs.KnownRules) == 0 {
		return "You do not know any rules yet. That is what kills people here."
	}
	return "Rules you know:\n- " + strings.Join(gs.KnownRules, "\n- ")
}

func (gs *GameState) DescribeInventory() string {
	if len(gs.Inventory) == 0 {
		return "Your pockets are empty."
	}
	lines := make([]string, len(gs.Inventory))
	for i, item := range gs.Inventory {
		if item.Description != "" {
			lines[i] = fmt.Sprintf("%s: %s", item.Name, item.Description)
		} else {
			lines[i] = item.Name
		}
	}
	return "You carry:\n- " + strings.Join(lines, "\n- ")
}

func (gs *GameState) DescribeQuests() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Main quest: %s", gs.MainQuest)
	if len(gs.SideQuests) > 0 {
		b.WriteString("\nSide quests:\n- " + strings.Join(gs.SideQuests, "\n- "))
	}
	if len(gs.KnownClues) > 0 {
		b.WriteString("\nClues:\n- " + strings.Join(gs.KnownClues, "\n- "))
	}
	return b.String()
}

func (gs *GameState) DescribeSurvivors() string {
	if len(gs.Survivors) == 0 {
		return "You are alone."
	}
	lines := make([]string, len(gs.Survivors))
	for i, s := range gs.Survivors {
		lines[i] = fmt.Sprintf("%s (%s)", s.Name, s.Status)
	}
	return "The group:\n- " + strings.Join(lines, "\n- ")
}
