package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTryHandleCommand(t *testing.T) {
	gs := testState()
	gs.Inventory = []Item{{Name: "Candle", Description: "Half burned."}}

	tests := []struct {
		input    string
		handled  bool
		contains string
	}{
		{"rules", true, "Do not enter room 307."},
		{"R", true, "Do not enter room 307."},
		{"inventory", true, "Candle"},
		{"i", true, "Half burned."},
		{"quests", true, "Find the night nurse's logbook."},
		{"journal", true, "Find the night nurse's logbook."},
		{"survivors", true, "Minh"},
		{"s", true, "alive"},
		{"open the door", false, "open the door"},
		{"", false, ""},
	}

	for _, tt := range tests {
		result := gs.TryHandleCommand(tt.input)
		assert.Equal(t, tt.handled, result.Handled, "input %q", tt.input)
		assert.Contains(t, result.Message, tt.contains, "input %q", tt.input)
	}
}

func TestDescribe_EmptyStates(t *testing.T) {
	gs := &GameState{MainQuest: DefaultMainQuest}
	assert.Contains(t, gs.DescribeRules(), "do not know any rules")
	assert.Contains(t, gs.DescribeInventory(), "empty")
	assert.Contains(t, gs.DescribeSurvivors(), "alone")
	assert.Contains(t, gs.DescribeQuests(), DefaultMainQuest)
}
