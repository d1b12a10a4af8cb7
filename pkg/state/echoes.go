package state

import (
	"slices"

	"github.com/voidecho/engine/pkg/world"
)

// MaxEchoes bounds the cross-run broken-rule log.
const MaxEchoes = 5

// PushEcho prepends a broken rule to the echo log, newest first, with
// dedup and a hard cap. An empty rule or a duplicate leaves the log as-is.
func PushEcho(echoes []string, rule string) []string {
	rule = world.NFC(rule)
	if rule == "" || slices.Contains(echoes, rule) {
		return echoes
	}
	out := append([]string{rule}, echoes...)
	if len(out) > MaxEchoes {
		out = out[:MaxEchoes]
	}
	return out
}
