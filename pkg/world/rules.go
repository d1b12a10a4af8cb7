package world

import (
	"slices"

	"golang.org/x/text/unicode/norm"
)

// NFC returns the NFC-normalized form of s. Rule, clue and quest strings
// come out of the oracle in whatever Unicode form the model produced;
// normalizing once at ingestion keeps exact-match dedup honest for
// Vietnamese diacritics.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// NFCAll normalizes every string in the slice, in place order.
func NFCAll(in []string) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = NFC(s)
	}
	return out
}

// AppendNew appends the members of incoming that are not already in known,
// preserving incoming order. It returns the grown list and the subset that
// was actually added. The known list is append-only by construction.
func AppendNew(known, incoming []string) ([]string, []string) {
	var added []string
	for _, s := range incoming {
		s = NFC(s)
		if slices.Contains(known, s) || slices.Contains(added, s) {
			continue
		}
		added = append(added, s)
	}
	return append(known, added...), added
}

// Remove returns list with every exact match of members removed.
// Entries with no match are silently skipped.
func Remove(list, members []string) []string {
	if len(members) == 0 {
		return list
	}
	out := list[:0:0]
	for _, s := range list {
		if !slices.Contains(members, s) {
			out = append(out, s)
		}
	}
	return out
}
