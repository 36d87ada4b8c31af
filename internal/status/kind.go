// Package status parses porcelain status lines into typed file changes.
package status

import (
	"fmt"
	"strings"
)

// ChangeKind is the category of change git reports for a single file.
// The zero value is not a valid kind.
type ChangeKind int

// Recognized change kinds.
const (
	Deleted ChangeKind = iota + 1
	Modified
	NotTracked
	Added
	ModifiedInBothStages
	AddedThenModified
)

// kindEntry binds a kind to its two-character porcelain code and its names.
type kindEntry struct {
	kind  ChangeKind
	code  string
	name  string // config key form
	label string // human readable form
}

// kindTable is the single source of truth for the code <-> kind mapping.
// Both directions are derived from it so rendering a kind and parsing the
// result always yields the same kind.
var kindTable = [...]kindEntry{
	{Deleted, " D", "deleted", "Deleted"},
	{Modified, " M", "modified", "Modified"},
	{NotTracked, "??", "not_tracked", "Not tracked"},
	{Added, " A", "added", "Added"},
	{ModifiedInBothStages, "MM", "modified_in_both_stages", "Modified in both stages"},
	{AddedThenModified, "AM", "added_then_modified", "Added then modified"},
}

var (
	kindByCode = make(map[string]ChangeKind, len(kindTable))
	kindByName = make(map[string]ChangeKind, len(kindTable))
)

func init() {
	for _, e := range kindTable {
		kindByCode[e.code] = e.kind
		kindByName[e.name] = e.kind
	}
}

// Kinds returns every valid kind in display order.
func Kinds() []ChangeKind {
	kinds := make([]ChangeKind, 0, len(kindTable))
	for _, e := range kindTable {
		kinds = append(kinds, e.kind)
	}
	return kinds
}

// KindForCode returns the kind for a two-character porcelain code.
func KindForCode(code string) (ChangeKind, bool) {
	k, ok := kindByCode[code]
	return k, ok
}

// KindForName resolves a config-style kind name such as "not_tracked".
// Dashes and case are tolerated.
func KindForName(name string) (ChangeKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", "_")
	k, ok := kindByName[name]
	return k, ok
}

func (k ChangeKind) entry() (kindEntry, bool) {
	if k < Deleted || int(k) > len(kindTable) {
		return kindEntry{}, false
	}
	return kindTable[k-1], true
}

// Valid reports whether k is one of the recognized kinds.
func (k ChangeKind) Valid() bool {
	_, ok := k.entry()
	return ok
}

// Code returns the two-character porcelain code, or "" for an invalid kind.
func (k ChangeKind) Code() string {
	e, _ := k.entry()
	return e.code
}

// Name returns the config key form of the kind.
func (k ChangeKind) Name() string {
	e, _ := k.entry()
	return e.name
}

// Label returns a human readable name.
func (k ChangeKind) Label() string {
	e, _ := k.entry()
	return e.label
}

// String implements fmt.Stringer.
func (k ChangeKind) String() string {
	if e, ok := k.entry(); ok {
		return e.name
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}
