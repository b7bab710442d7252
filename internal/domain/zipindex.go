package domain

import (
	"slices"
	"sort"
)

// ZipIndex resolves a ZIP code to the group that owns it. It is built in one
// ordered pass and never modified afterwards; a module change builds a new one.
//
// When the price book assigns a ZIP to more than one row of the same module,
// the group that comes later in build order wins. The duplicate is not
// reported here.
type ZipIndex struct {
	groups []Group
	owner  map[string]int // zip -> position in groups
}

// NewZipIndex builds the reverse index over groups in order.
func NewZipIndex(groups []Group) *ZipIndex {
	idx := &ZipIndex{
		groups: groups,
		owner:  make(map[string]int),
	}
	for i, g := range groups {
		for _, zip := range g.Zips {
			idx.owner[zip] = i
		}
	}
	return idx
}

// Lookup returns the group owning zip.
func (x *ZipIndex) Lookup(zip string) (Group, bool) {
	if x == nil {
		return Group{}, false
	}
	i, ok := x.owner[zip]
	if !ok {
		return Group{}, false
	}
	return x.groups[i], true
}

// GroupID returns the owning group's id, or "" when zip is not served.
func (x *ZipIndex) GroupID(zip string) string {
	g, ok := x.Lookup(zip)
	if !ok {
		return ""
	}
	return g.ID
}

// Has reports whether zip is served.
func (x *ZipIndex) Has(zip string) bool {
	if x == nil {
		return false
	}
	_, ok := x.owner[zip]
	return ok
}

// Len is the number of distinct served ZIPs.
func (x *ZipIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.owner)
}

// Zips returns the served ZIPs sorted ascending.
func (x *ZipIndex) Zips() []string {
	if x == nil {
		return nil
	}
	zips := make([]string, 0, len(x.owner))
	for z := range x.owner {
		zips = append(zips, z)
	}
	sort.Strings(zips)
	return zips
}

// Group returns the group with the given id.
func (x *ZipIndex) Group(id string) (Group, bool) {
	if x == nil {
		return Group{}, false
	}
	for _, g := range x.groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// Groups returns a copy of the groups the index was built from, in build order.
func (x *ZipIndex) Groups() []Group {
	if x == nil {
		return nil
	}
	return slices.Clone(x.groups)
}
