// Package domain models service-area coverage for the lead-subscription
// products: price-book rows, the groups derived from them, and the shared
// highlight state that drives the grid and the map.
//
// # Data Source
//
// The price book is a static table with one row per territory group and
// module. Each row lists its ZIP codes as one comma-joined field, an optional
// tier label, a monthly price, and planning figures (expected leads, yearly
// volume). Boundaries come from a ZCTA GeoJSON export keyed by ZCTA5CE10, or
// by ZIP for municipal exports.
//
// # Tiers
//
//	Premium  #15803d  priority 1
//	High     #2563eb  priority 2
//	Low      #d97706  priority 3
//	Bonus    #7c3aed  priority 4
//
// Rows with an empty tier are not served and never render. A non-empty label
// outside this set classifies as Unknown: it is served, sorts after Bonus,
// keeps its raw label for display, and styles as High.
//
// # Groups and the ZIP index
//
// Groups are built per module, ordered by tier priority then yearly volume
// descending, and given positional ids ("group-0", "group-1", ...). The ids
// only mean something within one build; changing module resets the highlight
// state. A [ZipIndex] maps each served ZIP back to its group. When a ZIP is
// listed twice within one module the later group wins.
//
// # Highlight rules
//
// One [HighlightState] feeds both views. While nothing is hovered or selected
// every entity renders neutral. Otherwise entities owned by the hovered or
// selected group are focused (heavier stroke, brought to front) and all others
// are dimmed. Selecting the selected group again clears the selection.
//
// # Event IDs
//
// Selection event IDs are SHA-256 hashes of session|module|action|group|time,
// prefixed with the action. See [generateEventID].
package domain
