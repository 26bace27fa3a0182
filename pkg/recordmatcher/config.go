package recordmatcher

import "sort"

// DefaultThreshold is the per-column threshold assumed when a column
// is added to ColumnsToMatch without an explicit one.
const DefaultThreshold = 75.0

// DefaultCutoff is the per-column cutoff assumed when a column is
// added to ColumnsToMatch without an explicit one.
const DefaultCutoff = false

// Config holds the six column-wiring sub-maps described in the
// package's matching contract, plus the defaults used to populate
// them. A Config is only meaningful relative to a pair of column
// sets (the X and Y table's columns); set those with SetXColumns and
// SetYColumns (or SetTables) before wiring anything else.
//
// A Config must not be mutated concurrently with a Matcher.Match call
// that reads it.
type Config struct {
	registry *Registry

	xColumns map[string]struct{}
	yColumns map[string]struct{}

	columnsToMatch     map[string][]string
	columnsToGet       map[string]string
	columnsToGroup     map[string]string
	scorersByColumn    map[string]string
	thresholdsByColumn map[string]float64
	cutoffsByColumn    map[string]bool

	allowOverwrite   bool
	defaultScorer    string
	defaultThreshold float64
	defaultCutoff    bool
}

// NewConfig returns an empty Config backed by registry. registry must
// contain at least DefaultScorerName.
func NewConfig(registry *Registry) *Config {
	return &Config{
		registry:           registry,
		xColumns:           map[string]struct{}{},
		yColumns:           map[string]struct{}{},
		columnsToMatch:     map[string][]string{},
		columnsToGet:       map[string]string{},
		columnsToGroup:     map[string]string{},
		scorersByColumn:    map[string]string{},
		thresholdsByColumn: map[string]float64{},
		cutoffsByColumn:    map[string]bool{},
		defaultScorer:      DefaultScorerName,
		defaultThreshold:   DefaultThreshold,
		defaultCutoff:      DefaultCutoff,
	}
}

// SetTables sets both column sets from a pair of tables in one step.
// It resets the six sub-maps iff either table's column set differs
// from what was previously set (see SetXColumns/SetYColumns).
func (c *Config) SetTables(x, y Table) {
	xCols := toSet(ColumnNames(x))
	yCols := toSet(ColumnNames(y))

	changed := !setsEqual(xCols, c.xColumns) || !setsEqual(yCols, c.yColumns)
	c.xColumns = xCols
	c.yColumns = yCols
	if changed {
		c.Reset()
	}
}

// SetXColumns replaces the known X column set. If it differs from the
// previous one, the six sub-maps are reset (their keys may no longer
// be valid).
func (c *Config) SetXColumns(cols map[string]struct{}) {
	if setsEqual(cols, c.xColumns) {
		return
	}
	c.xColumns = cloneSet(cols)
	c.Reset()
}

// SetYColumns replaces the known Y column set, with the same reset
// behavior as SetXColumns.
func (c *Config) SetYColumns(cols map[string]struct{}) {
	if setsEqual(cols, c.yColumns) {
		return
	}
	c.yColumns = cloneSet(cols)
	c.Reset()
}

// XColumns returns a copy of the known X column set.
func (c *Config) XColumns() map[string]struct{} { return cloneSet(c.xColumns) }

// YColumns returns a copy of the known Y column set.
func (c *Config) YColumns() map[string]struct{} { return cloneSet(c.yColumns) }

// Reset clears all six column-wiring sub-maps. It does not change the
// known X/Y column sets.
func (c *Config) Reset() {
	c.columnsToMatch = map[string][]string{}
	c.columnsToGet = map[string]string{}
	c.columnsToGroup = map[string]string{}
	c.scorersByColumn = map[string]string{}
	c.thresholdsByColumn = map[string]float64{}
	c.cutoffsByColumn = map[string]bool{}
}

// Populate seeds ColumnsToMatch with the identity mapping for every
// column present on both sides (XColumns ∩ YColumns). It is
// idempotent: calling it again with the same column sets re-derives
// the same mapping.
func (c *Config) Populate() {
	c.columnsToMatch = map[string][]string{}
	c.scorersByColumn = map[string]string{}
	c.thresholdsByColumn = map[string]float64{}
	c.cutoffsByColumn = map[string]bool{}

	for col := range c.xColumns {
		if _, ok := c.yColumns[col]; ok {
			_ = c.AddColumnToMatch(col, col)
		}
	}
}

// AddColumnToMatch appends yCols to the Y-columns matched against
// xCol, creating the entry (with default scorer/threshold/cutoff) if
// it doesn't already exist. Y columns that don't exist in YColumns,
// or that are already associated with xCol, are silently ignored;
// order of first appearance is preserved. It fails with
// *ColumnNotFoundError if xCol is not a known X column.
func (c *Config) AddColumnToMatch(xCol string, yCols ...string) error {
	if _, ok := c.xColumns[xCol]; !ok {
		return &ColumnNotFoundError{Column: xCol, Side: "x", Allowed: sortedKeys(c.xColumns)}
	}

	if _, exists := c.columnsToMatch[xCol]; !exists {
		c.columnsToMatch[xCol] = []string{}
		if _, ok := c.scorersByColumn[xCol]; !ok {
			c.scorersByColumn[xCol] = c.defaultScorer
		}
		if _, ok := c.thresholdsByColumn[xCol]; !ok {
			c.thresholdsByColumn[xCol] = c.defaultThreshold
		}
		if _, ok := c.cutoffsByColumn[xCol]; !ok {
			c.cutoffsByColumn[xCol] = c.defaultCutoff
		}
	}

	existing := c.columnsToMatch[xCol]
	for _, yCol := range yCols {
		if _, ok := c.yColumns[yCol]; !ok {
			continue
		}
		if containsString(existing, yCol) {
			continue
		}
		existing = append(existing, yCol)
	}
	c.columnsToMatch[xCol] = existing
	return nil
}

// RemoveColumnToMatch removes yCols from xCol's matched Y-columns. If
// yCols is empty, or removal empties the list, the entire entry is
// deleted along with its scorer/threshold/cutoff — bypassing the lock
// enforced by RemoveScorerForColumn et al., since this is the
// mechanism that releases that lock.
func (c *Config) RemoveColumnToMatch(xCol string, yCols ...string) {
	existing, ok := c.columnsToMatch[xCol]
	if !ok {
		return
	}

	if len(yCols) > 0 {
		remove := toSet(stringsToSet(yCols))
		filtered := existing[:0:0]
		for _, yc := range existing {
			if _, drop := remove[yc]; !drop {
				filtered = append(filtered, yc)
			}
		}
		existing = filtered
	} else {
		existing = nil
	}

	if len(existing) == 0 {
		delete(c.columnsToMatch, xCol)
		delete(c.scorersByColumn, xCol)
		delete(c.thresholdsByColumn, xCol)
		delete(c.cutoffsByColumn, xCol)
		return
	}
	c.columnsToMatch[xCol] = existing
}

// ColumnsToMatch returns a copy of the x-column -> y-columns mapping.
func (c *Config) ColumnsToMatch() map[string][]string {
	out := make(map[string][]string, len(c.columnsToMatch))
	for k, v := range c.columnsToMatch {
		cp := make([]string, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// SetAllowOverwrite controls whether SetColumnToGet may target an
// existing X column.
func (c *Config) SetAllowOverwrite(allow bool) { c.allowOverwrite = allow }

// AllowOverwrite reports the current overwrite policy.
func (c *Config) AllowOverwrite() bool { return c.allowOverwrite }

// SetColumnToGet maps yCol to destination column dest in the result
// table. It fails with *ColumnNotFoundError if yCol is not a known Y
// column, *XUniqueConstraintError if dest is already used by another
// entry, or *OverwriteError if dest names an existing X column and
// AllowOverwrite is false.
func (c *Config) SetColumnToGet(yCol, dest string) error {
	if _, ok := c.yColumns[yCol]; !ok {
		return &ColumnNotFoundError{Column: yCol, Side: "y", Allowed: sortedKeys(c.yColumns)}
	}
	for k, v := range c.columnsToGet {
		if k == yCol {
			continue
		}
		if v == dest {
			return &XUniqueConstraintError{Destination: dest}
		}
	}
	if !c.allowOverwrite {
		if _, ok := c.xColumns[dest]; ok {
			return &OverwriteError{Destination: dest}
		}
	}
	c.columnsToGet[yCol] = dest
	return nil
}

// RemoveColumnToGet removes yCol's destination mapping, if any.
func (c *Config) RemoveColumnToGet(yCol string) { delete(c.columnsToGet, yCol) }

// ColumnsToGet returns a copy of the y-column -> destination mapping.
func (c *Config) ColumnsToGet() map[string]string {
	out := make(map[string]string, len(c.columnsToGet))
	for k, v := range c.columnsToGet {
		out[k] = v
	}
	return out
}

// SetColumnToGroup maps yCol to x-column xCol for blocking: a Y row
// is only considered as a candidate for an X row when its value in
// yCol equals the X row's value in xCol. It fails with
// *ColumnNotFoundError if either column is unknown on its side.
func (c *Config) SetColumnToGroup(yCol, xCol string) error {
	if _, ok := c.yColumns[yCol]; !ok {
		return &ColumnNotFoundError{Column: yCol, Side: "y", Allowed: sortedKeys(c.yColumns)}
	}
	if _, ok := c.xColumns[xCol]; !ok {
		return &ColumnNotFoundError{Column: xCol, Side: "x", Allowed: sortedKeys(c.xColumns)}
	}
	c.columnsToGroup[yCol] = xCol
	return nil
}

// RemoveColumnToGroup removes yCol's grouping entry, if any.
func (c *Config) RemoveColumnToGroup(yCol string) { delete(c.columnsToGroup, yCol) }

// ColumnsToGroup returns a copy of the y-column -> x-column grouping
// mapping.
func (c *Config) ColumnsToGroup() map[string]string {
	out := make(map[string]string, len(c.columnsToGroup))
	for k, v := range c.columnsToGroup {
		out[k] = v
	}
	return out
}

// SetDefaultScorer changes the scorer name used when AddColumnToMatch
// creates an entry without one already set via SetScorerForColumn. It
// fails with *ScorerNotFoundError if name is not registered.
func (c *Config) SetDefaultScorer(name string) error {
	if !c.registry.Has(name) {
		return &ScorerNotFoundError{Name: name, Registry: c.registry.Names()}
	}
	c.defaultScorer = name
	return nil
}

// SetScorerForColumn assigns the scorer named name to xCol. An empty
// name resets xCol to the current default scorer. It fails with
// *ColumnNotFoundError if xCol is unknown, or *ScorerNotFoundError if
// name is non-empty and not registered.
func (c *Config) SetScorerForColumn(xCol, name string) error {
	if _, ok := c.xColumns[xCol]; !ok {
		return &ColumnNotFoundError{Column: xCol, Side: "x", Allowed: sortedKeys(c.xColumns)}
	}
	if name == "" {
		c.scorersByColumn[xCol] = c.defaultScorer
		return nil
	}
	if !c.registry.Has(name) {
		return &ScorerNotFoundError{Name: name, Registry: c.registry.Names()}
	}
	c.scorersByColumn[xCol] = name
	return nil
}

// RemoveScorerForColumn removes xCol's scorer entry. It fails with
// *ColumnToMatchLockError while xCol is still present in
// ColumnsToMatch.
func (c *Config) RemoveScorerForColumn(xCol string) error {
	if _, locked := c.columnsToMatch[xCol]; locked {
		return &ColumnToMatchLockError{Column: xCol}
	}
	delete(c.scorersByColumn, xCol)
	return nil
}

// ScorersByColumn returns a copy of the x-column -> scorer-name
// mapping.
func (c *Config) ScorersByColumn() map[string]string {
	out := make(map[string]string, len(c.scorersByColumn))
	for k, v := range c.scorersByColumn {
		out[k] = v
	}
	return out
}

// Scorer resolves xCol's scorer name to a callable Scorer via the
// registry. It returns false if the column has no scorer entry or the
// entry no longer resolves (e.g. the registry changed after
// assignment).
func (c *Config) Scorer(xCol string) (Scorer, bool) {
	name, ok := c.scorersByColumn[xCol]
	if !ok {
		return nil, false
	}
	return c.registry.Lookup(name)
}

// SetDefaultThreshold changes the threshold used when AddColumnToMatch
// creates an entry without one set via SetThresholdForColumn. t must
// be within [0, 100].
func (c *Config) SetDefaultThreshold(t float64) error {
	if t < 0 || t > 100 {
		return &InvalidValueError{Field: "default threshold", Reason: "must be in [0, 100]"}
	}
	c.defaultThreshold = t
	return nil
}

// SetThresholdForColumn assigns threshold t to xCol. t must be within
// [0, 100].
func (c *Config) SetThresholdForColumn(xCol string, t float64) error {
	if _, ok := c.xColumns[xCol]; !ok {
		return &ColumnNotFoundError{Column: xCol, Side: "x", Allowed: sortedKeys(c.xColumns)}
	}
	if t < 0 || t > 100 {
		return &InvalidValueError{Field: xCol, Reason: "threshold must be in [0, 100]"}
	}
	c.thresholdsByColumn[xCol] = t
	return nil
}

// RemoveThresholdForColumn removes xCol's threshold entry. It fails
// with *ColumnToMatchLockError while xCol is still present in
// ColumnsToMatch.
func (c *Config) RemoveThresholdForColumn(xCol string) error {
	if _, locked := c.columnsToMatch[xCol]; locked {
		return &ColumnToMatchLockError{Column: xCol}
	}
	delete(c.thresholdsByColumn, xCol)
	return nil
}

// ThresholdsByColumn returns a copy of the x-column -> threshold
// mapping.
func (c *Config) ThresholdsByColumn() map[string]float64 {
	out := make(map[string]float64, len(c.thresholdsByColumn))
	for k, v := range c.thresholdsByColumn {
		out[k] = v
	}
	return out
}

// SetDefaultCutoff changes the cutoff used when AddColumnToMatch
// creates an entry without one set via SetCutoffForColumn.
func (c *Config) SetDefaultCutoff(cutoff bool) { c.defaultCutoff = cutoff }

// SetCutoffForColumn assigns cutoff to xCol.
func (c *Config) SetCutoffForColumn(xCol string, cutoff bool) error {
	if _, ok := c.xColumns[xCol]; !ok {
		return &ColumnNotFoundError{Column: xCol, Side: "x", Allowed: sortedKeys(c.xColumns)}
	}
	c.cutoffsByColumn[xCol] = cutoff
	return nil
}

// RemoveCutoffForColumn removes xCol's cutoff entry. It fails with
// *ColumnToMatchLockError while xCol is still present in
// ColumnsToMatch.
func (c *Config) RemoveCutoffForColumn(xCol string) error {
	if _, locked := c.columnsToMatch[xCol]; locked {
		return &ColumnToMatchLockError{Column: xCol}
	}
	delete(c.cutoffsByColumn, xCol)
	return nil
}

// CutoffsByColumn returns a copy of the x-column -> cutoff mapping.
func (c *Config) CutoffsByColumn() map[string]bool {
	out := make(map[string]bool, len(c.cutoffsByColumn))
	for k, v := range c.cutoffsByColumn {
		out[k] = v
	}
	return out
}

// --- small set helpers ---

func toSet(m map[string]struct{}) map[string]struct{} { return cloneSet(m) }

func cloneSet(m map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func stringsToSet(ss []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		out[s] = struct{}{}
	}
	return out
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
