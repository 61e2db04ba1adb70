package project

import (
	"fmt"
	"strings"

	"crankview/domain/core"
	"crankview/domain/dataset"
)

// EnsureOrder seeds the dataset order from the loaded map when it is empty.
func (s *State) EnsureOrder() {
	if len(s.DatasetOrder) == 0 && len(s.Loaded) > 0 {
		for id := range s.Loaded {
			s.DatasetOrder = append(s.DatasetOrder, id)
		}
	}
}

// OrderedSourceIDs returns the loaded datasets in display order.
func (s *State) OrderedSourceIDs() []core.SourceID {
	s.EnsureOrder()
	out := make([]core.SourceID, 0, len(s.DatasetOrder))
	for _, id := range s.DatasetOrder {
		if _, ok := s.Loaded[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// AddDataset registers a new table under the given identity. The display name
// is de-duplicated against the currently loaded datasets; the assigned name
// is returned.
func (s *State) AddDataset(id core.SourceID, displayName string, table *dataset.Table) (string, error) {
	if id == "" {
		return "", fmt.Errorf("source_id is required")
	}
	if _, ok := s.Loaded[id]; ok {
		return "", fmt.Errorf("dataset already loaded: %s", id)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = "Dataset"
	}
	existing := make(map[string]bool, len(s.DisplayToID))
	for name := range s.DisplayToID {
		existing[name] = true
	}
	if other, taken := s.DisplayToID[displayName]; taken && other != id {
		displayName = dataset.MakeUniqueName(displayName, existing)
	}

	s.Loaded[id] = table
	s.IDToDisplay[id] = displayName
	s.DisplayToID[displayName] = id
	s.ShowFlag[id] = true
	for _, ordered := range s.DatasetOrder {
		if ordered == id {
			return displayName, nil
		}
	}
	s.DatasetOrder = append(s.DatasetOrder, id)
	return displayName, nil
}

// RemoveDataset drops a dataset and scrubs every reference to it, including
// baseline selections.
func (s *State) RemoveDataset(id core.SourceID) {
	if _, ok := s.Loaded[id]; !ok {
		return
	}
	if display, ok := s.IDToDisplay[id]; ok {
		if s.DisplayToID[display] == id {
			delete(s.DisplayToID, display)
		}
		delete(s.IDToDisplay, id)
	}
	delete(s.Loaded, id)
	delete(s.Binned, id)
	delete(s.ShowFlag, id)
	for i, ordered := range s.DatasetOrder {
		if ordered == id {
			s.DatasetOrder = append(s.DatasetOrder[:i], s.DatasetOrder[i+1:]...)
			break
		}
	}
	if s.Plot.BaselineSourceID == id {
		s.Plot.BaselineSourceID = ""
	}
	kept := s.Plot.BaselineSourceIDs[:0]
	for _, bid := range s.Plot.BaselineSourceIDs {
		if bid != id {
			kept = append(kept, bid)
		}
	}
	s.Plot.BaselineSourceIDs = kept
	if s.Plot.BaselineSourceID == "" && len(s.Plot.BaselineSourceIDs) > 0 {
		s.Plot.BaselineSourceID = s.Plot.BaselineSourceIDs[0]
	}
}

// AttachBinned stores the pre-binned companion table for a loaded dataset.
// The binned rows share the dataset's lifecycle: they are dropped with it and
// replaced wholesale on re-attach.
func (s *State) AttachBinned(id core.SourceID, table *dataset.Table) error {
	if _, ok := s.Loaded[id]; !ok {
		return fmt.Errorf("unknown dataset: %s", id)
	}
	if s.Binned == nil {
		s.Binned = make(map[core.SourceID]*dataset.Table)
	}
	s.Binned[id] = table
	return nil
}

// RenameDataset changes a dataset's display name. Identity is untouched; the
// name is de-duplicated when it collides with another dataset.
func (s *State) RenameDataset(id core.SourceID, newName string) (string, error) {
	if _, ok := s.Loaded[id]; !ok {
		return "", fmt.Errorf("unknown dataset: %s", id)
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return "", fmt.Errorf("new name cannot be blank")
	}
	if other, taken := s.DisplayToID[newName]; taken && other != id {
		existing := make(map[string]bool, len(s.DisplayToID))
		for name := range s.DisplayToID {
			existing[name] = true
		}
		newName = dataset.MakeUniqueName(newName, existing)
	}
	old := s.IDToDisplay[id]
	s.IDToDisplay[id] = newName
	if s.DisplayToID[old] == id {
		delete(s.DisplayToID, old)
	}
	s.DisplayToID[newName] = id
	return newName, nil
}

// SetShow sets a dataset's visibility flag.
func (s *State) SetShow(id core.SourceID, show bool) error {
	if _, ok := s.Loaded[id]; !ok {
		return fmt.Errorf("unknown dataset: %s", id)
	}
	s.ShowFlag[id] = show
	return nil
}

// ToggleShow flips a dataset's visibility flag and returns the new value.
func (s *State) ToggleShow(id core.SourceID) (bool, error) {
	if _, ok := s.Loaded[id]; !ok {
		return false, fmt.Errorf("unknown dataset: %s", id)
	}
	next := !s.ShowFlag[id]
	s.ShowFlag[id] = next
	return next, nil
}

// SetAllShow applies a visibility flag to every loaded dataset.
func (s *State) SetAllShow(show bool) {
	for _, id := range s.OrderedSourceIDs() {
		s.ShowFlag[id] = show
	}
}

// Reorder replaces the dataset ordering. The new order must mention every
// loaded dataset exactly once.
func (s *State) Reorder(newOrder []core.SourceID) error {
	seen := make(map[core.SourceID]bool, len(newOrder))
	filtered := make([]core.SourceID, 0, len(newOrder))
	for _, id := range newOrder {
		if _, ok := s.Loaded[id]; ok && !seen[id] {
			filtered = append(filtered, id)
			seen[id] = true
		}
	}
	if len(filtered) != len(s.Loaded) {
		return fmt.Errorf("new order must include all loaded datasets exactly once")
	}
	s.DatasetOrder = filtered
	return nil
}

// MoveDataset shifts a dataset by offset positions, clamped to the ends.
func (s *State) MoveDataset(id core.SourceID, offset int) {
	s.EnsureOrder()
	idx := -1
	for i, ordered := range s.DatasetOrder {
		if ordered == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	newIdx := idx + offset
	if newIdx < 0 {
		newIdx = 0
	}
	if newIdx > len(s.DatasetOrder)-1 {
		newIdx = len(s.DatasetOrder) - 1
	}
	if newIdx == idx {
		return
	}
	s.DatasetOrder = append(s.DatasetOrder[:idx], s.DatasetOrder[idx+1:]...)
	s.DatasetOrder = append(s.DatasetOrder[:newIdx], append([]core.SourceID{id}, s.DatasetOrder[newIdx:]...)...)
}

// EffectiveBaselineIDs returns the stored baseline selection as a clean list:
// the single selection prepended when the list omits it, restricted to loaded
// datasets, de-duplicated.
func (s *State) EffectiveBaselineIDs() []core.SourceID {
	candidates := append([]core.SourceID(nil), s.Plot.BaselineSourceIDs...)
	if single := s.Plot.BaselineSourceID; single != "" {
		found := false
		for _, id := range candidates {
			if id == single {
				found = true
				break
			}
		}
		if !found {
			candidates = append([]core.SourceID{single}, candidates...)
		}
	}
	seen := make(map[core.SourceID]bool, len(candidates))
	out := make([]core.SourceID, 0, len(candidates))
	for _, id := range candidates {
		if _, loaded := s.Loaded[id]; loaded && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}

// MetricChoices returns the numeric columns common to all loaded datasets.
func (s *State) MetricChoices() []string {
	tables := make([]*dataset.Table, 0, len(s.DatasetOrder))
	for _, id := range s.OrderedSourceIDs() {
		tables = append(tables, s.Loaded[id])
	}
	return dataset.CommonColumns(tables)
}
