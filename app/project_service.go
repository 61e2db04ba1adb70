// Package app wires the domain and adapters into the services the UI layer
// calls. Services own the project state lock: computations always run
// against an immutable snapshot while lifecycle mutations take the write
// side.
package app

import (
	"io"
	"sync"

	"crankview/adapters/jsonio"
	"crankview/domain/core"
	"crankview/domain/plot"
	"crankview/domain/project"
	"crankview/domain/stats"
	"crankview/internal"
	"crankview/internal/errors"
)

// ProjectService owns the mutable project state and its dataset lifecycle.
type ProjectService struct {
	mu     sync.RWMutex
	state  *project.State
	logger *internal.Logger
}

func NewProjectService(logger *internal.Logger, defaultSentinels []float64) *ProjectService {
	state := project.NewState()
	if len(defaultSentinels) > 0 {
		state.Cleaning.Sentinels = append([]float64(nil), defaultSentinels...)
	}
	return &ProjectService{state: state, logger: logger}
}

// Snapshot returns an immutable copy of the current state for computation.
func (s *ProjectService) Snapshot() *project.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Snapshot()
}

// LoadedDataset describes one dataset for listing in the UI.
type LoadedDataset struct {
	SourceID core.SourceID `json:"source_id"`
	Display  string        `json:"display_name"`
	Visible  bool          `json:"visible"`
	Rows     int           `json:"rows"`
	Columns  []string      `json:"columns"`
}

// ListDatasets returns the loaded datasets in display order.
func (s *ProjectService) ListDatasets() []LoadedDataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []LoadedDataset
	for _, id := range s.state.OrderedSourceIDs() {
		t := s.state.Loaded[id]
		out = append(out, LoadedDataset{
			SourceID: id,
			Display:  s.state.DisplayName(id),
			Visible:  s.state.ShowFlag[id],
			Rows:     t.Rows(),
			Columns:  t.Columns(),
		})
	}
	return out
}

// LoadJSON ingests dataset JSON in any accepted shape and registers every
// dataset it contains. Returns the assigned display names.
func (s *ProjectService) LoadJSON(r io.Reader, fallbackName string) ([]string, error) {
	tables, err := jsonio.LoadDatasets(r, fallbackName)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(tables))
	for _, nt := range tables {
		id := core.NewSourceID()
		assigned, err := s.state.AddDataset(id, nt.Name, nt.Table)
		if err != nil {
			return names, errors.Wrap(err, "failed to register dataset")
		}
		if nt.Binned != nil {
			_ = s.state.AttachBinned(id, nt.Binned)
			s.logger.Info("attached %d pre-binned rows to %q", nt.Binned.Rows(), assigned)
		}
		s.logger.Info("loaded dataset %q (%d rows)", assigned, nt.Table.Rows())
		names = append(names, assigned)
	}
	return names, nil
}

// LoadProjectFile replaces the whole project with a saved snapshot.
func (s *ProjectService) LoadProjectFile(r io.Reader) error {
	state, err := jsonio.LoadProject(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.logger.Info("project loaded with %d datasets", len(state.Loaded))
	return nil
}

// SaveProjectFile writes the current project snapshot.
func (s *ProjectService) SaveProjectFile(w io.Writer) error {
	snapshot := s.Snapshot()
	return jsonio.SaveProject(w, snapshot)
}

// Clear removes all datasets.
func (s *ProjectService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Clear()
}

// Remove drops one dataset.
func (s *ProjectService) Remove(id core.SourceID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RemoveDataset(id)
}

// Rename changes a dataset's display name and returns the assigned name.
func (s *ProjectService) Rename(id core.SourceID, newName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RenameDataset(id, newName)
}

// SetVisible sets one dataset's visibility.
func (s *ProjectService) SetVisible(id core.SourceID, show bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SetShow(id, show)
}

// SetAllVisible applies a visibility flag to every dataset.
func (s *ProjectService) SetAllVisible(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetAllShow(show)
}

// Reorder replaces the dataset ordering.
func (s *ProjectService) Reorder(order []core.SourceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Reorder(order)
}

// Move shifts one dataset by offset positions.
func (s *ProjectService) Move(id core.SourceID, offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.MoveDataset(id, offset)
}

// MetricChoices lists the numeric columns common to all loaded datasets.
func (s *ProjectService) MetricChoices() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.MetricChoices()
}

// UpdatePlotSettings replaces the stored plot settings.
func (s *ProjectService) UpdatePlotSettings(settings project.PlotSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Plot = settings
}

// UpdateCleaningSettings replaces the stored cleaning settings.
func (s *ProjectService) UpdateCleaningSettings(settings project.CleaningSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Cleaning = settings
}

// SetStatsMode selects the significance method for the statistics report.
func (s *ProjectService) SetStatsMode(mode stats.PValueMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Analysis.StatsMode = mode
}

// SetBaseline selects the baseline dataset(s) for compare mode.
func (s *ProjectService) SetBaseline(single core.SourceID, list []core.SourceID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Plot.BaselineSourceID = single
	s.state.Plot.BaselineSourceIDs = append([]core.SourceID(nil), list...)
}

// SetChartKind selects the active chart type.
func (s *ProjectService) SetChartKind(kind plot.ChartKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Plot.ChartKind = kind
}
