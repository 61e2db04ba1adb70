package jsonio

import (
	"encoding/json"
	"io"
	"time"

	"crankview/domain/core"
	"crankview/domain/dataset"
	"crankview/domain/plot"
	"crankview/domain/project"
	"crankview/domain/stats"
	"crankview/internal/errors"
)

// settingsKey holds the project settings inside a snapshot, next to the
// datasets. The double underscores keep it from colliding with a dataset
// display name.
const settingsKey = "__project_settings__"

// settingsVersion is the current snapshot settings revision.
const settingsVersion = 3

// settingsPayload is the persisted settings shape. Datasets are referenced by
// display name: display names are the portable identity across save/reload,
// source ids are regenerated when missing.
type settingsPayload struct {
	Version           int             `json:"version"`
	SavedAt           string          `json:"saved_at,omitempty"`
	PlotType          string          `json:"plot_type"`
	AngleColumn       string          `json:"angle_column"`
	MetricColumn      string          `json:"metric_column"`
	AggMode           string          `json:"agg_mode"`
	ValueMode         string          `json:"value_mode"`
	Compare           bool            `json:"compare"`
	BaselineDisplay   string          `json:"baseline_display"`
	BaselineDisplays  []string        `json:"baseline_displays"`
	CloseLoop         bool            `json:"close_loop"`
	UseOriginalBinned bool            `json:"use_original_binned"`
	RangeLow          string          `json:"range_low"`
	RangeHigh         string          `json:"range_high"`
	RangeFixed        bool            `json:"range_fixed"`
	Sentinels         []float64       `json:"sentinels"`
	RemoveOutliers    bool            `json:"remove_outliers"`
	OutlierThreshold  *float64        `json:"outlier_threshold"`
	OutlierMethod     string          `json:"outlier_method"`
	StatsMode         string          `json:"stats_mode"`
	DatasetOrder      []string        `json:"dataset_order"`
	DatasetVisibility map[string]bool `json:"dataset_visibility"`
}

// datasetPayload is the persisted per-dataset shape. SourceID and Display are
// carried for round-trip stability but a snapshot edited by hand without them
// still loads.
type datasetPayload struct {
	RideData []map[string]interface{} `json:"rideData"`
	Binned   []map[string]interface{} `json:"left_pedalstroke_avg,omitempty"`
	SourceID string                   `json:"__source_id__,omitempty"`
	Display  string                   `json:"__display__,omitempty"`
}

// SaveProject writes the full project snapshot: every loaded dataset keyed by
// display name plus the settings object.
func SaveProject(w io.Writer, state *project.State) error {
	payload := make(map[string]interface{}, len(state.Loaded)+1)
	for _, id := range state.OrderedSourceIDs() {
		display := state.DisplayName(id)
		entry := datasetPayload{
			RideData: state.Loaded[id].Records(),
			SourceID: id.String(),
			Display:  display,
		}
		if binned, ok := state.Binned[id]; ok {
			entry.Binned = binned.Records()
		}
		payload[display] = entry
	}

	settings := settingsPayload{
		Version:           settingsVersion,
		SavedAt:           core.Now().Time().Format(time.RFC3339),
		PlotType:          string(state.Plot.ChartKind),
		AngleColumn:       state.Plot.AngleColumn,
		MetricColumn:      state.Plot.MetricColumn,
		AggMode:           string(state.Plot.AggMode),
		ValueMode:         string(state.Plot.ValueMode),
		Compare:           state.Plot.Compare,
		CloseLoop:         state.Plot.CloseLoop,
		UseOriginalBinned: state.Plot.UseOriginalBinned,
		RangeLow:          state.Plot.RangeLow,
		RangeHigh:         state.Plot.RangeHigh,
		RangeFixed:        state.Plot.RangeFixed,
		Sentinels:         state.Cleaning.Sentinels,
		RemoveOutliers:    state.Cleaning.RemoveOutliers,
		OutlierThreshold:  state.Cleaning.OutlierThreshold,
		OutlierMethod:     string(state.Cleaning.OutlierMethod),
		StatsMode:         string(state.Analysis.StatsMode),
		DatasetVisibility: make(map[string]bool, len(state.ShowFlag)),
	}
	if state.Plot.BaselineSourceID != "" {
		settings.BaselineDisplay = state.DisplayName(state.Plot.BaselineSourceID)
	}
	for _, id := range state.Plot.BaselineSourceIDs {
		settings.BaselineDisplays = append(settings.BaselineDisplays, state.DisplayName(id))
	}
	for _, id := range state.OrderedSourceIDs() {
		display := state.DisplayName(id)
		settings.DatasetOrder = append(settings.DatasetOrder, display)
		settings.DatasetVisibility[display] = state.ShowFlag[id]
	}
	payload[settingsKey] = settings

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// LoadProject reads a snapshot into a fresh state. Unknown settings strings
// fall back to defaults rather than failing the whole load; a snapshot with
// no loadable datasets is an error.
func LoadProject(r io.Reader) (*project.State, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var root map[string]interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, errors.ParseFailed("invalid JSON: " + err.Error())
	}

	var settings settingsPayload
	if raw, ok := root[settingsKey]; ok {
		if buf, err := json.Marshal(raw); err == nil {
			_ = json.Unmarshal(buf, &settings)
		}
		delete(root, settingsKey)
	}

	state := project.NewState()

	// Datasets load in saved order first, then any strays the order list
	// does not mention.
	loaded := make(map[string]bool, len(root))
	order := append([]string(nil), settings.DatasetOrder...)
	for name := range root {
		found := false
		for _, o := range order {
			if o == name {
				found = true
				break
			}
		}
		if !found {
			order = append(order, name)
		}
	}
	for _, name := range order {
		entry, ok := root[name]
		if !ok || loaded[name] {
			continue
		}
		loaded[name] = true
		table, binned, sourceID := tableFromSnapshotEntry(entry)
		if table == nil {
			continue
		}
		if sourceID == "" {
			sourceID = core.NewSourceID()
		}
		if _, err := state.AddDataset(sourceID, name, table); err != nil {
			continue
		}
		if binned != nil {
			_ = state.AttachBinned(sourceID, binned)
		}
	}
	if len(state.Loaded) == 0 {
		return nil, errors.ParseFailed("no valid datasets found")
	}

	applySettings(state, settings)
	return state, nil
}

// tableFromSnapshotEntry parses one snapshot dataset entry, tolerating both
// the wrapped payload shape and a bare row array. Pre-binned companion rows
// ride along when the entry carries them.
func tableFromSnapshotEntry(entry interface{}) (*dataset.Table, *dataset.Table, core.SourceID) {
	switch v := entry.(type) {
	case map[string]interface{}:
		rows := rowsFromEntry(v)
		if len(rows) == 0 {
			return nil, nil, ""
		}
		sourceID := ""
		if s, ok := v["__source_id__"].(string); ok {
			sourceID = s
		}
		return dataset.FromRecords(rows), binnedFromEntry(v), core.SourceID(sourceID)
	case []interface{}:
		rows := recordsFromArray(v)
		if len(rows) == 0 {
			return nil, nil, ""
		}
		return dataset.FromRecords(rows), nil, ""
	}
	return nil, nil, ""
}

func applySettings(state *project.State, settings settingsPayload) {
	if kind, err := plot.ParseChartKind(settings.PlotType); err == nil {
		state.Plot.ChartKind = kind
	}
	state.Plot.AngleColumn = settings.AngleColumn
	state.Plot.MetricColumn = settings.MetricColumn
	if mode, err := plot.ParseAggMode(settings.AggMode); err == nil {
		state.Plot.AggMode = mode
	}
	if mode, err := plot.ParseValueMode(settings.ValueMode); err == nil {
		state.Plot.ValueMode = mode
	}
	state.Plot.Compare = settings.Compare
	state.Plot.CloseLoop = settings.CloseLoop
	state.Plot.UseOriginalBinned = settings.UseOriginalBinned
	state.Plot.RangeLow = settings.RangeLow
	state.Plot.RangeHigh = settings.RangeHigh
	state.Plot.RangeFixed = settings.RangeFixed

	if settings.Sentinels != nil {
		state.Cleaning.Sentinels = append([]float64(nil), settings.Sentinels...)
	}
	state.Cleaning.RemoveOutliers = settings.RemoveOutliers
	state.Cleaning.OutlierThreshold = settings.OutlierThreshold
	state.Cleaning.OutlierMethod = plot.ParseOutlierMethod(settings.OutlierMethod)
	if mode, err := stats.ParsePValueMethod(settings.StatsMode); err == nil {
		state.Analysis.StatsMode = mode
	}

	if id, ok := state.DisplayToID[settings.BaselineDisplay]; ok {
		state.Plot.BaselineSourceID = id
	}
	for _, display := range settings.BaselineDisplays {
		if id, ok := state.DisplayToID[display]; ok {
			state.Plot.BaselineSourceIDs = append(state.Plot.BaselineSourceIDs, id)
		}
	}

	for display, show := range settings.DatasetVisibility {
		if id, ok := state.DisplayToID[display]; ok {
			state.ShowFlag[id] = show
		}
	}
	var newOrder []core.SourceID
	for _, display := range settings.DatasetOrder {
		if id, ok := state.DisplayToID[display]; ok {
			newOrder = append(newOrder, id)
		}
	}
	for _, id := range state.OrderedSourceIDs() {
		found := false
		for _, o := range newOrder {
			if o == id {
				found = true
				break
			}
		}
		if !found {
			newOrder = append(newOrder, id)
		}
	}
	_ = state.Reorder(newOrder)
}
