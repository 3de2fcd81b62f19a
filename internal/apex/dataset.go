// Package apex derives comparison metrics for APEX material-property results:
// elastic constants and equation-of-state curves of each model, measured
// against the experimental ("Expt") and first-principles ("DFT(abacus)")
// reference rows, and aggregated across configurations.
package apex

import (
	"math"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jqliu1995/Code-for-APEX/internal/archive"
	"github.com/jqliu1995/Code-for-APEX/internal/ordered"
)

// Well-known model identifiers.
const (
	ModelExpt      = "Expt"
	ModelDFT       = "DFT(abacus)"
	ModelSingleDai = "single-dai"
	ModelMACE      = "mace"
)

// Property block and field names inside a configuration.
const (
	blockRelaxation = "relaxation"
	blockElastic    = "elastic_00"
	blockEOS        = "eos_00"
	fieldResult     = "result"
)

// Dataset maps model name -> configuration -> property block -> result, in
// reconciliation order.
type Dataset struct {
	names  []string
	models map[string]*ordered.Map
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{models: make(map[string]*ordered.Map)}
}

// Set stores a model's data. Re-setting a name keeps its original position.
func (d *Dataset) Set(name string, data *ordered.Map) {
	if _, ok := d.models[name]; !ok {
		d.names = append(d.names, name)
	}
	if data == nil {
		data = ordered.NewMap()
	}
	d.models[name] = data
}

// Models returns model names in order.
func (d *Dataset) Models() []string {
	return slices.Clone(d.names)
}

// Model returns the data of one model.
func (d *Dataset) Model(name string) (*ordered.Map, bool) {
	m, ok := d.models[name]
	return m, ok
}

// Len is the number of models.
func (d *Dataset) Len() int { return len(d.names) }

// Configurations returns the sorted union of configuration names.
func (d *Dataset) Configurations() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, name := range d.names {
		for _, conf := range d.models[name].Keys() {
			if _, ok := seen[conf]; ok {
				continue
			}
			seen[conf] = struct{}{}
			out = append(out, conf)
		}
	}
	slices.Sort(out)
	return out
}

// lookup walks model -> path. Errors wrap ordered.ErrNotFound and name the
// full path, model included.
func (d *Dataset) lookup(model string, path ...string) (any, error) {
	root := ordered.NewMap()
	if m, ok := d.models[model]; ok {
		root.Set(model, m)
	}
	return root.Lookup(append([]string{model}, path...)...)
}

// Reconcile keys each archive by a simplified form of its work path, or by
// its tag when it has one. Archives sharing a work path or tag collapse to the
// later one, kept at the earlier position.
func Reconcile(archives []archive.Archive) *Dataset {
	byPath := make(map[string]archive.Archive, len(archives))
	var paths []string
	for _, a := range archives {
		if _, ok := byPath[a.WorkPath]; !ok {
			paths = append(paths, a.WorkPath)
		}
		byPath[a.WorkPath] = a
	}

	simplified := SimplifyPaths(paths)
	ds := NewDataset()
	for _, p := range paths {
		a := byPath[p]
		key := simplified[p]
		if a.Tag != "" {
			key = a.Tag
		}
		ds.Set(key, a.Data)
	}
	return ds
}

// SimplifyPaths shortens work paths for display. A lone path becomes
// ".../<base>"; several paths lose their common leading components and gain a
// ".../" prefix. Without a common prefix the cleaned path is kept.
func SimplifyPaths(paths []string) map[string]string {
	out := make(map[string]string, len(paths))
	if len(paths) == 0 {
		return out
	}
	if len(paths) == 1 {
		out[paths[0]] = ".../" + filepath.Base(paths[0])
		return out
	}

	sep := string(filepath.Separator)
	split := make([][]string, len(paths))
	for i, p := range paths {
		split[i] = strings.Split(filepath.Clean(p), sep)
	}
	common := len(split[0])
	for _, parts := range split[1:] {
		n := 0
		for n < common && n < len(parts) && parts[n] == split[0][n] {
			n++
		}
		common = n
	}
	for i, p := range paths {
		if common == 0 {
			out[p] = strings.Join(split[i], sep)
			continue
		}
		out[p] = ".../" + strings.Join(split[i][common:], sep)
	}
	return out
}

func number(v any) (float64, bool) {
	f, ok := ordered.Number(v)
	if !ok {
		return math.NaN(), false
	}
	return f, true
}
