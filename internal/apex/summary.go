package apex

import (
	"fmt"
	"slices"

	"github.com/jqliu1995/Code-for-APEX/internal/logging"
	"github.com/jqliu1995/Code-for-APEX/internal/ordered"
	"go.uber.org/zap"
)

// Summary table columns.
var (
	ElasticSummaryColumns = []string{"idx", "CV_Expt/DFT_pass_num", "CV_DFT_pass_num", "Aver_CV_Expt/DFT", "Aver_CV_DFT"}
	EOSSummaryColumns     = []string{"idx", "MAE_DFT_pass_num", "Aver_MAE_DFT"}
)

// Aggregate is a pass count and mean over the non-null samples of one metric
// across configurations.
type Aggregate struct {
	Passed  int
	Configs int
	// Mean is nil when there were no samples.
	Mean *float64
}

// PassText renders the count as "passed/configurations".
func (a Aggregate) PassText() string {
	return fmt.Sprintf("%d/%d", a.Passed, a.Configs)
}

func aggregate(model, metric string, samples []*float64, configs int, threshold float64) Aggregate {
	a := Aggregate{Configs: configs}
	var values []float64
	for _, s := range samples {
		if s == nil {
			continue
		}
		values = append(values, *s)
		if *s < threshold {
			a.Passed++
		}
	}
	mean, err := Mean(values)
	if err != nil {
		logging.LogDiagnostic(logging.KindNoSamples,
			fmt.Sprintf("%s average undefined: %v", metric, err),
			zap.String("model", model))
		return a
	}
	a.Mean = &mean
	return a
}

// ElasticSummary is one model's row of the elastic aggregation table.
type ElasticSummary struct {
	Model string
	Idx   int
	// CVExptOrDFT uses CV_DFT in configurations where CV_Expt is null.
	CVExptOrDFT Aggregate
	CVDFT       Aggregate
}

// Metrics lays the record out under ElasticSummaryColumns.
func (s ElasticSummary) Metrics() *ordered.Map {
	m := ordered.NewMap()
	m.Set("idx", int64(s.Idx))
	m.Set("CV_Expt/DFT_pass_num", s.CVExptOrDFT.PassText())
	m.Set("CV_DFT_pass_num", s.CVDFT.PassText())
	m.Set("Aver_CV_Expt/DFT", nullable(s.CVExptOrDFT.Mean))
	m.Set("Aver_CV_DFT", nullable(s.CVDFT.Mean))
	return m
}

// EOSSummary is one model's row of the EOS aggregation table.
type EOSSummary struct {
	Model  string
	Idx    int
	MAEDFT Aggregate
}

// Metrics lays the record out under EOSSummaryColumns.
func (s EOSSummary) Metrics() *ordered.Map {
	m := ordered.NewMap()
	m.Set("idx", int64(s.Idx))
	m.Set("MAE_DFT_pass_num", s.MAEDFT.PassText())
	m.Set("Aver_MAE_DFT", nullable(s.MAEDFT.Mean))
	return m
}

func summaryIndexer() *indexer {
	return newIndexer(map[string]int{ModelSingleDai: 0, ModelMACE: 1}, 2)
}

// sortedModels returns the sorted model names of all configurations, without
// the excluded ones.
func sortedModels[R any](perConf [][]R, model func(R) string, exclude ...string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, recs := range perConf {
		for _, r := range recs {
			name := model(r)
			if _, ok := seen[name]; ok || slices.Contains(exclude, name) {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// SummarizeElastic aggregates per-configuration elastic rows into one row per
// model, excluding both reference models. A CV passes when it is below
// threshold; the configuration count is len(perConf).
func SummarizeElastic(perConf [][]ElasticRecord, threshold float64) []ElasticSummary {
	models := sortedModels(perConf, func(r ElasticRecord) string { return r.Model }, ModelExpt, ModelDFT)
	idx := summaryIndexer()

	out := make([]ElasticSummary, 0, len(models))
	for _, name := range models {
		var exptOrDFT, dft []*float64
		for _, recs := range perConf {
			for _, r := range recs {
				if r.Model != name {
					continue
				}
				if r.CVExpt != nil {
					exptOrDFT = append(exptOrDFT, r.CVExpt)
				} else {
					exptOrDFT = append(exptOrDFT, r.CVDFT)
				}
				dft = append(dft, r.CVDFT)
			}
		}
		out = append(out, ElasticSummary{
			Model:       name,
			Idx:         idx.next(name),
			CVExptOrDFT: aggregate(name, "CV_Expt/DFT", exptOrDFT, len(perConf), threshold),
			CVDFT:       aggregate(name, "CV_DFT", dft, len(perConf), threshold),
		})
	}
	return out
}

// SummarizeEOS aggregates per-configuration EOS rows into one row per model,
// excluding the DFT reference.
func SummarizeEOS(perConf [][]EOSRecord, threshold float64) []EOSSummary {
	models := sortedModels(perConf, func(r EOSRecord) string { return r.Model }, ModelExpt, ModelDFT)
	idx := summaryIndexer()

	out := make([]EOSSummary, 0, len(models))
	for _, name := range models {
		var mae []*float64
		for _, recs := range perConf {
			for _, r := range recs {
				if r.Model == name {
					mae = append(mae, r.MAEDFT)
				}
			}
		}
		out = append(out, EOSSummary{
			Model:  name,
			Idx:    idx.next(name),
			MAEDFT: aggregate(name, "MAE_DFT", mae, len(perConf), threshold),
		})
	}
	return out
}
