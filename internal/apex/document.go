package apex

import (
	"fmt"

	"github.com/jqliu1995/Code-for-APEX/internal/criteria"
	"github.com/jqliu1995/Code-for-APEX/internal/ordered"
	"github.com/jqliu1995/Code-for-APEX/internal/report"
)

// Thresholds are the pass limits for CV and MAE values.
type Thresholds struct {
	CV  float64
	MAE float64
}

// DefaultThresholds are the limits used when none are configured.
var DefaultThresholds = Thresholds{CV: 0.2, MAE: 0.1}

const (
	elasticText = "Explanation of each parameter in Tables for elastic results:\n" +
		"RE_BV_Expt -> Relative error of BV with experimental data: Abs(BV - BV_Expt) / Abs(BV_Expt)\n" +
		"RE_BV_DFT -> Relative error of BV with DFT data: Abs(BV - BV_DFT) / Abs(BV_DFT)\n" +
		"RE_GV_Expt -> Relative error of GV with experimental data: Abs(GV - GV_Expt) / Abs(GV_Expt)\n" +
		"RE_GV_DFT -> Relative error of GV with DFT data: Abs(GV - GV_DFT) / Abs(GV_DFT)\n" +
		"CV_Expt -> Coefficient of Variation with respect to experimental data: Sqrt(Sum((cij - cij_Expt)^2) / Len(cij_Expt)) / Mean(cij_Expt)\n" +
		"CV_DFT -> Coefficient of Variation with respect to DFT data: Sqrt(Sum((cij - cij_DFT)^2) / Len(cij_DFT)) / Mean(cij_DFT)\n" +
		"Note: Values less(greater) than %[1]g are marked in green(red)\n" +
		"\n" +
		"BV = [C11 + C22 + C33 + 2(C12 + C13 + C23)] / 9\n" +
		"GV = [C11 + C22 + C33 + 3(C44 + C55 + C66) - (C12 + C13 + C23)] / 15\n"

	eosText = "Explanation of each parameter in Tables for eos results:\n" +
		"MAE -> Mean absolute error of eos with DFT data: Mean(Sum(Abs(eos - eos_DFT)))\n" +
		"Note: Values less(greater) than %[1]g are marked in green(red)\n"

	elasticSummaryTitle = "Evaluation of models by CV values of cij (CV < %g) (Note: substituting CV_DFT for CV_Expt, if CV_Expt is None)"
	eosSummaryTitle     = "Evaluation of models by MAE values of eos (MAE < %g)"
)

// elasticCriteria lists the graded elastic columns in legend order.
var elasticCriteria = []string{"RE_BV_Expt", "RE_GV_Expt", "RE_BV_DFT", "RE_GV_DFT", "CV_Expt", "CV_DFT"}

// Derived holds the per-configuration rows and their aggregation.
type Derived struct {
	Configurations []string
	Elastic        [][]ElasticRecord
	EOS            [][]EOSRecord
	ElasticSummary []ElasticSummary
	EOSSummary     []EOSSummary
}

// Derive computes every table of the report from ds.
func Derive(ds *Dataset, th Thresholds) Derived {
	d := Derived{Configurations: ds.Configurations()}
	for _, conf := range d.Configurations {
		d.Elastic = append(d.Elastic, DeriveElastic(ds, conf))
		d.EOS = append(d.EOS, DeriveEOS(ds, conf))
	}
	d.ElasticSummary = SummarizeElastic(d.Elastic, th.CV)
	d.EOSSummary = SummarizeEOS(d.EOS, th.MAE)
	return d
}

// BuildDocument lays out the APEX report: introduction, summary tables,
// then the elastic and EOS sections with one table per configuration.
func BuildDocument(ds *Dataset, th Thresholds) report.Document {
	d := Derive(ds, th)
	var doc report.Document

	doc.Add(
		report.Heading(report.Head1, "1. Introduction"),
		report.Heading(report.Head1, "2. Summary"),
		metricsItem(fmt.Sprintf(elasticSummaryTitle, th.CV), content(d.ElasticSummary), ElasticSummaryColumns, nil),
		metricsItem(fmt.Sprintf(eosSummaryTitle, th.MAE), content(d.EOSSummary), EOSSummaryColumns, nil),
		report.Heading(report.Head1, "3. Elastic results"),
		report.Paragraphs(fmt.Sprintf(elasticText, th.CV)),
	)
	elasticRules := absBelow(elasticCriteria, th.CV)
	for i, conf := range d.Configurations {
		doc.Add(metricsItem(conf, content(d.Elastic[i]), ElasticColumns, elasticRules))
	}

	doc.Add(
		report.Heading(report.Head1, "4. Eos results"),
		report.Paragraphs(fmt.Sprintf(eosText, th.MAE)),
	)
	eosRules := absBelow([]string{"MAE_DFT"}, th.MAE)
	for i, conf := range d.Configurations {
		doc.Add(metricsItem(conf, content(d.EOS[i]), EOSColumns, eosRules))
	}
	return doc
}

// row is a derived record listed under its model name.
type row interface {
	Metrics() *ordered.Map
	model() string
}

func (r ElasticRecord) model() string  { return r.Model }
func (r EOSRecord) model() string      { return r.Model }
func (s ElasticSummary) model() string { return s.Model }
func (s EOSSummary) model() string     { return s.Model }

func content[R row](recs []R) *ordered.Map {
	m := ordered.NewMap()
	for _, r := range recs {
		m.Set(r.model(), r.Metrics())
	}
	return m
}

func metricsItem(title string, values *ordered.Map, columns []string, rules criteria.Set) report.ContentItem {
	return report.ContentItem{
		Type:     report.Metrics,
		Title:    title,
		Content:  values,
		Criteria: rules,
		Sort:     []string{"idx"},
		Metrics:  columns,
	}
}

func absBelow(columns []string, threshold float64) criteria.Set {
	set := make(criteria.Set, len(columns))
	for i, c := range columns {
		set[i] = criteria.Rule{Column: c, Criterion: criteria.AbsBelow(threshold)}
	}
	return set
}
