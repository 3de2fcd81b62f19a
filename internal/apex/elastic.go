package apex

import (
	"fmt"

	"github.com/jqliu1995/Code-for-APEX/internal/logging"
	"github.com/jqliu1995/Code-for-APEX/internal/ordered"
	"go.uber.org/zap"
)

// ElasticColumns is the display order of an elastic table.
var ElasticColumns = []string{
	"idx", "c11", "c12", "c13", "c33", "c44", "c66", "BV", "GV",
	"RE_BV_Expt", "RE_BV_DFT", "RE_GV_Expt", "RE_GV_DFT", "CV_Expt", "CV_DFT",
}

// ElasticRecord is one model's row of a per-configuration elastic table.
// Nil fields are unknown.
type ElasticRecord struct {
	Model string
	Idx   int

	C11, C12, C13, C33, C44, C66 *float64
	BV, GV                       *float64

	REBVExpt, REBVDFT *float64
	REGVExpt, REGVDFT *float64
	CVExpt, CVDFT     *float64
}

// Metrics lays the record out under ElasticColumns.
func (r ElasticRecord) Metrics() *ordered.Map {
	m := ordered.NewMap()
	m.Set("idx", int64(r.Idx))
	for i, v := range []*float64{
		r.C11, r.C12, r.C13, r.C33, r.C44, r.C66, r.BV, r.GV,
		r.REBVExpt, r.REBVDFT, r.REGVExpt, r.REGVDFT, r.CVExpt, r.CVDFT,
	} {
		m.Set(ElasticColumns[i+1], nullable(v))
	}
	return m
}

// elasticRefs caches the reference inputs shared by every model of one
// configuration. Each field keeps its lookup error for diagnostics.
type elasticRefs struct {
	exptBV, exptGV, dftBV, dftGV             float64
	exptBVErr, exptGVErr, dftBVErr, dftGVErr error
	exptTensor, dftTensor                    Tensor
	exptTensorErr, dftTensorErr              error
	pointGroup                               string
	pointGroupErr                            error
}

func loadElasticRefs(ds *Dataset, conf string) elasticRefs {
	var r elasticRefs
	r.exptBV, r.exptBVErr = lookupNumber(ds, ModelExpt, conf, blockElastic, fieldResult, "BV")
	r.exptGV, r.exptGVErr = lookupNumber(ds, ModelExpt, conf, blockElastic, fieldResult, "GV")
	r.dftBV, r.dftBVErr = lookupNumber(ds, ModelDFT, conf, blockElastic, fieldResult, "BV")
	r.dftGV, r.dftGVErr = lookupNumber(ds, ModelDFT, conf, blockElastic, fieldResult, "GV")
	r.exptTensor, r.exptTensorErr = lookupTensor(ds, ModelExpt, conf)
	r.dftTensor, r.dftTensorErr = lookupTensor(ds, ModelDFT, conf)

	pg, err := ds.lookup(ModelDFT, conf, blockRelaxation, "structure_info", "point_group_symbol")
	if err != nil {
		r.pointGroupErr = fmt.Errorf("%w: %v", ErrDerivationGap, err)
	} else if s, ok := pg.(string); ok {
		r.pointGroup = s
	} else {
		r.pointGroup = fmt.Sprint(pg)
	}
	return r
}

// DeriveElastic builds the elastic table rows of one configuration, one per
// model in dataset order. Missing inputs null out only the affected values.
func DeriveElastic(ds *Dataset, conf string) []ElasticRecord {
	refs := loadElasticRefs(ds, conf)
	idx := newIndexer(map[string]int{
		ModelExpt:      0,
		ModelDFT:       1,
		ModelSingleDai: 2,
		ModelMACE:      3,
	}, 4)

	out := make([]ElasticRecord, 0, ds.Len())
	for _, name := range ds.Models() {
		rec := ElasticRecord{Model: name, Idx: idx.next(name)}
		d := deriver{model: name, conf: conf}

		v, err := ds.lookup(name, conf, blockElastic, fieldResult)
		if err != nil {
			d.gap("elastic result", err)
			out = append(out, rec)
			continue
		}
		result, _ := v.(*ordered.Map)

		tensorVal, _ := result.Get("elastic_tensor")
		tensor, tensorErr := ParseTensor(tensorVal)
		if tensorErr == nil {
			rec.C11, rec.C12, rec.C13 = tensor.At(0, 0), tensor.At(0, 1), tensor.At(0, 2)
			rec.C33, rec.C44, rec.C66 = tensor.At(2, 2), tensor.At(3, 3), tensor.At(5, 5)
		} else {
			d.gap("elastic_tensor", tensorErr)
		}
		bv, bvErr := lookupNumber(ds, name, conf, blockElastic, fieldResult, "BV")
		if bvErr == nil {
			rec.BV = &bv
		} else {
			d.gap("BV", bvErr)
		}
		gv, gvErr := lookupNumber(ds, name, conf, blockElastic, fieldResult, "GV")
		if gvErr == nil {
			rec.GV = &gv
		} else {
			d.gap("GV", gvErr)
		}

		relErr := func(own float64, ownErr error, ref float64, refErr error) (float64, error) {
			if ownErr != nil {
				return 0, ownErr
			}
			if refErr != nil {
				return 0, refErr
			}
			return RelativeError(own, ref)
		}
		cv := func(ref Tensor, refErr error) (float64, error) {
			if tensorErr != nil {
				return 0, tensorErr
			}
			if refErr != nil {
				return 0, refErr
			}
			if refs.pointGroupErr != nil {
				return 0, refs.pointGroupErr
			}
			return CijCV(tensor, ref, refs.pointGroup)
		}

		if name != ModelExpt {
			rec.REBVExpt = d.value("RE_BV_Expt", func() (float64, error) {
				return relErr(bv, bvErr, refs.exptBV, refs.exptBVErr)
			})
			rec.REGVExpt = d.value("RE_GV_Expt", func() (float64, error) {
				return relErr(gv, gvErr, refs.exptGV, refs.exptGVErr)
			})
			rec.CVExpt = d.value("CV_Expt", func() (float64, error) {
				return cv(refs.exptTensor, refs.exptTensorErr)
			})
		}
		if name != ModelExpt && name != ModelDFT {
			rec.REBVDFT = d.value("RE_BV_DFT", func() (float64, error) {
				return relErr(bv, bvErr, refs.dftBV, refs.dftBVErr)
			})
			rec.REGVDFT = d.value("RE_GV_DFT", func() (float64, error) {
				return relErr(gv, gvErr, refs.dftGV, refs.dftGVErr)
			})
			rec.CVDFT = d.value("CV_DFT", func() (float64, error) {
				return cv(refs.dftTensor, refs.dftTensorErr)
			})
		}
		out = append(out, rec)
	}
	return out
}

func lookupNumber(ds *Dataset, model string, path ...string) (float64, error) {
	v, err := ds.lookup(model, path...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDerivationGap, err)
	}
	f, ok := number(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s/%v is %T, not a number", ErrDerivationGap, model, path, v)
	}
	return f, nil
}

func lookupTensor(ds *Dataset, model, conf string) (Tensor, error) {
	v, err := ds.lookup(model, conf, blockElastic, fieldResult, "elastic_tensor")
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %v", ErrDerivationGap, err)
	}
	return ParseTensor(v)
}

// deriver logs derivation gaps for one model in one configuration.
type deriver struct {
	model, conf string
}

func (d deriver) gap(label string, err error) {
	logging.LogDiagnostic(logging.KindDerivationGap,
		fmt.Sprintf("%s unavailable: %v", label, err),
		zap.String("model", d.model), zap.String("configuration", d.conf))
}

// value runs fn and returns its result, or nil after logging the gap.
func (d deriver) value(label string, fn func() (float64, error)) *float64 {
	v, err := fn()
	if err != nil {
		d.gap(label, err)
		return nil
	}
	return &v
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// indexer hands out display indices: fixed ones for well-known models, then
// increasing integers from next in first-encounter order.
type indexer struct {
	fixed    map[string]int
	assigned map[string]int
	nextIdx  int
}

func newIndexer(fixed map[string]int, next int) *indexer {
	return &indexer{fixed: fixed, assigned: make(map[string]int), nextIdx: next}
}

func (ix *indexer) next(name string) int {
	if i, ok := ix.fixed[name]; ok {
		return i
	}
	if i, ok := ix.assigned[name]; ok {
		return i
	}
	i := ix.nextIdx
	ix.assigned[name] = i
	ix.nextIdx++
	return i
}
