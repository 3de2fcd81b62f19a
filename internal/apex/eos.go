package apex

import (
	"fmt"
	"strconv"

	"github.com/jqliu1995/Code-for-APEX/internal/ordered"
)

// EOSPoints is the number of equation-of-state samples shown per model.
const EOSPoints = 16

// EOSColumns is the display order of an EOS table.
var EOSColumns = func() []string {
	cols := []string{"idx"}
	for i := 1; i <= EOSPoints; i++ {
		cols = append(cols, "eos"+strconv.Itoa(i))
	}
	return append(cols, "MAE_DFT")
}()

// EOSRecord is one model's row of a per-configuration EOS table.
type EOSRecord struct {
	Model  string
	Idx    int
	Points [EOSPoints]*float64
	MAEDFT *float64
}

// Metrics lays the record out under EOSColumns.
func (r EOSRecord) Metrics() *ordered.Map {
	m := ordered.NewMap()
	m.Set("idx", int64(r.Idx))
	for i, p := range r.Points {
		m.Set(EOSColumns[i+1], nullable(p))
	}
	m.Set("MAE_DFT", nullable(r.MAEDFT))
	return m
}

// DeriveEOS builds the EOS rows of one configuration. The experimental model
// carries no EOS data and is left out.
func DeriveEOS(ds *Dataset, conf string) []EOSRecord {
	ref, refErr := eosSamples(ds, ModelDFT, conf)
	idx := newIndexer(map[string]int{
		ModelDFT:       0,
		ModelSingleDai: 1,
		ModelMACE:      2,
	}, 3)

	out := make([]EOSRecord, 0, ds.Len())
	for _, name := range ds.Models() {
		if name == ModelExpt {
			continue
		}
		rec := EOSRecord{Model: name, Idx: idx.next(name)}
		d := deriver{model: name, conf: conf}

		samples, err := eosSamples(ds, name, conf)
		if err != nil {
			d.gap("eos result", err)
			out = append(out, rec)
			continue
		}
		for i := range min(len(samples), EOSPoints) {
			if v, ok := number(samples[i]); ok {
				rec.Points[i] = &v
			}
		}
		if len(samples) < EOSPoints {
			d.gap("eos points", fmt.Errorf("%w: %d of %d points", ErrDerivationGap, len(samples), EOSPoints))
		}

		if name != ModelDFT {
			rec.MAEDFT = d.value("MAE_DFT", func() (float64, error) {
				if refErr != nil {
					return 0, refErr
				}
				pred, err := floats(samples)
				if err != nil {
					return 0, err
				}
				act, err := floats(ref)
				if err != nil {
					return 0, fmt.Errorf("reference: %w", err)
				}
				return MAE(pred, act)
			})
		}
		out = append(out, rec)
	}
	return out
}

// eosSamples returns the ordered sample values of a model's EOS result. The
// result is either a mapping of volume to energy, taken in document order, or
// a plain list.
func eosSamples(ds *Dataset, model, conf string) ([]any, error) {
	v, err := ds.lookup(model, conf, blockEOS, fieldResult)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDerivationGap, err)
	}
	switch r := v.(type) {
	case *ordered.Map:
		return r.Values(), nil
	case []any:
		return r, nil
	}
	return nil, fmt.Errorf("%w: eos result is %T", ErrDerivationGap, v)
}

func floats(values []any) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		f, ok := number(v)
		if !ok {
			return nil, fmt.Errorf("%w: point %d is %T", ErrDerivationGap, i+1, v)
		}
		out[i] = f
	}
	return out, nil
}
