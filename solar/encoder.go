package solar

import (
	"fmt"
)

// UnknownPolicy controls how a category missing from the model vocabulary is encoded.
type UnknownPolicy string

const (
	// UnknownIgnore encodes an unknown category as an all-zero block.
	UnknownIgnore UnknownPolicy = "ignore"
	// UnknownError rejects an unknown category.
	UnknownError UnknownPolicy = "error"
)

type fieldVocab struct {
	field  Field
	offset int
	exact  map[string]int
	folded map[string]int
}

// oneHotEncoder turns a Record into the concatenated one-hot vector of its fields.
type oneHotEncoder struct {
	fields []fieldVocab
	width  int
	policy UnknownPolicy
}

func newOneHotEncoder(features map[Field][]string, policy UnknownPolicy) (*oneHotEncoder, error) {
	switch policy {
	case "":
		policy = UnknownIgnore
	case UnknownIgnore, UnknownError:
	default:
		return nil, fmt.Errorf("unsupported handleUnknown %q", policy)
	}
	enc := &oneHotEncoder{policy: policy}
	for _, spec := range Fields {
		cats, ok := features[spec.Field]
		if !ok || len(cats) == 0 {
			return nil, fmt.Errorf("no vocabulary for feature %q", spec.Field)
		}
		v := fieldVocab{
			field:  spec.Field,
			offset: enc.width,
			exact:  make(map[string]int, len(cats)),
			folded: make(map[string]int, len(cats)),
		}
		for i, c := range cats {
			if _, dup := v.exact[c]; dup {
				return nil, fmt.Errorf("duplicate category %q in feature %q", c, spec.Field)
			}
			v.exact[c] = i
			if _, ok := v.folded[NormalizeKey(c)]; !ok {
				v.folded[NormalizeKey(c)] = i
			}
		}
		enc.width += len(cats)
		enc.fields = append(enc.fields, v)
	}
	return enc, nil
}

// Width is the length of an encoded vector.
func (e *oneHotEncoder) Width() int {
	return e.width
}

func (e *oneHotEncoder) Encode(rec Record) ([]float64, error) {
	out := make([]float64, e.width)
	for _, v := range e.fields {
		val := rec.Value(v.field)
		idx, ok := v.exact[val]
		if !ok {
			idx, ok = v.folded[NormalizeKey(val)]
		}
		if !ok {
			if e.policy == UnknownError {
				return nil, fmt.Errorf("unknown %s category %q", v.field, val)
			}
			continue
		}
		out[v.offset+idx] = 1
	}
	return out, nil
}
