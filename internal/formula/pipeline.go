package formula

import (
	"strings"

	"github.com/Stanislas-Motte/COT-Tool/internal/dataset"
)

// Resolve runs the full formula pipeline against a dataset: translate short
// labels to column names, validate, then evaluate row-wise.
//
// An empty or blank formula is a no-op and returns (nil, "", nil). Otherwise
// exactly one of series or err is set. The translated text is returned for
// display/debugging either way.
func Resolve(raw string, bindings []LabelBinding, ds *dataset.Dataset) (series []float64, translated string, err *Error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, "", nil
	}

	translated = Translate(raw, bindings)

	if verr := Validate(translated, ds.HasColumn); verr != nil {
		return nil, translated, verr
	}

	series, eerr := EvaluateSeries(translated, ds)
	if eerr != nil {
		return nil, translated, eerr
	}
	return series, translated, nil
}
