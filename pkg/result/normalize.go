package result

import (
	"encoding/json"

	"github.com/aretw0/voyant/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Normalized is the outcome of shape resolution over a terminal final_output.
type Normalized struct {
	// Data is the decoded itinerary, or nil when no candidate decoded.
	Data *domain.TravelData

	// Raw holds the verbatim text when final_output (or its wrapped value)
	// was a string that did not parse as JSON. It is displayed as-is.
	Raw string

	// candidate keeps the resolved payload for summary fallback rendering.
	candidate any
}

// Normalize resolves the final_output shape. First match wins:
//
//  1. A string is tried as JSON; the parsed value becomes the candidate. A
//     parse failure means the string is an already-rendered summary.
//  2. An object carrying a "value" key unwraps it, applying the same
//     string-vs-object treatment to the wrapped value.
//  3. Anything else is the candidate itself.
//
// The candidate is then strictly decoded into domain.TravelData; a decode
// that yields no section at all leaves Data nil so callers fall back to the
// generic renderer. Normalize never returns an error: unparseable input
// degrades, it does not fail.
func Normalize(finalOutput any) Normalized {
	switch v := finalOutput.(type) {
	case string:
		parsed, ok := tryParse(v)
		if !ok {
			return Normalized{Raw: v}
		}
		return Normalized{Data: decodeTravelData(parsed), candidate: parsed}

	case map[string]any:
		wrapped, has := v["value"]
		if !has {
			return Normalized{Data: decodeTravelData(v), candidate: v}
		}
		if s, isStr := wrapped.(string); isStr {
			parsed, ok := tryParse(s)
			if !ok {
				return Normalized{Raw: s}
			}
			return Normalized{Data: decodeTravelData(parsed), candidate: parsed}
		}
		return Normalized{Data: decodeTravelData(wrapped), candidate: wrapped}

	default:
		return Normalized{Data: decodeTravelData(finalOutput), candidate: finalOutput}
	}
}

func tryParse(s string) (any, bool) {
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

// decodeTravelData attempts a strict decode of the candidate into the
// itinerary schema. Unknown keys are tolerated (historical payloads carry
// extras like "summary"); a result with no section present counts as a miss.
func decodeTravelData(candidate any) *domain.TravelData {
	m, ok := candidate.(map[string]any)
	if !ok {
		return nil
	}

	var data domain.TravelData
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &data,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil
	}
	if err := decoder.Decode(m); err != nil {
		return nil
	}
	if data.Empty() {
		return nil
	}
	return &data
}
