/*
Package result normalizes the terminal output of a plan run into displayable
data.

The planning service's final_output field has drifted across backend versions:
it may be a JSON-encoded string, an object wrapping a "value" field, or the
itinerary object itself. Normalize resolves the shape in a fixed order, decodes
the candidate into a strict domain.TravelData, and falls back to a generic
JSON-to-markdown renderer when no shape matches. The canonical shape going
forward is the direct object; the other two are compatibility shims.

All functions in this package are pure.
*/
package result
