package result

import (
	"fmt"
	"strings"
)

// Summary resolves the narrative text for a terminal plan run. Resolution
// order, independent of the data resolution in Normalize:
//
//  1. An explicit "summary" field, on final_output itself or on the resolved
//     candidate payload.
//  2. The verbatim string when final_output was a non-JSON string.
//  3. A markdown summary synthesized from the decoded itinerary.
//  4. The generic JSON-to-markdown rendering of whatever payload is available.
func Summary(finalOutput any, n Normalized) string {
	if s := explicitSummary(finalOutput); s != "" {
		return s
	}
	if s := explicitSummary(n.candidate); s != "" {
		return s
	}
	if n.Raw != "" {
		return n.Raw
	}
	if !n.Data.Empty() {
		return travelMarkdown(n)
	}
	if n.candidate != nil {
		return FromAny(n.candidate).Markdown()
	}
	return FromAny(finalOutput).Markdown()
}

func explicitSummary(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m["summary"].(string)
	return s
}

// travelMarkdown concatenates the present itinerary sections into markdown.
func travelMarkdown(n Normalized) string {
	var sections []string
	data := n.Data

	if f := data.DepartureFlight; f != nil {
		var b strings.Builder
		b.WriteString("### Departure Flight\n")
		if f.Airline != "" {
			fmt.Fprintf(&b, "- **Airline:** %s\n", f.Airline)
		}
		if f.DepartTime != "" {
			fmt.Fprintf(&b, "- **Departs:** %s\n", f.DepartTime)
		}
		if f.ArrivalTime != "" {
			fmt.Fprintf(&b, "- **Arrives:** %s\n", f.ArrivalTime)
		}
		if f.Price > 0 {
			fmt.Fprintf(&b, "- **Price:** %s\n", formatPrice(f.Price))
		}
		if f.DeepLinkURL != "" {
			fmt.Fprintf(&b, "- [Book this flight](%s)\n", f.DeepLinkURL)
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if f := data.ReturnFlight; f != nil {
		var b strings.Builder
		b.WriteString("### Return Flight\n")
		if f.Airline != "" {
			fmt.Fprintf(&b, "- **Airline:** %s\n", f.Airline)
		}
		if f.DepartTime != "" {
			fmt.Fprintf(&b, "- **Departs:** %s\n", f.DepartTime)
		}
		if f.ArrivalTime != "" {
			fmt.Fprintf(&b, "- **Arrives:** %s\n", f.ArrivalTime)
		}
		if f.Price > 0 {
			fmt.Fprintf(&b, "- **Price:** %s\n", formatPrice(f.Price))
		}
		if f.DeepLinkURL != "" {
			fmt.Fprintf(&b, "- [Book this flight](%s)\n", f.DeepLinkURL)
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if a := data.Accommodation; a != nil {
		var b strings.Builder
		b.WriteString("### Accommodation\n")
		if a.HotelName != "" {
			fmt.Fprintf(&b, "- **Hotel:** %s\n", a.HotelName)
		}
		if a.ExactLocation != "" {
			fmt.Fprintf(&b, "- **Location:** %s\n", a.ExactLocation)
		}
		if a.CheckInTime != "" {
			fmt.Fprintf(&b, "- **Check-in:** %s\n", a.CheckInTime)
		}
		if a.CheckOutTime != "" {
			fmt.Fprintf(&b, "- **Check-out:** %s\n", a.CheckOutTime)
		}
		if a.Price > 0 {
			fmt.Fprintf(&b, "- **Price:** %s\n", formatPrice(a.Price))
		}
		if a.BookingURL != "" {
			fmt.Fprintf(&b, "- [Book this stay](%s)\n", a.BookingURL)
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if total := data.TotalCost(); total > 0 {
		sections = append(sections, fmt.Sprintf("**Total trip cost:** %s", formatPrice(total)))
	}

	return strings.Join(sections, "\n\n")
}

func formatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}
