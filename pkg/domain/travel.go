package domain

// FlightOption is one bookable flight leg. Field names (and their JSON keys)
// mirror the planning service's structured output schema, which capitalizes
// some keys and camelCases others; keeping them verbatim is what lets the
// normalizer decode historical payloads.
type FlightOption struct {
	Airline     string  `json:"Airline,omitempty" mapstructure:"Airline" yaml:"Airline"`
	DeepLinkURL string  `json:"deepLinkUrl,omitempty" mapstructure:"deepLinkUrl" yaml:"deepLinkUrl"`
	Price       float64 `json:"price,omitempty" mapstructure:"price" yaml:"price"`
	DepartTime  string  `json:"departTime,omitempty" mapstructure:"departTime" yaml:"departTime"`
	ArrivalTime string  `json:"arrivalTime,omitempty" mapstructure:"arrivalTime" yaml:"arrivalTime"`
}

// Accommodation is one bookable hotel stay.
type Accommodation struct {
	HotelName     string  `json:"HotelName,omitempty" mapstructure:"HotelName" yaml:"HotelName"`
	BookingURL    string  `json:"bookingUrl,omitempty" mapstructure:"bookingUrl" yaml:"bookingUrl"`
	Price         float64 `json:"price,omitempty" mapstructure:"price" yaml:"price"`
	ExactLocation string  `json:"exact_location,omitempty" mapstructure:"exact_location" yaml:"exact_location"`
	CheckInTime   string  `json:"checkInTime,omitempty" mapstructure:"checkInTime" yaml:"checkInTime"`
	CheckOutTime  string  `json:"checkOutTime,omitempty" mapstructure:"checkOutTime" yaml:"checkOutTime"`
}

// TravelData is the itinerary extracted from a completed plan run. Every
// section is best-effort: any of them may be absent and rendering must
// degrade gracefully.
type TravelData struct {
	DepartureFlight *FlightOption  `json:"departureFlight,omitempty" mapstructure:"departureFlight" yaml:"departureFlight"`
	ReturnFlight    *FlightOption  `json:"returnFlight,omitempty" mapstructure:"returnFlight" yaml:"returnFlight"`
	Accommodation   *Accommodation `json:"accommodation,omitempty" mapstructure:"accommodation" yaml:"accommodation"`
}

// Empty reports whether no section was extracted at all.
func (t *TravelData) Empty() bool {
	return t == nil || (t.DepartureFlight == nil && t.ReturnFlight == nil && t.Accommodation == nil)
}

// TotalCost sums the prices of the present sections, treating any absent
// price as zero. Display-only; no currency handling.
func (t *TravelData) TotalCost() float64 {
	if t == nil {
		return 0
	}
	var total float64
	if t.DepartureFlight != nil {
		total += t.DepartureFlight.Price
	}
	if t.ReturnFlight != nil {
		total += t.ReturnFlight.Price
	}
	if t.Accommodation != nil {
		total += t.Accommodation.Price
	}
	return total
}
