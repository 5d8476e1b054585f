package domain

import "fmt"

// CabinClass enumerates the cabin classes the planning service understands.
type CabinClass string

const (
	CabinEconomy        CabinClass = "economy"
	CabinPremiumEconomy CabinClass = "premiumeconomy"
	CabinBusiness       CabinClass = "business"
	CabinFirst          CabinClass = "first"
)

// CabinClasses lists the valid classes in display order.
var CabinClasses = []CabinClass{CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst}

// Valid reports whether c is one of the known cabin classes.
func (c CabinClass) Valid() bool {
	for _, known := range CabinClasses {
		if c == known {
			return true
		}
	}
	return false
}

// Passenger count bounds accepted by the planning service.
const (
	MinPassengers = 1
	MaxPassengers = 8
)

// TravelForm is the search input assembled field-by-field across the wizard
// steps and read once at submission time.
//
// Dates are free text on purpose: the planning service interprets them
// (including relative phrasings), so the client does not parse or validate
// them beyond presence.
type TravelForm struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureDate string     `json:"departure_date"`
	ReturnDate    string     `json:"return_date"`
	CabinClass    CabinClass `json:"cabin_class"`
	Passengers    int        `json:"passengers"`
}

// DefaultForm returns the canonical empty form: economy, one passenger,
// all strings empty.
func DefaultForm() TravelForm {
	return TravelForm{
		CabinClass: CabinEconomy,
		Passengers: 1,
	}
}

// HasRoute reports whether both origin and destination are set.
func (f TravelForm) HasRoute() bool {
	return f.Origin != "" && f.Destination != ""
}

// HasDates reports whether both travel dates are set.
func (f TravelForm) HasDates() bool {
	return f.DepartureDate != "" && f.ReturnDate != ""
}

// Validate checks the form is submittable.
func (f TravelForm) Validate() error {
	if !f.HasRoute() {
		return fmt.Errorf("%w: origin and destination are required", ErrIncompleteForm)
	}
	if !f.HasDates() {
		return fmt.Errorf("%w: departure and return dates are required", ErrIncompleteForm)
	}
	if !f.CabinClass.Valid() {
		return fmt.Errorf("%w: unknown cabin class %q", ErrIncompleteForm, f.CabinClass)
	}
	if f.Passengers < MinPassengers || f.Passengers > MaxPassengers {
		return fmt.Errorf("%w: passengers must be between %d and %d", ErrIncompleteForm, MinPassengers, MaxPassengers)
	}
	return nil
}
