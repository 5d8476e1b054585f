package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/aretw0/voyant/pkg/domain"
)

// ErrNoFlights is the canonical failure for routes the provider cannot serve.
var ErrNoFlights = errors.New("No flights found")

// Provider performs the actual travel search for a form.
// Implementations return the structured itinerary plus a human summary.
type Provider interface {
	Search(ctx context.Context, form domain.TravelForm) (*domain.TravelData, string, error)
}

// StaticProvider synthesizes deterministic itineraries from the form, with
// optional fixture overrides for specific routes. It exists so the wizard
// can be exercised end to end without any real search backend.
type StaticProvider struct {
	Fixtures []Fixture
}

var airlines = []string{"Atlas Air Lines", "Meridian Airways", "Pacific Crest", "Aurora Wings"}

var cabinMultiplier = map[domain.CabinClass]float64{
	domain.CabinEconomy:        1.0,
	domain.CabinPremiumEconomy: 1.6,
	domain.CabinBusiness:       2.8,
	domain.CabinFirst:          4.5,
}

// Search resolves a fixture when one matches the route, otherwise derives a
// canned itinerary from the form. Deterministic for a given form.
func (p *StaticProvider) Search(ctx context.Context, form domain.TravelForm) (*domain.TravelData, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	if fx := p.match(form); fx != nil {
		if fx.Error != "" {
			return nil, "", errors.New(fx.Error)
		}
		return &fx.Data, fx.Summary, nil
	}

	route := form.Origin + "/" + form.Destination
	base := 180 + float64(hashOf(route)%420)
	price := round2(base * cabinMultiplier[form.CabinClass] * float64(form.Passengers))
	airline := airlines[hashOf(route)%uint32(len(airlines))]
	hotel := fmt.Sprintf("The %s Grand", titleCase(form.Destination))
	nightly := round2(90 + float64(hashOf(form.Destination)%260))

	data := &domain.TravelData{
		DepartureFlight: &domain.FlightOption{
			Airline:     airline,
			DeepLinkURL: bookingLink(form.Origin, form.Destination, form.DepartureDate),
			Price:       price,
			DepartTime:  form.DepartureDate + "T09:30:00",
			ArrivalTime: form.DepartureDate + "T17:45:00",
		},
		ReturnFlight: &domain.FlightOption{
			Airline:     airline,
			DeepLinkURL: bookingLink(form.Destination, form.Origin, form.ReturnDate),
			Price:       price,
			DepartTime:  form.ReturnDate + "T11:10:00",
			ArrivalTime: form.ReturnDate + "T19:25:00",
		},
		Accommodation: &domain.Accommodation{
			HotelName:     hotel,
			BookingURL:    "https://bookings.example.com/" + strings.ToLower(strings.ReplaceAll(form.Destination, " ", "-")),
			Price:         nightly,
			ExactLocation: "Central " + form.Destination,
			CheckInTime:   form.DepartureDate + "T15:00:00",
			CheckOutTime:  form.ReturnDate + "T11:00:00",
		},
	}

	summary := fmt.Sprintf("Round trip from %s to %s with %s, staying at %s. Total cost $%.2f.",
		form.Origin, form.Destination, airline, hotel, data.TotalCost())

	return data, summary, nil
}

func (p *StaticProvider) match(form domain.TravelForm) *Fixture {
	for i := range p.Fixtures {
		fx := &p.Fixtures[i]
		if strings.EqualFold(fx.Origin, form.Origin) && strings.EqualFold(fx.Destination, form.Destination) {
			return fx
		}
	}
	return nil
}

func bookingLink(from, to, date string) string {
	return fmt.Sprintf("https://flights.example.com/%s-%s?date=%s",
		strings.ToLower(from), strings.ToLower(to), date)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func hashOf(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(s)))
	return h.Sum32()
}

func round2(v float64) float64 {
	return float64(int(v*100)) / 100
}
