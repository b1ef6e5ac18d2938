package trip

import (
	"time"

	"github.com/RootAnto/wayfinder/core/cart"
	"github.com/RootAnto/wayfinder/core/claims"
	"github.com/RootAnto/wayfinder/core/pricing"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// BuildPayloads maps the cart onto the trips to persist: one payload per
// package, then at most one payload combining the individual items. The
// individual group needs both a flight and a hotel to form a bookable trip;
// a vehicle is optional everywhere. Order matters for partial-failure
// reporting, not correctness.
func BuildPayloads(user claims.Claims, items []cart.Item) []Payload {
	var payloads []Payload

	// A package total is the cart-wide quote, not the package subtotal:
	// tax and the family discount are applied over the whole order.
	quote := pricing.Compute(items)

	for _, it := range items {
		if it.Type != cart.TypePackage || it.Package == nil {
			continue
		}
		payloads = append(payloads, buildPackage(user, it, quote))
	}

	var flight, hotel, vehicle *cart.Item
	for i := range items {
		it := &items[i]
		switch it.Type {
		case cart.TypeFlight:
			if flight == nil {
				flight = it
			}
		case cart.TypeHotel:
			if hotel == nil {
				hotel = it
			}
		case cart.TypeVehicle:
			if vehicle == nil {
				vehicle = it
			}
		}
	}

	if flight != nil && hotel != nil {
		payloads = append(payloads, buildIndividual(user, flight, hotel, vehicle))
	}

	return payloads
}

func buildPackage(user claims.Claims, it cart.Item, quote pricing.Quote) Payload {
	pkg := it.Package
	adults, children := pricing.ParsePassengers(pkg.Flight.Passengers)

	nights := hotelNights(pkg.Hotel.Nights, pkg.Flight.Departure, pkg.Flight.ReturnDate)

	p := Payload{
		UserID:    user.UserID,
		UserEmail: user.Email,
		UserName:  user.Name,

		Origin:        pkg.Flight.Origin,
		Destination:   pkg.Flight.Destination,
		DepartureDate: pkg.Flight.Departure,
		ReturnDate:    pkg.Flight.ReturnDate,

		Adults:   adults,
		Children: children,

		HotelLimit:   defaultSearchLimit,
		VehicleLimit: defaultSearchLimit,

		FlightID:    pkg.Flight.FlightID,
		FlightName:  pkg.Flight.Airline,
		FlightPrice: pkg.Flight.Price,

		HotelID:     pkg.Hotel.HotelID,
		HotelName:   pkg.Hotel.Name,
		HotelPrice:  pkg.Hotel.Price,
		HotelNights: nights,

		TotalPrice: quote.Total,
		Currency:   currencyOr(it.Currency, "EUR"),
		IsPackage:  true,
	}

	if v := pkg.Vehicle; v != nil {
		p.VehicleID = v.VehicleID
		p.VehicleModel = vehicleModel(v)
		p.VehiclePrice = v.Price
		p.VehicleDays = vehicleDays(v.Days, nights)
	}

	return p
}

func buildIndividual(user claims.Claims, flight, hotel, vehicle *cart.Item) Payload {
	f := flight.Flight
	h := hotel.Hotel

	adults, children := pricing.ParsePassengers(f.Passengers)
	nights := hotelNights(h.Nights, f.Departure, f.ReturnDate)

	total := decimal.NewFromFloat(flight.Price).Add(decimal.NewFromFloat(hotel.Price))
	if vehicle != nil {
		total = total.Add(decimal.NewFromFloat(vehicle.Price))
	}

	p := Payload{
		UserID:    user.UserID,
		UserEmail: user.Email,
		UserName:  user.Name,

		Origin:        f.Origin,
		Destination:   f.Destination,
		DepartureDate: f.Departure,
		ReturnDate:    f.ReturnDate,

		Adults:   adults,
		Children: children,

		HotelLimit:   defaultSearchLimit,
		VehicleLimit: defaultSearchLimit,

		FlightID:    idOr(f.FlightID, flight.ID),
		FlightName:  f.Airline,
		FlightPrice: flight.Price,

		HotelID:     idOr(h.HotelID, hotel.ID),
		HotelName:   h.Name,
		HotelPrice:  hotel.Price,
		HotelNights: nights,

		TotalPrice: total.Round(2).InexactFloat64(),
		Currency:   currencyOr(flight.Currency, currencyOr(hotel.Currency, "EUR")),
		IsPackage:  false,
	}

	if vehicle != nil {
		v := vehicle.Vehicle
		p.VehicleID = idOr(v.VehicleID, vehicle.ID)
		p.VehicleModel = vehicleModel(v)
		p.VehiclePrice = vehicle.Price
		p.VehicleDays = vehicleDays(v.Days, nights)
	}

	return p
}

// hotelNights prefers an explicit night count, then the day span between the
// flight dates rounded up, then a single night.
func hotelNights(explicit int, departure, returnDate string) int {
	if explicit >= 1 {
		return explicit
	}

	dep, err := time.Parse(dateLayout, departure)
	if err != nil {
		return 1
	}
	ret, err := time.Parse(dateLayout, returnDate)
	if err != nil {
		return 1
	}

	nights := int((ret.Sub(dep).Hours() + 23) / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

// vehicleDays defaults to the hotel stay when the item carries no count.
func vehicleDays(explicit int, nights int) int {
	if explicit >= 1 {
		return explicit
	}
	return nights
}

func vehicleModel(v *cart.Vehicle) string {
	if v.Model != "" {
		return v.Model
	}
	return v.Brand
}

func idOr(id, fallback string) string {
	if id != "" {
		return id
	}
	return fallback
}

func currencyOr(c, fallback string) string {
	if c != "" {
		return c
	}
	return fallback
}
