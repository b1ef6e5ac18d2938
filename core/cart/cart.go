package cart

// Type discriminates cart items. Exactly one of the detail structs on Item
// is set and it matches the type tag.
type Type string

const (
	TypeFlight  Type = "flight"
	TypeHotel   Type = "hotel"
	TypeVehicle Type = "vehicle"
	TypePackage Type = "package"
)

type Item struct {
	ID       string   `json:"id"`
	Type     Type     `json:"type"`
	Price    float64  `json:"price"`
	Currency string   `json:"currency"`
	Flight   *Flight  `json:"flight,omitempty"`
	Hotel    *Hotel   `json:"hotel,omitempty"`
	Vehicle  *Vehicle `json:"vehicle,omitempty"`
	Package  *Package `json:"package,omitempty"`
}

// Flight dates travel as YYYY-MM-DD strings, the format the search backend
// hands out. Passengers is the free-text descriptor picked on search, e.g.
// "2 Adultos y 1 Niños, Turista".
type Flight struct {
	FlightID    string  `json:"flightId,omitempty"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Departure   string  `json:"departure"`
	ReturnDate  string  `json:"returnDate,omitempty"`
	Airline     string  `json:"airline,omitempty"`
	Passengers  string  `json:"passengers,omitempty"`
	Price       float64 `json:"price,omitempty"`
}

type Hotel struct {
	HotelID     string  `json:"hotelId,omitempty"`
	Name        string  `json:"name"`
	Nights      int     `json:"nights,omitempty"`
	PricePerDay float64 `json:"pricePerDay,omitempty"`
	Price       float64 `json:"price,omitempty"`
}

type Vehicle struct {
	VehicleID   string  `json:"vehicleId,omitempty"`
	Model       string  `json:"model"`
	Brand       string  `json:"brand,omitempty"`
	VehicleType string  `json:"vehicleType,omitempty"`
	Days        int     `json:"days,omitempty"`
	PricePerDay float64 `json:"pricePerDay,omitempty"`
	Price       float64 `json:"price,omitempty"`
}

// Package bundles one flight, one hotel and optionally one vehicle into a
// single priced unit. The component Price fields carry the sub-prices; the
// owning Item.Price is their sum, fixed at creation time.
type Package struct {
	Flight  Flight   `json:"flight"`
	Hotel   Hotel    `json:"hotel"`
	Vehicle *Vehicle `json:"vehicle,omitempty"`
}

type ItemNew struct {
	Type     Type     `json:"type" validate:"required,oneof=flight hotel vehicle package"`
	Price    float64  `json:"price" validate:"gte=0"`
	Currency string   `json:"currency" validate:"required,len=3"`
	Flight   *Flight  `json:"flight,omitempty"`
	Hotel    *Hotel   `json:"hotel,omitempty"`
	Vehicle  *Vehicle `json:"vehicle,omitempty"`
	Package  *Package `json:"package,omitempty"`
}
