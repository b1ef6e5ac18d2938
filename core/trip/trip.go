// Package trip turns cart contents into booking records on the remote trips
// backend: payload assembly, the HTTP client and the checkout sequencing.
package trip

// Payload is the wire record the trips backend persists. Field names follow
// the backend's snake_case schema. One payload describes one logical trip:
// either a package or the combination of the individual items.
type Payload struct {
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`

	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date,omitempty"`

	Adults   int `json:"adults"`
	Children int `json:"children"`

	// Search knobs the backend expects on every create; fixed by the front
	// end and carried along unchanged.
	HotelLimit   int      `json:"hotel_limit"`
	VehicleLimit int      `json:"vehicle_limit"`
	MaxPrice     *float64 `json:"max_price"`

	FlightID    string  `json:"flight_id"`
	FlightName  string  `json:"flight_name"`
	FlightPrice float64 `json:"flight_price"`

	HotelID     string  `json:"hotel_id"`
	HotelName   string  `json:"hotel_name"`
	HotelPrice  float64 `json:"hotel_price"`
	HotelNights int     `json:"hotel_nights"`

	VehicleID    string  `json:"vehicle_id"`
	VehicleModel string  `json:"vehicle_model"`
	VehiclePrice float64 `json:"vehicle_price"`
	VehicleDays  int     `json:"vehicle_days"`

	TotalPrice float64 `json:"total_price"`
	Currency   string  `json:"currency"`
	IsPackage  bool    `json:"is_package"`
}

// Trip is a persisted booking as the backend returns it.
type Trip struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
	Payload
}

// TripUp carries the fields the modify-booking flow may change.
type TripUp struct {
	DepartureDate *string  `json:"departure_date,omitempty"`
	ReturnDate    *string  `json:"return_date,omitempty"`
	Adults        *int     `json:"adults,omitempty" validate:"omitempty,gte=1"`
	Children      *int     `json:"children,omitempty" validate:"omitempty,gte=0"`
	TotalPrice    *float64 `json:"total_price,omitempty" validate:"omitempty,gte=0"`
}

const defaultSearchLimit = 5
