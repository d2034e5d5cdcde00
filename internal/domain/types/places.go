package types

// DefaultSearchRadius is used when a places query carries no radius (meters).
const DefaultSearchRadius = 5000

// PlaceKind selects which provider category a lookup targets.
type PlaceKind string

const (
	PlaceHospital PlaceKind = "hospital"
	PlaceDoctor   PlaceKind = "doctor"
)

// PlacesQuery is the body of the find_hospitals / find_doctors endpoints.
type PlacesQuery struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    int     `json:"radius,omitempty"`
}

// Place is a healthcare provider near the query point.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	OpenNow          *bool    `json:"opening_hours,omitempty"`
	PriceLevel       int      `json:"price_level,omitempty"`
	Types            []string `json:"types,omitempty"`
	Photos           []string `json:"photos,omitempty"`
}

// PlacesResult is the lookup response; only one of Hospitals/Doctors is filled.
type PlacesResult struct {
	Hospitals     []Place `json:"hospitals,omitempty"`
	Doctors       []Place `json:"doctors,omitempty"`
	Count         int     `json:"count"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

// Places returns whichever list the response carries.
func (r PlacesResult) Places() []Place {
	if len(r.Hospitals) > 0 {
		return r.Hospitals
	}
	return r.Doctors
}
