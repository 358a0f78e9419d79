// internal/models/listing.go
package models

// Listing is a rental house as returned by the remote service. Read-only.
type Listing struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Address     Address       `json:"address"`
	Bedrooms    int           `json:"bedrooms"`
	Bathrooms   float64       `json:"bathrooms"`
	SquareFeet  int           `json:"squareFeet"`
	Available   bool          `json:"available"`
	Images      ListingImages `json:"images"`
	Amenities   []string      `json:"amenities"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type ListingImages struct {
	Exterior []string `json:"exterior"`
	Interior []string `json:"interior"`
}

// Clone returns a deep copy so snapshots never share slices with internal state.
func (l Listing) Clone() Listing {
	out := l
	out.Images.Exterior = append([]string(nil), l.Images.Exterior...)
	out.Images.Interior = append([]string(nil), l.Images.Interior...)
	out.Amenities = append([]string(nil), l.Amenities...)
	return out
}

func CloneListings(in []Listing) []Listing {
	if in == nil {
		return nil
	}
	out := make([]Listing, len(in))
	for i, l := range in {
		out[i] = l.Clone()
	}
	return out
}
