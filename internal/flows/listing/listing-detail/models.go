// internal/flows/listing/listing-detail/models.go
package listingdetail

import (
	"fmt"
	"strconv"
	"strings"

	"lease-client/internal/models"
)

const (
	DetailErrorMessage = "Error loading house details."
	BrowseErrorMessage = "Error loading houses. Please try again."
)

// Card is the one-line summary used in listing lists.
type Card struct {
	ID       string
	Title    string
	Price    string
	Location string
	Facts    string
}

// Detail is the full presentation of one listing.
type Detail struct {
	Listing   models.Listing
	Price     string
	Address   string
	Facts     []string
	Images    []string
	Available bool
}

func FormatPrice(price float64) string {
	return "$" + strconv.FormatFloat(price, 'f', -1, 64) + "/month"
}

func FormatAddress(a models.Address) string {
	return fmt.Sprintf("%s, %s, %s %s", a.Street, a.City, a.State, a.ZipCode)
}

func NewCard(l models.Listing) Card {
	return Card{
		ID:       l.ID,
		Title:    l.Title,
		Price:    FormatPrice(l.Price),
		Location: l.Address.City + ", " + l.Address.State,
		Facts: fmt.Sprintf("%d bed  %s bath  %d sqft",
			l.Bedrooms, strconv.FormatFloat(l.Bathrooms, 'f', -1, 64), l.SquareFeet),
	}
}

func NewDetail(l models.Listing) Detail {
	l = l.Clone()
	images := make([]string, 0, len(l.Images.Exterior)+len(l.Images.Interior))
	images = append(images, l.Images.Exterior...)
	images = append(images, l.Images.Interior...)
	return Detail{
		Listing: l,
		Price:   FormatPrice(l.Price),
		Address: FormatAddress(l.Address),
		Facts: []string{
			fmt.Sprintf("%d Bedrooms", l.Bedrooms),
			strconv.FormatFloat(l.Bathrooms, 'f', -1, 64) + " Bathrooms",
			fmt.Sprintf("%d sqft", l.SquareFeet),
		},
		Images:    images,
		Available: l.Available,
	}
}

// AmenityList joins amenities for single-line display.
func (d Detail) AmenityList() string {
	return strings.Join(d.Listing.Amenities, ", ")
}
