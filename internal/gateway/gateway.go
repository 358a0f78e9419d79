// Package gateway talks to the remote listing and lease-application service.
// Flows depend on the Gateway interface only; Client is the GraphQL-over-HTTP
// implementation.
package gateway

import (
	"context"
	"errors"

	"lease-client/internal/models"
)

var ErrListingNotFound = errors.New("LISTING_NOT_FOUND")

// Gateway is the remote data service seen by the flows. Transport failures
// come back as NETWORK_FAILURE errors and service-level rejections as
// SERVER_REJECTED, both from internal/common/errors.
type Gateway interface {
	ListingByID(ctx context.Context, id string) (*models.Listing, error)
	Listings(ctx context.Context) ([]models.Listing, error)
	ListingsByState(ctx context.Context, state string) ([]models.Listing, error)
	ListingsByZipCode(ctx context.Context, zipCode string) ([]models.Listing, error)
	SubmitApplication(ctx context.Context, payload models.ApplicationPayload) (*models.SubmissionResult, error)
	ProcessPayment(ctx context.Context, payload models.PaymentPayload) (*models.PaymentResult, error)
}
