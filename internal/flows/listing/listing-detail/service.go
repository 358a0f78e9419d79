// internal/flows/listing/listing-detail/service.go
package listingdetail

import (
	"context"
	"errors"
	"strings"

	apperrors "lease-client/internal/common/errors"
	"lease-client/internal/common/logger"
	"lease-client/internal/models"
)

const FlowName = "listing-detail"

var ErrMissingListingID = errors.New("MISSING_LISTING_ID")

type Source interface {
	ListingByID(ctx context.Context, id string) (*models.Listing, error)
	Listings(ctx context.Context) ([]models.Listing, error)
}

// Service loads listings for browsing and for the detail page.
type Service struct {
	config *Config
	source Source
	logger logger.Logger
	errs   *apperrors.ErrorHandler
}

func NewService(config *Config, source Source, log logger.Logger) *Service {
	if config == nil {
		config = LoadConfig(nil)
	}
	l := log.WithFields(map[string]interface{}{"flow": FlowName})
	return &Service{
		config: config,
		source: source,
		logger: l,
		errs:   apperrors.NewErrorHandler(l),
	}
}

func (s *Service) Browse(ctx context.Context) ([]Card, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	listings, err := s.source.Listings(ctx)
	if err != nil {
		s.errs.Handle("browse", err)
		return nil, err
	}
	cards := make([]Card, 0, len(listings))
	for _, l := range listings {
		cards = append(cards, NewCard(l))
	}
	s.logger.Info("listings loaded", map[string]interface{}{"count": len(cards)})
	return cards, nil
}

// Detail loads one listing. An unknown id yields gateway.ErrListingNotFound
// from the source unchanged.
func (s *Service) Detail(ctx context.Context, id string) (*Detail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMissingListingID
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	listing, err := s.source.ListingByID(ctx, id)
	if err != nil {
		s.errs.Handle("detail", err)
		return nil, err
	}
	d := NewDetail(*listing)
	return &d, nil
}
