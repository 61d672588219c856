package spots

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-tourist-spots/app/observability/metrics"
	"github.com/FACorreiaa/go-tourist-spots/config"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/geocode"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service aggregates tourist spots around a center point.
type Service interface {
	FindSpots(ctx context.Context, center types.GeoPoint, radiusKm float64) ([]types.TouristSpot, error)
}

// overpassQuerier is the interface satisfied by OverpassClient.
type overpassQuerier interface {
	Query(ctx context.Context, ql string, timeout time.Duration) ([]OverpassElement, error)
}

type ServiceImpl struct {
	overpass overpassQuerier
	geocoder geocode.Service
	cfg      config.SpotsConfig
	logger   *slog.Logger
}

func NewService(overpass overpassQuerier, geocoder geocode.Service, cfg config.SpotsConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		overpass: overpass,
		geocoder: geocoder,
		cfg:      cfg,
		logger:   logger,
	}
}

// queryTimeout scales the per-query timeout with the search radius: 5s per
// full 10km tier on top of the base, capped at the configured maximum.
func (s *ServiceImpl) queryTimeout(radiusKm float64) time.Duration {
	seconds := s.cfg.BaseTimeoutSec + (int(radiusKm)/10)*5
	if seconds > s.cfg.MaxTimeoutSec {
		seconds = s.cfg.MaxTimeoutSec
	}
	return time.Duration(seconds) * time.Second
}

// FindSpots issues the primary overlay query (and, below the fallback
// threshold, a broader secondary one), normalizes the features and
// deduplicates them by upstream id. Primary failure is fatal; secondary and
// reverse-geocode failures degrade to partial results.
func (s *ServiceImpl) FindSpots(ctx context.Context, center types.GeoPoint, radiusKm float64) ([]types.TouristSpot, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	m := metrics.Get()
	defer func() {
		m.SpotSearchDuration.Record(ctx, time.Since(start).Seconds())
	}()
	m.SpotSearchesTotal.Add(ctx, 1)

	radiusMeters := int(radiusKm * 1000)
	timeout := s.queryTimeout(radiusKm)

	// The country lookup only needs the center point, so it runs alongside
	// the primary query. Its failure never aborts the search.
	var country string
	var primary []OverpassElement

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.geocoder.ReverseCountry(gctx, center)
		if err != nil {
			s.logger.WarnContext(gctx, "Reverse geocode failed, leaving country empty",
				slog.Any("error", err))
			return nil
		}
		country = c
		return nil
	})
	g.Go(func() error {
		elements, err := s.overpass.Query(gctx, primaryQuery(center, radiusMeters, timeout), timeout)
		if err != nil {
			return fmt.Errorf("primary overlay query: %w", err)
		}
		primary = elements
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	spots := make([]types.TouristSpot, 0, len(primary))
	seen := make(map[string]struct{}, len(primary))
	for _, el := range primary {
		spot, ok := normalizeElement(el, center, country, primaryCategory)
		if !ok {
			continue
		}
		if _, dup := seen[spot.ID]; dup {
			continue
		}
		seen[spot.ID] = struct{}{}
		spots = append(spots, spot)
	}

	if len(spots) >= s.cfg.FallbackThreshold {
		return spots, nil
	}

	s.logger.InfoContext(ctx, "Few primary results, running secondary overlay query",
		slog.Int("primary_count", len(spots)))
	m.SecondaryQueriesTotal.Add(ctx, 1)

	secondary, err := s.overpass.Query(ctx, secondaryQuery(center, radiusMeters, timeout), timeout)
	if err != nil {
		// Partial-success semantics: keep whatever the primary pass found.
		s.logger.WarnContext(ctx, "Secondary overlay query failed, returning primary results",
			slog.Any("error", err))
		return spots, nil
	}

	for _, el := range secondary {
		spot, ok := normalizeElement(el, center, country, secondaryCategory)
		if !ok {
			continue
		}
		if _, dup := seen[spot.ID]; dup {
			continue
		}
		seen[spot.ID] = struct{}{}
		spots = append(spots, spot)
	}

	return spots, nil
}

// normalizeElement converts one overlay feature into a TouristSpot. Features
// without a human-readable name are discarded.
func normalizeElement(el OverpassElement, center types.GeoPoint, defaultCountry string, categorize func(map[string]string) string) (types.TouristSpot, bool) {
	name, ok := el.Tags["name"]
	if !ok || name == "" {
		return types.TouristSpot{}, false
	}

	location := types.GeoPoint{Latitude: el.Lat, Longitude: el.Lon}
	if el.Type != "node" {
		if el.Center != nil {
			location = types.GeoPoint{Latitude: el.Center.Lat, Longitude: el.Center.Lon}
		} else {
			location = center
		}
	}

	country := el.Tags["addr:country"]
	if country == "" {
		country = defaultCountry
	}

	return types.TouristSpot{
		ID:       fmt.Sprintf("%d", el.ID),
		Name:     name,
		Category: categorize(el.Tags),
		Location: location,
		Tags:     el.Tags,
		LocationDetails: types.LocationDetails{
			Street:  el.Tags["addr:street"],
			City:    el.Tags["addr:city"],
			State:   el.Tags["addr:state"],
			Country: country,
		},
	}, true
}

// primaryCategory resolves the coarse taxonomy for primary-pass features.
// Tourism tags outrank natural ones, which outrank amenities; tourism
// classification is treated as most authoritative when namespaces co-occur.
func primaryCategory(tags map[string]string) string {
	if v, ok := tags["tourism"]; ok {
		return v
	}
	if v, ok := tags["natural"]; ok {
		return v
	}
	if v, ok := tags["amenity"]; ok {
		return v
	}
	return "other"
}

// secondaryCategory resolves the finer labels used by the fallback pass, so
// the broader query does not collapse everything into the primary taxonomy.
func secondaryCategory(tags map[string]string) string {
	if v, ok := tags["tourism"]; ok {
		return v
	}
	if v, ok := tags["historic"]; ok {
		return "historic_" + v
	}
	if v, ok := tags["leisure"]; ok {
		return "leisure_" + v
	}
	if v, ok := tags["amenity"]; ok {
		if v == "restaurant" {
			if cuisine, ok := tags["cuisine"]; ok {
				return "restaurant_" + cuisine
			}
		}
		return v
	}
	return "other"
}

// primaryQuery selects the fixed allow-list of headline tourist categories.
func primaryQuery(center types.GeoPoint, radiusMeters int, timeout time.Duration) string {
	around := fmt.Sprintf("(around:%d,%f,%f)", radiusMeters, center.Latitude, center.Longitude)
	return fmt.Sprintf(`[out:json][timeout:%d];
(
  node["tourism"="attraction"]%[2]s;
  way["tourism"="attraction"]%[2]s;
  relation["tourism"="attraction"]%[2]s;
  node["tourism"="resort"]%[2]s;
  way["tourism"="resort"]%[2]s;
  node["tourism"="hotel"]%[2]s;
  way["tourism"="hotel"]%[2]s;
  node["tourism"="viewpoint"]%[2]s;
  way["tourism"="viewpoint"]%[2]s;
  node["natural"="beach"]%[2]s;
  way["natural"="beach"]%[2]s;
  node["natural"="waterfall"]%[2]s;
  way["natural"="waterfall"]%[2]s;
  node["natural"="forest"]%[2]s;
  way["natural"="forest"]%[2]s;
  relation["natural"="forest"]%[2]s;
  node["landuse"="forest"]%[2]s;
  way["landuse"="forest"]%[2]s;
  relation["landuse"="forest"]%[2]s;
);
out body center;`, int(timeout.Seconds()), around)
}

// secondaryQuery broadens the category set when the primary pass comes back
// thin.
func secondaryQuery(center types.GeoPoint, radiusMeters int, timeout time.Duration) string {
	around := fmt.Sprintf("(around:%d,%f,%f)", radiusMeters, center.Latitude, center.Longitude)
	return fmt.Sprintf(`[out:json][timeout:%d];
(
  node["historic"]%[2]s;
  way["historic"]%[2]s;
  relation["historic"]%[2]s;
  node["leisure"="park"]%[2]s;
  way["leisure"="park"]%[2]s;
  node["leisure"="water_park"]%[2]s;
  way["leisure"="water_park"]%[2]s;
  node["tourism"="museum"]%[2]s;
  way["tourism"="museum"]%[2]s;
  node["tourism"="gallery"]%[2]s;
  way["tourism"="gallery"]%[2]s;
  node["amenity"="restaurant"]%[2]s[cuisine];
  way["amenity"="restaurant"]%[2]s[cuisine];
  node["leisure"="nature_reserve"]%[2]s;
  way["leisure"="nature_reserve"]%[2]s;
  node["boundary"="protected_area"]%[2]s;
  way["boundary"="protected_area"]%[2]s;
);
out body center;`, int(timeout.Seconds()), around)
}
