package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"rentverse-server/models"

	"gorm.io/gorm"
)

const (
	GeoDefaultLimit = 100
	GeoMaxLimit     = 1000
)

type GeoPoint struct {
	Lng float64
	Lat float64
}

// GeoQuery is the validated form of a geojson search request.
type GeoQuery struct {
	MinLng float64
	MinLat float64
	MaxLng float64
	MaxLat float64
	Center *GeoPoint
	Limit  int
	Text   string
}

// ParseGeoQuery validates the raw query parameters before anything touches
// the database. bbox is "minLng,minLat,maxLng,maxLat".
func ParseGeoQuery(bbox, limit, clng, clat, text string) (*GeoQuery, error) {
	parts := strings.Split(bbox, ",")
	if len(parts) != 4 {
		return nil, &ValidationError{Field: "bbox", Message: "bbox must be minLng,minLat,maxLng,maxLat"}
	}
	nums := make([]float64, 4)
	for i, part := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, &ValidationError{Field: "bbox", Message: "bbox components must be numeric"}
		}
		nums[i] = n
	}
	q := &GeoQuery{
		MinLng: nums[0],
		MinLat: nums[1],
		MaxLng: nums[2],
		MaxLat: nums[3],
		Limit:  GeoDefaultLimit,
		Text:   strings.TrimSpace(text),
	}
	if q.MinLng >= q.MaxLng || q.MinLat >= q.MaxLat {
		return nil, &ValidationError{Field: "bbox", Message: "bbox lower bounds must be strictly below upper bounds"}
	}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > GeoMaxLimit {
			return nil, &ValidationError{Field: "limit", Message: "limit must be an integer between 1 and 1000"}
		}
		q.Limit = n
	}
	if clng != "" || clat != "" {
		lng, lngErr := strconv.ParseFloat(clng, 64)
		lat, latErr := strconv.ParseFloat(clat, 64)
		if lngErr != nil || latErr != nil {
			return nil, &ValidationError{Field: "center", Message: "clng and clat must both be numeric"}
		}
		q.Center = &GeoPoint{Lng: lng, Lat: lat}
	}
	return q, nil
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusM = 6371000.0

	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // [lng, lat]
}

type FeatureProperties struct {
	ID        uint     `json:"id"`
	Code      string   `json:"code"`
	Title     string   `json:"title"`
	City      string   `json:"city"`
	Price     float64  `json:"price"`
	Bedrooms  int      `json:"bedrooms"`
	Status    string   `json:"status"`
	DistanceM *float64 `json:"distance_m,omitempty"`
}

type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// SearchGeoJSON runs the validated bounding-box query and serializes the
// matches as a GeoJSON FeatureCollection. Only approved listings are
// searchable. With a center point, features come back ordered by ascending
// distance from it; without one, ordering is stable by id.
func SearchGeoJSON(db *gorm.DB, q *GeoQuery) (*FeatureCollection, error) {
	tx := db.Model(&models.Property{}).
		Where("lng >= ? AND lng <= ? AND lat >= ? AND lat <= ?", q.MinLng, q.MaxLng, q.MinLat, q.MaxLat).
		Where("status = ?", models.StatusApproved)
	if q.Text != "" {
		like := "%" + strings.ToLower(q.Text) + "%"
		tx = tx.Where("lower(title) LIKE ? OR lower(city) LIKE ?", like, like)
	}

	var properties []models.Property
	if err := tx.Order("id ASC").Limit(q.Limit).Find(&properties).Error; err != nil {
		return nil, err
	}

	features := make([]Feature, 0, len(properties))
	for i := range properties {
		features = append(features, toFeature(&properties[i], q.Center))
	}
	if q.Center != nil {
		sort.SliceStable(features, func(i, j int) bool {
			return *features[i].Properties.DistanceM < *features[j].Properties.DistanceM
		})
	}
	return &FeatureCollection{Type: "FeatureCollection", Features: features}, nil
}

func toFeature(p *models.Property, center *GeoPoint) Feature {
	f := Feature{
		Type:     "Feature",
		Geometry: Geometry{Type: "Point", Coordinates: [2]float64{p.Lng, p.Lat}},
		Properties: FeatureProperties{
			ID:       p.ID,
			Code:     p.Code,
			Title:    p.Title,
			City:     p.City,
			Price:    p.Price,
			Bedrooms: p.Bedrooms,
			Status:   p.Status,
		},
	}
	if center != nil {
		d := Haversine(center.Lat, center.Lng, p.Lat, p.Lng)
		f.Properties.DistanceM = &d
	}
	return f
}
