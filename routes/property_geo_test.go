package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rentverse-server/models"
	"rentverse-server/services"
	"rentverse-server/utils"

	"github.com/kataras/iris/v12"
)

func buildGeoTestApp() *iris.Application {
	app := iris.New()
	app.Get("/api/properties/geojson", GeoJSONSearch)
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

// Invalid query parameters must be rejected before the store is touched.
// The global store stays nil here, so any attempt to query would panic.
func TestGeoJSONSearchRejectsInvalidQueries(t *testing.T) {
	app := buildGeoTestApp()

	cases := []struct {
		name  string
		query string
	}{
		{"missing bbox", ""},
		{"three components", "bbox=101.6,3.1,101.8"},
		{"non-numeric component", "bbox=101.6,abc,101.8,3.2"},
		{"inverted bounds", "bbox=101.8,3.1,101.6,3.2"},
		{"zero limit", "bbox=101.6,3.1,101.8,3.2&limit=0"},
		{"limit above cap", "bbox=101.6,3.1,101.8,3.2&limit=5000"},
		{"center missing latitude", "bbox=101.6,3.1,101.8,3.2&clng=101.7"},
		{"center non-numeric", "bbox=101.6,3.1,101.8,3.2&clng=101.7&clat=north"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/properties/geojson?"+tt.query, nil)
			resp := httptest.NewRecorder()
			app.ServeHTTP(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
			var body utils.ErrorBody
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != utils.CodeValidation {
				t.Errorf("error code = %q, want %q", body.Error, utils.CodeValidation)
			}
		})
	}
}

func TestGeoJSONSearchReturnsFeatureCollection(t *testing.T) {
	db := useTestDB(t)
	app := buildGeoTestApp()

	seed := []models.Property{
		{Code: "RV-GEO1", OwnerID: 1, Title: "City Loft", City: "Kuala Lumpur", Lat: 3.15, Lng: 101.7, Price: 2000, Status: models.StatusApproved},
		{Code: "RV-GEO2", OwnerID: 1, Title: "Hidden Flat", City: "Kuala Lumpur", Lat: 3.16, Lng: 101.72, Price: 1200, Status: models.StatusPendingReview},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/properties/geojson?bbox=101.6,3.1,101.8,3.2&limit=50", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var collection services.FeatureCollection
	if err := json.Unmarshal(resp.Body.Bytes(), &collection); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if collection.Type != "FeatureCollection" {
		t.Errorf("Type = %q", collection.Type)
	}
	if len(collection.Features) != 1 {
		t.Fatalf("got %d features, want only the approved listing", len(collection.Features))
	}
	if collection.Features[0].Properties.Code != "RV-GEO1" {
		t.Errorf("feature = %q", collection.Features[0].Properties.Code)
	}
}
