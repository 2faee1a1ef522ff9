package routes

import (
	"rentverse-server/services"
	"rentverse-server/storage"
	"rentverse-server/utils"

	"github.com/kataras/iris/v12"
)

// GeoJSONSearch handles GET /api/properties/geojson. Query parameters are
// validated before any database work; the response is a GeoJSON
// FeatureCollection.
func GeoJSONSearch(ctx iris.Context) {
	query, err := services.ParseGeoQuery(
		ctx.URLParam("bbox"),
		ctx.URLParam("limit"),
		ctx.URLParam("clng"),
		ctx.URLParam("clat"),
		ctx.URLParam("q"),
	)
	if err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	collection, err := services.SearchGeoJSON(storage.DB, query)
	if err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	ctx.JSON(collection)
}
