package query

import (
	"strconv"

	"github.com/aerodata/go-aerodata/adgeo"
	"github.com/aerodata/go-aerodata/adquery"
)

// Select applies query parameters to a snapshot of features and returns the matching page
// as a FeatureCollection. A feature matches a bounding box only if every vertex of its
// geometry falls inside the box; a feature with no geometry is never filtered out by a
// bounding box. The input slice is not modified.
//
// The returned error is an adquery.ParamError when the page token is not a number or does
// not refer to a position in the selection.
func Select(features []adgeo.Feature, params adquery.Params) (adgeo.FeatureCollection, error) {
	selected := make([]adgeo.Feature, 0, len(features))

	for _, feature := range features {
		switch feature.ElementType() {
		case adgeo.ElementTypeAerodrome:
			if params.ExcludeAerodromes {
				continue
			}
		case adgeo.ElementTypeRunway:
			if params.ExcludeRunways {
				continue
			}
		case adgeo.ElementTypeHelipad:
			if params.ExcludeHelipads {
				continue
			}
		}

		if !geometryInBox(params.Box, feature.Geometry) {
			continue
		}

		if len(params.AerodromeIdentifiers) > 0 && !params.AerodromeIdentifiers[feature.AerodromeID()] {
			continue
		}

		// The FAA datasets cover only the United States, so a country filter that does not
		// name USA selects nothing.
		if len(params.Countries) > 0 && !params.Countries["USA"] {
			continue
		}

		selected = append(selected, feature)
	}

	skip := 0
	if params.PageToken != "" {
		n, err := strconv.Atoi(params.PageToken)
		if err != nil || n < 0 || n >= len(selected) {
			return adgeo.FeatureCollection{}, adquery.ParamError{Message: "Invalid page_token"}
		}
		skip = n
		selected = selected[skip:]
	}

	result := adgeo.FeatureCollection{Features: selected}
	if params.PageSize > 0 && len(selected) > params.PageSize {
		result.Features = selected[:params.PageSize]
		result.NextPageToken = strconv.Itoa(skip + params.PageSize)
	}
	return result, nil
}

func geometryInBox(box adquery.BoundingBox, geometry adgeo.Geometry) bool {
	for _, position := range geometry.Coordinates {
		if !box.Contains(position.Lat, position.Lng) {
			return false
		}
	}
	return true
}
