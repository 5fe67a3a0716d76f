package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/aerodata/go-aerodata/adgeo"
	"github.com/aerodata/go-aerodata/adquery"
)

func testFeature(elementType string, key string, aerodromeID string, geometry adgeo.Geometry) adgeo.Feature {
	builder := ldvalue.ObjectBuild().
		SetString(adgeo.PropertyElementType, elementType).
		SetString(adgeo.PropertyAerodromeID, aerodromeID)
	switch elementType {
	case adgeo.ElementTypeRunway:
		builder.SetString(adgeo.PropertyRunwaySurfaceID, key)
	case adgeo.ElementTypeHelipad:
		builder.SetString(adgeo.PropertyHelipadID, key)
	}
	return adgeo.Feature{Geometry: geometry, Properties: builder.Build()}
}

var (
	boston = testFeature(adgeo.ElementTypeAerodrome, "KBOS", "KBOS",
		adgeo.NewPoint(adgeo.Position{Lng: -71.005, Lat: 42.364}))
	denver = testFeature(adgeo.ElementTypeAerodrome, "KDEN", "KDEN",
		adgeo.NewPoint(adgeo.Position{Lng: -104.673, Lat: 39.861}))
	bostonRunway = testFeature(adgeo.ElementTypeRunway, "KBOS:04R/22L", "KBOS",
		adgeo.NewLineString(
			adgeo.Position{Lng: -71.020, Lat: 42.354},
			adgeo.Position{Lng: -71.005, Lat: 42.374},
		))
	denverRunway = testFeature(adgeo.ElementTypeRunway, "KDEN:16R/34L", "KDEN",
		adgeo.NewLineString(
			adgeo.Position{Lng: -104.660, Lat: 39.850},
			adgeo.Position{Lng: -104.660, Lat: 39.872},
		))
	denverHelipad = testFeature(adgeo.ElementTypeHelipad, "39CO", "KDEN",
		adgeo.NewPoint(adgeo.Position{Lng: -104.671, Lat: 39.858}))

	allTestFeatures = []adgeo.Feature{boston, denver, bostonRunway, denverRunway, denverHelipad}
)

func selectedKeys(t *testing.T, features []adgeo.Feature, params adquery.Params) []string {
	t.Helper()
	result, err := Select(features, params)
	require.NoError(t, err)
	keys := make([]string, 0, len(result.Features))
	for _, f := range result.Features {
		keys = append(keys, f.Key())
	}
	return keys
}

func TestSelectWithNoConstraints(t *testing.T) {
	result, err := Select(allTestFeatures, adquery.Params{})
	require.NoError(t, err)
	assert.Equal(t, allTestFeatures, result.Features)
	assert.Equal(t, "", result.NextPageToken)
}

func TestSelectElementTypeExclusions(t *testing.T) {
	assert.Equal(t, []string{"KBOS", "KDEN", "39CO"},
		selectedKeys(t, allTestFeatures, adquery.Params{ExcludeRunways: true}))
	assert.Equal(t, []string{"KBOS", "KDEN", "KBOS:04R/22L", "KDEN:16R/34L"},
		selectedKeys(t, allTestFeatures, adquery.Params{ExcludeHelipads: true}))
	assert.Equal(t, []string{"KBOS:04R/22L", "KDEN:16R/34L", "39CO"},
		selectedKeys(t, allTestFeatures, adquery.Params{ExcludeAerodromes: true}))
	assert.Equal(t, []string{},
		selectedKeys(t, allTestFeatures, adquery.Params{
			ExcludeAerodromes: true,
			ExcludeRunways:    true,
			ExcludeHelipads:   true,
		}))
}

func TestSelectBoundingBox(t *testing.T) {
	nearDenver, err := adquery.NewBoundingBox(39, -106, 41, -103)
	require.NoError(t, err)

	assert.Equal(t, []string{"KDEN", "KDEN:16R/34L", "39CO"},
		selectedKeys(t, allTestFeatures, adquery.Params{Box: nearDenver}))

	t.Run("every vertex must be inside", func(t *testing.T) {
		leavingTheBox := testFeature(adgeo.ElementTypeRunway, "KDEN:07/25", "KDEN",
			adgeo.NewLineString(
				adgeo.Position{Lng: -104.660, Lat: 39.850},
				adgeo.Position{Lng: -102.500, Lat: 39.850},
			))
		features := append([]adgeo.Feature{leavingTheBox}, allTestFeatures...)
		assert.Equal(t, []string{"KDEN", "KDEN:16R/34L", "39CO"},
			selectedKeys(t, features, adquery.Params{Box: nearDenver}))
	})

	t.Run("a feature with no geometry is always inside", func(t *testing.T) {
		unsurveyed := testFeature(adgeo.ElementTypeAerodrome, "ZZZZ", "ZZZZ", adgeo.Geometry{})
		features := []adgeo.Feature{boston, denver, denverHelipad, unsurveyed}
		assert.Equal(t, []string{"KDEN", "39CO", "ZZZZ"},
			selectedKeys(t, features, adquery.Params{Box: nearDenver}))
	})
}

func TestSelectAerodromeIdentifiers(t *testing.T) {
	// Runways and helipads carry the identifier of their aerodrome, so filtering on it
	// returns the whole aerodrome with its parts.
	assert.Equal(t, []string{"KDEN", "KDEN:16R/34L", "39CO"},
		selectedKeys(t, allTestFeatures, adquery.Params{
			AerodromeIdentifiers: map[string]bool{"KDEN": true},
		}))
	assert.Equal(t, []string{"KBOS", "KDEN", "KBOS:04R/22L", "KDEN:16R/34L", "39CO"},
		selectedKeys(t, allTestFeatures, adquery.Params{
			AerodromeIdentifiers: map[string]bool{"KBOS": true, "KDEN": true},
		}))
	assert.Equal(t, []string{},
		selectedKeys(t, allTestFeatures, adquery.Params{
			AerodromeIdentifiers: map[string]bool{"KLAX": true},
		}))
}

func TestSelectCountries(t *testing.T) {
	// The source data covers a single country, so the filter is all or nothing.
	assert.Equal(t, []string{"KBOS", "KDEN", "KBOS:04R/22L", "KDEN:16R/34L", "39CO"},
		selectedKeys(t, allTestFeatures, adquery.Params{Countries: map[string]bool{"USA": true}}))
	assert.Equal(t, []string{"KBOS", "KDEN", "KBOS:04R/22L", "KDEN:16R/34L", "39CO"},
		selectedKeys(t, allTestFeatures, adquery.Params{Countries: map[string]bool{"CAN": true, "USA": true}}))
	assert.Equal(t, []string{},
		selectedKeys(t, allTestFeatures, adquery.Params{Countries: map[string]bool{"CAN": true}}))
}

func TestSelectPagination(t *testing.T) {
	t.Run("first page", func(t *testing.T) {
		result, err := Select(allTestFeatures, adquery.Params{PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, []adgeo.Feature{boston, denver}, result.Features)
		assert.Equal(t, "2", result.NextPageToken)
	})

	t.Run("middle page", func(t *testing.T) {
		result, err := Select(allTestFeatures, adquery.Params{PageToken: "2", PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, []adgeo.Feature{bostonRunway, denverRunway}, result.Features)
		assert.Equal(t, "4", result.NextPageToken)
	})

	t.Run("last page", func(t *testing.T) {
		result, err := Select(allTestFeatures, adquery.Params{PageToken: "4", PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, []adgeo.Feature{denverHelipad}, result.Features)
		assert.Equal(t, "", result.NextPageToken)
	})

	t.Run("page larger than the selection", func(t *testing.T) {
		result, err := Select(allTestFeatures, adquery.Params{PageSize: 100})
		require.NoError(t, err)
		assert.Len(t, result.Features, 5)
		assert.Equal(t, "", result.NextPageToken)
	})

	t.Run("pagination applies after filtering", func(t *testing.T) {
		result, err := Select(allTestFeatures, adquery.Params{ExcludeAerodromes: true, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, []adgeo.Feature{bostonRunway, denverRunway}, result.Features)
		assert.Equal(t, "2", result.NextPageToken)
	})

	t.Run("token past the end", func(t *testing.T) {
		_, err := Select(allTestFeatures, adquery.Params{PageToken: "5"})
		assert.Equal(t, adquery.ParamError{Message: "Invalid page_token"}, err)
	})

	t.Run("negative token", func(t *testing.T) {
		_, err := Select(allTestFeatures, adquery.Params{PageToken: "-1"})
		assert.Equal(t, adquery.ParamError{Message: "Invalid page_token"}, err)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := Select(allTestFeatures, adquery.Params{PageToken: "abc"})
		assert.Equal(t, adquery.ParamError{Message: "Invalid page_token"}, err)
	})

	t.Run("token into an empty selection", func(t *testing.T) {
		_, err := Select(allTestFeatures, adquery.Params{
			Countries: map[string]bool{"CAN": true},
			PageToken: "0",
		})
		assert.Equal(t, adquery.ParamError{Message: "Invalid page_token"}, err)
	})
}
