package faa

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/aerodata/go-aerodata/adgeo"
	"github.com/aerodata/go-aerodata/internal/datakinds"
	"github.com/aerodata/go-aerodata/internal/geomag"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"
)

// Property names in the FAA source datasets.
const (
	sourcePropAirportID  = "AIRPORT_ID"
	sourcePropDesignator = "DESIGNATOR"
	sourcePropGlobalID   = "GLOBAL_ID"
	sourcePropIdent      = "IDENT"
	sourcePropLength     = "LENGTH"
	sourcePropName       = "NAME"
	sourcePropWidth      = "WIDTH"
)

const (
	// A surveyed dimension more than this fraction off the listed one is worth a log line.
	dimensionTolerance = 0.2
	// A surveyed heading more than this many degrees off the one the name implies is worth a
	// log line. Anything under that is ordinary magnetic drift since the runway was named.
	headingTolerance = 30
	// Surfaces longer than this are runways even when the designator doesn't say so.
	runwayLengthCutoffFt = 800
	// An estimated runway shorter than this suggests the source record is junk twice over.
	shortRunwayFt = 500

	helipadMaxLengthFt = 2000
	helipadMaxWidthFt  = 500
)

// Deriver builds the aerodrome, runway, and helipad collections from the raw FAA datasets.
type Deriver struct {
	loggers ldlog.Loggers
	model   *geomag.Model
	now     func() time.Time
}

// NewDeriver creates a Deriver. If model is nil, the embedded geomagnetic model is used.
func NewDeriver(loggers ldlog.Loggers, model *geomag.Model) *Deriver {
	if model == nil {
		model = geomag.Default()
	}
	return &Deriver{loggers: loggers, model: model, now: time.Now}
}

// airportRef is the part of an airport record that runway derivation needs.
type airportRef struct {
	id        string
	center    adgeo.Position
	hasCenter bool
}

// Derive converts the two FAA datasets into the three served collections. Source records that
// cannot be interpreted are logged and dropped so that one bad record does not take down the
// rest of the dataset.
func (d *Deriver) Derive(airports, runways adgeo.FeatureCollection) []st.Collection {
	byGlobalID := make(map[string]airportRef, len(airports.Features))
	aerodromeItems := make(map[string]*adgeo.Feature, len(airports.Features))
	for _, a := range airports.Features {
		d.deriveAirport(a, byGlobalID, aerodromeItems)
	}

	runwayItems := make(map[string]*adgeo.Feature)
	helipadItems := make(map[string]*adgeo.Feature)
	for _, r := range runways.Features {
		d.deriveSurface(r, byGlobalID, runwayItems, helipadItems)
	}

	d.loggers.Infof("Derived %d aerodromes, %d runways, and %d helipads from FAA source data",
		len(aerodromeItems), len(runwayItems), len(helipadItems))

	return []st.Collection{
		{Kind: datakinds.Aerodromes, Items: sortedItems(aerodromeItems)},
		{Kind: datakinds.Runways, Items: sortedItems(runwayItems)},
		{Kind: datakinds.Helipads, Items: sortedItems(helipadItems)},
	}
}

func (d *Deriver) deriveAirport(
	a adgeo.Feature,
	byGlobalID map[string]airportRef,
	aerodromes map[string]*adgeo.Feature,
) {
	ident := a.Property(sourcePropIdent).StringValue()
	globalID := a.Property(sourcePropGlobalID).StringValue()
	id := globalID
	if ident != "" {
		id = "K" + ident
	}
	if id == "" {
		d.loggers.Warnf("Omitting airport `%s` with no usable identifier",
			a.Property(sourcePropName).StringValue())
		return
	}

	ref := airportRef{id: id}
	if a.Geometry.Type == adgeo.PointGeometry && len(a.Geometry.Coordinates) > 0 {
		ref.center = a.Geometry.Coordinates[0]
		ref.hasCenter = true
	}
	if globalID != "" {
		byGlobalID[globalID] = ref
	}

	props := ldvalue.ObjectBuild().
		SetString(adgeo.PropertyElementType, adgeo.ElementTypeAerodrome).
		SetString(adgeo.PropertyAerodromeID, id).
		SetString(adgeo.PropertyCountry, "USA").
		Set(adgeo.PropertyName, a.Property(sourcePropName)).
		Build()
	aerodromes[id] = &adgeo.Feature{Geometry: a.Geometry, Properties: props}
}

func (d *Deriver) deriveSurface(
	f adgeo.Feature,
	byGlobalID map[string]airportRef,
	runways, helipads map[string]*adgeo.Feature,
) {
	designator := f.Property(sourcePropDesignator).StringValue()
	globalID := f.Property(sourcePropGlobalID).StringValue()
	airportID := f.Property(sourcePropAirportID).StringValue()
	length := f.Property(sourcePropLength).Float64Value()
	width := f.Property(sourcePropWidth).Float64Value()

	airport, ok := byGlobalID[airportID]
	if !ok {
		d.loggers.Warnf("Omitting runway `%s` at unknown airport `%s`", designator, airportID)
		return
	}
	if globalID == "" {
		d.loggers.Warnf("Omitting runway `%s` at %s with no global identifier", designator, airport.id)
		return
	}
	if designator == "" {
		d.loggers.Warnf("Omitting unnamed runway surface %s at %s", globalID, airport.id)
		return
	}

	ring := f.Geometry.Coordinates
	nullIsland := boundsNearNullIsland(ring)

	// Names of the two ends of a single surface are joined with a dash in the source data, but
	// a dash is also just part of some helipad and balloon port names.
	name := designator
	if strings.Contains(name, "-") && name[0] != 'H' && name[0] != 'B' {
		name = strings.ReplaceAll(name, "-", "/")
	}

	isRunway := (name[0] != 'H' && name[0] != 'B' &&
		(strings.Contains(name, "/") || length > runwayLengthCutoffFt)) || name == "W"
	switch {
	case isRunway:
		d.deriveRunway(f, airport, name, globalID, length, width, ring, nullIsland, runways)
	case name[0] == 'H' || length == 0:
		d.deriveHelipad(airport, name, globalID, length, width, ring, nullIsland, helipads)
	case name[0] == 'B':
		// TODO: decide whether balloon ports should be surfaced as their own element type
		d.loggers.Warnf("Removing balloon port `%s` at %s", name, airport.id)
	default:
		d.loggers.Warnf("Unrecognized %vx%v ft runway `%s` at %s", length, width, name, airport.id)
	}
}

func (d *Deriver) deriveRunway(
	f adgeo.Feature,
	airport airportRef,
	name, globalID string,
	length, width float64,
	ring []adgeo.Position,
	nullIsland bool,
	runways map[string]*adgeo.Feature,
) {
	names := strings.Split(name, "/")
	if len(names) == 1 {
		reciprocal, err := reciprocalOf(names[0])
		if err != nil {
			d.loggers.Warnf("Omitting runway at %s: %s", airport.id, err)
			return
		}
		names = append(names, reciprocal)
	}

	allNonexistent := true
	for _, n := range names {
		if !strings.HasSuffix(n, "X") {
			allNonexistent = false
		}
	}
	if allNonexistent {
		d.loggers.Warnf("Omitting non-existent runway `%s` at %s with %v ft length", name, airport.id, length)
		return
	}

	heading1, err := headingOf(names[0])
	if err != nil {
		d.loggers.Warnf("Omitting runway at %s: %s", airport.id, err)
		return
	}

	var ends []adgeo.Position
	approximate := false
	if nullIsland || len(ring) < 5 {
		// The outline is unusable; estimate a centerline from the airport location and the
		// listed length, pointed along the heading the name implies.
		if length == 0 {
			d.loggers.Errorf("Runway `%s` at %s with zero length has bad coordinates", name, airport.id)
			return
		}
		if width == 0 {
			d.loggers.Errorf("Runway `%s` at %s with zero width has bad coordinates", name, airport.id)
			return
		}
		if length < shortRunwayFt {
			d.loggers.Warnf("Short runway `%s` %v ft long at %s has bad coordinates", name, length, airport.id)
		}
		if !airport.hasCenter {
			d.loggers.Warnf("Omitting runway `%s` at %s with bad coordinates and no airport location",
				name, airport.id)
			return
		}
		declination := d.model.Declination(airport.center.Lat, airport.center.Lng, d.now())
		radians := (heading1 + declination) * degreesToRadians
		dx := math.Sin(radians) * length / 2
		dy := math.Cos(radians) * length / 2
		ends = unflatten(airport.center, []flatPoint{{-dx, -dy}, {dx, dy}})
		approximate = true
	} else {
		heading2, err := headingOf(names[1])
		if err != nil {
			d.loggers.Warnf("Omitting runway at %s: %s", airport.id, err)
			return
		}
		ends = d.surveyCenterline(ring, airport, name, names, length, width, heading1, heading2)
	}

	runwayList := ldvalue.ArrayBuild().
		Add(ldvalue.ObjectBuild().
			SetString(adgeo.PropertyRunwayID, names[0]).
			Set(adgeo.PropertyApproachEnd, ldvalue.Int(0)).
			Set(adgeo.PropertyThresholdDisplacement, ldvalue.Int(0)).
			Build()).
		Add(ldvalue.ObjectBuild().
			SetString(adgeo.PropertyRunwayID, names[1]).
			Set(adgeo.PropertyApproachEnd, ldvalue.Int(1)).
			Set(adgeo.PropertyThresholdDisplacement, ldvalue.Int(0)).
			Build()).
		Build()
	props := ldvalue.ObjectBuild().
		SetString(adgeo.PropertyElementType, adgeo.ElementTypeRunway).
		SetString(adgeo.PropertyAerodromeID, airport.id).
		SetString(adgeo.PropertyRunwaySurfaceID, globalID).
		Set(adgeo.PropertyRunwayWidth, f.Property(sourcePropWidth)).
		Set(adgeo.PropertyRunways, runwayList).
		Set(adgeo.PropertyApproximate, ldvalue.Bool(approximate)).
		Build()
	runways[globalID] = &adgeo.Feature{Geometry: adgeo.NewLineString(ends...), Properties: props}
}

// surveyCenterline reduces a usable surface outline to a two-point centerline, ordered so that
// the first point is the threshold of the first named end.
func (d *Deriver) surveyCenterline(
	ring []adgeo.Position,
	airport airportRef,
	name string,
	names []string,
	length, width float64,
	heading1, heading2 float64,
) []adgeo.Position {
	origin, flat := flatten(ring)
	var segs [4]float64
	for i := 0; i < 4; i++ {
		segs[i] = distance(flat[i], flat[i+1])
	}

	// The outline is a quad; the shorter pair of opposite sides are the runway ends.
	var end1, end2 flatPoint
	var endWidths, sideLengths [2]float64
	if segs[0]+segs[2] < segs[1]+segs[3] {
		end1 = midpoint(flat[0], flat[1])
		end2 = midpoint(flat[2], flat[3])
		endWidths = [2]float64{segs[0], segs[2]}
		sideLengths = [2]float64{segs[1], segs[3]}
	} else {
		end1 = midpoint(flat[1], flat[2])
		end2 = midpoint(flat[0], flat[3])
		endWidths = [2]float64{segs[1], segs[3]}
		sideLengths = [2]float64{segs[0], segs[2]}
	}
	for i, w := range endWidths {
		if math.Abs(w-width) > width*dimensionTolerance {
			d.loggers.Warnf("Runway %s at %s is listed as %v ft wide, but end %d is %.0f ft wide",
				name, airport.id, width, i+1, w)
		}
	}
	for i, l := range sideLengths {
		if math.Abs(l-length) > length*dimensionTolerance {
			d.loggers.Warnf("Runway %s at %s is listed as %v ft long, but side %d is %.0f ft long",
				name, airport.id, length, i+1, l)
		}
	}

	ends := unflatten(origin, []flatPoint{end1, end2})
	declination := d.model.Declination(ends[0].Lat, ends[0].Lng, d.now())
	heading12 := math.Atan2(end2.x-end1.x, end2.y-end1.y)/degreesToRadians - declination
	heading21 := mod360(heading12 + 180)

	// The outline's vertex order doesn't tell us which end is which; pick the assignment that
	// best agrees with the headings the names imply.
	if angularDistance(heading1, heading12)+angularDistance(heading2, heading21) >
		angularDistance(heading1, heading21)+angularDistance(heading2, heading12) {
		ends[0], ends[1] = ends[1], ends[0]
		heading12, heading21 = heading21, heading12
	}
	if angularDistance(heading1, heading12) > headingTolerance {
		d.loggers.Warnf("Runway %s (of %s) at %s has actual heading of %.0f",
			names[0], name, airport.id, mod360(heading12))
	}
	if angularDistance(heading2, heading21) > headingTolerance {
		d.loggers.Warnf("Runway %s (of %s) at %s has actual heading of %.0f",
			names[1], name, airport.id, mod360(heading21))
	}
	return ends
}

func (d *Deriver) deriveHelipad(
	airport airportRef,
	name, globalID string,
	length, width float64,
	ring []adgeo.Position,
	nullIsland bool,
	helipads map[string]*adgeo.Feature,
) {
	if length == 0 {
		d.loggers.Warnf("Found zero-length runway/helipad %s at %s", name, airport.id)
	}
	if length > helipadMaxLengthFt || width > helipadMaxWidthFt {
		d.loggers.Warnf("Found huge %vx%v ft helipad %s at %s", length, width, name, airport.id)
	}

	var geometry adgeo.Geometry
	approximate := false
	if !nullIsland && len(ring) >= 2 {
		// The last ring vertex repeats the first; leave it out of the centroid.
		center, _ := flatten(ring[:len(ring)-1])
		geometry = adgeo.NewPoint(center)
	} else if airport.hasCenter {
		geometry = adgeo.NewPoint(airport.center)
		approximate = true
	} else {
		approximate = true
	}

	props := ldvalue.ObjectBuild().
		SetString(adgeo.PropertyElementType, adgeo.ElementTypeHelipad).
		SetString(adgeo.PropertyAerodromeID, airport.id).
		SetString(adgeo.PropertyHelipadID, globalID).
		Set(adgeo.PropertyApproximate, ldvalue.Bool(approximate)).
		Build()
	helipads[globalID] = &adgeo.Feature{Geometry: geometry, Properties: props}
}

func boundsNearNullIsland(ring []adgeo.Position) bool {
	if len(ring) == 0 {
		return true
	}
	latMin, latMax := ring[0].Lat, ring[0].Lat
	lngMin, lngMax := ring[0].Lng, ring[0].Lng
	for _, p := range ring[1:] {
		latMin = math.Min(latMin, p.Lat)
		latMax = math.Max(latMax, p.Lat)
		lngMin = math.Min(lngMin, p.Lng)
		lngMax = math.Max(lngMax, p.Lng)
	}
	return lngMin > -0.5 && lngMax < 0.5 && latMin > -0.001 && latMax < 0.001
}

func sortedItems(features map[string]*adgeo.Feature) []st.KeyedItemDescriptor {
	keys := make([]string, 0, len(features))
	for k := range features {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]st.KeyedItemDescriptor, 0, len(keys))
	for _, k := range keys {
		items = append(items, st.KeyedItemDescriptor{
			Key:  k,
			Item: st.ItemDescriptor{Version: 1, Item: features[k]},
		})
	}
	return items
}
