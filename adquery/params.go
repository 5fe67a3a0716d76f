package adquery

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParamError is the error type for a query parameter value that fails validation.
type ParamError struct {
	// Message is a human-readable description suitable for an API response body.
	Message string
}

// Error returns the validation message.
func (e ParamError) Error() string {
	return e.Message
}

// Params describes a single aerodrome feature query.
//
// The zero value selects every feature. Params are normally produced by ParseParams; the fields
// are exported so that programmatic callers of Client.Features can construct them directly.
type Params struct {
	// PageToken is the continuation token from a previous response's paging metadata, or ""
	// for the first page.
	PageToken string
	// PageSize is the maximum number of features to return, or 0 for no limit.
	PageSize int
	// ExcludeRunways removes runway features from the result.
	ExcludeRunways bool
	// ExcludeHelipads removes helipad features from the result.
	ExcludeHelipads bool
	// ExcludeAerodromes removes aerodrome features from the result.
	ExcludeAerodromes bool
	// Box restricts the result to features all of whose coordinates fall inside it.
	Box BoundingBox
	// AerodromeIdentifiers, when non-nil, restricts the result to elements of the aerodromes
	// named in it.
	AerodromeIdentifiers map[string]bool
	// Countries, when non-nil, restricts the result to aerodromes in the named countries. The
	// FAA datasets cover the United States only, so a set without "USA" selects nothing.
	Countries map[string]bool
}

// ParseParams builds Params from the query portion of a request URL.
//
// Recognized parameters, all optional:
//
//	page_token            continuation token from a previous response
//	page_size             non-negative integer page limit
//	exclude_runways       "true" (case-insensitive) to omit runways
//	exclude_helipads      "true" to omit helipads
//	exclude_aerodromes    "true" to omit aerodromes
//	bounding_box          "lat,lng,lat,lng" box corners
//	aerodrome_identifiers comma-separated aerodrome identifiers
//	countries             comma-separated country codes
//
// A malformed page_token is not detected here; it is reported when the query is executed, to
// keep parameter errors distinct from selection errors in API responses.
func ParseParams(values url.Values) (Params, error) {
	p := Params{Box: everywhere()}

	p.PageToken = values.Get("page_token")

	if _, ok := values["page_size"]; ok {
		size, err := strconv.Atoi(strings.TrimSpace(values.Get("page_size")))
		if err != nil {
			return Params{}, err
		}
		if size < 0 {
			return Params{}, ParamError{Message: "Invalid page_size"}
		}
		p.PageSize = size
	}

	p.ExcludeRunways = parseBoolParam(values.Get("exclude_runways"))
	p.ExcludeHelipads = parseBoolParam(values.Get("exclude_helipads"))
	p.ExcludeAerodromes = parseBoolParam(values.Get("exclude_aerodromes"))

	if s := values.Get("bounding_box"); s != "" {
		coords, err := parseCoordinates(s)
		if err != nil {
			return Params{}, err
		}
		box, err := NewBoundingBox(coords[0], coords[1], coords[2], coords[3])
		if err != nil {
			return Params{}, err
		}
		p.Box = box
	}

	p.AerodromeIdentifiers = parseSetParam(values.Get("aerodrome_identifiers"))
	p.Countries = parseSetParam(values.Get("countries"))

	return p, nil
}

// parseCoordinates parses a bounding_box value: exactly four comma-separated numbers, ordered
// latitude, longitude, latitude, longitude. Number syntax is checked before the count so that
// a response about a malformed number names the number rather than the count.
func parseCoordinates(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	coords := make([]float64, 0, len(parts))
	for _, part := range parts {
		c, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	if len(coords) != 4 {
		return nil, ParamError{Message: fmt.Sprintf("Expecting exactly 4 coordinates for bounding_box, found %d", len(coords))}
	}
	return coords, nil
}

func parseBoolParam(value string) bool {
	return strings.EqualFold(value, "true")
}

// parseSetParam splits a comma-separated parameter into a membership set, trimming whitespace
// around each element. A missing or blank parameter means no filter and yields nil.
func parseSetParam(value string) map[string]bool {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, item := range strings.Split(value, ",") {
		set[strings.TrimSpace(item)] = true
	}
	return set
}
