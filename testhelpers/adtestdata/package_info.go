// Package adtestdata provides a mechanism for providing dynamically updatable aerodrome data in a
// simplified form to an aerodata client in test scenarios.
//
// Unlike the file data source (in the adfiledata package), this mechanism does not use any external
// resources. It provides only the data that the application has put into it using the Update
// method.
//
//	td := adtestdata.DataSource()
//	td.Update(td.Aerodrome("KMSP").Location(44.882, -93.221))
//
//	config := aerodata.Config{
//	    DataSource: td,
//	}
//	client := aerodata.MakeCustomClient(config, timeout)
//
//	// data can be updated at any time:
//	td.Update(td.Runway("KMSP-12R/30L", "KMSP").
//	    Geometry(adgeo.NewLineString(
//	        adgeo.Position{Lng: -93.240, Lat: 44.893},
//	        adgeo.Position{Lng: -93.206, Lat: 44.874})))
//
// The FeatureBuilder returned by Aerodrome, Runway, and Helipad supports the standard properties
// of derived aerodrome features; any other property can be attached with the Property method.
//
// If the same TestDataSource instance is used to configure multiple client instances, any change
// made to the data will propagate to all of them.
package adtestdata
