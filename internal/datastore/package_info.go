// Package datastore is an internal package containing implementation types for the client's data
// store implementations (in-memory, cached persistent store, file store) and related
// functionality. These types are not visible from outside of the module.
package datastore
