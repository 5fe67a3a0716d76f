// Package interfaces contains types that allow inspection and customization of aerodata
// components, such as the status reporting mechanisms of the data source and data store.
//
// Most applications will not need to refer to these types unless they are creating a plug-in
// component, such as a custom persistent data store, or monitoring the state of the client.
package interfaces
