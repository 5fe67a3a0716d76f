// Package subsystems contains interfaces for implementation of custom aerodata components.
//
// Most applications will not need to refer to these types. You will use them if you are creating a
// plug-in component, such as a custom persistent data store or data source. They are also used as
// interfaces for the built-in components in the adcomponents package.
package subsystems
