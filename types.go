package goSign

// Claims defines a public type used by goSign APIs.
//
// Claims instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Claims map[string]any

// Headers defines a public type used by goSign APIs.
//
// Headers instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Headers map[string]any
