// Package plugin defines the host-facing surface of an effect: metadata,
// capability negotiation, indexed parameters, and block processing.
//
// The interfaces are independent of any plugin ABI. An adapter for a
// concrete format binds a Plugin to its callbacks; the device host in
// internal/device is one such adapter.
package plugin
