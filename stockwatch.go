// Package stockwatch watches product pages of online stores and reports
// restocks. It periodically fetches every tracked page, extracts the product
// availability and size list, compares it with the last persisted snapshot,
// and sends a chat notification when a sold-out product becomes available.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, telegram/, sqlite/).
package stockwatch
