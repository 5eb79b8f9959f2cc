// Package integration holds the domain model shared by the two sides of the
// reconciliation bridge: the CRM system (source of orders and customers) and
// the inventory system (source of products and authoritative shipping state).
//
// Neither system knows about the other. Records are joined across systems by
// natural keys only: product SKU and customer display name. The single
// durable cross-reference between internal identifiers is the provenance
// custom field written onto inventory sales orders at translation time.
package integration
