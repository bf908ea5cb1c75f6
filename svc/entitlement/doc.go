// Package entitlement stores whether a user has paid access and at which
// tier. Records are keyed by the lower-cased email address.
//
// A record is either Free (is_paid=false, tier=free) or Entitled
// (is_paid=true, tier basic or advanced). Validate enforces that pairing on
// every write; the users table carries the same check constraint.
//
// Every mutation is a full overwrite of the affected columns, never an
// increment, so re-applying the same payment event yields the same row.
package entitlement
