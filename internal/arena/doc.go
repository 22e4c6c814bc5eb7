// Package arena provides flat, append-only tables used as memo storage by the
// row packing calculator.
//
// A Table is prefix-complete: index i is present iff every index below i is
// present. Tables only grow through Append and only shrink through Reset,
// which keeps the backing array for reuse.
package arena
