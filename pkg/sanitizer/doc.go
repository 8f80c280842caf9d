// Package sanitizer normalizes free-text lesson fields before
// validation and storage.
//
// All functions are idempotent - applying them multiple times produces
// the same result - and handle invalid input gracefully by returning
// empty strings rather than errors. Subjects, teacher names and
// classroom labels get whitespace collapsing only; classroom matching
// stays byte-exact, so "R1" and "r1" are distinct rooms.
package sanitizer
