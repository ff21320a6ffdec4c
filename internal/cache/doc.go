// Package cache holds the availability cache: for a calendar date, the ids of
// the rooms that carry a reservation on that date. Memory serves a single
// process; Redis shares entries between processes.
package cache
