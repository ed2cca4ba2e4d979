// Package kernel contains shared value objects used across the domain model:
// UUID identity, WGS84 geo points for resolved stop addresses, and arrival
// time windows. All types are immutable, constructor-guarded, and fail
// validation when created as zero values.
package kernel
