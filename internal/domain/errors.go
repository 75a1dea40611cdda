package domain

import "errors"

var (
	// ErrFoodNotFound is returned when a lookup tier has no data for a food
	ErrFoodNotFound = errors.New("food not found")

	// ErrCacheMiss is returned when data is not found in the nutrient cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the cache backend is unreachable
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrOracleFailure is returned when the nutrition oracle request fails
	ErrOracleFailure = errors.New("nutrition oracle request failed")

	// ErrMalformedOracleResponse is returned when the oracle responds with
	// missing or invalid nutrient fields
	ErrMalformedOracleResponse = errors.New("malformed oracle response")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
