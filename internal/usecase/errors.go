package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrMaintenance           = errors.New("upstream in maintenance")
	ErrUpstream              = errors.New("upstream request failed")
	// ErrLeaderboardUnavailable is raised when every ranked leaderboard source came back empty.
	ErrLeaderboardUnavailable = errors.New("ranked leaderboard unavailable")
)
