package tutorialrepo

import "errors"

var ErrNotFound = errors.New("tutorial not found")

type ListRequest struct {
	// Title filters by exact title when not empty.
	Title     string
	Published *bool
	Offset    int
	Limit     int
}
