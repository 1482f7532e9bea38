package repository

import "errors"

var (
	ErrSnapshotNotFound = errors.New("deal snapshot not found")
	ErrDealerNotFound   = errors.New("dealer not found")
)
