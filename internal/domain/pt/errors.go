package pt

import "errors"

var (
	ErrHistoryNotFound   = errors.New("pt history not found")
	ErrInvalidPainAreas  = errors.New("pain areas are not valid stroke data")
	ErrPainOutOfRange    = errors.New("pain score must be between 0 and 10")
	ErrDescriptionLength = errors.New("description is longer than 1024 characters")
)
