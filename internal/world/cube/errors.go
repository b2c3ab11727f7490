package cube

import "github.com/pkg/errors"

var (
	// ErrInvalidEdge is returned for edge identifiers outside [0, EdgeCount).
	ErrInvalidEdge = errors.New("invalid edge")
	// ErrInvalidCorner is returned for corner identifiers outside [0, CornerCount).
	ErrInvalidCorner = errors.New("invalid corner")
	// ErrInvalidValue is returned for contraction values outside [0, 1).
	ErrInvalidValue = errors.New("invalid contraction value")
)
