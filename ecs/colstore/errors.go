package colstore

import "errors"

var (
	// ErrInvalidKind is returned when a field uses an undefined Kind.
	ErrInvalidKind = errors.New("colstore: invalid kind")

	// ErrArrayLength is returned when an array field length is outside 1..MaxArrayLen.
	ErrArrayLength = errors.New("colstore: unsupported array length")

	// ErrFieldName is returned for empty or repeated field names.
	ErrFieldName = errors.New("colstore: invalid field name")

	// ErrTooManyComponents is returned when a world would track more than MaxComponents handles.
	ErrTooManyComponents = errors.New("colstore: too many component handles in world")

	// ErrAttached is returned when attaching a handle an entity already carries.
	ErrAttached = errors.New("colstore: handle already attached")

	// ErrDeadEntity is returned when operating on an entity that is not alive.
	ErrDeadEntity = errors.New("colstore: entity is not alive")
)
