package repository

import "errors"

// ErrDuplicate reports a unique-constraint violation on insert.
var ErrDuplicate = errors.New("duplicate key")

// ErrUnavailable reports that the datastore connection or transaction can no
// longer be used. It is never a per-row condition.
var ErrUnavailable = errors.New("datastore unavailable")
