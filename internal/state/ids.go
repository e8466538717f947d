package state

import (
	"github.com/google/uuid"
)

// NewID is the id source for strokes and pages. Tests replace it to get
// stable ids.
var NewID = uuid.NewString
