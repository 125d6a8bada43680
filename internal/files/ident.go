package files

import "github.com/google/uuid"

// Allocator produces process-unique identifiers. The same identifier binds a
// tree entry, its content pane and the activation script together, so it is
// allocated exactly once per discovered file and threaded through all three.
type Allocator func() uuid.UUID

// NewAllocator returns the default random allocator.
func NewAllocator() Allocator {
	return uuid.New
}
