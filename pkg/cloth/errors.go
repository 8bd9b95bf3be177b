package cloth

import "errors"

// Construction errors. They are wrapped with details, test with errors.Is.
var (
	ErrMissingMeshAttribute      = errors.New("mesh is missing a required attribute")
	ErrUnsupportedPositionFormat = errors.New("unsupported vertex position attribute, only Float32x3 is supported")
	ErrInvalidMeshAttribute      = errors.New("invalid mesh attribute")
	ErrMissingIndices            = errors.New("cloth requires meshes with indexed geometry")
)
