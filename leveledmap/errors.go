package leveledmap

import "errors"

var (
	// ErrKeyNotFound reports that the requested key is not in the map.
	ErrKeyNotFound = errors.New("leveledmap: key not found")
	// ErrOutOfRange reports that the key exists but has no neighbor on the
	// requested side: NextKey on the largest key, PreviousKey on the
	// smallest.
	ErrOutOfRange = errors.New("leveledmap: no key beyond this extremity")
)
