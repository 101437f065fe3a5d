package platform

import "errors"

// ErrElevationDeclined indicates the user rejected the UAC prompt.
var ErrElevationDeclined = errors.New("administrator elevation declined")
