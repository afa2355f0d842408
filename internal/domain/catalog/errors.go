package catalog

import "errors"

// ErrConfig reports a malformed or inconsistent catalog. It is fatal at startup.
var ErrConfig = errors.New("catalog config error")
