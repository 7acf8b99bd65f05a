package supplier

import (
	"strconv"
	"strings"

	"supplier_server/pkg/apperr"
)

// CheckVersion is the optimistic-concurrency guard: it decides whether a
// write may proceed given the stored version and the caller-supplied version
// token (the If-Match header value, with or without ETag quotes).
//
// A token below the stored version is a stale write and is rejected. A token
// above the stored version is accepted; the guard is lenient upward. The
// guard never mutates anything.
func CheckVersion(storedVersion int, supplied string) error {
	token := strings.TrimSpace(supplied)
	token = strings.Trim(token, `"`)

	version, err := strconv.Atoi(token)
	if err != nil {
		return apperr.InvalidVersion(supplied).WithError(err)
	}
	if version < storedVersion {
		return apperr.InvalidVersion(supplied)
	}
	return nil
}
