// Package apierrors provides structured error types for apiids.
//
// Import path: github.com/sdmap/apiids/apierrors
//
// The types let callers tell apart the ways a normalization run can fail via
// [errors.Is] and [errors.As], so a batch run can decide whether to skip a
// single fixture or abort.
//
// # Error Types
//
//   - [ParseError]: a fixture file is not valid JSON or not a JSON object
//   - [IOError]: a fixture file could not be read or written
//   - [PatternError]: a pattern table entry does not compile
//   - [ConfigError]: invalid configuration or command-line options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrIO]: Matches any [IOError]
//   - [ErrPattern]: Matches any [PatternError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
//	res, err := n.ProcessFile("ACR03/ACR03.json")
//	if errors.Is(err, apierrors.ErrParse) {
//	    // malformed fixture, skip it
//	}
//
//	var ioErr *apierrors.IOError
//	if errors.As(err, &ioErr) && errors.Is(ioErr.Cause, os.ErrPermission) {
//	    // fixture is read-only
//	}
package apierrors
