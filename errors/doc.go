// Package errors provides standardized error handling patterns for reltrack
// components. It includes error classification, standard error variables,
// and helper functions for consistent error wrapping and classification
// across the system.
//
// The tracker core itself follows a silent-tolerance philosophy: void
// mutations (re-adding an entity, deleting an absent relation) are no-ops,
// not errors. This package serves the surrounding machinery instead:
// configuration loading, the metrics HTTP server, input scanning, and output
// emission, where failures are real and must carry context.
package errors
