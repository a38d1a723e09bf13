package cli

import "errors"

// Common CLI errors
var (
	ErrSeedSchema  = errors.New("failed to register resource type")
	ErrInvalidVerb = errors.New("verb must be a single word")
)
