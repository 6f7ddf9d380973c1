package types

import "github.com/m-mizutani/goerr/v2"

var (
	ErrMissingToken  = goerr.New("missing GitHub token in the environment")
	ErrInvalidEvent  = goerr.New("invalid release event")
	ErrInvalidConfig = goerr.New("invalid configuration")
)
