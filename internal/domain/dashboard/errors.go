package dashboard

import "errors"

var (
	ErrDatasetNotLoaded = errors.New("dataset has not been loaded")
)
