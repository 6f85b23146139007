package speechtotext

import "errors"

var (
	ErrAlreadyRecognizing = errors.New("recognition already in progress")
	ErrNotRecognizing     = errors.New("no recognition in progress")
)
