package bridge

import "errors"

var (
	ErrInitTimeout = errors.New("avatar did not finish loading in time")
	ErrPageClosed  = errors.New("avatar page connection closed")
	ErrPageBusy    = errors.New("an avatar page is already waiting to connect")
)

// SDKError is an error reported by the avatar SDK running in the page.
type SDKError struct {
	Message string
}

func (e *SDKError) Error() string {
	return "avatar sdk error: " + e.Message
}
