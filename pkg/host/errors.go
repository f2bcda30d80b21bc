package host

import (
	"errors"

	serrors "github.com/vango-dev/streambind/internal/errors"
)

var (
	// ErrUnmounted is returned when a root is used before Mount or after Unmount.
	ErrUnmounted = errors.New("host: component not mounted")

	// ErrAlreadyMounted is returned by a second Mount.
	ErrAlreadyMounted = errors.New("host: component already mounted")

	// ErrLoopClosed is returned when work is submitted to a closed loop.
	ErrLoopClosed = errors.New("host: loop closed")
)

func unmountedError(root string) error {
	return serrors.New("E002").WithDetailf("root %s", root).Wrap(ErrUnmounted)
}

func alreadyMountedError(root string) error {
	return serrors.New("E003").WithDetailf("root %s", root).Wrap(ErrAlreadyMounted)
}

func loopClosedError() error {
	return serrors.New("E004").Wrap(ErrLoopClosed)
}
