// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NotFoundError reports a PID that the repository does not know.
func NotFoundError(pid string) error {
	return status.Errorf(codes.NotFound, "object not found: %s", pid)
}

// UpstreamError reports a transport or service failure of a collaborator.
func UpstreamError(format string, args ...any) error {
	return status.Errorf(codes.Unavailable, format, args...)
}

// IsNotFound reports whether err carries a codes.NotFound status.
func IsNotFound(err error) bool {
	return err != nil && status.Code(err) == codes.NotFound
}

// IsUpstream reports whether err carries a codes.Unavailable status.
func IsUpstream(err error) bool {
	return err != nil && status.Code(err) == codes.Unavailable
}

// ContextError converts a context error into its status equivalent.
func ContextError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}

	return err
}
