// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package context

import (
	"context"

	"github.com/vudl/hierarchy/server"
)

type serverContextKeyType string

const serverContextKey serverContextKeyType = "ContextServer"

func SetServerForContext(ctx context.Context, srv *server.Server) context.Context {
	return context.WithValue(ctx, serverContextKey, srv)
}

func GetServerFromContext(ctx context.Context) (*server.Server, bool) {
	srv, ok := ctx.Value(serverContextKey).(*server.Server)

	return srv, ok && srv != nil
}
