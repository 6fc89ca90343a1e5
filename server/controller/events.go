// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"context"
	"strings"

	"github.com/vudl/hierarchy/server/types"
	"github.com/vudl/hierarchy/utils/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var eventsLogger = logging.Logger("controller/events")

// Action is what a repository change event does to the search index.
type Action string

const (
	ActionIndex  Action = "index"
	ActionDelete Action = "delete"
)

// Event is a repository change notification. ID is the URI of the changed
// object or datastream; Type ends with "#<action>".
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Indexer keeps the search index up to date.
type Indexer interface {
	IndexPID(ctx context.Context, pid string) (types.Document, error)
	DeletePID(ctx context.Context, pid string) error
}

// Purger drops cached repository payloads of an object.
type Purger interface {
	Purge(ctx context.Context, pid string) error
}

type EventController struct {
	indexer Indexer
	purger  Purger
	baseURL string
}

type EventOption func(*EventController)

// WithPurger drops the cached payloads of every changed object before the
// index is updated, so reindexing reads the current repository state.
func WithPurger(purger Purger) EventOption {
	return func(c *EventController) {
		c.purger = purger
	}
}

// NewEventController handles events whose IDs start with baseURL.
func NewEventController(indexer Indexer, baseURL string, opts ...EventOption) *EventController {
	c := &EventController{
		indexer: indexer,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Handle applies one change event to the index.
func (c *EventController) Handle(ctx context.Context, event Event) (Action, error) {
	eventsLogger.Debug("Called event controller's Handle method", "event", event)

	pid, datastream, err := c.parseID(event.ID)
	if err != nil {
		return "", err
	}

	action := event.Type[strings.LastIndex(event.Type, "#")+1:]
	if action == "" {
		return "", status.Errorf(codes.InvalidArgument, "missing type in event")
	}

	// a deleted datastream changes its object, it does not remove it
	if datastream != "" && (action == "Delete" || action == "Purge") {
		eventsLogger.Info("Datastream deleted, updating object", "pid", pid, "datastream", datastream)

		action = "Update"
	}

	switch action {
	case "Create", "Update", "Delete", "Purge":
		if c.purger != nil {
			if err := c.purger.Purge(ctx, pid); err != nil {
				return "", status.Errorf(codes.Unavailable, "failed to purge cached payload of %s: %v", pid, err)
			}
		}
	}

	switch action {
	case "Create", "Update":
		if _, err := c.indexer.IndexPID(ctx, pid); err != nil {
			st := status.Convert(err)

			return "", status.Errorf(st.Code(), "failed to index: %s", st.Message())
		}

		return ActionIndex, nil

	case "Delete", "Purge":
		if err := c.indexer.DeletePID(ctx, pid); err != nil {
			st := status.Convert(err)

			return "", status.Errorf(st.Code(), "failed to delete: %s", st.Message())
		}

		return ActionDelete, nil

	default:
		eventsLogger.Error("Unexpected event action", "action", action, "pid", pid)

		return "", status.Errorf(codes.InvalidArgument, "unexpected action: %s (on PID: %s)", action, pid)
	}
}

func (c *EventController) parseID(id string) (string, string, error) {
	rest := strings.TrimPrefix(id, c.baseURL)
	parts := strings.Split(strings.TrimPrefix(rest, "/"), "/")

	if len(parts) == 0 || parts[0] == "" {
		return "", "", status.Errorf(codes.InvalidArgument, "missing id in event")
	}

	datastream := ""
	if len(parts) > 1 {
		datastream = parts[1]
	}

	return parts[0], datastream, nil
}
