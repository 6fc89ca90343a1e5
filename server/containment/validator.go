// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package containment

import (
	"context"
	"fmt"
	"slices"

	"github.com/vudl/hierarchy/server/object"
	"github.com/vudl/hierarchy/utils/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var logger = logging.Logger("containment")

// Resolver loads records for subjects given by PID.
type Resolver interface {
	GetObjectData(ctx context.Context, pid string) (*object.Record, error)
	GetHierarchy(ctx context.Context, pid string, shallow bool) (*object.Record, error)
}

type Validator struct {
	trashPID string
	rules    []Rule
	resolver Resolver
}

type Option func(*Validator)

// WithTrashPID sets the container that accepts objects of any model.
func WithTrashPID(pid string) Option {
	return func(v *Validator) {
		v.trashPID = pid
	}
}

func WithRules(rules []Rule) Option {
	return func(v *Validator) {
		v.rules = slices.Clone(rules)
	}
}

// WithResolver enables PID subjects in CheckForErrors.
func WithResolver(resolver Resolver) Option {
	return func(v *Validator) {
		v.resolver = resolver
	}
}

func New(opts ...Option) *Validator {
	v := &Validator{
		rules: slices.Clone(DefaultRules),
	}
	for _, opt := range opts {
		opt(v)
	}

	return v
}

// CheckForParentModelErrors validates that a parent with parentModels may contain a
// child with childModels. It returns nil when the relationship is legal.
func (v *Validator) CheckForParentModelErrors(parentPID string, parentModels, childModels []string) *Violation {
	// anything is allowed to go in the trash
	if v.trashPID != "" && v.trashPID == parentPID {
		return nil
	}

	if !object.HasModel(parentModels, object.ModelCollection) {
		return &Violation{
			Kind:    KindContainment,
			Message: fmt.Sprintf("Illegal parent %s; not a collection!", parentPID),
		}
	}

	for _, rule := range v.rules {
		if object.HasModel(childModels, rule.ChildModel) && !object.HasModel(parentModels, rule.RequiredParentModel) {
			return &Violation{Kind: KindContainment, Message: rule.message()}
		}
	}

	return nil
}

// CheckForParentLoopErrors rejects a relationship that would make childPID its own
// parent or ancestor. The parent must carry its resolved ancestor graph.
func (v *Validator) CheckForParentLoopErrors(childPID string, parent *object.Record) *Violation {
	if childPID == parent.PID() {
		return &Violation{Kind: KindCycle, Message: "Object cannot be its own parent."}
	}

	if slices.Contains(parent.AllParents(), childPID) {
		return &Violation{Kind: KindCycle, Message: "Object cannot be its own grandparent."}
	}

	return nil
}

// Subject is either a PID to resolve or an already resolved record.
type Subject struct {
	pid    string
	record *object.Record
}

func PID(pid string) Subject { return Subject{pid: pid} }

func Resolved(record *object.Record) Subject { return Subject{record: record} }

// CheckForErrors runs the loop check and then the model check for a proposed
// child/parent pair. A child given by PID is fetched without ancestors, a parent
// given by PID is resolved with its full ancestor graph.
func (v *Validator) CheckForErrors(ctx context.Context, child, parent Subject) (*Violation, error) {
	childRecord, err := v.resolve(ctx, child, false)
	if err != nil {
		st := status.Convert(err)

		return nil, status.Errorf(st.Code(), "failed to load child: %s", st.Message())
	}

	parentRecord, err := v.resolve(ctx, parent, true)
	if err != nil {
		st := status.Convert(err)

		return nil, status.Errorf(st.Code(), "failed to load parent: %s", st.Message())
	}

	if violation := v.CheckForParentLoopErrors(childRecord.PID(), parentRecord); violation != nil {
		logger.Debug("Rejected relationship", "child", childRecord.PID(), "parent", parentRecord.PID(), "reason", violation.Message)

		return violation, nil
	}

	if violation := v.CheckForParentModelErrors(parentRecord.PID(), parentRecord.Models(), childRecord.Models()); violation != nil {
		logger.Debug("Rejected relationship", "child", childRecord.PID(), "parent", parentRecord.PID(), "reason", violation.Message)

		return violation, nil
	}

	return nil, nil //nolint:nilnil
}

func (v *Validator) resolve(ctx context.Context, subject Subject, withAncestors bool) (*object.Record, error) {
	if subject.record != nil {
		return subject.record, nil
	}

	if subject.pid == "" {
		return nil, status.Error(codes.InvalidArgument, "subject must have a PID or a record")
	}

	if v.resolver == nil {
		return nil, status.Error(codes.FailedPrecondition, "no resolver configured for PID subjects")
	}

	if withAncestors {
		return v.resolver.GetHierarchy(ctx, subject.pid, false)
	}

	return v.resolver.GetObjectData(ctx, subject.pid)
}
