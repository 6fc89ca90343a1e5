// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package containment

import (
	"fmt"
	"strings"

	"github.com/vudl/hierarchy/server/object"
)

// Rule requires a parent model whenever the child carries ChildModel.
type Rule struct {
	ChildModel          string
	RequiredParentModel string
}

// DefaultRules encode the containment lattice
// Folder ⊇ Folder, Folder ⊇ Resource ⊇ List ⊇ Data. Order matters: the first
// failing rule produces the violation.
var DefaultRules = []Rule{
	{ChildModel: object.ModelData, RequiredParentModel: object.ModelList},
	{ChildModel: object.ModelList, RequiredParentModel: object.ModelResource},
	{ChildModel: object.ModelResource, RequiredParentModel: object.ModelFolder},
	{ChildModel: object.ModelFolder, RequiredParentModel: object.ModelFolder},
}

func (r Rule) message() string {
	return fmt.Sprintf("%s objects must be contained by a %s",
		strings.TrimPrefix(r.ChildModel, object.ModelNamespace),
		strings.TrimPrefix(r.RequiredParentModel, object.ModelNamespace),
	)
}

// Kind classifies a violation.
type Kind int

const (
	KindContainment Kind = iota + 1
	KindCycle
)

func (k Kind) String() string {
	switch k {
	case KindContainment:
		return "ContainmentViolation"
	case KindCycle:
		return "CycleDetected"
	default:
		return "Unknown"
	}
}

// Violation is a human-readable verdict. It is a value shown to end users, not an error.
type Violation struct {
	Kind    Kind
	Message string
}

func (v *Violation) String() string {
	if v == nil {
		return ""
	}

	return v.Message
}
