// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"slices"
	"strings"
)

// ModelNamespace prefixes every model tag known to the repository.
const ModelNamespace = "vudl-system:"

const (
	ModelCore       = ModelNamespace + "CoreModel"
	ModelCollection = ModelNamespace + "CollectionModel"
	ModelData       = ModelNamespace + "DataModel"
	ModelFolder     = ModelNamespace + "FolderCollection"
	ModelResource   = ModelNamespace + "ResourceCollection"
	ModelList       = ModelNamespace + "ListCollection"
)

// HasModel reports whether models contains the given tag.
func HasModel(models []string, model string) bool {
	return slices.Contains(models, model)
}

// normalizeModel reduces a model URI such as info:fedora/vudl-system:DataModel to its tag.
func normalizeModel(model string) string {
	if i := strings.LastIndex(model, "/"); i >= 0 {
		return model[i+1:]
	}

	return model
}
