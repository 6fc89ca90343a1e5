// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package config

const DefaultDir = "/var/lib/vudl/objects"

type Config struct {
	// Directory holding one JSON payload per object.
	LocalDir string `json:"local_dir,omitempty" mapstructure:"local_dir"`
}
