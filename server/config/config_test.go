// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

//nolint:testifylint
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	localfsconfig "github.com/vudl/hierarchy/server/store/localfs/config"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		Name           string
		EnvVars        map[string]string
		ExpectedConfig *Config
	}{
		{
			Name: "Custom config",
			EnvVars: map[string]string{
				"VUDL_TRASH_PID":                        "vudl:trash",
				"VUDL_TOP_LEVEL_PIDS":                   "vudl:1,vudl:3",
				"VUDL_REPOSITORY_LOCAL_DIR":             "/data/objects",
				"VUDL_CACHE_ENABLED":                    "true",
				"VUDL_CACHE_DIR":                        "/data/cache",
				"VUDL_DOCUMENT_CACHE_DIR":               "/data/docs",
				"VUDL_SEARCH_BACKEND":                   "sqlite",
				"VUDL_SEARCH_SQLITE_PATH":               "/data/search.db",
				"VUDL_COLLECTOR_MAX_CONCURRENT_FETCHES": "4",
				"VUDL_EVENTS_BASE_URL":                  "http://fedora/rest",
			},
			ExpectedConfig: &Config{
				TrashPID:      "vudl:trash",
				TopLevelPIDs:  []string{"vudl:1", "vudl:3"},
				Repository:    localfsconfig.Config{LocalDir: "/data/objects"},
				Cache:         CacheConfig{Enabled: true, Dir: "/data/cache"},
				DocumentCache: DocumentCacheConfig{Dir: "/data/docs"},
				Search: SearchConfig{
					Backend:    SearchBackendSQLite,
					SQLitePath: "/data/search.db",
				},
				Collector: CollectorConfig{MaxConcurrentFetches: 4},
				Events:    EventsConfig{BaseURL: "http://fedora/rest"},
			},
		},
		{
			Name:    "Default config",
			EnvVars: map[string]string{},
			ExpectedConfig: &Config{
				Repository: localfsconfig.Config{LocalDir: localfsconfig.DefaultDir},
				Search:     SearchConfig{Backend: DefaultSearchBackend},
				Collector:  CollectorConfig{MaxConcurrentFetches: DefaultMaxConcurrentFetches},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			for k, v := range test.EnvVars {
				t.Setenv(k, v)
			}

			config, err := LoadConfig()
			assert.NoError(t, err)
			assert.Equal(t, *test.ExpectedConfig, *config)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vudl.yml")
	content := `
trash_pid: vudl:999
top_level_pids:
  - vudl:1
repository:
  local_dir: /srv/objects
search:
  backend: datastore
  datastore_dir: /srv/search
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("VUDL_TRASH_PID", "vudl:override")

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "vudl:override", config.TrashPID)
	assert.Equal(t, []string{"vudl:1"}, config.TopLevelPIDs)
	assert.Equal(t, "/srv/objects", config.Repository.LocalDir)
	assert.Equal(t, "/srv/search", config.Search.DatastoreDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "datastore backend",
			config: Config{Search: SearchConfig{Backend: SearchBackendDatastore}, Collector: CollectorConfig{MaxConcurrentFetches: 1}},
		},
		{
			name:    "sqlite without path",
			config:  Config{Search: SearchConfig{Backend: SearchBackendSQLite}, Collector: CollectorConfig{MaxConcurrentFetches: 1}},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			config:  Config{Search: SearchConfig{Backend: "solr"}, Collector: CollectorConfig{MaxConcurrentFetches: 1}},
			wantErr: true,
		},
		{
			name:    "no fetch concurrency",
			config:  Config{Search: SearchConfig{Backend: SearchBackendDatastore}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
