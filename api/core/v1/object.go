package corev1

import (
	"encoding/json"
	"fmt"
	"io"
)

// ObjectData is the raw payload the repository service returns for one PID.
type ObjectData struct {
	Pid         string              `json:"pid"`
	Models      []string            `json:"models,omitempty"`
	Metadata    map[string][]string `json:"metadata,omitempty"`
	Datastreams []string            `json:"datastreams,omitempty"`
	Parents     []string            `json:"parents,omitempty"`
	Sequences   []string            `json:"sequences,omitempty"`
	Details     map[string][]string `json:"details,omitempty"`
	Relations   map[string][]string `json:"relations,omitempty"`
}

// ExtraDetails is the bundle produced by the extraction collaborator.
type ExtraDetails struct {
	FullText        []string            `json:"full_text,omitempty"`
	Technical       map[string][]string `json:"technical,omitempty"`
	LicenseURLs     []string            `json:"license_urls,omitempty"`
	ThumbnailHashes []string            `json:"thumbnail_hashes,omitempty"`
}

func (obj *ObjectData) GetPid() string {
	if obj == nil {
		return ""
	}

	return obj.Pid
}

func (obj *ObjectData) LoadFromReader(reader io.Reader) ([]byte, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	err = json.Unmarshal(data, obj)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return data, nil
}

func (d *ExtraDetails) LoadFromReader(reader io.Reader) ([]byte, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	err = json.Unmarshal(data, d)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return data, nil
}
