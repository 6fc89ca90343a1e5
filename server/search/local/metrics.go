// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/ipfs/go-datastore"
	"github.com/vudl/hierarchy/server/types"
)

var metricsKey = datastore.NewKey("/metrics")

type labelMetric struct {
	Total uint64 `json:"total"`
}

// metrics counts the documents carrying each label.
type metrics struct {
	Data map[string]labelMetric `json:"data"`
}

func loadMetrics(ctx context.Context, dstore types.Datastore) (*metrics, error) {
	m := &metrics{Data: make(map[string]labelMetric)}

	raw, err := dstore.Get(ctx, metricsKey)
	if errors.Is(err, datastore.ErrNotFound) {
		return m, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read metrics: %w", err)
	}

	if err := json.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("failed to decode metrics: %w", err)
	}

	if m.Data == nil {
		m.Data = make(map[string]labelMetric)
	}

	return m, nil
}

func (m *metrics) increment(label string) {
	metric := m.Data[label]
	metric.Total++
	m.Data[label] = metric
}

func (m *metrics) decrement(label string) {
	metric, ok := m.Data[label]
	if !ok {
		return
	}

	if metric.Total <= 1 {
		delete(m.Data, label)

		return
	}

	metric.Total--
	m.Data[label] = metric
}

func (m *metrics) total(label string) uint64 {
	return m.Data[label].Total
}

func (m *metrics) labels() []string {
	labels := make([]string, 0, len(m.Data))
	for label := range m.Data {
		labels = append(labels, label)
	}

	slices.Sort(labels)

	return labels
}

func (m *metrics) update(ctx context.Context, dstore types.Datastore) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}

	if err := dstore.Put(ctx, metricsKey, raw); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}

	return nil
}
