// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTierAttempt(t *testing.T) {
	before := testutil.ToFloat64(FallbackTierAttempts.WithLabelValues("upstream", "failed"))
	RecordTierAttempt("upstream", "failed", 5*time.Millisecond)
	RecordTierAttempt("upstream", "failed", 7*time.Millisecond)

	after := testutil.ToFloat64(FallbackTierAttempts.WithLabelValues("upstream", "failed"))
	if after-before != 2 {
		t.Errorf("upstream/failed delta = %v, want 2", after-before)
	}
}

func TestRecordStoreOperation(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantDelta float64
	}{
		{"success", nil, 0},
		{"failure", errors.New("badger closed"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := "get_by_index_" + tt.name
			before := testutil.ToFloat64(StoreOperationErrors.WithLabelValues(op))
			RecordStoreOperation(op, time.Millisecond, tt.err)
			after := testutil.ToFloat64(StoreOperationErrors.WithLabelValues(op))
			if after-before != tt.wantDelta {
				t.Errorf("error delta = %v, want %v", after-before, tt.wantDelta)
			}
		})
	}
}

func TestRecordUpstreamRequest(t *testing.T) {
	before200 := testutil.ToFloat64(UpstreamRequests.WithLabelValues("movie", "200"))
	beforeErr := testutil.ToFloat64(UpstreamRequests.WithLabelValues("tv", "error"))

	RecordUpstreamRequest("movie", 200, 10*time.Millisecond)
	RecordUpstreamRequest("tv", 0, time.Second)

	if d := testutil.ToFloat64(UpstreamRequests.WithLabelValues("movie", "200")) - before200; d != 1 {
		t.Errorf("movie/200 delta = %v", d)
	}
	if d := testutil.ToFloat64(UpstreamRequests.WithLabelValues("tv", "error")) - beforeErr; d != 1 {
		t.Errorf("tv/error delta = %v", d)
	}
}

func TestRecordEventPublished(t *testing.T) {
	before := testutil.ToFloat64(EventsPublished.WithLabelValues("batch_loaded", "error"))
	RecordEventPublished("batch_loaded", errors.New("closed"))
	if d := testutil.ToFloat64(EventsPublished.WithLabelValues("batch_loaded", "error")) - before; d != 1 {
		t.Errorf("delta = %v, want 1", d)
	}
}
