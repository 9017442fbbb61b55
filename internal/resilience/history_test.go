// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package resilience

import (
	"fmt"
	"testing"
)

func TestHistory_Recent(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		adds  int
		n     int
		want  string
		total uint64
	}{
		{"empty", 3, 0, 0, "[]", 0},
		{"partial", 5, 3, 0, "[a2 a1 a0]", 3},
		{"wrapped", 3, 5, 0, "[a4 a3 a2]", 5},
		{"limited", 5, 4, 2, "[a3 a2]", 4},
		{"zero size clamps to one", 0, 2, 0, "[a1]", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(tt.size)
			for i := 0; i < tt.adds; i++ {
				h.Add(Attempt{ID: fmt.Sprintf("a%d", i)})
			}
			var ids []string
			for _, a := range h.Recent(tt.n) {
				ids = append(ids, a.ID)
			}
			if got := fmt.Sprint(ids); got != tt.want {
				t.Errorf("Recent(%d) = %s, want %s", tt.n, got, tt.want)
			}
			if h.Total() != tt.total {
				t.Errorf("Total() = %d, want %d", h.Total(), tt.total)
			}
		})
	}
}
