// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package validation

import (
	"strings"
	"testing"

	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one non-nil instance")
	}
}

type roomRequest struct {
	RoomID     string   `json:"room_id" validate:"required,roomid"`
	Kind       string   `json:"media_kind" validate:"required,mediakind"`
	ContentIDs []string `json:"content_ids" validate:"max=3,dive,contentid"`
	TTL        int64    `json:"ttl_seconds" validate:"omitempty,min=60,max=86400"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     roomRequest
		wantField string
		wantTag   string
	}{
		{"valid", roomRequest{RoomID: "room-1:a", Kind: "movie", ContentIDs: []string{"550", "tt-1"}}, "", ""},
		{"valid ttl", roomRequest{RoomID: "r", Kind: "TV", TTL: 3600}, "", ""},
		{"missing room", roomRequest{Kind: "MOVIE"}, "room_id", "required"},
		{"slash in room", roomRequest{RoomID: "a/b", Kind: "MOVIE"}, "room_id", "roomid"},
		{"room too long", roomRequest{RoomID: strings.Repeat("a", 129), Kind: "MOVIE"}, "room_id", "roomid"},
		{"bad kind", roomRequest{RoomID: "r", Kind: "BOOK"}, "media_kind", "mediakind"},
		{"bad content id", roomRequest{RoomID: "r", Kind: "TV", ContentIDs: []string{"ok", "no spaces"}}, "content_ids[1]", "contentid"},
		{"too many ids", roomRequest{RoomID: "r", Kind: "TV", ContentIDs: []string{"1", "2", "3", "4"}}, "content_ids", "max"},
		{"ttl too short", roomRequest{RoomID: "r", Kind: "TV", TTL: 5}, "ttl_seconds", "min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.input)
			if tt.wantTag == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() should have failed")
			}
			found := false
			for _, e := range verr.Errors() {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
				}
			}
			if !found {
				t.Errorf("want %s/%s, got %v", tt.wantField, tt.wantTag, verr.Errors())
			}
		})
	}
}

func TestValidateStruct_FilterCriteria(t *testing.T) {
	tests := []struct {
		name    string
		filter  models.FilterCriteria
		wantErr bool
	}{
		{"movie", models.FilterCriteria{MediaKind: models.MediaKindMovie, GenreIDs: []int{28, 12}}, false},
		{"tv sorted", models.FilterCriteria{MediaKind: models.MediaKindTV, SortBy: "vote_average.desc"}, false},
		{"missing kind", models.FilterCriteria{}, true},
		{"lowercase kind", models.FilterCriteria{MediaKind: "movie"}, true},
		{"zero genre", models.FilterCriteria{MediaKind: models.MediaKindMovie, GenreIDs: []int{0}}, true},
		{"bad sort", models.FilterCriteria{MediaKind: models.MediaKindMovie, SortBy: "random"}, true},
		{"too many genres", models.FilterCriteria{MediaKind: models.MediaKindMovie, GenreIDs: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.filter)
			if (verr != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() = %v, wantErr %v", verr, tt.wantErr)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&roomRequest{Kind: "MOVIE"})
	if single == nil {
		t.Fatal("expected an error")
	}
	apiErr := single.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "room_id" {
		t.Errorf("Details[field] = %v, want room_id", apiErr.Details["field"])
	}
	if apiErr.Message != "room_id is required" {
		t.Errorf("Message = %q", apiErr.Message)
	}

	multi := ValidateStruct(&roomRequest{})
	if multi == nil {
		t.Fatal("expected an error")
	}
	apiErr = multi.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Errorf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "room_id: ") || !strings.Contains(apiErr.Message, "media_kind: ") {
		t.Errorf("Message = %q, want both fields listed", apiErr.Message)
	}
}

func TestTranslateMinMaxUnits(t *testing.T) {
	type req struct {
		Name  string `json:"name" validate:"min=3"`
		Items []int  `json:"items" validate:"min=2"`
		Count int    `json:"count" validate:"max=1"`
	}
	verr := ValidateStruct(&req{Name: "a", Items: []int{1}, Count: 5})
	if verr == nil {
		t.Fatal("expected errors")
	}
	want := map[string]string{
		"name":  "name must be at least 3 characters",
		"items": "items must be at least 2 items",
		"count": "count must be at most 1",
	}
	for _, e := range verr.Errors() {
		if want[e.Field()] != e.Error() {
			t.Errorf("%s: message %q, want %q", e.Field(), e.Error(), want[e.Field()])
		}
	}
}
