package views

import (
	"reflect"
	"testing"

	"github.com/ivishalgandhi/tw-cli-utils/backend"
)

func filterFixture() []backend.Task {
	return []backend.Task{
		{ID: "1", Description: "Fix login bug", Project: "web", Status: backend.StatusPending, Priority: backend.PriorityHigh, Tags: []string{"auth"}, Urgency: 11.0, Due: daysAgo(-1)},
		{ID: "2", Description: "Write docs", Project: "web", Status: backend.StatusCompleted, Urgency: 2.0},
		{ID: "3", Description: "Plan sprint", Project: "ops", Status: backend.StatusPending, Priority: backend.PriorityMedium, Urgency: 5.5},
	}
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters []Filter
		want    []string
	}{
		{
			name:    "no filters keeps everything",
			filters: nil,
			want:    []string{"1", "2", "3"},
		},
		{
			name:    "status ne completed",
			filters: []Filter{{Field: "status", Operator: "ne", Value: "completed"}},
			want:    []string{"1", "3"},
		},
		{
			name:    "case-insensitive eq",
			filters: []Filter{{Field: "project", Operator: "eq", Value: "WEB"}},
			want:    []string{"1", "2"},
		},
		{
			name:    "description contains",
			filters: []Filter{{Field: "description", Operator: "contains", Value: "bug"}},
			want:    []string{"1"},
		},
		{
			name:    "priority in list",
			filters: []Filter{{Field: "priority", Operator: "in", Value: "H,M"}},
			want:    []string{"1", "3"},
		},
		{
			name:    "tags contains",
			filters: []Filter{{Field: "tags", Operator: "contains", Value: "auth"}},
			want:    []string{"1"},
		},
		{
			name:    "urgency gte",
			filters: []Filter{{Field: "urgency", Operator: "gte", Value: "5.5"}},
			want:    []string{"1", "3"},
		},
		{
			name:    "due none matches missing dates",
			filters: []Filter{{Field: "due", Operator: "eq", Value: "none"}},
			want:    []string{"2", "3"},
		},
		{
			name:    "due before date",
			filters: []Filter{{Field: "due", Operator: "lte", Value: "2026-01-21"}},
			want:    []string{"1"},
		},
		{
			name: "filters combine with and",
			filters: []Filter{
				{Field: "project", Operator: "eq", Value: "web"},
				{Field: "status", Operator: "eq", Value: "pending"},
			},
			want: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(ApplyFilters(filterFixture(), tt.filters))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ApplyFilters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterValidate(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{"valid string filter", Filter{Field: "status", Operator: "eq", Value: "pending"}, false},
		{"valid numeric filter", Filter{Field: "urgency", Operator: "gt", Value: "5"}, false},
		{"unknown field", Filter{Field: "sprint", Operator: "eq", Value: "x"}, true},
		{"bad operator for text", Filter{Field: "project", Operator: "gt", Value: "x"}, true},
		{"bad operator for urgency", Filter{Field: "urgency", Operator: "contains", Value: "5"}, true},
		{"non-numeric urgency value", Filter{Field: "urgency", Operator: "gt", Value: "high"}, true},
		{"valid due filter", Filter{Field: "due", Operator: "lt", Value: "2026-02-01"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
