package icaltime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		params  map[string][]string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "utc date-time",
			value: "20240115T093000Z",
			want:  time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "floating date-time defaults to utc",
			value: "20240115T093000",
			want:  time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name:   "declared date value",
			value:  "20240115",
			params: map[string][]string{"VALUE": {"DATE"}},
			want:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "bare date falls back to midnight utc",
			value: "20240115",
			want:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace",
			value: " 20240115T093000Z ",
			want:  time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name:    "empty",
			value:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			value:   "YESTERDAY",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.value, tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseList(t *testing.T) {
	got, err := ParseList("20240101T090000Z,20240102T090000Z, 20240103T090000Z", nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, want := range []int{1, 2, 3} {
		assert.True(t, got[i].Equal(time.Date(2024, 1, want, 9, 0, 0, 0, time.UTC)))
	}
}

func TestParseListPropagatesErrors(t *testing.T) {
	_, err := ParseList("20240101T090000Z,oops", nil)
	assert.Error(t, err)
}

func TestParseListSkipsEmptyEntries(t *testing.T) {
	got, err := ParseList("20240101T090000Z,,", nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
