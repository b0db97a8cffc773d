package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"0", 0},
		{"42", 42},
		{" 42 ", 42},
		{"45.7", 45},
		{"1,204", 1204},
		{"12,345,678", 12345678},
		{"1.2k", 1200},
		{"1.2K", 1200},
		{"12k", 12000},
		{"1,2k", 1200},
		{"3.4M", 0},
		{"-5", 0},
		{"-1.2k", 0},
		{"abc", 0},
		{"↑ 45", 0},
		{"k", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseCount(c.in), "ParseCount(%q)", c.in)
	}
}

func TestMetricValue(t *testing.T) {
	assert.Equal(t, 0, Metric("").Value())
	assert.Equal(t, 1200, Metric("1.2k").Value())
	assert.Equal(t, 7, MetricFromInt(7).Value())
	assert.True(t, Metric("").IsZero())
	assert.False(t, Metric("0").IsZero())
}

func TestMetricUnmarshalJSON(t *testing.T) {
	var v struct {
		Upvotes Metric `json:"upvotes"`
		Stars   Metric `json:"stars"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"upvotes": 42, "stars": "1.2k"}`), &v))
	assert.Equal(t, 42, v.Upvotes.Value())
	assert.Equal(t, 1200, v.Stars.Value())
}

func TestMetricUnmarshalYAML(t *testing.T) {
	var v struct {
		Upvotes Metric `yaml:"upvotes"`
		Stars   Metric `yaml:"stars"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("upvotes: 42\nstars: \"3,400\"\n"), &v))
	assert.Equal(t, 42, v.Upvotes.Value())
	assert.Equal(t, 3400, v.Stars.Value())
}
