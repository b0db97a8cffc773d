package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metric is an engagement count as reported by a source. APIs return
// integers while scraped pages yield strings such as "1,204" or "1.2k";
// the raw form is kept and parsed on demand.
type Metric string

// MetricFromInt converts an integer count into a Metric.
func MetricFromInt(n int) Metric {
	if n == 0 {
		return ""
	}
	return Metric(strconv.Itoa(n))
}

// Value parses the metric with ParseCount.
func (m Metric) Value() int { return ParseCount(string(m)) }

// IsZero reports whether no count was reported.
func (m Metric) IsZero() bool { return strings.TrimSpace(string(m)) == "" }

// UnmarshalJSON accepts both JSON numbers and strings.
func (m *Metric) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = Metric(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*m = Metric(n.String())
	return nil
}

// UnmarshalYAML accepts both YAML numbers and strings.
func (m *Metric) UnmarshalYAML(node *yaml.Node) error {
	*m = Metric(node.Value)
	return nil
}

// ParseCount converts a loosely formatted count into a non-negative int.
// Thousands separators are dropped and a trailing k/K multiplies the value
// by 1000, so "1,204" parses to 1204 and "1.2k" to 1200. Anything
// unparsable, and any negative value, counts as zero.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	mult := 1.0
	if strings.HasSuffix(s, "k") || strings.HasSuffix(s, "K") {
		mult = 1000
		s = strings.TrimSpace(s[:len(s)-1])
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if mult != 1 {
		f = math.Round(f * mult)
	}
	n := int(f)
	if n < 0 {
		return 0
	}
	return n
}
