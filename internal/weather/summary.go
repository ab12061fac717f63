package weather

import (
	"sort"
	"time"
)

// Day is one daily weather summary in the dashboard payload
type Day struct {
	Date      string  `json:"date"` // YYYY-MM-DD
	Day       string  `json:"day"`  // short label, e.g. "Mon"
	HighC     float64 `json:"highC"`
	LowC      float64 `json:"lowC"`
	Condition string  `json:"condition"`
	Icon      string  `json:"icon"`
}

const maxDays = 7

// summarize groups raw forecast samples by UTC calendar date and emits
// up to 7 daily summaries in ascending date order: high and low from
// the accumulated temperatures, condition and icon from an
// insertion-ordered mode over the samples' labels.
func summarize(samples []forecastSample) []Day {
	if len(samples) == 0 {
		return nil
	}

	type bucket struct {
		date       time.Time
		high, low  float64
		conditions *modeCounter
		icons      *modeCounter
	}

	var order []string
	buckets := make(map[string]*bucket)

	for _, s := range samples {
		t := time.Unix(s.Dt, 0).UTC()
		key := t.Format("2006-01-02")

		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				date:       t,
				high:       s.Main.Temp,
				low:        s.Main.Temp,
				conditions: newModeCounter(),
				icons:      newModeCounter(),
			}
			buckets[key] = b
			order = append(order, key)
		}

		if s.Main.Temp > b.high {
			b.high = s.Main.Temp
		}
		if s.Main.Temp < b.low {
			b.low = s.Main.Temp
		}
		if len(s.Weather) > 0 {
			b.conditions.Add(s.Weather[0].Main)
			b.icons.Add(s.Weather[0].Icon)
		}
	}

	// The feed is chronological so insertion order is already
	// ascending; the sort guards against out-of-order samples since
	// YYYY-MM-DD keys sort chronologically
	sort.Strings(order)
	if len(order) > maxDays {
		order = order[:maxDays]
	}

	days := make([]Day, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		days = append(days, Day{
			Date:      key,
			Day:       b.date.Format("Mon"),
			HighC:     b.high,
			LowC:      b.low,
			Condition: b.conditions.Mode(),
			Icon:      b.icons.Mode(),
		})
	}

	return days
}

// modeCounter tracks label frequencies, breaking ties by
// first-encountered insertion order
type modeCounter struct {
	counts map[string]int
	order  []string
}

func newModeCounter() *modeCounter {
	return &modeCounter{counts: make(map[string]int)}
}

func (m *modeCounter) Add(label string) {
	if _, ok := m.counts[label]; !ok {
		m.order = append(m.order, label)
	}
	m.counts[label]++
}

func (m *modeCounter) Mode() string {
	best := ""
	bestCount := 0
	for _, label := range m.order {
		if m.counts[label] > bestCount {
			best = label
			bestCount = m.counts[label]
		}
	}
	return best
}
