package stats

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pavelc4/aether-fetch/internal/provider"
)

// Counters tracks finished fetch requests since process start.
type Counters struct {
	mu        sync.RWMutex
	startTime time.Time
	now       func() time.Time

	total     int64
	succeeded int64
	failed    int64
	bytes     int64
	elapsed   time.Duration

	families map[string]int64
	daily    map[string]*PeriodStats
	weekly   map[string]*PeriodStats
}

type PeriodStats struct {
	Requests int64
	Failed   int64
	Bytes    int64
}

// Snapshot is a consistent copy of the counters.
type Snapshot struct {
	StartTime  time.Time
	Total      int64
	Succeeded  int64
	Failed     int64
	Bytes      int64
	AvgElapsed time.Duration
	Families   map[string]int64
	Today      PeriodStats
	ThisWeek   PeriodStats
}

func NewCounters() *Counters {
	return newCounters(time.Now)
}

func newCounters(now func() time.Time) *Counters {
	return &Counters{
		startTime: now(),
		now:       now,
		families:  make(map[string]int64),
		daily:     make(map[string]*PeriodStats),
		weekly:    make(map[string]*PeriodStats),
	}
}

func (c *Counters) ObserveFetch(family provider.Family, bytes int64, elapsed time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.total++
	c.elapsed += elapsed
	if err != nil {
		c.failed++
	} else {
		c.succeeded++
		c.bytes += bytes
	}
	if family != provider.Unsupported {
		c.families[family.String()]++
	}

	for _, p := range []*PeriodStats{
		period(c.daily, dayKey(now)),
		period(c.weekly, weekKey(now)),
	} {
		p.Requests++
		if err != nil {
			p.Failed++
		} else {
			p.Bytes += bytes
		}
	}
}

func (c *Counters) StartTime() time.Time {
	return c.startTime
}

func (c *Counters) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	s := Snapshot{
		StartTime: c.startTime,
		Total:     c.total,
		Succeeded: c.succeeded,
		Failed:    c.failed,
		Bytes:     c.bytes,
		Families:  make(map[string]int64, len(c.families)),
	}
	if c.total > 0 {
		s.AvgElapsed = c.elapsed / time.Duration(c.total)
	}
	for k, v := range c.families {
		s.Families[k] = v
	}
	if p := c.daily[dayKey(now)]; p != nil {
		s.Today = *p
	}
	if p := c.weekly[weekKey(now)]; p != nil {
		s.ThisWeek = *p
	}
	return s
}

// FamilyNames returns the families seen so far, busiest first.
func (s Snapshot) FamilyNames() []string {
	names := make([]string, 0, len(s.Families))
	for k := range s.Families {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Families[names[i]] != s.Families[names[j]] {
			return s.Families[names[i]] > s.Families[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func period(m map[string]*PeriodStats, key string) *PeriodStats {
	p, ok := m[key]
	if !ok {
		p = &PeriodStats{}
		m[key] = p
	}
	return p
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
