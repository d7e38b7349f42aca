// Package threat grades the band's heart-rate stream into a low, medium or
// high threat level for the caregiver view.
//
// Readings are standardized against a labelled training set and given the
// level of the nearest per-level centroid. A feature missing from a reading
// is left out of the distance instead of being treated as zero.
package threat

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Level is a graded threat
type Level uint8

const (
	Unknown Level = iota
	Low
	Medium
	High
)

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// ParseLevel accepts a level name or its training label (0, 1, 2)
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "low":
		return Low, nil
	case "1", "medium":
		return Medium, nil
	case "2", "high":
		return High, nil
	}
	return Unknown, errors.New("threat: unknown level " + strconv.Quote(s))
}

// Reading is one observation. Zero means the feature was not measured.
type Reading struct {
	HeartRate float64 // beats per minute
	Voice     float64 // voice stress score in [0, 1]
}

// Example is a labelled reading
type Example struct {
	Reading
	Level Level
}

// DefaultTraining is the stock labelled set the classifier ships with
var DefaultTraining = []Example{
	{Reading{HeartRate: 80, Voice: 0.5}, Low},
	{Reading{HeartRate: 120, Voice: 0.9}, High},
	{Reading{HeartRate: 90, Voice: 0.3}, Low},
	{Reading{HeartRate: 130, Voice: 0.8}, Medium},
	{Reading{HeartRate: 100, Voice: 0.6}, Medium},
	{Reading{HeartRate: 140, Voice: 0.9}, High},
}

const numFeatures = 2

type point [numFeatures]float64

func (r Reading) point() point {
	return point{r.HeartRate, r.Voice}
}

// Classifier is a nearest-centroid model. It is immutable once built and
// safe for concurrent use.
type Classifier struct {
	mean      point
	scale     point
	levels    []Level
	centroids []point
}

// New fits a classifier to the labelled examples
func New(examples []Example) (*Classifier, error) {
	if len(examples) == 0 {
		return nil, errors.New("threat: no training examples")
	}

	c := &Classifier{}
	n := float64(len(examples))
	for _, ex := range examples {
		if ex.Level == Unknown {
			return nil, errors.New("threat: training example without a level")
		}
		p := ex.point()
		for i := range p {
			c.mean[i] += p[i] / n
		}
	}
	for _, ex := range examples {
		p := ex.point()
		for i := range p {
			d := p[i] - c.mean[i]
			c.scale[i] += d * d / n
		}
	}
	for i := range c.scale {
		c.scale[i] = math.Sqrt(c.scale[i])
		if c.scale[i] == 0 {
			c.scale[i] = 1
		}
	}

	sums := map[Level]point{}
	counts := map[Level]float64{}
	for _, ex := range examples {
		p := c.standardize(ex.point())
		s := sums[ex.Level]
		for i := range p {
			s[i] += p[i]
		}
		sums[ex.Level] = s
		counts[ex.Level]++
	}
	for _, l := range []Level{Low, Medium, High} {
		s, ok := sums[l]
		if !ok {
			continue
		}
		for i := range s {
			s[i] /= counts[l]
		}
		c.levels = append(c.levels, l)
		c.centroids = append(c.centroids, s)
	}
	return c, nil
}

// Default returns a classifier fitted to DefaultTraining
func Default() *Classifier {
	c, err := New(DefaultTraining)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Classifier) standardize(p point) point {
	for i := range p {
		p[i] = (p[i] - c.mean[i]) / c.scale[i]
	}
	return p
}

// Classify grades a reading. A reading with no features is Unknown.
func (c *Classifier) Classify(r Reading) Level {
	raw := r.point()
	p := c.standardize(raw)

	best, bestDist := Unknown, math.Inf(1)
	for k, centroid := range c.centroids {
		dist, used := 0.0, 0
		for i := range p {
			if raw[i] <= 0 {
				continue
			}
			d := p[i] - centroid[i]
			dist += d * d
			used++
		}
		if used == 0 {
			return Unknown
		}
		if dist < bestDist {
			best, bestDist = c.levels[k], dist
		}
	}
	return best
}

// HeartRate extracts the rate from a "BPM: n" notification. Contact
// messages and a zero rate report false.
func HeartRate(notification string) (float64, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(notification), "BPM:")
	if !ok {
		return 0, false
	}
	bpm, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil || bpm <= 0 {
		return 0, false
	}
	return bpm, true
}
