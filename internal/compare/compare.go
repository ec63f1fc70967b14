// Package compare ranks machine-learning models by their reported metric
// scores. Model order is the order results were supplied in and is used to
// break ties.
package compare

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/plotease/internal/errs"
)

// Model is one named set of metric scores.
type Model struct {
	Name   string             `yaml:"name" json:"name"`
	Scores map[string]float64 `yaml:"scores" json:"scores"`
}

// Comparator holds an ordered set of models.
type Comparator struct {
	models  []Model
	metrics []string
}

// New validates results and builds a Comparator. Metric names are collected
// in first-seen order.
func New(results []Model) (*Comparator, error) {
	if len(results) == 0 {
		return nil, errs.EmptyDataset()
	}
	c := &Comparator{}
	for _, m := range results {
		if err := c.Add(m.Name, m.Scores); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// FromMap builds a Comparator from name → metric → score. Go maps carry no
// order, so models are sorted by name.
func FromMap(results map[string]map[string]float64) (*Comparator, error) {
	names := make([]string, 0, len(results))
	for n := range results {
		names = append(names, n)
	}
	sort.Strings(names)
	models := make([]Model, len(names))
	for i, n := range names {
		models[i] = Model{Name: n, Scores: results[n]}
	}
	return New(models)
}

// Add appends a model. Scores are copied; new metric names are appended in
// lexical order.
func (c *Comparator) Add(name string, scores map[string]float64) error {
	return c.add(name, scores, nil)
}

// add appends a model, registering new metrics in order first and then any
// remaining keys lexically.
func (c *Comparator) add(name string, scores map[string]float64, order []string) error {
	if strings.TrimSpace(name) == "" {
		return errs.InvalidParameter("model name", name, "Model names must be non-empty")
	}
	if c.Contains(name) {
		return errs.InvalidParameter("model name", name, "Model names must be unique")
	}
	cp := make(map[string]float64, len(scores))
	var rest []string
	for k, v := range scores {
		cp[k] = v
		if !contains(order, k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range append(append([]string(nil), order...), rest...) {
		if !contains(c.metrics, k) {
			c.metrics = append(c.metrics, k)
		}
	}
	c.models = append(c.models, Model{Name: name, Scores: cp})
	return nil
}

// Remove drops a model by name and reports whether it existed.
func (c *Comparator) Remove(name string) bool {
	for i, m := range c.models {
		if m.Name == name {
			c.models = append(c.models[:i:i], c.models[i+1:]...)
			c.rebuildMetrics()
			return true
		}
	}
	return false
}

// rebuildMetrics drops metrics no remaining model reports.
func (c *Comparator) rebuildMetrics() {
	kept := c.metrics[:0]
	for _, metric := range c.metrics {
		for _, m := range c.models {
			if _, ok := m.Scores[metric]; ok {
				kept = append(kept, metric)
				break
			}
		}
	}
	c.metrics = kept
}

func (c *Comparator) Len() int { return len(c.models) }

func (c *Comparator) Contains(name string) bool {
	for _, m := range c.models {
		if m.Name == name {
			return true
		}
	}
	return false
}

// Models returns model names in insertion order.
func (c *Comparator) Models() []string {
	out := make([]string, len(c.models))
	for i, m := range c.models {
		out[i] = m.Name
	}
	return out
}

// Metrics returns every metric reported by at least one model.
func (c *Comparator) Metrics() []string {
	out := make([]string, len(c.metrics))
	copy(out, c.metrics)
	return out
}

// Score returns a model's score for metric, or false when absent.
func (c *Comparator) Score(model, metric string) (float64, bool) {
	for _, m := range c.models {
		if m.Name == model {
			v, ok := m.Scores[metric]
			return v, ok
		}
	}
	return 0, false
}

// Ranked is one position in a metric ranking.
type Ranked struct {
	Model   string
	Score   float64
	Missing bool
}

// Rank orders models by metric, best first. Models without the metric are
// placed last; ties keep insertion order.
func (c *Comparator) Rank(metric string) ([]Ranked, error) {
	return c.rank(metric, false)
}

// RankAscending is Rank for metrics where lower is better, such as loss.
func (c *Comparator) RankAscending(metric string) ([]Ranked, error) {
	return c.rank(metric, true)
}

func (c *Comparator) rank(metric string, ascending bool) ([]Ranked, error) {
	if !contains(c.metrics, metric) {
		return nil, errs.UnknownMetric(metric, c.metrics)
	}
	out := make([]Ranked, len(c.models))
	for i, m := range c.models {
		v, ok := m.Scores[metric]
		out[i] = Ranked{Model: m.Name, Score: v, Missing: !ok || math.IsNaN(v)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Missing != b.Missing {
			return !a.Missing
		}
		if ascending {
			return a.Score < b.Score
		}
		return a.Score > b.Score
	})
	return out, nil
}

// BestModel returns the highest scoring model for metric.
func (c *Comparator) BestModel(metric string) (string, error) {
	r, err := c.Rank(metric)
	if err != nil {
		return "", err
	}
	if r[0].Missing {
		return "", errs.UnknownMetric(metric, c.metrics)
	}
	return r[0].Model, nil
}

// Comparison is the result of Compare.
type Comparison struct {
	Metrics  []string
	Rankings map[string][]Ranked
	Best     map[string]string
	// MeanScore is the mean over metrics of each metric's mean across models.
	MeanScore float64
}

// Compare ranks every selected metric, or all metrics when none are named.
func (c *Comparator) Compare(selected ...string) (*Comparison, error) {
	metrics := selected
	if len(metrics) == 0 {
		metrics = c.Metrics()
	}
	res := &Comparison{
		Metrics:  metrics,
		Rankings: make(map[string][]Ranked, len(metrics)),
		Best:     make(map[string]string, len(metrics)),
	}
	for _, m := range metrics {
		r, err := c.Rank(m)
		if err != nil {
			return nil, err
		}
		res.Rankings[m] = r
		if !r[0].Missing {
			res.Best[m] = r[0].Model
		}
	}
	res.MeanScore = c.meanOfMeans(metrics)
	return res, nil
}

// MeanScore is the mean of per-metric means over all metrics. Absent scores
// are skipped; NaN when nothing is reported.
func (c *Comparator) MeanScore() float64 {
	return c.meanOfMeans(c.metrics)
}

func (c *Comparator) meanOfMeans(metrics []string) float64 {
	var sum float64
	var n int
	for _, metric := range metrics {
		var s float64
		var k int
		for _, m := range c.models {
			if v, ok := m.Scores[metric]; ok && !math.IsNaN(v) {
				s += v
				k++
			}
		}
		if k > 0 {
			sum += s / float64(k)
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Table returns scores as rows per model and columns per metric, with absent
// scores filled by 0 for charting.
func (c *Comparator) Table(metrics ...string) ([][]float64, error) {
	if len(metrics) == 0 {
		metrics = c.metrics
	}
	for _, m := range metrics {
		if !contains(c.metrics, m) {
			return nil, errs.UnknownMetric(m, c.metrics)
		}
	}
	out := make([][]float64, len(c.models))
	for i, m := range c.models {
		row := make([]float64, len(metrics))
		for j, metric := range metrics {
			if v, ok := m.Scores[metric]; ok && !math.IsNaN(v) {
				row[j] = v
			}
		}
		out[i] = row
	}
	return out, nil
}

// Markdown renders the score table.
func (c *Comparator) Markdown() string {
	var b strings.Builder
	b.WriteString("| Model | " + strings.Join(c.metrics, " | ") + " |\n")
	b.WriteString("|---" + strings.Repeat("|---", len(c.metrics)) + "|\n")
	for _, m := range c.models {
		b.WriteString("| " + m.Name)
		for _, metric := range c.metrics {
			if v, ok := m.Scores[metric]; ok {
				b.WriteString(fmt.Sprintf(" | %.4f", v))
			} else {
				b.WriteString(" | -")
			}
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// EqualsByContent reports whether two comparators hold the same models, in
// the same order, with identical scores.
func EqualsByContent(a, b *Comparator) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.models) != len(b.models) {
		return false
	}
	for i := range a.models {
		ma, mb := a.models[i], b.models[i]
		if ma.Name != mb.Name || len(ma.Scores) != len(mb.Scores) {
			return false
		}
		for k, v := range ma.Scores {
			w, ok := mb.Scores[k]
			if !ok || !(v == w || (math.IsNaN(v) && math.IsNaN(w))) {
				return false
			}
		}
	}
	return true
}

// CompareByMeanScore returns -1, 0 or +1 as a's MeanScore is lower, equal
// or higher than b's. NaN sorts below any number.
func CompareByMeanScore(a, b *Comparator) int {
	x, y := a.MeanScore(), b.MeanScore()
	switch {
	case math.IsNaN(x) && math.IsNaN(y):
		return 0
	case math.IsNaN(x):
		return -1
	case math.IsNaN(y):
		return 1
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// R2 is the coefficient of determination of pred against truth, or NaN
// when truth has no variance.
func R2(truth, pred []float64) (float64, error) {
	if len(truth) != len(pred) {
		return 0, errs.DimensionMismatch(fmt.Sprintf("%d predictions", len(truth)), fmt.Sprintf("%d", len(pred)))
	}
	if len(truth) == 0 {
		return 0, errs.EmptyDataset()
	}
	r2 := stat.RSquaredFrom(pred, truth, nil)
	// Constant truth leaves the total sum of squares at zero.
	if math.IsInf(r2, 0) || math.IsNaN(r2) {
		return math.NaN(), nil
	}
	return r2, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
