// Package search provides a small, deterministic, concurrency-safe in-memory
// index over the portfolio catalog.
//
// Each project is indexed as the token set of its title, description,
// category and technologies. Tokens are lower-cased and accent-folded so that
// "developpement" matches "Développement". Scoring uses Jaccard similarity
// between the query token set Q and the project token set P:
// score = |Q ∩ P| / |Q ∪ P|. The index is immutable after construction.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/portfolio-backend/internal/domain"
)

// Result is a ranked project with its similarity score.
type Result struct {
	Project domain.Project
	Score   float64
}

// Index is the minimal interface implemented by all search indices.
type Index interface {
	TopK(query string, k int) []Result
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	stopwords map[string]struct{}
	minScore  float64
}

func defaultConfig() config {
	return config{}
}

// WithStopwords drops the given words from both documents and queries.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = fold(strings.ToLower(strings.TrimSpace(w)))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// WithMinScore discards results scoring below s.
func WithMinScore(s float64) Option {
	return func(c *config) {
		if s >= 0 && s <= 1 {
			c.minScore = s
		}
	}
}

// DefaultStopwords lists common French and English function words.
var DefaultStopwords = []string{
	"le", "la", "les", "un", "une", "des", "de", "du", "et", "en", "avec",
	"pour", "sur", "par", "dans", "au", "aux",
	"the", "a", "an", "and", "of", "with", "for", "in", "on", "to",
}

// ----------------------------------------------------------------------------
// Implementation

type doc struct {
	project domain.Project
	tokens  map[string]struct{}
}

type index struct {
	cfg  config
	docs []doc
}

// NewProjectIndex builds an Index over projects. Projects without any
// indexable token are skipped.
func NewProjectIndex(projects []domain.Project, opts ...Option) Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	docs := make([]doc, 0, len(projects))
	for _, p := range projects {
		text := strings.Join(append([]string{p.Title, p.Description, p.Category}, p.Technologies...), " ")
		toks := tokenize(text, cfg.stopwords)
		if len(toks) == 0 {
			continue
		}
		docs = append(docs, doc{project: p, tokens: toks})
	}
	return &index{cfg: cfg, docs: docs}
}

// TopK returns up to k best-matching projects. Ties are broken by project id.
// A non-positive k returns every match.
func (i *index) TopK(q string, k int) []Result {
	if len(i.docs) == 0 || strings.TrimSpace(q) == "" {
		return nil
	}
	qTokens := tokenize(q, i.cfg.stopwords)
	if len(qTokens) == 0 {
		return nil
	}

	out := make([]Result, 0, len(i.docs))
	for _, d := range i.docs {
		over := overlap(qTokens, d.tokens)
		if over == 0 {
			continue
		}
		score := float64(over) / float64(len(qTokens)+len(d.tokens)-over)
		if score < i.cfg.minScore {
			continue
		}
		out = append(out, Result{Project: d.project, Score: score})
	}
	if len(out) == 0 {
		return nil
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Project.ID < out[b].Project.ID
	})

	if k > 0 && k < len(out) {
		out = out[:k]
	}
	return out
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`[\p{L}\p{N}]+`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(fold(strings.ToLower(s)), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

func overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
