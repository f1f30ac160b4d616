package search

import (
	"math"
	"testing"

	"github.com/tbourn/portfolio-backend/internal/domain"
)

func sampleProjects() []domain.Project {
	return []domain.Project{
		{ID: 1, Title: "Site E-commerce", Description: "Boutique en ligne complète", Category: "Web", Technologies: []string{"React", "Node.js", "MongoDB"}},
		{ID: 2, Title: "Application Mobile", Description: "Suivi sportif", Category: "Mobile", Technologies: []string{"React Native", "Firebase"}},
		{ID: 3, Title: "Développement API", Description: "API REST sécurisée", Category: "Backend", Technologies: []string{"Node.js", "Express"}},
		{ID: 4, Title: "   ", Description: "", Category: "", Technologies: nil},
	}
}

func TestOptionsAndDefaults(t *testing.T) {
	def := defaultConfig()
	if def.stopwords != nil || def.minScore != 0 {
		t.Fatalf("defaultConfig unexpected: %#v", def)
	}

	cfg := def
	WithStopwords([]string{"  Él ", "", "The"})(&cfg)
	if _, ok := cfg.stopwords["el"]; !ok {
		t.Fatalf("stopwords should be folded and lower-cased: %#v", cfg.stopwords)
	}
	if _, ok := cfg.stopwords["the"]; !ok {
		t.Fatalf("missing 'the': %#v", cfg.stopwords)
	}

	cfg2 := def
	WithStopwords(nil)(&cfg2)
	if cfg2.stopwords != nil {
		t.Fatalf("empty stopwords should remain nil")
	}

	WithMinScore(0.25)(&cfg)
	if cfg.minScore != 0.25 {
		t.Fatalf("WithMinScore failed: %v", cfg.minScore)
	}
	WithMinScore(2)(&cfg) // ignored
	if cfg.minScore != 0.25 {
		t.Fatalf("out-of-range min score should be ignored")
	}
}

func TestNewProjectIndex_SkipsEmptyProjects(t *testing.T) {
	idx := NewProjectIndex(sampleProjects()).(*index)
	if len(idx.docs) != 3 {
		t.Fatalf("docs = %d; want 3", len(idx.docs))
	}
}

func TestTopK_RanksByJaccard(t *testing.T) {
	idx := NewProjectIndex(sampleProjects(), WithStopwords(DefaultStopwords))

	res := idx.TopK("react node", 0)
	if len(res) != 3 {
		t.Fatalf("results = %d; want 3: %#v", len(res), res)
	}
	// Project 1 holds both tokens; 2 and 3 hold one each.
	if res[0].Project.ID != 1 {
		t.Fatalf("best match = %d; want 1", res[0].Project.ID)
	}
	for i := 1; i < len(res); i++ {
		if res[i-1].Score < res[i].Score {
			t.Fatalf("results not sorted by score: %#v", res)
		}
	}
}

func TestTopK_AccentInsensitive(t *testing.T) {
	idx := NewProjectIndex(sampleProjects())
	res := idx.TopK("developpement securisee", 5)
	if len(res) != 1 || res[0].Project.ID != 3 {
		t.Fatalf("expected project 3, got %#v", res)
	}
}

func TestTopK_ExactScore(t *testing.T) {
	idx := NewProjectIndex([]domain.Project{{ID: 9, Title: "alpha beta", Technologies: []string{"gamma"}}})
	res := idx.TopK("alpha delta", 1)
	if len(res) != 1 {
		t.Fatalf("expected one result")
	}
	// |Q∩P| = 1, |Q∪P| = 4
	if math.Abs(res[0].Score-0.25) > 1e-9 {
		t.Fatalf("score = %v; want 0.25", res[0].Score)
	}
}

func TestTopK_LimitAndTies(t *testing.T) {
	projects := []domain.Project{
		{ID: 7, Title: "go"},
		{ID: 3, Title: "go"},
		{ID: 5, Title: "go"},
	}
	idx := NewProjectIndex(projects)
	res := idx.TopK("go", 2)
	if len(res) != 2 {
		t.Fatalf("k not applied: %d", len(res))
	}
	if res[0].Project.ID != 3 || res[1].Project.ID != 5 {
		t.Fatalf("ties must be ordered by id: %#v", res)
	}
}

func TestTopK_NoMatchesAndEdgeCases(t *testing.T) {
	idx := NewProjectIndex(sampleProjects(), WithStopwords(DefaultStopwords))
	if res := idx.TopK("   ", 3); res != nil {
		t.Fatalf("blank query should return nil")
	}
	if res := idx.TopK("!!! ???", 3); res != nil {
		t.Fatalf("punctuation-only query should return nil")
	}
	if res := idx.TopK("la et de", 3); res != nil {
		t.Fatalf("stopword-only query should return nil")
	}
	if res := idx.TopK("kubernetes", 3); res != nil {
		t.Fatalf("unknown token should return nil")
	}
	if res := NewProjectIndex(nil).TopK("react", 3); res != nil {
		t.Fatalf("empty index should return nil")
	}

	strict := NewProjectIndex(sampleProjects(), WithMinScore(0.9))
	if res := strict.TopK("react", 3); res != nil {
		t.Fatalf("min score should filter weak matches: %#v", res)
	}
}

func TestTokenizeAndOverlap(t *testing.T) {
	toks := tokenize("Node.js, NODE & Vue3 — Éco", nil)
	for _, w := range []string{"node", "js", "vue3", "eco"} {
		if _, ok := toks[w]; !ok {
			t.Fatalf("missing token %q in %#v", w, toks)
		}
	}
	if len(toks) != 4 {
		t.Fatalf("unexpected tokens: %#v", toks)
	}
	if n := overlap(toks, map[string]struct{}{"eco": {}, "x": {}}); n != 1 {
		t.Fatalf("overlap = %d; want 1", n)
	}
	if n := overlap(nil, toks); n != 0 {
		t.Fatalf("overlap with empty = %d", n)
	}
}
