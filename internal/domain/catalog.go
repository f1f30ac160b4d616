package domain

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project is one entry of the portfolio catalog.
type Project struct {
	ID           int      `json:"id"           yaml:"id"`
	Title        string   `json:"title"        yaml:"title"`
	Description  string   `json:"description"  yaml:"description"`
	Technologies []string `json:"technologies" yaml:"technologies"`
	Status       string   `json:"status"       yaml:"status"`
	Category     string   `json:"category"     yaml:"category"`
	Image        string   `json:"image"        yaml:"image"`
	GithubURL    string   `json:"githubUrl"    yaml:"githubUrl"`
	DemoURL      string   `json:"demoUrl"      yaml:"demoUrl"`
}

// Stats is the fixed statistics record shown on the landing page.
type Stats struct {
	Projects     int `json:"projects"     yaml:"projects"`
	Experience   int `json:"experience"   yaml:"experience"`
	Technologies int `json:"technologies" yaml:"technologies"`
	Clients      int `json:"clients"      yaml:"clients"`
}

// Catalog groups the projects and statistics served by the API. A Catalog is
// built once at startup and never mutated afterwards.
type Catalog struct {
	Projects []Project `yaml:"projects"`
	Stats    Stats     `yaml:"stats"`
}

// ErrInvalidCatalog is returned when a loaded catalog fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// DefaultCatalog returns the built-in portfolio data.
func DefaultCatalog() Catalog {
	return Catalog{
		Projects: []Project{
			{
				ID:           1,
				Title:        "Plateforme de gestion d'évènements communautaires",
				Description:  "Conception et développement d'une plateforme web pour la gestion d'évènements communautaires avec système de réservation.",
				Technologies: []string{"Django", "React Native", "PostgreSQL"},
				Status:       "Terminé",
				Category:     "Full Stack",
				Image:        "/images/projects/event-platform.jpg",
				GithubURL:    "https://github.com/Dima5670602/Sie_web.git",
				DemoURL:      "#",
			},
			{
				ID:           2,
				Title:        "Application de e-commerce",
				Description:  "Application mobile de e-commerce avec panier, paiement et suivi de commandes.",
				Technologies: []string{"Flutter", "Firebase"},
				Status:       "Terminé",
				Category:     "Mobile",
				Image:        "/images/projects/ecommerce-app.jpg",
				GithubURL:    "#",
				DemoURL:      "#",
			},
			{
				ID:           3,
				Title:        "Micro-Épargne Communautaire Intelligente",
				Description:  "Plateforme web de gestion de tontines et cauri d'or avec système de suivi et rapports.",
				Technologies: []string{"Node.js", "Express.js", "HTML", "CSS", "JavaScript", "PostgreSQL"},
				Status:       "En phase de test",
				Category:     "Full Stack",
				Image:        "/images/projects/micro-epargne.jpg",
				GithubURL:    "https://github.com/Dima5670602/Micro-Epargne-Communautaire-Intelligente.git",
				DemoURL:      "#",
			},
			{
				ID:           4,
				Title:        "Application de gestion de supporters",
				Description:  "Application mobile pour gérer les supporters d'un club national.",
				Technologies: []string{"Laravel", "Flutter", "PostgreSQL"},
				Status:       "En phase de test",
				Category:     "Mobile",
				Image:        "/images/projects/supporters-app.jpg",
				GithubURL:    "https://github.com/AwesomeDevStudio/Efo-Mobile-Client-UI.git",
				DemoURL:      "#",
			},
			{
				ID:           5,
				Title:        "Plateforme de gestion de cours",
				Description:  "Plateforme web pour faciliter le suivi des cours et le partage de documents.",
				Technologies: []string{"Django", "React JS"},
				Status:       "En finalisation",
				Category:     "Web",
				Image:        "/images/projects/course-platform.jpg",
				GithubURL:    "#",
				DemoURL:      "#",
			},
			{
				ID:           6,
				Title:        "Application de dons",
				Description:  "Application mobile pour faciliter les dons (argent, nature, sang).",
				Technologies: []string{"React JS", "Django", "PostgreSQL"},
				Status:       "En développement",
				Category:     "Full Stack",
				Image:        "/images/projects/donation-app.jpg",
				GithubURL:    "#",
				DemoURL:      "#",
			},
			{
				ID:           7,
				Title:        "Site web vitrine Digispace",
				Description:  "Site web pour présenter les produits et services de Digispace",
				Technologies: []string{"Node.js", "HTML", "CSS", "JavaScript"},
				Status:       "Terminé",
				Category:     "Web",
				Image:        "/images/projects/digispace.jpg",
				GithubURL:    "https://github.com/Dima5670602/Sie_web.git",
				DemoURL:      "#",
			},
		},
		Stats: Stats{Projects: 12, Experience: 3, Technologies: 15, Clients: 5},
	}
}

// LoadCatalog reads a YAML catalog from path. An empty path yields the
// built-in catalog.
func LoadCatalog(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate checks that project IDs are positive and unique and titles are set.
func (c Catalog) Validate() error {
	seen := make(map[int]struct{}, len(c.Projects))
	for i, p := range c.Projects {
		if p.ID <= 0 {
			return fmt.Errorf("%w: project #%d has non-positive id", ErrInvalidCatalog, i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate project id %d", ErrInvalidCatalog, p.ID)
		}
		seen[p.ID] = struct{}{}
		if strings.TrimSpace(p.Title) == "" {
			return fmt.Errorf("%w: project %d has empty title", ErrInvalidCatalog, p.ID)
		}
		if p.Technologies == nil {
			c.Projects[i].Technologies = []string{}
		}
	}
	return nil
}
