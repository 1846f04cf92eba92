package ats

import "strings"

// stopwords are dropped from job description tokens.
var stopwords = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "to": {}, "for": {}, "of": {}, "in": {},
	"with": {}, "a": {}, "an": {}, "on": {}, "is": {}, "are": {}, "will": {},
	"be": {}, "our": {}, "your": {}, "we": {}, "you": {},
}

// skillCatalog is the canonical set of skill terms a job description is
// intersected with.
var skillCatalog = map[string]struct{}{
	"react": {}, "redux": {}, "typescript": {}, "javascript": {}, "node": {},
	"express": {}, "rest": {}, "api": {}, "microservices": {},
	"postgres": {}, "postgresql": {}, "mysql": {}, "mongodb": {}, "sql": {}, "nosql": {},
	"aws": {}, "azure": {}, "gcp": {}, "docker": {}, "kubernetes": {}, "ci": {}, "cd": {},
	"testing": {}, "jest": {}, "pytest": {},
	"python": {}, "pandas": {}, "numpy": {}, "scikit-learn": {}, "sklearn": {}, "ml": {},
	"machine": {}, "learning": {}, "data": {},
	"figma": {}, "sketch": {}, "ui": {}, "ux": {}, "design": {}, "wireframes": {}, "prototyping": {},
}

// IsCatalogKeyword reports whether term is one of the canonical skills.
func IsCatalogKeyword(term string) bool {
	_, ok := skillCatalog[term]
	return ok
}

// CatalogKeywords returns the catalog in sorted order.
func CatalogKeywords() []string {
	set := make(TokenSet, len(skillCatalog))
	for k := range skillCatalog {
		set[k] = struct{}{}
	}
	return set.Sorted()
}

var (
	seniorityTerms  = []string{"senior", "lead", "principal", "manager"}
	roleFamilyTerms = []string{"engineer", "developer", "scientist", "designer", "product", "marketing"}
)

// roleFamily groups titles that share an education profile.
type roleFamily struct {
	name        string
	titleTerms  []string
	schoolTerms []string
	// labels are shown on the education section when the family matches.
	labels []string
}

// roleFamilies is ordered; the first family whose title terms match wins.
var roleFamilies = []roleFamily{
	{
		name:        "frontend",
		titleTerms:  []string{"frontend", "ui", "ux", "designer", "react", "typescript", "javascript"},
		schoolTerms: []string{"computer", "cs", "information", "it", "design", "ui", "ux"},
		labels:      []string{"Computer Science", "IT", "Design"},
	},
	{
		name:        "backend",
		titleTerms:  []string{"backend", "node", "engineer", "data", "scientist"},
		schoolTerms: []string{"computer", "cs", "information", "it", "math", "statistics", "data"},
		labels:      []string{"Computer Science", "IT", "Mathematics", "Data Science"},
	},
	{
		name:        "product",
		titleTerms:  []string{"product", "marketing"},
		schoolTerms: []string{"mba", "business", "marketing", "management"},
	},
}

// matchRoleFamily returns the first family whose title terms occur in the
// lowercased title.
func matchRoleFamily(title string) (roleFamily, bool) {
	for _, f := range roleFamilies {
		if containsAny(title, f.titleTerms) {
			return f, true
		}
	}
	return roleFamily{}, false
}

// projectKeywordFamilies drive which project blocks count as relevant.
var projectKeywordFamilies = []struct {
	titleTerms []string
	keywords   []string
}{
	{
		titleTerms: []string{"data", "scientist"},
		keywords: []string{"python", "machine learning", "ml", "data science", "data analysis", "pandas",
			"numpy", "scikit-learn", "tensorflow", "pytorch", "project", "model", "dataset", "prediction", "algorithm"},
	},
	{
		titleTerms: []string{"frontend", "react"},
		keywords: []string{"react", "javascript", "typescript", "frontend", "ui", "ux", "project",
			"application", "component", "redux"},
	},
	{
		titleTerms: []string{"backend", "node"},
		keywords: []string{"node", "express", "api", "backend", "server", "database", "project",
			"microservice", "rest", "postgres", "mongodb"},
	},
	{
		titleTerms: []string{"designer", "ux"},
		keywords: []string{"design", "ui", "ux", "figma", "sketch", "prototype", "project",
			"wireframe", "user experience"},
	},
}

// ProjectKeywords returns the project keywords for a job title, or nil.
func ProjectKeywords(jobTitle string) []string {
	title := strings.ToLower(jobTitle)
	for _, f := range projectKeywordFamilies {
		if containsAny(title, f.titleTerms) {
			return f.keywords
		}
	}
	return nil
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
