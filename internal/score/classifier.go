package score

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/curator/internal/cache"
	"github.com/ppiankov/curator/internal/model"
)

// Credibility adjustments per source type
const (
	PrimaryBoost   = 0.25
	TertiaryBoost  = -0.15
	SecondaryBoost = 0.0

	// minTextCues is how many distinct textual cues a text family needs
	minTextCues = 2

	classifyTTL = 24 * time.Hour
)

// Target selects which part of an item a family inspects
type Target int

const (
	TargetURL Target = iota
	TargetText
)

// Family is one tagged source class. Families are evaluated in a fixed order.
type Family struct {
	Tag              string
	Type             model.SourceType
	Target           Target
	Patterns         []*regexp.Regexp
	MinMatches       int  // distinct patterns required; 0 means 1
	OriginalResearch bool // surfaces isOriginalResearch when matched
}

func (f Family) matches(s string) bool {
	need := f.MinMatches
	if need < 1 {
		need = 1
	}
	hits := 0
	for _, p := range f.Patterns {
		if p.MatchString(s) {
			hits++
			if hits >= need {
				return true
			}
		}
	}
	return false
}

// SourceTypeResult is the outcome of classifying one item
type SourceTypeResult struct {
	SourceType         model.SourceType `json:"source_type"`
	Indicators         []string         `json:"indicators,omitempty"`
	IsOriginalResearch bool             `json:"is_original_research"`
	CredibilityBoost   float64          `json:"credibility_boost"`
}

// UnknownResult is the fallback for items that match nothing or fail to classify
func UnknownResult() SourceTypeResult {
	return SourceTypeResult{SourceType: model.SourceUnknown}
}

func mustPatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// domains matches any of the names as a whole host label suffix, so
// rand.org matches www.rand.org but not brand.org
func domains(names ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(names))
	for i, n := range names {
		out[i] = regexp.MustCompile(`(^|[/.@])` + regexp.QuoteMeta(n) + `([/:?#]|$)`)
	}
	return out
}

// sitePaths matches a path prefix on a given host
func sitePaths(hostPaths ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(hostPaths))
	for i, hp := range hostPaths {
		out[i] = regexp.MustCompile(`(^|[/.@])` + regexp.QuoteMeta(hp))
	}
	return out
}

func join(sets ...[]*regexp.Regexp) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

// DefaultFamilies returns the built-in source classes in priority order
func DefaultFamilies() []Family {
	return []Family{
		{
			Tag: "academic_journal", Type: model.SourcePrimary, Target: TargetURL, OriginalResearch: true,
			Patterns: join(
				domains(
					"doi.org", "pubmed.ncbi.nlm.nih.gov", "arxiv.org", "sciencedirect.com", "link.springer.com",
					"onlinelibrary.wiley.com", "jstor.org", "thelancet.com", "nejm.org", "bmj.com",
					"journals.plos.org", "jamanetwork.com",
				),
				sitePaths("ncbi.nlm.nih.gov/pmc", "nature.com/articles", "science.org/doi"),
				mustPatterns(`/journals?/`, `/doi/`),
			),
		},
		{
			Tag: "government_data", Type: model.SourcePrimary, Target: TargetURL,
			Patterns: join(
				mustPatterns(
					`^https?://([a-z0-9-]+\.)*[a-z0-9-]+\.gov(\.[a-z]{2})?(:\d+)?(/|$)`,
					`^https?://([a-z0-9-]+\.)*gov\.[a-z]{2}(/|$)`,
				),
				domains("data.gov", "census.gov", "bls.gov", "ons.gov.uk", "europa.eu"),
				sitePaths("ec.europa.eu/eurostat"),
			),
		},
		{
			Tag: "research_institution", Type: model.SourcePrimary, Target: TargetURL, OriginalResearch: true,
			Patterns: join(
				mustPatterns(
					`^https?://([a-z0-9-]+\.)*[a-z0-9-]+\.edu(/|$)`,
					`^https?://([a-z0-9-]+\.)*ac\.[a-z]{2}(/|$)`,
				),
				domains("rand.org", "brookings.edu", "pewresearch.org", "nber.org", "mpg.de", "cnrs.fr"),
			),
		},
		{
			Tag: "official_report", Type: model.SourcePrimary, Target: TargetURL,
			Patterns: join(
				domains("who.int", "un.org", "worldbank.org", "imf.org", "oecd.org", "ipcc.ch"),
				mustPatterns(`/annual-report`, `/white-?paper`, `/reports?/.*\.pdf$`),
			),
		},
		{
			Tag: "legal_source", Type: model.SourcePrimary, Target: TargetURL,
			Patterns: join(
				domains("supremecourt.gov", "courtlistener.com", "legislation.gov.uk", "law.cornell.edu", "eur-lex.europa.eu"),
				sitePaths("congress.gov/bill"),
				mustPatterns(`/statutes?/`, `/case-?law/`, `/opinions?/\d`),
			),
		},
		{
			Tag: "peer_reviewed", Type: model.SourcePrimary, Target: TargetText, MinMatches: minTextCues, OriginalResearch: true,
			Patterns: mustPatterns(
				`peer[- ]reviewed`, `published in (the )?(journal|proceedings)`, `\bjournal of\b`,
				`randomi[sz]ed (controlled )?trial`, `meta-analysis`, `systematic review`, `\bdoi:`, `\bet al\.?`,
			),
		},
		{
			Tag: "statistical_report", Type: model.SourcePrimary, Target: TargetText, MinMatches: minTextCues,
			Patterns: mustPatterns(
				`\bstatistic(s|al)\b`, `\bcensus\b`, `\bsurvey (of|found|data)\b`, `\bsample size\b`,
				`\bmargin of error\b`, `\bdataset\b`, `\bquarterly (data|report|figures)\b`,
				`\bbureau of\b`, `\boffice for national statistics\b`,
			),
		},
		{
			Tag: "fact_check", Type: model.SourceTertiary, Target: TargetURL,
			Patterns: join(
				domains("snopes.com", "politifact.com", "factcheck.org", "fullfact.org", "factcheck.afp.com", "leadstories.com"),
				mustPatterns(`/fact-?check`),
			),
		},
		{
			Tag: "encyclopedia", Type: model.SourceTertiary, Target: TargetURL,
			Patterns: join(
				domains("wikipedia.org", "britannica.com", "scholarpedia.org"),
				mustPatterns(`/encyclopedia`, `(^|[/.])encyclopedia[a-z-]*\.`),
			),
		},
		{
			Tag: "news", Type: model.SourceSecondary, Target: TargetURL,
			Patterns: join(
				domains(
					"reuters.com", "apnews.com", "bbc.co.uk", "bbc.com", "nytimes.com", "washingtonpost.com",
					"theguardian.com", "cnn.com", "npr.org", "wsj.com", "bloomberg.com", "ft.com",
					"economist.com", "aljazeera.com", "aljazeera.net", "politico.com", "politico.eu",
					"usatoday.com", "cbsnews.com", "nbcnews.com", "abcnews.com", "abcnews.go.com",
					"foxnews.com", "propublica.org",
				),
				mustPatterns(`^https?://news\.`, `/news/`, `/\d{4}/\d{2}/\d{2}/`),
			),
		},
	}
}

// Classifier assigns a source type to evidence from ordered pattern families
type Classifier struct {
	families []Family
	memo     cache.Cache
}

// ClassifierOption configures a Classifier
type ClassifierOption func(*Classifier)

// WithFamilies replaces the built-in families
func WithFamilies(families []Family) ClassifierOption {
	return func(c *Classifier) { c.families = families }
}

// WithMemo memoizes results in the given cache
func WithMemo(memo cache.Cache) ClassifierOption {
	return func(c *Classifier) {
		if memo != nil {
			c.memo = memo
		}
	}
}

// NewClassifier creates a classifier with the built-in families
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		families: DefaultFamilies(),
		memo:     cache.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify determines the source type of one item
func (c *Classifier) Classify(rawURL, title, snippet string) SourceTypeResult {
	key := cache.Key("classify", rawURL, title, snippet)
	if data, ok := c.memo.Get(key); ok {
		var cached SourceTypeResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached
		}
	}

	result := c.classify(rawURL, title, snippet)

	if data, err := json.Marshal(result); err == nil {
		_ = c.memo.Set(key, data, classifyTTL)
	}
	return result
}

func (c *Classifier) classify(rawURL, title, snippet string) SourceTypeResult {
	urlText := strings.ToLower(strings.TrimSpace(rawURL))
	content := strings.ToLower(title + " " + snippet)

	var result SourceTypeResult
	var fallback model.SourceType

	for _, f := range c.families {
		subject := urlText
		if f.Target == TargetText {
			subject = content
		}
		if !f.matches(subject) {
			continue
		}
		if f.Type == model.SourcePrimary {
			result.Indicators = append(result.Indicators, f.Tag)
			if f.OriginalResearch {
				result.IsOriginalResearch = true
			}
			continue
		}
		// First non-primary family wins, used only when nothing primary matched
		if fallback == "" {
			fallback = f.Type
		}
	}

	switch {
	case len(result.Indicators) > 0:
		result.SourceType = model.SourcePrimary
		result.CredibilityBoost = PrimaryBoost
	case fallback == model.SourceTertiary:
		result.SourceType = model.SourceTertiary
		result.CredibilityBoost = TertiaryBoost
	case fallback == model.SourceSecondary:
		result.SourceType = model.SourceSecondary
		result.CredibilityBoost = SecondaryBoost
	default:
		return UnknownResult()
	}
	return result
}
