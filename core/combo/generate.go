package combo

import (
	"strings"

	"github.com/listinglab/asoscan/schema"
)

// Options controls combo enumeration and classification.
type Options struct {
	IncludeTriples bool     // Enumerate triples in addition to pairs
	MaxCombos      int      // Hard cap on emitted combos (0 = unlimited)
	MinTokenLength int      // Tokens shorter than this are noise
	BrandAliases   []string // Known brand tokens
	Stopwords      []string // Noise-filter stopwords
}

// DefaultOptions returns the built-in enumeration settings.
func DefaultOptions() Options {
	return Options{
		IncludeTriples: true,
		MinTokenLength: 2,
		BrandAliases:   schema.DefaultBrandAliases,
		Stopwords:      schema.DefaultStopwords,
	}
}

// fieldSet tracks which listing fields contributed a token.
type fieldSet struct {
	title    bool
	subtitle bool
	field    bool
}

// Generate tokenizes the listing bundle, enumerates unordered pairs
// (and triples when configured) across the union of the three token
// lists, and classifies each candidate. The output never contains two
// entries with the same canonical key, so enumeration is idempotent.
//
// An optional audit context supplies prior relevance scores per
// canonical key; a nil context leaves relevance unset.
func Generate(bundle *schema.ListingBundle, auditCtx *schema.AuditContext, opts Options) []schema.ClassifiedCombo {
	titleTokens := TokenizeField(bundle.Title)
	subtitleTokens := TokenizeField(bundle.Subtitle)
	fieldTokens := TokenizeKeywordField(bundle.KeywordField)

	origins := make(map[string]*fieldSet)
	var union []string
	record := func(tokens []string, mark func(*fieldSet)) {
		for _, tok := range tokens {
			fs, ok := origins[tok]
			if !ok {
				fs = &fieldSet{}
				origins[tok] = fs
				union = append(union, tok)
			}
			mark(fs)
		}
	}
	record(titleTokens, func(fs *fieldSet) { fs.title = true })
	record(subtitleTokens, func(fs *fieldSet) { fs.subtitle = true })
	record(fieldTokens, func(fs *fieldSet) { fs.field = true })

	// Only the indexable fields count as the current listing for the
	// existence check; description mentions do not occupy a keyword slot.
	listingText := CanonicalizeText(strings.Join([]string{
		bundle.Title, bundle.Subtitle, bundle.KeywordField,
	}, " "))

	aliases := aliasSet(opts.BrandAliases)
	noise := noiseSet(opts.Stopwords)

	var combos []schema.ClassifiedCombo
	seen := make(map[string]struct{})
	emit := func(keywords []string) bool {
		key := CanonicalKey(keywords)
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
		combos = append(combos, classify(keywords, key, origins, listingText, aliases, noise, opts, auditCtx))
		return opts.MaxCombos <= 0 || len(combos) < opts.MaxCombos
	}

	// Unordered pairs over the union, excluding a token with itself.
	for i := 0; i < len(union); i++ {
		for j := i + 1; j < len(union); j++ {
			if !emit([]string{union[i], union[j]}) {
				return combos
			}
		}
	}

	if opts.IncludeTriples {
		for i := 0; i < len(union); i++ {
			for j := i + 1; j < len(union); j++ {
				for k := j + 1; k < len(union); k++ {
					if !emit([]string{union[i], union[j], union[k]}) {
						return combos
					}
				}
			}
		}
	}

	return combos
}

// classify builds one ClassifiedCombo: existence check, source label,
// brand classification and prior relevance lookup.
func classify(
	keywords []string,
	key string,
	origins map[string]*fieldSet,
	listingText string,
	aliases, noise map[string]struct{},
	opts Options,
	auditCtx *schema.AuditContext,
) schema.ClassifiedCombo {
	c := schema.ClassifiedCombo{
		Text:      key,
		Keywords:  strings.Fields(key),
		WordCount: len(keywords),
		Source:    sourceLabel(keywords, origins),
		Exists:    strings.Contains(listingText, key),
	}
	c.BrandClass, c.BrandAlias = brandClassify(c.Keywords, aliases, noise, opts.MinTokenLength)

	if score, ok := auditCtx.RelevanceFor(key); ok {
		c.RelevanceScore = &score
	}
	return c
}

// sourceLabel picks the most specific label for the fields that
// contributed the tokens: a single-field label when one field covers
// every token, then a pair label, then mixed.
func sourceLabel(keywords []string, origins map[string]*fieldSet) schema.ComboSource {
	covered := func(pick func(*fieldSet) bool) bool {
		for _, tok := range keywords {
			fs, ok := origins[tok]
			if !ok || !pick(fs) {
				return false
			}
		}
		return true
	}

	inTitle := func(fs *fieldSet) bool { return fs.title }
	inSubtitle := func(fs *fieldSet) bool { return fs.subtitle }
	inField := func(fs *fieldSet) bool { return fs.field }

	switch {
	case covered(inTitle):
		return schema.TitleSource
	case covered(inSubtitle):
		return schema.SubtitleSource
	case covered(inField):
		return schema.KeywordFieldSource
	case covered(func(fs *fieldSet) bool { return fs.title || fs.subtitle }):
		return schema.TitleSubtitleSource
	case covered(func(fs *fieldSet) bool { return fs.title || fs.field }):
		return schema.TitleFieldSource
	case covered(func(fs *fieldSet) bool { return fs.subtitle || fs.field }):
		return schema.SubtitleFieldSource
	default:
		return schema.MixedSource
	}
}

// brandClassify applies the noise filter first, then the brand-alias
// check. A combo mixing a brand alias with at least one non-brand token
// is branded; all-alias combos stay branded; everything else is generic.
func brandClassify(keywords []string, aliases, noise map[string]struct{}, minLen int) (schema.BrandClass, string) {
	for _, tok := range keywords {
		if len(tok) < minLen {
			return schema.LowValueClass, ""
		}
		if _, stop := noise[tok]; stop {
			return schema.LowValueClass, ""
		}
	}

	var matched string
	for _, tok := range keywords {
		if _, ok := aliases[tok]; ok {
			matched = tok
			break
		}
	}
	if matched != "" {
		return schema.BrandedClass, matched
	}
	return schema.GenericClass, ""
}

func aliasSet(aliases []string) map[string]struct{} {
	set := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		set[strings.ToLower(a)] = struct{}{}
	}
	return set
}

func noiseSet(stopwords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(stopwords))
	for _, s := range stopwords {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}
