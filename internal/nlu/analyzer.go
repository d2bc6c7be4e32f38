package nlu

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orb-ai/backend/internal/embedding"
	"github.com/orb-ai/backend/internal/metrics"
	"github.com/orb-ai/backend/pkg/logger"
)

// QuestionType is the structural category of a query.
type QuestionType string

const (
	QuestionGreeting    QuestionType = "greeting"
	QuestionLocation    QuestionType = "location"
	QuestionFactual     QuestionType = "factual"
	QuestionProcedural  QuestionType = "procedural"
	QuestionComparative QuestionType = "comparative"
	QuestionUnknown     QuestionType = "unknown"
)

// Intent is the semantic purpose of a query.
type Intent string

const (
	IntentLocation    Intent = "location"
	IntentTiming      Intent = "timing"
	IntentProcess     Intent = "process"
	IntentContact     Intent = "contact"
	IntentDescription Intent = "description"
	IntentGeneral     Intent = "general"
)

// ExtractedContext carries secondary references pulled from the query.
type ExtractedContext struct {
	TimeReference     string
	LocationReference string
	ComparisonAspects []string
}

// Analysis is the analyzer's structured view of one utterance. It is
// produced fresh per query and never mutated afterward.
type Analysis struct {
	OriginalText   string
	NormalizedText string
	QuestionType   QuestionType
	Intent         Intent
	Entities       []string
	IsFollowup     bool
	Context        ExtractedContext

	// Fault is set when an internal computation failed and the analysis
	// degraded. It distinguishes "no match" from "analyzer broke".
	Fault string
}

// Prior is the slice of session state the analyzer needs for follow-up
// detection. Passing it explicitly keeps Analyze a pure function of its
// inputs.
type Prior struct {
	CurrentEntity string
	CurrentIntent Intent
}

// questionPatterns is the ordered classification table. Greeting is checked
// first and short-circuits; the order also breaks semantic-classification
// ties.
var questionPatterns = []struct {
	qtype    QuestionType
	patterns []*regexp.Regexp
}{
	{QuestionGreeting, compileAll(
		`^(?:hi|hello|hey|greetings|good\s*(?:morning|afternoon|evening))(?:[\s?]|$)`,
		`^(?:how\s*are\s*you|what\s?s\s*up)(?:[\s?]|$)`,
	)},
	{QuestionLocation, compileAll(
		`where (?:is|are|can i find) (?:the )?(.+)`,
		`(?:location|address|directions?) (?:of|to|for) (?:the )?(.+)`,
		`how (?:do|can) (?:i|we) (?:get|reach|find) (?:the )?(.+)`,
		`show me (?:where|how to get to) (?:the )?(.+)`,
	)},
	{QuestionFactual, compileAll(
		`what (?:is|are) (?:the )?(.+)`,
		`tell me about (?:the )?(.+)`,
		`(?:information|details) (?:about|on|for) (?:the )?(.+)`,
		`describe (?:the )?(.+)`,
	)},
	{QuestionProcedural, compileAll(
		`how (?:do|can|should) (?:i|we) (.+)`,
		`what (?:are|is) the (?:steps|process|procedure) (?:to|for) (.+)`,
		`guide (?:me|us) (?:through|on) (.+)`,
		`explain how to (.+)`,
	)},
	{QuestionComparative, compileAll(
		`(?:compare|difference between) (.+)`,
		`which is (?:better|worse|more|less) (.+)`,
		`what are the (?:pros|cons|advantages|disadvantages) of (.+)`,
		`how does (.+) compare to (.+)`,
	)},
}

// intentKeywords maps each intent to its surface cues. Checked in this
// order; first hit wins, default is general.
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentLocation, []string{"where", "location", "address", "directions", "reach"}},
	{IntentTiming, []string{"when", "timing", "schedule", "hours", "open", "close"}},
	{IntentProcess, []string{"how to", "process", "steps", "procedure", "apply"}},
	{IntentContact, []string{"contact", "email", "phone", "reach out", "get in touch"}},
	{IntentDescription, []string{"what is", "tell me about", "describe", "explain"}},
}

var anaphoricPronouns = []string{"it", "this", "that", "they", "these", "those", "there"}

var followupCues = []string{
	"what about",
	"how about",
	"tell me more",
	"also",
	"and",
	"what else",
	"more information",
}

var leadingConjunctions = []string{"and", "but", "or", "so"}

var normalizePattern = regexp.MustCompile(`[^\w\s?]`)

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Analyzer turns raw query text into a structured Analysis. It holds no
// conversational state; prior context is an input.
type Analyzer struct {
	provider embedding.Provider
	timeout  time.Duration
}

func NewAnalyzer(provider embedding.Provider, timeout time.Duration) *Analyzer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Analyzer{provider: provider, timeout: timeout}
}

// Normalize lowercases, strips punctuation except '?', and collapses
// whitespace.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = normalizePattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// Analyze classifies text and extracts entities. It never fails: any
// internal fault is degraded into a partial analysis with Fault set.
func (a *Analyzer) Analyze(ctx context.Context, text string, prior *Prior) Analysis {
	analysis := Analysis{
		OriginalText:   text,
		NormalizedText: Normalize(text),
		QuestionType:   QuestionUnknown,
		Intent:         IntentGeneral,
	}

	normalized := analysis.NormalizedText
	if normalized == "" {
		return analysis
	}

	// Greetings short-circuit the rest of the pipeline.
	if matchesAny(questionPatterns[0].patterns, normalized) {
		analysis.QuestionType = QuestionGreeting
		return analysis
	}

	analysis.QuestionType = matchQuestionType(normalized)

	var fault string
	analysis.Entities, fault = a.extractEntities(normalized)
	if fault != "" {
		analysis.Fault = fault
		metrics.AnalyzerFaults.Inc()
	}

	if analysis.QuestionType == QuestionUnknown {
		analysis.QuestionType = a.classifySemantic(ctx, normalized)
	}

	analysis.Intent = matchIntent(normalized)
	analysis.Context = extractContext(normalized)
	analysis.IsFollowup = detectFollowup(normalized, analysis.Entities, prior)

	logger.Debug("Query analyzed",
		zap.String("question_type", string(analysis.QuestionType)),
		zap.String("intent", string(analysis.Intent)),
		zap.Strings("entities", analysis.Entities),
		zap.Bool("is_followup", analysis.IsFollowup),
	)

	return analysis
}

func matchQuestionType(normalized string) QuestionType {
	for _, entry := range questionPatterns[1:] {
		if matchesAny(entry.patterns, normalized) {
			return entry.qtype
		}
	}
	return QuestionUnknown
}

func matchIntent(normalized string) Intent {
	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(normalized, kw) {
				return entry.intent
			}
		}
	}
	return IntentGeneral
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// detectFollowup flags queries that depend on a prior turn: anaphoric
// pronouns, discourse cues, a leading conjunction, or an entity-free query
// when the session already has an anchor.
func detectFollowup(normalized string, entities []string, prior *Prior) bool {
	words := strings.Fields(normalized)
	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[strings.TrimSuffix(w, "?")] = struct{}{}
	}

	for _, pronoun := range anaphoricPronouns {
		if _, ok := wordSet[pronoun]; ok {
			return true
		}
	}

	for _, cue := range followupCues {
		if len(cue) <= 4 {
			// Short cues like "and"/"also" must be standalone words.
			if _, ok := wordSet[cue]; ok {
				return true
			}
			continue
		}
		if strings.Contains(normalized, cue) {
			return true
		}
	}

	for _, conj := range leadingConjunctions {
		if strings.HasPrefix(normalized, conj+" ") {
			return true
		}
	}

	return len(entities) == 0 && prior != nil && prior.CurrentEntity != ""
}

var timeWords = []string{"today", "tomorrow", "yesterday"}

var aspectWords = []string{"location", "facilities", "programs", "fees", "placements", "hostels"}

func extractContext(normalized string) ExtractedContext {
	ctx := ExtractedContext{}

	words := strings.Fields(normalized)
	for _, w := range words {
		w = strings.TrimSuffix(w, "?")
		for _, t := range timeWords {
			if w == t {
				ctx.TimeReference = t
			}
		}
	}

	for _, aspect := range aspectWords {
		if strings.Contains(normalized, aspect) {
			ctx.ComparisonAspects = append(ctx.ComparisonAspects, aspect)
		}
	}

	for _, campus := range campusNames {
		if strings.Contains(normalized, strings.ToLower(campus)) {
			ctx.LocationReference = campus
			break
		}
	}

	return ctx
}
