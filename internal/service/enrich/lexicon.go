package enrich

// Lookup tables backing the enrichment heuristics. Kept as plain data so
// the tables can be tested and swapped independently of the pipeline logic.

// Common stop words for text processing
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"that": true, "the": true, "to": true, "was": true, "will": true, "with": true,
	"this": true, "but": true, "they": true, "have": true, "had": true,
	"were": true, "been": true, "their": true, "she": true, "which": true, "do": true,
	"or": true, "if": true, "not": true, "what": true, "there": true, "can": true,
	"out": true, "up": true, "one": true, "about": true, "more": true, "so": true,
	"said": true, "when": true, "some": true, "into": true, "them": true, "then": true,
	"two": true, "how": true, "her": true, "than": true, "first": true, "way": true,
	"even": true, "back": true, "any": true, "over": true, "where": true, "just": true,
	"your": true, "you": true, "we": true, "our": true, "all": true, "now": true,
}

// positiveWords and negativeWords back the sentiment scan
var positiveWords = map[string]bool{
	"amazing": true, "awesome": true, "best": true, "better": true, "brilliant": true,
	"easy": true, "effective": true, "efficient": true, "enjoy": true, "excellent": true,
	"fast": true, "favorite": true, "free": true, "fresh": true, "fun": true,
	"good": true, "great": true, "happy": true, "helpful": true, "improve": true,
	"innovative": true, "love": true, "modern": true, "new": true, "perfect": true,
	"powerful": true, "premium": true, "quality": true, "reliable": true, "secure": true,
	"simple": true, "smart": true, "success": true, "top": true, "trusted": true,
	"win": true, "wonderful": true,
}

var negativeWords = map[string]bool{
	"bad": true, "broken": true, "complicated": true, "confusing": true, "crash": true,
	"difficult": true, "disappointing": true, "error": true, "expensive": true,
	"fail": true, "failure": true, "hard": true, "hate": true, "issue": true,
	"lose": true, "loss": true, "never": true, "poor": true, "problem": true,
	"risk": true, "slow": true, "terrible": true, "ugly": true, "unreliable": true,
	"warning": true, "worst": true, "worse": true, "wrong": true,
}

// Call-to-action verbs a compelling description usually opens with
var ctaWords = map[string]bool{
	"browse": true, "build": true, "buy": true, "create": true, "discover": true,
	"download": true, "explore": true, "find": true, "get": true, "join": true,
	"learn": true, "read": true, "shop": true, "sign": true, "start": true,
	"try": true, "watch": true,
}

// categoryTable maps category names to the keywords that vote for them.
// Categories iterate in the order of categoryOrder so scoring stays
// deterministic.
var categoryTable = map[string][]string{
	"productivity": {
		"productivity", "workflow", "task", "tasks", "todo", "organize",
		"calendar", "notes", "planner", "schedule", "automation", "efficiency",
	},
	"developer-tools": {
		"developer", "developers", "api", "sdk", "code", "coding", "programming",
		"library", "framework", "deploy", "deployment", "debugging", "database",
		"cli", "open-source", "github", "devops",
	},
	"design": {
		"design", "designer", "ui", "ux", "prototyping", "typography", "icons",
		"illustration", "figma", "mockup", "branding", "logo", "color",
	},
	"ecommerce": {
		"shop", "shopping", "store", "buy", "price", "prices", "product",
		"products", "cart", "checkout", "deals", "discount", "shipping",
	},
	"news": {
		"news", "breaking", "headlines", "journalism", "report", "reporting",
		"daily", "politics", "world", "coverage",
	},
	"education": {
		"learn", "learning", "course", "courses", "tutorial", "tutorials",
		"education", "teach", "training", "lessons", "study", "school",
	},
	"finance": {
		"finance", "financial", "invest", "investing", "investment", "money",
		"banking", "budget", "crypto", "trading", "payments", "accounting",
	},
	"entertainment": {
		"game", "games", "gaming", "music", "video", "videos", "movie",
		"movies", "streaming", "podcast", "entertainment", "play",
	},
	"health": {
		"health", "fitness", "workout", "nutrition", "wellness", "medical",
		"meditation", "sleep", "diet", "exercise",
	},
	"travel": {
		"travel", "trip", "trips", "flight", "flights", "hotel", "hotels",
		"vacation", "destination", "destinations", "booking", "tourism",
	},
	"marketing": {
		"marketing", "seo", "campaign", "campaigns", "analytics", "audience",
		"brand", "advertising", "email", "growth", "conversion", "social",
	},
}

// categoryOrder fixes iteration order for deterministic scoring
var categoryOrder = []string{
	"productivity",
	"developer-tools",
	"design",
	"ecommerce",
	"news",
	"education",
	"finance",
	"entertainment",
	"health",
	"travel",
	"marketing",
}

// categoryIndustry maps each category to a broad industry label
var categoryIndustry = map[string]string{
	"productivity":    "Software",
	"developer-tools": "Software",
	"design":          "Creative",
	"ecommerce":       "Retail",
	"news":            "Media",
	"education":       "Education",
	"finance":         "Finance",
	"entertainment":   "Media",
	"health":          "Healthcare",
	"travel":          "Travel",
	"marketing":       "Marketing",
}
