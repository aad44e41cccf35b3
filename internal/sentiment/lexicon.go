package sentiment

// Fixed word lists for the heuristic scorer. This is keyword counting, not a
// trained model; words were picked for airport passenger feedback.
//
// "lost" is deliberately absent from the negative list: it appears in neutral
// phrasing ("lost track of time") often enough that luggage complaints are
// caught by the category keywords instead.
var positiveWords = []string{
	"amazing", "awesome", "clean", "comfortable", "easy", "efficient",
	"excellent", "fantastic", "fast", "friendly", "good", "great",
	"helpful", "impressed", "love", "nice", "perfect", "pleasant",
	"quick", "smooth", "wonderful",
}

var negativeWords = []string{
	"angry", "awful", "bad", "broken", "cancelled", "chaos", "crowded",
	"delayed", "dirty", "disappointed", "frustrating", "horrible",
	"nightmare", "poor", "rude", "slow", "stuck", "terrible", "worst",
}
