package misc

import "math/rand"

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// trainingQuotes is the built-in pool served on /quote/random.
var trainingQuotes = []Quote{
	{Text: "Strength does not come from winning. Your struggles develop your strengths.", Author: "Arnold Schwarzenegger"},
	{Text: "The last three or four reps is what makes the muscle grow.", Author: "Arnold Schwarzenegger"},
	{Text: "A champion is someone who gets up when they can't.", Author: "Jack Dempsey"},
	{Text: "Nothing will work unless you do.", Author: "Maya Angelou"},
	{Text: "Take care of your body. It's the only place you have to live.", Author: "Jim Rohn"},
	{Text: "We are what we repeatedly do. Excellence, then, is not an act, but a habit.", Author: "Will Durant"},
	{Text: "Fall seven times, stand up eight.", Author: "Japanese proverb"},
	{Text: "It never gets easier, you just get stronger.", Author: "unknown"},
}

type QuotesManager struct {
	quotes []Quote
}

func NewQuotesManager() *QuotesManager {
	return &QuotesManager{
		quotes: trainingQuotes,
	}
}

func (qm *QuotesManager) RandomQuote() Quote {
	return qm.quotes[rand.Intn(len(qm.quotes))]
}
