package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery_Normalizes(t *testing.T) {
	terms := ParseQuery("The Future of AI-Powered Startups!")
	assert.Equal(t, []string{"future", "powered", "startups"}, terms)
}

func TestParseQuery_DropsShortTokens(t *testing.T) {
	// "ai" and "ml" are two characters and get dropped along with stop words
	terms := ParseQuery("ai and ml in the cloud")
	assert.Equal(t, []string{"cloud"}, terms)
}

func TestParseQuery_DropsStopWords(t *testing.T) {
	terms := ParseQuery("the quick brown fox with a plan")
	assert.Equal(t, []string{"quick", "brown", "fox", "plan"}, terms)
}

func TestParseQuery_StripsPunctuation(t *testing.T) {
	terms := ParseQuery("don't panic, it's fine...")
	assert.Equal(t, []string{"don", "panic", "fine"}, terms)
}

func TestParseQuery_KeepsNonASCIILetters(t *testing.T) {
	terms := ParseQuery("Café culture in Zürich!")
	assert.Equal(t, []string{"café", "culture", "zürich"}, terms)
}

func TestParseQuery_Empty(t *testing.T) {
	assert.Empty(t, ParseQuery(""))
	assert.Empty(t, ParseQuery("   "))
	assert.Empty(t, ParseQuery("a an of"))
	assert.Empty(t, ParseQuery("!!! ???"))
}

func TestParseQuery_PreservesOrderAndDuplicates(t *testing.T) {
	terms := ParseQuery("golang testing golang")
	assert.Equal(t, []string{"golang", "testing", "golang"}, terms)
}

func TestBuildMatchQuery(t *testing.T) {
	assert.Equal(t, "", BuildMatchQuery(nil))
	assert.Equal(t, "golang*", BuildMatchQuery([]string{"golang"}))
	assert.Equal(t,
		`golang* OR testing* OR "golang testing"`,
		BuildMatchQuery([]string{"golang", "testing"}))
	assert.Equal(t,
		`web* OR development* OR tips* OR "web development" OR "development tips"`,
		BuildMatchQuery([]string{"web", "development", "tips"}))
}
