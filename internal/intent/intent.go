// Package intent classifies free-form user text into the assistant's three
// intents. Classification is a deterministic trigger-phrase match: the same
// text and phrase configuration always yield the same intent.
package intent

import "strings"

// Intent is the classified purpose of a user's input.
type Intent int

const (
	Support Intent = iota
	Record
	Recall
)

func (i Intent) String() string {
	switch i {
	case Record:
		return "record"
	case Recall:
		return "recall"
	default:
		return "support"
	}
}

// Classifier matches text against configured trigger phrase sets.
type Classifier struct {
	record []string
	recall []string
}

// NewClassifier builds a classifier from record and recall trigger phrases.
// Matching is case-insensitive.
func NewClassifier(recordPhrases, recallPhrases []string) *Classifier {
	return &Classifier{
		record: lowerAll(recordPhrases),
		recall: lowerAll(recallPhrases),
	}
}

// NewDefaultClassifier returns a classifier with the product's stock French
// and English trigger phrases.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(
		[]string{
			"note que",
			"ajoute à mon journal",
			"ajoute a mon journal",
			"note that",
			"add to my journal",
		},
		[]string{
			"qu'ai-je fait",
			"rappelle-moi",
			"qu'est-ce que j'ai fait",
			"what did i do",
			"remind me",
		},
	)
}

// Classify returns the intent for the given text. Record triggers take
// precedence over recall triggers; text matching neither is support.
func (c *Classifier) Classify(text string) Intent {
	lowered := strings.ToLower(text)

	for _, phrase := range c.record {
		if strings.Contains(lowered, phrase) {
			return Record
		}
	}
	for _, phrase := range c.recall {
		if strings.Contains(lowered, phrase) {
			return Recall
		}
	}

	return Support
}

func lowerAll(phrases []string) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = strings.ToLower(p)
	}
	return out
}
