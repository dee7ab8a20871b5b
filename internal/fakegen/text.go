package fakegen

import (
	"math/rand"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
)

// Text generates article titles, bodies and comments. Every random choice
// comes from the *rand.Rand it was built with; words come from the Faker.
type Text struct {
	faker   Faker
	rand    *rand.Rand
	remarks []string
}

func NewText(f Faker, r *rand.Rand, locale string) *Text {
	return &Text{faker: f, rand: r, remarks: Remarks(locale)}
}

// Title is a 4 to 8 word sentence without its final period, suffixed with
// " - topic" 70% of the time.
func (t *Text) Title(topic string) string {
	title := strings.TrimSuffix(t.sentence(4, 8), ".")
	if t.rand.Float64() < 0.7 {
		title += " - " + topic
	}
	return title
}

// Body is 4 to 8 paragraphs of 4 to 10 sentences, cut to the column size.
func (t *Text) Body() string {
	paragraphs := make([]string, t.between(4, 8))
	for i := range paragraphs {
		sentences := make([]string, t.between(4, 10))
		for j := range sentences {
			sentences[j] = t.sentence(4, 12)
		}
		paragraphs[i] = strings.Join(sentences, " ")
	}
	return truncate(strings.Join(paragraphs, "\n\n"), entity.MaxContentLength)
}

func (t *Text) Comment() string {
	if len(t.remarks) == 0 || t.rand.Float64() < 0.5 {
		return t.sentence(8, 20)
	}
	return t.remarks[t.rand.Intn(len(t.remarks))]
}

func (t *Text) sentence(minWords, maxWords int) string {
	words := make([]string, t.between(minWords, maxWords))
	for i := range words {
		words[i] = t.faker.Word()
	}
	return capitalize(strings.Join(words, " ")) + "."
}

// between draws uniformly from [lo, hi].
func (t *Text) between(lo, hi int) int {
	return lo + t.rand.Intn(hi-lo+1)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
