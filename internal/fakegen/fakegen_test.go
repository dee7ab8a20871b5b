package fakegen_test

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
	"github.com/daffahilmyf/mdd-seed/internal/fakegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFaker replays fixed names and emails in order and cycles through
// a small word list.
type scriptedFaker struct {
	given, family, emails []string
	words                 []string
	g, f, e, w            int
}

func (s *scriptedFaker) FirstName() string { v := s.given[s.g%len(s.given)]; s.g++; return v }
func (s *scriptedFaker) LastName() string  { v := s.family[s.f%len(s.family)]; s.f++; return v }
func (s *scriptedFaker) Email() string     { v := s.emails[s.e%len(s.emails)]; s.e++; return v }
func (s *scriptedFaker) Word() string {
	if len(s.words) == 0 {
		return "lorem"
	}
	v := s.words[s.w%len(s.words)]
	s.w++
	return v
}

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Élodie":     "elodie",
		"François":   "francois",
		"Lætitia":    "laetitia",
		"Œuvray":     "oeuvray",
		"Jean-Noël":  "jean-noel",
		"D'Artagnan": "dartagnan",
		"Le Gall":    "legall",
		"Strauß":     "strauss",
		"Ångström":   "angstrom",
	}
	for in, want := range cases {
		assert.Equal(t, want, fakegen.Fold(in), in)
	}
}

func TestUsernameBase(t *testing.T) {
	assert.Equal(t, "elodie.meunier", fakegen.Username("Élodie", "Meunier", 0))
	assert.Equal(t, "elodie.meunier3", fakegen.Username("Élodie", "Meunier", 3))
	assert.Equal(t, "user", fakegen.Username("", "", 0))
}

func TestIdentitiesUsernameSuffix(t *testing.T) {
	ids := fakegen.NewIdentities(&scriptedFaker{})

	assert.Equal(t, "anais.roux", ids.Username("Anaïs", "Roux"))
	assert.Equal(t, "anais.roux1", ids.Username("Anais", "Roux"))
	assert.Equal(t, "anais.roux2", ids.Username("ANAÏS", "ROUX"))

	fresh := fakegen.NewIdentities(&scriptedFaker{})
	assert.Equal(t, "anais.roux", fresh.Username("Anaïs", "Roux"))
}

func TestIdentitiesEmailRegenerates(t *testing.T) {
	f := &scriptedFaker{emails: []string{"a@example.org", "A@example.org", "b@example.org"}}
	ids := fakegen.NewIdentities(f)

	assert.Equal(t, "a@example.org", ids.Email())
	assert.Equal(t, "b@example.org", ids.Email())
	assert.Equal(t, 3, f.e)
}

func TestIdentitiesEmailFallsBackToSuffix(t *testing.T) {
	f := &scriptedFaker{emails: []string{"same@example.org"}}
	ids := fakegen.NewIdentities(f)

	assert.Equal(t, "same@example.org", ids.Email())
	assert.Equal(t, "same1@example.org", ids.Email())
	assert.Equal(t, "same2@example.org", ids.Email())
}

func TestNextIsUniqueAcrossBatch(t *testing.T) {
	f := &scriptedFaker{
		given:  []string{"Léa", "Lea", "Hugo"},
		family: []string{"Martin", "Martin", "Bernard"},
		emails: []string{"x@example.org", "y@example.org", "x@example.org", "z@example.org"},
	}
	ids := fakegen.NewIdentities(f)

	usernames := map[string]bool{}
	emails := map[string]bool{}
	for i := 0; i < 30; i++ {
		id := ids.Next()
		u, e := strings.ToLower(id.Username), strings.ToLower(id.Email)
		require.False(t, usernames[u], u)
		require.False(t, emails[e], e)
		usernames[u], emails[e] = true, true
	}
}

func TestTitle(t *testing.T) {
	text := fakegen.NewText(&scriptedFaker{words: []string{"alpha"}}, rand.New(rand.NewSource(7)), "fr")

	withTopic := 0
	for i := 0; i < 500; i++ {
		title := text.Title("Go")
		require.NotEmpty(t, title)
		assert.Equal(t, "A", title[:1])
		head, _, suffixed := strings.Cut(title, " - ")
		words := strings.Fields(head)
		assert.GreaterOrEqual(t, len(words), 4)
		assert.LessOrEqual(t, len(words), 8)
		assert.False(t, strings.HasSuffix(head, "."))
		if suffixed {
			withTopic++
		}
	}
	assert.InDelta(t, 350, withTopic, 60)
}

func TestBodyShapeAndLimit(t *testing.T) {
	text := fakegen.NewText(&scriptedFaker{}, rand.New(rand.NewSource(1)), "fr")

	for i := 0; i < 50; i++ {
		body := text.Body()
		paragraphs := strings.Split(body, "\n\n")
		assert.GreaterOrEqual(t, len(paragraphs), 4)
		assert.LessOrEqual(t, len(paragraphs), 8)
		assert.LessOrEqual(t, utf8.RuneCountInString(body), entity.MaxContentLength)
	}

	long := fakegen.NewText(&scriptedFaker{words: []string{strings.Repeat("é", 400)}}, rand.New(rand.NewSource(1)), "fr")
	body := long.Body()
	assert.Equal(t, entity.MaxContentLength, utf8.RuneCountInString(body))
	assert.True(t, utf8.ValidString(body))
}

func TestCommentMixesSentencesAndRemarks(t *testing.T) {
	text := fakegen.NewText(&scriptedFaker{words: []string{"lorem"}}, rand.New(rand.NewSource(3)), "en")
	pool := map[string]bool{}
	for _, r := range fakegen.Remarks("en") {
		pool[r] = true
	}

	canned := 0
	for i := 0; i < 400; i++ {
		c := text.Comment()
		if pool[c] {
			canned++
			continue
		}
		words := strings.Fields(c)
		assert.GreaterOrEqual(t, len(words), 8)
		assert.LessOrEqual(t, len(words), 20)
	}
	assert.InDelta(t, 200, canned, 50)
}

func TestRemarksFallBackToFrench(t *testing.T) {
	assert.Equal(t, fakegen.Remarks("fr"), fakegen.Remarks("de"))
	assert.Len(t, fakegen.Remarks("fr"), 15)
}
