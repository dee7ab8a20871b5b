package fakegen

var remarks = map[string][]string{
	"fr": {
		"Super article, ça m'a enfin permis de comprendre le principe.",
		"Merci du partage, je bloquais là-dessus depuis des semaines.",
		"Très clair. Un exemple de plus sur la gestion des erreurs serait le bienvenu.",
		"Je ne suis pas tout à fait d'accord sur la troisième partie, chez nous ça se passe autrement.",
		"Exactement ce qu'il me fallait, merci !",
		"Bien rédigé, je vais tester cette approche sur mon projet.",
		"Petite question : comment gérez-vous les cas limites ?",
		"Facile à suivre du début à la fin. Bravo.",
		"J'ai essayé quelque chose de similaire et j'ai eu des soucis. Une idée ?",
		"Bon résumé, mais il manque à mon avis un point important.",
		"Pile au bon moment, j'allais justement implémenter ça.",
		"Concis et concret, j'apprécie les exemples.",
		"J'utilisais une autre méthode, celle-ci a l'air plus propre.",
		"Qu'en est-il des performances sur de gros volumes ?",
		"Merci pour le niveau de détail, très instructif.",
	},
	"en": {
		"Great article, this finally made the concept click for me.",
		"Thanks for sharing, I had been stuck on this for weeks.",
		"Very clear. One more example on error handling would help.",
		"I disagree with the third point, it works differently in my experience.",
		"Exactly what I was looking for, thanks!",
		"Well written, I will try this approach on my project.",
		"Quick question: how do you handle the edge cases?",
		"Easy to follow from start to finish.",
		"I tried something similar and ran into problems. Any suggestions?",
		"Good overview, but I think one important aspect is missing.",
		"Perfect timing, I was about to implement this.",
		"Short and practical, I appreciate the examples.",
		"I used a different approach, this one looks cleaner.",
		"What about performance on large data sets?",
		"Thanks for the detailed explanation, very informative.",
	},
}

// Remarks returns the canned comment pool for locale, falling back to French.
func Remarks(locale string) []string {
	if pool, ok := remarks[locale]; ok {
		return pool
	}
	return remarks["fr"]
}
