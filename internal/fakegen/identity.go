package fakegen

import (
	"strconv"
	"strings"
)

const maxEmailAttempts = 25

type Identity struct {
	Given    string
	Family   string
	Username string
	Email    string
}

// Identities issues usernames and emails that are unique within one batch.
// It is not safe for concurrent use.
type Identities struct {
	faker     Faker
	usernames map[string]struct{}
	emails    map[string]struct{}
}

func NewIdentities(f Faker) *Identities {
	return &Identities{
		faker:     f,
		usernames: make(map[string]struct{}),
		emails:    make(map[string]struct{}),
	}
}

// Username builds "given.family" from folded name parts, with n appended
// when n > 0.
func Username(given, family string, n int) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{given, family} {
		if folded := Fold(p); folded != "" {
			parts = append(parts, folded)
		}
	}
	base := strings.Join(parts, ".")
	if base == "" {
		base = "user"
	}
	if n > 0 {
		base += strconv.Itoa(n)
	}
	return base
}

func (i *Identities) Next() Identity {
	given := i.faker.FirstName()
	family := i.faker.LastName()
	return Identity{
		Given:    given,
		Family:   family,
		Username: i.Username(given, family),
		Email:    i.Email(),
	}
}

// Username returns the base username for the name, or the base with the
// smallest positive suffix not issued yet, and records it.
func (i *Identities) Username(given, family string) string {
	for n := 0; ; n++ {
		candidate := Username(given, family, n)
		key := strings.ToLower(candidate)
		if _, taken := i.usernames[key]; !taken {
			i.usernames[key] = struct{}{}
			return candidate
		}
	}
}

// Email draws addresses until one has not been issued in this batch. After
// maxEmailAttempts draws the local part of the last one gets a numeric suffix.
func (i *Identities) Email() string {
	var candidate string
	for attempt := 0; attempt < maxEmailAttempts; attempt++ {
		candidate = i.faker.Email()
		if i.claimEmail(candidate) {
			return candidate
		}
	}

	local, domain, ok := strings.Cut(candidate, "@")
	if !ok {
		local, domain = candidate, "example.com"
	}
	for n := 1; ; n++ {
		suffixed := local + strconv.Itoa(n) + "@" + domain
		if i.claimEmail(suffixed) {
			return suffixed
		}
	}
}

func (i *Identities) claimEmail(email string) bool {
	key := strings.ToLower(email)
	if _, taken := i.emails[key]; taken {
		return false
	}
	i.emails[key] = struct{}{}
	return true
}
