package fakegen

import (
	"math/rand"

	"github.com/go-faker/faker/v4"
)

// Faker is the fake-data source the generators draw names, addresses and
// words from.
type Faker interface {
	FirstName() string
	LastName() string
	Email() string
	Word() string
}

// GoFaker adapts the go-faker package functions. go-faker keeps a single
// process-wide random source, so NewGoFaker reseeds it.
type GoFaker struct{}

var _ Faker = GoFaker{}

func NewGoFaker(src rand.Source) GoFaker {
	faker.SetRandomSource(faker.NewSafeSource(src))
	return GoFaker{}
}

func (GoFaker) FirstName() string { return faker.FirstName() }
func (GoFaker) LastName() string  { return faker.LastName() }
func (GoFaker) Email() string     { return faker.Email() }
func (GoFaker) Word() string      { return faker.Word() }
