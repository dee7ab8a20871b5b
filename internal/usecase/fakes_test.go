package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
	"github.com/daffahilmyf/mdd-seed/internal/domain/repository"
	"github.com/daffahilmyf/mdd-seed/internal/domain/service"
)

// seqFaker always yields the same person so usernames exercise the
// collision suffix, and numbered emails.
type seqFaker struct {
	n int
}

func (f *seqFaker) FirstName() string { return "Jérôme" }
func (f *seqFaker) LastName() string  { return "Lefèvre" }
func (f *seqFaker) Word() string      { return "lorem" }
func (f *seqFaker) Email() string {
	f.n++
	return fmt.Sprintf("user%d@example.org", f.n)
}

type account struct {
	id           int64
	username     string
	email        string
	visibleAfter int
	lookups      int
}

// directory stands in for both the registration endpoint and the users
// table, with per-registration visibility lag.
type directory struct {
	mu       sync.Mutex
	nextID   int64
	regs     int
	accounts map[string]*account
	// refuse, lag and hidden are keyed by 1-based registration order.
	refuse map[int]bool
	lag    map[int]int
	hidden map[int]bool

	lookupErr    error
	similarCalls int
}

func newDirectory() *directory {
	return &directory{
		nextID:   100,
		accounts: make(map[string]*account),
		refuse:   make(map[int]bool),
		lag:      make(map[int]int),
		hidden:   make(map[int]bool),
	}
}

func (d *directory) Register(_ context.Context, req service.Registration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.regs++
	if d.refuse[d.regs] {
		return errors.New("unexpected registration status 409")
	}
	visibleAfter := 1
	if lag, ok := d.lag[d.regs]; ok {
		visibleAfter = lag
	}
	if d.hidden[d.regs] {
		visibleAfter = int(^uint(0) >> 1)
	}
	d.nextID++
	d.accounts[strings.ToLower(req.Username)] = &account{
		id:           d.nextID,
		username:     req.Username,
		email:        req.Email,
		visibleAfter: visibleAfter,
	}
	return nil
}

func (d *directory) FindIDByLogin(_ context.Context, username, email string) (int64, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lookupErr != nil {
		return 0, false, d.lookupErr
	}
	acc, ok := d.accounts[strings.ToLower(username)]
	if !ok {
		for _, a := range d.accounts {
			if strings.EqualFold(a.email, email) {
				acc, ok = a, true
				break
			}
		}
	}
	if !ok {
		return 0, false, nil
	}
	acc.lookups++
	if acc.lookups < acc.visibleAfter {
		return 0, false, nil
	}
	return acc.id, true, nil
}

func (d *directory) FindSimilar(context.Context, string, string) ([]entity.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.similarCalls++
	return nil, nil
}

func (d *directory) lookupsFor(username string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if acc, ok := d.accounts[strings.ToLower(username)]; ok {
		return acc.lookups
	}
	return 0
}

// contentLog records rows and can fail selected inserts. failArticle and
// failComment are 1-based call numbers.
type contentLog struct {
	subs     []entity.UserTopic
	articles []entity.Article
	comments []entity.Comment

	subErr      func(entity.UserTopic) error
	failArticle map[int]error
	failComment map[int]error

	articleCalls int
	commentCalls int
	nextID       int64
}

func (c *contentLog) CreateSubscription(_ context.Context, sub *entity.UserTopic) error {
	if c.subErr != nil {
		if err := c.subErr(*sub); err != nil {
			return err
		}
	}
	c.subs = append(c.subs, *sub)
	return nil
}

func (c *contentLog) CreateArticle(_ context.Context, article *entity.Article) error {
	c.articleCalls++
	if err := c.failArticle[c.articleCalls]; err != nil {
		return err
	}
	c.nextID++
	article.ID = c.nextID
	c.articles = append(c.articles, *article)
	return nil
}

func (c *contentLog) CreateComment(_ context.Context, comment *entity.Comment) error {
	c.commentCalls++
	if err := c.failComment[c.commentCalls]; err != nil {
		return err
	}
	c.nextID++
	comment.ID = c.nextID
	c.comments = append(c.comments, *comment)
	return nil
}

var (
	_ service.AuthService          = (*directory)(nil)
	_ repository.UserRepository    = (*directory)(nil)
	_ repository.ContentRepository = (*contentLog)(nil)
)
