package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
	"github.com/daffahilmyf/mdd-seed/internal/domain/repository"
	"github.com/daffahilmyf/mdd-seed/internal/fakegen"
	"github.com/sirupsen/logrus"
)

const (
	day = 24 * time.Hour

	minArticlesPerTopic = 10
	maxArticlesPerTopic = 20
	maxCommentsPerPost  = 5
	articleWindow       = 90 * day
	updateChance        = 0.3
	maxFollowUpDays     = 30

	articleProgressEvery = 5
	commentProgressEvery = 50
)

type PopulatorDeps struct {
	Content repository.ContentRepository
	Text    *fakegen.Text
	Rand    *rand.Rand
	Now     func() time.Time
	Log     logrus.FieldLogger
}

type CountReport struct {
	Attempted int
	Created   int
	Failed    int
}

// Populator writes articles and their comments with timestamps that keep
// every comment after its article.
type Populator struct {
	deps PopulatorDeps
}

func NewPopulator(deps PopulatorDeps) *Populator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	return &Populator{deps: deps}
}

// PopulateArticles writes 10 to 20 articles per topic and returns the ones
// that were stored, with their ids.
func (p *Populator) PopulateArticles(ctx context.Context, userIDs []int64, topics []entity.Topic) ([]entity.Article, CountReport, error) {
	var report CountReport
	if len(userIDs) == 0 {
		return nil, report, nil
	}
	now := p.deps.Now().UTC().Truncate(time.Second)
	windowSeconds := int64(articleWindow / time.Second)

	var created []entity.Article
	for _, topic := range topics {
		n := p.between(minArticlesPerTopic, maxArticlesPerTopic)
		log := p.deps.Log.WithField("topic_id", topic.ID)
		stored := 0
		for i := 0; i < n; i++ {
			report.Attempted++
			createdAt := now.Add(-time.Duration(p.deps.Rand.Int63n(windowSeconds+1)) * time.Second)
			article := entity.Article{
				Title:     p.deps.Text.Title(topic.Name),
				Content:   p.deps.Text.Body(),
				AuthorID:  p.author(userIDs),
				TopicID:   topic.ID,
				CreatedAt: createdAt,
			}
			if p.deps.Rand.Float64() < updateChance {
				updatedAt := createdAt.Add(p.followUp())
				article.UpdatedAt = &updatedAt
			}

			if err := p.deps.Content.CreateArticle(ctx, &article); err != nil {
				if errors.Is(err, repository.ErrUnavailable) {
					return created, report, err
				}
				report.Failed++
				log.WithError(err).WithField("author_id", article.AuthorID).Warn("create article failed")
				continue
			}
			report.Created++
			stored++
			created = append(created, article)
			log.WithField("article_id", article.ID).Debug("article created")
			if stored%articleProgressEvery == 0 {
				log.WithField("topic", topic.Name).Infof("%d/%d articles created", stored, n)
			}
		}
	}
	return created, report, nil
}

// PopulateComments writes 0 to 5 comments on each article, each dated 1 to
// 30 whole days after the article.
func (p *Populator) PopulateComments(ctx context.Context, userIDs []int64, articles []entity.Article) (CountReport, error) {
	var report CountReport
	if len(userIDs) == 0 {
		return report, nil
	}

	for _, article := range articles {
		n := p.between(0, maxCommentsPerPost)
		for i := 0; i < n; i++ {
			report.Attempted++
			comment := entity.Comment{
				Content:   p.deps.Text.Comment(),
				AuthorID:  p.author(userIDs),
				ArticleID: article.ID,
				CreatedAt: article.CreatedAt.Add(p.followUp()),
			}
			if err := p.deps.Content.CreateComment(ctx, &comment); err != nil {
				if errors.Is(err, repository.ErrUnavailable) {
					return report, err
				}
				report.Failed++
				p.deps.Log.WithError(err).WithField("article_id", article.ID).Warn("create comment failed")
				continue
			}
			report.Created++
			if report.Created%commentProgressEvery == 0 {
				p.deps.Log.Infof("%d comments created", report.Created)
			}
		}
	}
	return report, nil
}

func (p *Populator) author(userIDs []int64) int64 {
	return userIDs[p.deps.Rand.Intn(len(userIDs))]
}

// followUp is a whole number of days in [1, 30].
func (p *Populator) followUp() time.Duration {
	return time.Duration(p.between(1, maxFollowUpDays)) * day
}

func (p *Populator) between(lo, hi int) int {
	return lo + p.deps.Rand.Intn(hi-lo+1)
}
