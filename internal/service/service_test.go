package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"crowdfund/internal/cache"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"
	"crowdfund/internal/storage/storagetest"
)

type recordingPublisher struct {
	messages []models.Message
}

func (p *recordingPublisher) Publish(msg models.Message) {
	p.messages = append(p.messages, msg)
}

type fixture struct {
	repos  *repository.Repositories
	svc    *Services
	feed   *recordingPublisher
	tokens *memoryTokenCache
	ctx    context.Context
}

// memoryTokenCache stands in for Redis.
type memoryTokenCache struct {
	entries map[string]uint
	hits    int
}

func (c *memoryTokenCache) Get(_ context.Context, key string) (uint, bool) {
	id, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return id, ok
}

func (c *memoryTokenCache) Set(_ context.Context, key string, userID uint) error {
	c.entries[key] = userID
	return nil
}

func (c *memoryTokenCache) Close() error { return nil }

var _ cache.TokenCache = (*memoryTokenCache)(nil)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := repository.NewRepositories(storagetest.New(t))
	tokens := &memoryTokenCache{entries: map[string]uint{}}
	svc := NewServices(repos, tokens)
	svc.User.hashCost = bcrypt.MinCost

	feed := &recordingPublisher{}
	svc.Pledge.feed = feed

	return &fixture{repos: repos, svc: svc, feed: feed, tokens: tokens, ctx: context.Background()}
}

func (f *fixture) register(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := f.svc.User.Register(f.ctx, RegisterInput{
		Username: username,
		Password: "secret123",
		Email:    username + "@test.com",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) fundraiser(t *testing.T, ownerID uint, open bool) *models.Fundraiser {
	t.Helper()
	fr, err := f.svc.Fundraiser.CreateFundraiser(f.ctx, ownerID, FundraiserInput{
		Title:       ptr("New roof"),
		Description: ptr("The old one leaks."),
		Goal:        ptr(50000),
		Image:       ptr("https://example.com/roof.png"),
		IsOpen:      ptr(open),
	})
	require.NoError(t, err)
	return fr
}

func ptr[T any](v T) *T { return &v }
