package service

import (
	"crowdfund/internal/cache"
	"crowdfund/internal/repository"
)

type Services struct {
	User       *UserService
	Auth       *AuthService
	Fundraiser *FundraiserService
	Pledge     *PledgeService
	Feed       *FeedService
}

func NewServices(repos *repository.Repositories, tokens cache.TokenCache) *Services {
	feed := NewFeedService()

	return &Services{
		User:       NewUserService(repos.User),
		Auth:       NewAuthService(repos.User, repos.Token, tokens),
		Fundraiser: NewFundraiserService(repos.Fundraiser),
		Pledge:     NewPledgeService(repos.Pledge, repos.Fundraiser, feed),
		Feed:       feed,
	}
}
