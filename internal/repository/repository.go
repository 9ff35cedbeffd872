package repository

import (
	"errors"

	"gorm.io/gorm"

	"crowdfund/internal/storage"
)

// ErrNotFound is returned by Find* methods when no row matches.
var ErrNotFound = errors.New("record not found")

type Repositories struct {
	User       UserRepository
	Token      TokenRepository
	Fundraiser FundraiserRepository
	Pledge     PledgeRepository
}

func NewRepositories(db *storage.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Token:      NewTokenRepository(db),
		Fundraiser: NewFundraiserRepository(db),
		Pledge:     NewPledgeRepository(db),
	}
}

// translate maps GORM's not-found sentinel onto ErrNotFound.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
