package models

import (
	"time"
)

// Fundraiser is a campaign owned by exactly one user. OwnerID and DateCreated
// are set once on creation.
type Fundraiser struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Goal        int       `gorm:"not null" json:"goal"`
	Image       string    `gorm:"size:200" json:"image"`
	IsOpen      bool      `gorm:"not null" json:"is_open"`
	Slug        string    `gorm:"size:220;index" json:"slug"`
	DateCreated time.Time `gorm:"autoCreateTime" json:"date_created"`
	OwnerID     uint      `gorm:"index;not null" json:"owner"`
	Owner       User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Pledges     []Pledge  `gorm:"foreignKey:FundraiserID;constraint:OnDelete:CASCADE" json:"-"`
}

// FundraiserDetail is the detail representation: the fundraiser plus its
// pledges, each already filtered for the viewer.
type FundraiserDetail struct {
	Fundraiser
	Pledges []Pledge `json:"pledges"`
}

// DetailFor renders f for viewerID (0 for anonymous). Pledges is never nil.
func (f Fundraiser) DetailFor(viewerID uint) FundraiserDetail {
	pledges := make([]Pledge, 0, len(f.Pledges))
	for _, p := range f.Pledges {
		pledges = append(pledges, p.VisibleTo(viewerID, f.OwnerID))
	}
	return FundraiserDetail{Fundraiser: f, Pledges: pledges}
}
