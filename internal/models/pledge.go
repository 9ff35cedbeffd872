package models

import (
	"time"
)

// Pledge is a supporter's contribution to a fundraiser. Amount, FundraiserID
// and SupporterID do not change after creation.
type Pledge struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Amount          int        `gorm:"not null" json:"amount"`
	Comment         string     `gorm:"size:200" json:"comment"`
	Anonymous       bool       `gorm:"not null;default:false" json:"anonymous"`
	FundraiserID    uint       `gorm:"index;not null" json:"fundraiser"`
	Fundraiser      Fundraiser `gorm:"foreignKey:FundraiserID" json:"-"`
	SupporterID     uint       `gorm:"index;not null" json:"supporter"`
	Supporter       User       `gorm:"foreignKey:SupporterID;constraint:OnDelete:CASCADE" json:"-"`
	DateCreated     time.Time  `gorm:"autoCreateTime" json:"date_created"`
	IsHiddenByOwner bool       `gorm:"not null;default:false" json:"is_hidden_by_owner"`
}

// VisibleTo returns the representation of p seen by viewerID. A comment hidden
// by the fundraiser owner is blanked for everyone but that owner and the
// supporter. viewerID 0 is the anonymous viewer.
func (p Pledge) VisibleTo(viewerID, fundraiserOwnerID uint) Pledge {
	if !p.IsHiddenByOwner {
		return p
	}
	if viewerID != 0 && (viewerID == fundraiserOwnerID || viewerID == p.SupporterID) {
		return p
	}
	p.Comment = ""
	return p
}
