// Package permission holds the request authorization rules: anyone may read,
// only the owning user may write.
package permission

import "net/http"

// IsSafeMethod reports whether method only reads.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AuthenticatedOrReadOnly allows reads from anyone and writes only from an
// authenticated requester. requesterID 0 is anonymous.
func AuthenticatedOrReadOnly(method string, requesterID uint) bool {
	return IsSafeMethod(method) || requesterID != 0
}

// OwnerOrReadOnly allows reads from anyone and writes only from the owner.
func OwnerOrReadOnly(method string, requesterID, ownerID uint) bool {
	if IsSafeMethod(method) {
		return true
	}
	return requesterID != 0 && requesterID == ownerID
}

// SupporterOrReadOnly is OwnerOrReadOnly keyed on a pledge's supporter.
func SupporterOrReadOnly(method string, requesterID, supporterID uint) bool {
	return OwnerOrReadOnly(method, requesterID, supporterID)
}

// SupporterOrFundraiserOwnerOrReadOnly allows writes to a pledge from either its
// supporter or the owner of the fundraiser it backs.
func SupporterOrFundraiserOwnerOrReadOnly(method string, requesterID, supporterID, fundraiserOwnerID uint) bool {
	return OwnerOrReadOnly(method, requesterID, supporterID) ||
		OwnerOrReadOnly(method, requesterID, fundraiserOwnerID)
}
