package models

// FriendStatus is the state of a friend request.
type FriendStatus string

const (
	FriendStatusPending  FriendStatus = "pending"
	FriendStatusAccepted FriendStatus = "accepted"
	FriendStatusRejected FriendStatus = "rejected"
)

// FriendLink is a symmetric relationship between two users, keyed by the
// sorted pair (UserAID < UserBID) so each pair has at most one link.
type FriendLink struct {
	Base
	UserAID     string       `gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair" json:"user_a_id"`
	UserBID     string       `gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair" json:"user_b_id"`
	RequesterID string       `gorm:"type:uuid;not null" json:"requester_id"`
	Status      FriendStatus `gorm:"not null;default:'pending'" json:"status"`
}

// Other returns the user on the opposite side of the link from userID.
func (f *FriendLink) Other(userID string) string {
	if f.UserAID == userID {
		return f.UserBID
	}
	return f.UserAID
}

// SortPair orders two user IDs into the canonical (a, b) key.
func SortPair(x, y string) (string, string) {
	if x < y {
		return x, y
	}
	return y, x
}
