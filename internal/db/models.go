package db

import (
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Opposite returns the other value of the two-valued gender model.
func (g Gender) Opposite() Gender {
	if g == GenderMale {
		return GenderFemale
	}
	return GenderMale
}

// Valid reports whether g is one of the two known values.
func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

type AccountStatus string

const (
	StatusActive  AccountStatus = "active"
	StatusBlocked AccountStatus = "blocked"
)

type ModerationStatus string

const (
	ModerationApproved ModerationStatus = "approved"
	ModerationPending  ModerationStatus = "pending"
)

// DefaultPriority is the coefficient of a user without active boosts.
const DefaultPriority = 1.0

// User is owned by the profile subsystem. The matching core reads it and
// only ever writes PriorityCoefficient.
//
// Indexes:
//   - idx_users_pool(status, moderation, gender) narrows the candidate pool scan.
type User struct {
	ID                  uint64           `gorm:"primaryKey;autoIncrement"`
	Username            string           `gorm:"uniqueIndex;size:64;not null"`
	Gender              Gender           `gorm:"size:16;not null;index:idx_users_pool,priority:3"`
	GenderPreference    *Gender          `gorm:"size:16"`
	Age                 int              `gorm:"not null;default:0"`
	City                string           `gorm:"size:128;index"`
	Status              AccountStatus    `gorm:"size:16;not null;default:active;index:idx_users_pool,priority:1"`
	Moderation          ModerationStatus `gorm:"size:16;not null;default:pending;index:idx_users_pool,priority:2"`
	PriorityCoefficient float64          `gorm:"not null;default:1"`
	LastActiveAt        time.Time
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

// EffectivePreference resolves which gender u wants to see when the caller
// gave no explicit filter.
func (u User) EffectivePreference() Gender {
	if u.GenderPreference != nil && u.GenderPreference.Valid() {
		return *u.GenderPreference
	}
	return u.Gender.Opposite()
}

// Question of the compatibility test. Ordered by ID.
type Question struct {
	ID      uint64 `gorm:"primaryKey"`
	Prompt  string `gorm:"size:512;not null"`
	Answers []Answer
}

// Answer belongs to one question. IDs are ordinal within a question: the
// closer two ids are, the closer the agreement. Weight only feeds scoring.
type Answer struct {
	ID         uint64   `gorm:"primaryKey"`
	QuestionID uint64   `gorm:"not null;index"`
	Text       string   `gorm:"size:255;not null"`
	Weight     *float64 `gorm:"default:null"`
}

// UserAnswer maps (user, question) to the chosen answer.
// Composite PK guarantees at most one answer per user per question.
type UserAnswer struct {
	UserID     uint64    `gorm:"primaryKey"`
	QuestionID uint64    `gorm:"primaryKey"`
	AnswerID   uint64    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Like is a directed edge liker -> likee.
//
// Composite PK: (LikerID, LikeeID)
//   - at most one row per ordered pair, re-liking is a no-op.
//
// Indexes:
//   - idx_likee_created(likee_id, created_at DESC, liker_id)
//     serves the paginated "who liked me" listings.
type Like struct {
	LikerID   uint64    `gorm:"primaryKey"`
	LikeeID   uint64    `gorm:"primaryKey;index:idx_likee_created,priority:1"`
	Viewed    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_likee_created,priority:2,sort:desc"`
}

// Match is the persisted record of a mutual like. The pair is stored in
// canonical order (UserAID < UserBID) and is unique.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserAID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:1;check:chk_match_order,user_a_id < user_b_id"`
	UserBID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// NewMatch builds a match for the unordered pair {x, y}.
func NewMatch(x, y uint64) Match {
	a, b := CanonicalPair(x, y)
	return Match{UserAID: a, UserBID: b}
}

// CanonicalPair orders a pair lower id first.
func CanonicalPair(x, y uint64) (uint64, uint64) {
	if x > y {
		return y, x
	}
	return x, y
}

// Partner returns the other participant of the match.
func (m Match) Partner(userID uint64) uint64 {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

type EntitlementKind string

const (
	EntitlementPremium   EntitlementKind = "premium"
	EntitlementBoost     EntitlementKind = "boost"
	EntitlementSpotlight EntitlementKind = "spotlight"
)

// PurchasedEntitlement drives the priority coefficient while Active, Paid and
// not past ExpiresAt. Rows are never deleted here.
type PurchasedEntitlement struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement"`
	UserID    uint64          `gorm:"not null;index:idx_entitlement_user_active,priority:1"`
	Kind      EntitlementKind `gorm:"size:32;not null"`
	Paid      bool            `gorm:"not null;default:false"`
	Active    bool            `gorm:"not null;index:idx_entitlement_user_active,priority:2;index:idx_entitlement_expiry,priority:1"`
	ExpiresAt time.Time       `gorm:"not null;index:idx_entitlement_expiry,priority:2"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

// Models lists every table the service migrates.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Question{},
		&Answer{},
		&UserAnswer{},
		&Like{},
		&Match{},
		&PurchasedEntitlement{},
	}
}
