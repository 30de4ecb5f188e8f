package db

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/muzz-matchmaker/internal/compat"
)

// AnswerWriter stores a user's questionnaire answers, replacing earlier ones.
type AnswerWriter interface {
	ReplaceAnswers(ctx context.Context, userID uint64, answers compat.Answers) error
}

// SeedReport describes what SeedTestData inserted.
type SeedReport struct {
	Users   int
	Likes   int
	Matches int
	// EntitledUsers own entitlements; their coefficients still need a recompute.
	EntitledUsers []uint64
}

var seedCities = []string{"London", "Manchester", "Leeds", "Bristol"}

var seedPrompts = []string{
	"How often do you go out on weekends?",
	"How important is fitness to you?",
	"Do you want children?",
	"How tidy is your home?",
	"How much do you travel?",
	"Morning person or night owl?",
	"How religious are you?",
	"How much do you enjoy cooking?",
}

// SeedTestData resets the database and populates it with a demo dataset.
//
// Behavior:
//  1. Clears every matching table.
//  2. Creates a questionnaire: 8 questions with 5 ordinal answers each.
//     Answer ids are question*10+k so adjacent answers are 1 apart.
//  3. Creates 20 users (10 male, 10 female); one blocked, one pending
//     moderation, two without answers. Answers are stored through the
//     given AnswerWriter, the same path a retaken test uses.
//  4. Generates cross-gender likes, every 3rd one reciprocated, and one
//     match row per mutual pair.
//  5. Grants a few paid entitlements, one of them already expired.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(ctx context.Context, db *gorm.DB, answers AnswerWriter, log *slog.Logger) (*SeedReport, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	report := &SeedReport{}

	// --- Fresh start ---
	for _, table := range []string{"matches", "likes", "user_answers", "purchased_entitlements", "answers", "questions", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
		// Reset auto-increment sequences
		switch db.Dialector.Name() {
		case "mysql":
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		case "sqlite":
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
	}
	log.Info("cleared existing data")

	// --- Questionnaire ---
	for i, prompt := range seedPrompts {
		q := Question{ID: uint64(i + 1), Prompt: prompt}
		for k := 1; k <= 5; k++ {
			a := Answer{ID: q.ID*10 + uint64(k), QuestionID: q.ID, Text: fmt.Sprintf("option %d", k)}
			// children and religion weigh double
			if q.ID == 3 || q.ID == 7 {
				w := 2.0
				a.Weight = &w
			}
			q.Answers = append(q.Answers, a)
		}
		if err := db.Create(&q).Error; err != nil {
			return nil, fmt.Errorf("failed to seed question: %w", err)
		}
	}

	// --- Users ---
	users := make([]User, 0, 20)
	for i := 1; i <= 20; i++ {
		gender := GenderMale
		if i > 10 {
			gender = GenderFemale
		}
		u := User{
			ID:                  uint64(i),
			Username:            fmt.Sprintf("user%d", i),
			Gender:              gender,
			Age:                 20 + r.Intn(26),
			City:                seedCities[r.Intn(len(seedCities))],
			Status:              StatusActive,
			Moderation:          ModerationApproved,
			PriorityCoefficient: DefaultPriority,
			LastActiveAt:        time.Now().UTC().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		switch i {
		case 5:
			u.Status = StatusBlocked
		case 15:
			u.Moderation = ModerationPending
		}
		users = append(users, u)
	}
	if err := db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	report.Users = len(users)

	// --- Answers (users 10 and 20 never took the test) ---
	for _, u := range users {
		if u.ID%10 == 0 {
			continue
		}
		picked := make(compat.Answers, len(seedPrompts))
		for q := 1; q <= len(seedPrompts); q++ {
			picked[uint64(q)] = uint64(q*10 + 1 + r.Intn(5))
		}
		if err := answers.ReplaceAnswers(ctx, u.ID, picked); err != nil {
			return nil, fmt.Errorf("failed to seed answers: %w", err)
		}
	}

	// --- Likes and matches ---
	liked := map[[2]uint64]bool{}
	counter := 0
	for actor := 1; actor <= 20; actor++ {
		for j := 0; j < 6; j++ {
			recipient := r.Intn(20) + 1
			if (actor <= 10) == (recipient <= 10) {
				continue // same gender
			}
			liked[[2]uint64{uint64(actor), uint64(recipient)}] = true
			// guarantee mutual likes every 3rd pair
			if counter%3 == 0 {
				liked[[2]uint64{uint64(recipient), uint64(actor)}] = true
			}
			counter++
		}
	}

	var likes []Like
	var matches []Match
	for pair := range liked {
		likes = append(likes, Like{LikerID: pair[0], LikeeID: pair[1]})
		if pair[0] < pair[1] && liked[[2]uint64{pair[1], pair[0]}] {
			matches = append(matches, NewMatch(pair[0], pair[1]))
		}
	}
	if len(likes) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(likes, 200).Error; err != nil {
			return nil, fmt.Errorf("failed to seed likes: %w", err)
		}
	}
	if len(matches) > 0 {
		if err := db.Create(&matches).Error; err != nil {
			return nil, fmt.Errorf("failed to seed matches: %w", err)
		}
	}
	report.Likes, report.Matches = len(likes), len(matches)

	// --- Entitlements ---
	now := time.Now().UTC()
	entitlements := []PurchasedEntitlement{
		{UserID: 1, Kind: EntitlementPremium, Paid: true, Active: true, ExpiresAt: now.Add(30 * 24 * time.Hour)},
		{UserID: 12, Kind: EntitlementBoost, Paid: true, Active: true, ExpiresAt: now.Add(24 * time.Hour)},
		{UserID: 13, Kind: EntitlementSpotlight, Paid: true, Active: true, ExpiresAt: now.Add(time.Hour)},
		{UserID: 14, Kind: EntitlementPremium, Paid: true, Active: true, ExpiresAt: now.Add(-time.Hour)},
		{UserID: 16, Kind: EntitlementBoost, Paid: false, Active: true, ExpiresAt: now.Add(24 * time.Hour)},
	}
	if err := db.Create(&entitlements).Error; err != nil {
		return nil, fmt.Errorf("failed to seed entitlements: %w", err)
	}
	for _, e := range entitlements {
		report.EntitledUsers = append(report.EntitledUsers, e.UserID)
	}

	log.Info("seeded demo data",
		"users", report.Users,
		"likes", report.Likes,
		"matches", report.Matches,
		"entitlements", len(entitlements),
	)
	return report, nil
}
