package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/muzz-matchmaker/internal/db"
	svcErr "github.com/oggyb/muzz-matchmaker/internal/errors"
	"github.com/oggyb/muzz-matchmaker/internal/utils/pagination"
)

// LikeRepository provides data access for likes and matches.
// It owns the one operation needing strict atomicity: like-then-match.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// LikeOutcome is the result of a single LikeAndMatch call.
type LikeOutcome struct {
	// AlreadyLiked is true when the liker -> likee row existed before the call.
	AlreadyLiked bool
	// Mutual is true when both directed likes exist after the call.
	Mutual bool
	// MatchCreated is true only for the call that inserted the match row.
	MatchCreated bool
	// Match is the pair's match row whenever Mutual is true.
	Match *db.Match
}

// LikeAndMatch records liker -> likee and, when the reverse like exists,
// creates the pair's match, all inside one transaction.
//
// Behavior:
//   - Both user rows are locked in canonical order first, so two calls for
//     the same pair (in either direction) run one after the other. The second
//     one always sees the first one's like.
//   - The like insert is conflict-safe on the composite PK: a repeated like
//     leaves the row untouched (no timestamp refresh) and reports AlreadyLiked.
//   - The match insert is conflict-safe on the canonical pair, so exactly one
//     caller ever observes MatchCreated. A repeated like of a mutual pair
//     whose match row is missing repairs it.
//   - Either everything commits or nothing does.
//
// Example:
//
//	repo.LikeAndMatch(ctx, 2, 1) // user 2 likes user 1 back -> MatchCreated
func (r *LikeRepository) LikeAndMatch(ctx context.Context, likerID, likeeID uint64) (LikeOutcome, error) {
	var out LikeOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lo, hi := db.CanonicalPair(likerID, likeeID)

		var locked []db.User
		if err := forUpdate(tx).Select("id").Where("id IN ?", []uint64{lo, hi}).Order("id").Find(&locked).Error; err != nil {
			return err
		}
		if missing, ok := missingUser(locked, lo, hi); ok {
			return svcErr.NotFound(missing)
		}

		like := db.Like{LikerID: likerID, LikeeID: likeeID}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "liker_id"}, {Name: "likee_id"}},
			DoNothing: true,
		}).Create(&like)
		if res.Error != nil {
			return res.Error
		}
		out.AlreadyLiked = res.RowsAffected == 0

		// plain read: the pair lock above guarantees a fresh snapshot
		reverse, err := hasLiked(tx, likeeID, likerID)
		if err != nil {
			return err
		}
		out.Mutual = reverse
		if !reverse {
			return nil
		}

		match := db.NewMatch(likerID, likeeID)
		res = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_a_id"}, {Name: "user_b_id"}},
			DoNothing: true,
		}).Create(&match)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			out.MatchCreated = true
			out.Match = &match
			return nil
		}

		var existing db.Match
		if err := tx.Where("user_a_id = ? AND user_b_id = ?", lo, hi).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// the insert conflicted yet the row is gone
				return svcErr.Violation("like_and_match", err)
			}
			return err
		}
		out.Match = &existing
		return nil
	})
	if err != nil {
		return LikeOutcome{}, svcErr.Unavailable("like_and_match", err)
	}
	return out, nil
}

// HasLiked checks whether liker has liked likee.
func (r *LikeRepository) HasLiked(ctx context.Context, likerID, likeeID uint64) (bool, error) {
	ok, err := hasLiked(r.db.WithContext(ctx), likerID, likeeID)
	return ok, svcErr.Unavailable("has_liked", err)
}

// MutualExists reports whether both directed likes exist, independent of the
// match row. Read-only.
func (r *LikeRepository) MutualExists(ctx context.Context, a, b uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("(liker_id = ? AND likee_id = ?) OR (liker_id = ? AND likee_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, svcErr.Unavailable("mutual_exists", err)
	}
	return a != b && count == 2, nil
}

// ListMatches returns the user's matches, newest first.
func (r *LikeRepository) ListMatches(ctx context.Context, userID uint64, limit int) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, svcErr.Unavailable("list_matches", err)
	}
	return matches, nil
}

// GetLikers returns all users who liked the given likee.
//
// Behavior:
//   - Ordered by created_at DESC, liker_id DESC.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.GetLikers(ctx, 42, nil, 20) // list first 20 people who liked user 42
func (r *LikeRepository) GetLikers(
	ctx context.Context,
	likeeID uint64,
	paginationToken *string,
	limit int,
) ([]db.Like, *string, error) {
	query := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.likee_id = ?", likeeID)

	return r.page(query, paginationToken, limit)
}

// GetNewLikers returns users who liked the likee but have not been liked back.
//
// Behavior:
//   - Excludes mutual likes (likee already liked them back).
//   - Ordered by created_at DESC, liker_id DESC.
//   - Supports cursor-based pagination.
//
// Example:
//
//	repo.GetNewLikers(ctx, 42, nil, 20) // list first 20 one-way likes for user 42
func (r *LikeRepository) GetNewLikers(
	ctx context.Context,
	likeeID uint64,
	paginationToken *string,
	limit int,
) ([]db.Like, *string, error) {
	// subquery to exclude mutual likes
	subQuery := r.db.
		Table("likes").
		Select("1").
		Where("liker_id = l.likee_id AND likee_id = l.liker_id")

	query := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.likee_id = ? AND NOT EXISTS (?)", likeeID, subQuery)

	return r.page(query, paginationToken, limit)
}

// CountLikers returns how many users liked the given likee.
func (r *LikeRepository) CountLikers(ctx context.Context, likeeID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("likee_id = ?", likeeID).
		Count(&count).Error
	if err != nil {
		return 0, svcErr.Unavailable("count_likers", err)
	}
	return count, nil
}

// MarkViewed flags liker -> likee as seen by the likee. It reports whether
// such a like exists.
func (r *LikeRepository) MarkViewed(ctx context.Context, likeeID, likerID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker_id = ? AND likee_id = ?", likerID, likeeID).
		Update("viewed", true)
	if res.Error != nil {
		return false, svcErr.Unavailable("mark_viewed", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	// MySQL reports zero affected rows when the flag was already set
	return r.HasLiked(ctx, likerID, likeeID)
}

func (r *LikeRepository) page(query *gorm.DB, paginationToken *string, limit int) ([]db.Like, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, svcErr.Invalid(err.Error())
	}

	query = query.
		Select("l.liker_id, l.likee_id, l.viewed, l.created_at").
		Order("l.created_at DESC, l.liker_id DESC").
		Limit(limit + 1)

	// apply cursor
	if !cursor.IsZero() {
		ts := time.UnixMilli(cursor.CreatedUnix).UTC()
		query = query.Where(
			"(l.created_at < ? OR (l.created_at = ? AND l.liker_id < ?))",
			ts, ts, cursor.LikerID,
		)
	}

	var likes []db.Like
	if err := query.Find(&likes).Error; err != nil {
		return nil, nil, svcErr.Unavailable("list_likers", err)
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(likes) > limit {
		last := likes[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			LikerID:     last.LikerID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		likes = likes[:limit]
	}

	return likes, nextToken, nil
}

func hasLiked(tx *gorm.DB, likerID, likeeID uint64) (bool, error) {
	var count int64
	err := tx.Model(&db.Like{}).
		Where("liker_id = ? AND likee_id = ?", likerID, likeeID).
		Count(&count).Error
	return count > 0, err
}

func missingUser(found []db.User, lo, hi uint64) (uint64, bool) {
	seen := make(map[uint64]bool, len(found))
	for _, u := range found {
		seen[u.ID] = true
	}
	if !seen[lo] {
		return lo, true
	}
	if !seen[hi] {
		return hi, true
	}
	return 0, false
}
