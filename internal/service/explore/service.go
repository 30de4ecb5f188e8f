package explore

import (
	"context"
	"strconv"

	"github.com/oggyb/muzz-matchmaker/internal/app"
	"github.com/oggyb/muzz-matchmaker/internal/db"
	svcErr "github.com/oggyb/muzz-matchmaker/internal/errors"
	pb "github.com/oggyb/muzz-matchmaker/internal/proto/explore"
	"github.com/oggyb/muzz-matchmaker/internal/service/candidates"
)

// Service implements the Explore gRPC API on top of the matching services.
// It parses wire ids, applies defaults and maps domain errors to gRPC codes.
type Service struct {
	appCtx *app.AppContext

	pb.UnimplementedExploreServiceServer
}

// NewExploreService creates a new Explore service with dependencies from AppContext.
func NewExploreService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx}
}

// FindCompatible returns the ranked high and low tiers for the requester.
//
// Behavior:
//   - Zero limit and missing min_score take the configured defaults.
//   - A requester without answers gets two empty tiers.
//
// Example:
//
//	svc.FindCompatible(ctx, &pb.FindCompatibleRequest{UserId: "42", Limit: 10})
func (s *Service) FindCompatible(ctx context.Context, req *pb.FindCompatibleRequest) (*pb.FindCompatibleResponse, error) {
	s.appCtx.Logger.Debug("FindCompatible called", "user", req.GetUserId())

	userID, err := parseID("user_id", req.GetUserId())
	if err != nil {
		return nil, err
	}

	limit := int(req.GetLimit())
	if limit == 0 {
		limit = s.appCtx.Config.Matching.DefaultLimit
	}
	minScore := s.appCtx.Config.Matching.DefaultMinScore
	if req.MinScore != nil {
		minScore = *req.MinScore
	}

	filters := candidates.Filters{
		City:             req.GetCity(),
		AgeMin:           int(req.GetAgeMin()),
		AgeMax:           int(req.GetAgeMax()),
		GenderPreference: db.Gender(req.GetGenderPreference()),
	}

	high, low, err := s.appCtx.Candidates.Find(ctx, userID, filters, limit, minScore)
	if err != nil {
		s.appCtx.Logger.Error("FindCompatible failed", "user", userID, "err", err)
		return nil, svcErr.Map(err)
	}

	return &pb.FindCompatibleResponse{High: toCandidates(high), Low: toCandidates(low)}, nil
}

// Like records actor -> recipient and reports whether it created a match.
//
// Example:
//
//	svc.Like(ctx, &pb.LikeRequest{ActorUserId: "1", RecipientUserId: "2"})
func (s *Service) Like(ctx context.Context, req *pb.LikeRequest) (*pb.LikeResponse, error) {
	s.appCtx.Logger.Debug("Like called", "actor", req.GetActorUserId(), "recipient", req.GetRecipientUserId())

	actorID, err := parseID("actor_user_id", req.GetActorUserId())
	if err != nil {
		return nil, err
	}
	recipientID, err := parseID("recipient_user_id", req.GetRecipientUserId())
	if err != nil {
		return nil, err
	}

	res, err := s.appCtx.Likes.Like(ctx, actorID, recipientID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &pb.LikeResponse{
		AlreadyLiked: res.AlreadyLiked,
		MatchCreated: res.MatchCreated,
		MutualLikes:  res.Mutual,
	}
	if res.MatchID != 0 {
		resp.MatchId = strconv.FormatUint(res.MatchID, 10)
	}
	return resp, nil
}

// IsMutual reports whether both users like each other. Read-only.
func (s *Service) IsMutual(ctx context.Context, req *pb.IsMutualRequest) (*pb.IsMutualResponse, error) {
	a, err := parseID("user_a_id", req.GetUserAId())
	if err != nil {
		return nil, err
	}
	b, err := parseID("user_b_id", req.GetUserBId())
	if err != nil {
		return nil, err
	}

	mutual, err := s.appCtx.Likes.MutualExists(ctx, a, b)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.IsMutualResponse{Mutual: mutual}, nil
}

// ListLikedYou returns all users who liked the given recipient.
//
// Behavior:
//   - Ordered newest first.
//   - Supports cursor-based pagination with paginationToken.
//
// Example:
//
//	svc.ListLikedYou(ctx, &pb.ListLikedYouRequest{RecipientUserId: "42"})
func (s *Service) ListLikedYou(ctx context.Context, req *pb.ListLikedYouRequest) (*pb.ListLikedYouResponse, error) {
	s.appCtx.Logger.Debug("ListLikedYou called", "recipient", req.GetRecipientUserId(), "token", req.GetPaginationToken())

	recipientID, err := parseID("recipient_user_id", req.GetRecipientUserId())
	if err != nil {
		return nil, err
	}

	rows, next, err := s.appCtx.Likes.ListLikedYou(ctx, recipientID, req.PaginationToken, int(req.GetLimit()))
	if err != nil {
		s.appCtx.Logger.Error("ListLikedYou failed", "err", err)
		return nil, svcErr.Map(err)
	}
	return toLikers(rows, next), nil
}

// ListNewLikedYou returns all users who liked the recipient but have not been liked back.
func (s *Service) ListNewLikedYou(ctx context.Context, req *pb.ListLikedYouRequest) (*pb.ListLikedYouResponse, error) {
	s.appCtx.Logger.Debug("ListNewLikedYou called", "recipient", req.GetRecipientUserId())

	recipientID, err := parseID("recipient_user_id", req.GetRecipientUserId())
	if err != nil {
		return nil, err
	}

	rows, next, err := s.appCtx.Likes.ListNewLikedYou(ctx, recipientID, req.PaginationToken, int(req.GetLimit()))
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toLikers(rows, next), nil
}

// CountLikedYou returns how many users liked the recipient, cache first.
func (s *Service) CountLikedYou(ctx context.Context, req *pb.CountLikedYouRequest) (*pb.CountLikedYouResponse, error) {
	recipientID, err := parseID("recipient_user_id", req.GetRecipientUserId())
	if err != nil {
		return nil, err
	}

	n, err := s.appCtx.Likes.CountLikedYou(ctx, recipientID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.CountLikedYouResponse{Count: uint64(n)}, nil
}

// MarkViewed flags the actor's like as seen by the recipient.
func (s *Service) MarkViewed(ctx context.Context, req *pb.MarkViewedRequest) (*pb.MarkViewedResponse, error) {
	recipientID, err := parseID("recipient_user_id", req.GetRecipientUserId())
	if err != nil {
		return nil, err
	}
	actorID, err := parseID("actor_user_id", req.GetActorUserId())
	if err != nil {
		return nil, err
	}

	found, err := s.appCtx.Likes.MarkViewed(ctx, recipientID, actorID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.MarkViewedResponse{Found: found}, nil
}

// ListMatches returns the user's matches, newest first.
func (s *Service) ListMatches(ctx context.Context, req *pb.ListMatchesRequest) (*pb.ListMatchesResponse, error) {
	userID, err := parseID("user_id", req.GetUserId())
	if err != nil {
		return nil, err
	}

	matches, err := s.appCtx.Likes.ListMatches(ctx, userID, int(req.GetLimit()))
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &pb.ListMatchesResponse{Matches: make([]*pb.ListMatchesResponse_Match, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, &pb.ListMatchesResponse_Match{
			MatchId:       strconv.FormatUint(m.ID, 10),
			PartnerId:     strconv.FormatUint(m.Partner(userID), 10),
			UnixTimestamp: uint64(m.CreatedAt.UnixMilli()),
		})
	}
	return resp, nil
}

// RecomputePriority recalculates and persists the user's priority coefficient.
func (s *Service) RecomputePriority(ctx context.Context, req *pb.RecomputePriorityRequest) (*pb.RecomputePriorityResponse, error) {
	userID, err := parseID("user_id", req.GetUserId())
	if err != nil {
		return nil, err
	}
	if _, err := s.appCtx.Users.Get(ctx, userID); err != nil {
		return nil, svcErr.Map(err)
	}

	coef, err := s.appCtx.Priority.Recompute(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.RecomputePriorityResponse{PriorityCoefficient: coef}, nil
}

// GetPriority returns the user's current priority coefficient without
// recomputing it.
func (s *Service) GetPriority(ctx context.Context, req *pb.GetPriorityRequest) (*pb.GetPriorityResponse, error) {
	userID, err := parseID("user_id", req.GetUserId())
	if err != nil {
		return nil, err
	}

	coef, err := s.appCtx.Priority.CurrentPriority(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.GetPriorityResponse{PriorityCoefficient: coef}, nil
}

func parseID(field, raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument(field + " must be a valid uint64")
	}
	return id, nil
}

func toCandidates(in []candidates.Scored) []*pb.Candidate {
	out := make([]*pb.Candidate, 0, len(in))
	for _, c := range in {
		out = append(out, &pb.Candidate{UserId: strconv.FormatUint(c.UserID, 10), Score: c.Score})
	}
	return out
}

func toLikers(rows []db.Like, next *string) *pb.ListLikedYouResponse {
	resp := &pb.ListLikedYouResponse{Likers: make([]*pb.ListLikedYouResponse_Liker, 0, len(rows))}
	for _, l := range rows {
		resp.Likers = append(resp.Likers, &pb.ListLikedYouResponse_Liker{
			ActorId:       strconv.FormatUint(l.LikerID, 10),
			UnixTimestamp: uint64(l.CreatedAt.UnixMilli()),
			Viewed:        l.Viewed,
		})
	}
	if next != nil {
		resp.NextPaginationToken = next
	}
	return resp
}
