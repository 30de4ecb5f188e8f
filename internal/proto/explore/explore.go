// Package explore defines the wire contract of the Explore gRPC service:
// request and response messages, the server interface with its service
// descriptor, and a client. Messages are JSON encoded (see CodecName).
package explore

// FindCompatibleRequest asks for ranked candidates. Optional fields left nil
// mean "no filter"; a zero Limit and a nil MinScore take server defaults.
type FindCompatibleRequest struct {
	UserId           string   `json:"user_id"`
	City             *string  `json:"city,omitempty"`
	AgeMin           *uint32  `json:"age_min,omitempty"`
	AgeMax           *uint32  `json:"age_max,omitempty"`
	GenderPreference *string  `json:"gender_preference,omitempty"`
	Limit            uint32   `json:"limit,omitempty"`
	MinScore         *float64 `json:"min_score,omitempty"`
}

func (x *FindCompatibleRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

func (x *FindCompatibleRequest) GetCity() string {
	if x != nil && x.City != nil {
		return *x.City
	}
	return ""
}

func (x *FindCompatibleRequest) GetAgeMin() uint32 {
	if x != nil && x.AgeMin != nil {
		return *x.AgeMin
	}
	return 0
}

func (x *FindCompatibleRequest) GetAgeMax() uint32 {
	if x != nil && x.AgeMax != nil {
		return *x.AgeMax
	}
	return 0
}

func (x *FindCompatibleRequest) GetGenderPreference() string {
	if x != nil && x.GenderPreference != nil {
		return *x.GenderPreference
	}
	return ""
}

func (x *FindCompatibleRequest) GetLimit() uint32 {
	if x != nil {
		return x.Limit
	}
	return 0
}

type Candidate struct {
	UserId string  `json:"user_id"`
	Score  float64 `json:"score"`
}

type FindCompatibleResponse struct {
	High []*Candidate `json:"high"`
	Low  []*Candidate `json:"low"`
}

type LikeRequest struct {
	ActorUserId     string `json:"actor_user_id"`
	RecipientUserId string `json:"recipient_user_id"`
}

func (x *LikeRequest) GetActorUserId() string {
	if x != nil {
		return x.ActorUserId
	}
	return ""
}

func (x *LikeRequest) GetRecipientUserId() string {
	if x != nil {
		return x.RecipientUserId
	}
	return ""
}

type LikeResponse struct {
	AlreadyLiked bool   `json:"already_liked"`
	MatchCreated bool   `json:"match_created"`
	MutualLikes  bool   `json:"mutual_likes"`
	MatchId      string `json:"match_id,omitempty"`
}

type IsMutualRequest struct {
	UserAId string `json:"user_a_id"`
	UserBId string `json:"user_b_id"`
}

func (x *IsMutualRequest) GetUserAId() string {
	if x != nil {
		return x.UserAId
	}
	return ""
}

func (x *IsMutualRequest) GetUserBId() string {
	if x != nil {
		return x.UserBId
	}
	return ""
}

type IsMutualResponse struct {
	Mutual bool `json:"mutual"`
}

type ListLikedYouRequest struct {
	RecipientUserId string  `json:"recipient_user_id"`
	PaginationToken *string `json:"pagination_token,omitempty"`
	Limit           uint32  `json:"limit,omitempty"`
}

func (x *ListLikedYouRequest) GetRecipientUserId() string {
	if x != nil {
		return x.RecipientUserId
	}
	return ""
}

func (x *ListLikedYouRequest) GetPaginationToken() string {
	if x != nil && x.PaginationToken != nil {
		return *x.PaginationToken
	}
	return ""
}

func (x *ListLikedYouRequest) GetLimit() uint32 {
	if x != nil {
		return x.Limit
	}
	return 0
}

type ListLikedYouResponse struct {
	Likers              []*ListLikedYouResponse_Liker `json:"likers"`
	NextPaginationToken *string                       `json:"next_pagination_token,omitempty"`
}

func (x *ListLikedYouResponse) GetNextPaginationToken() string {
	if x != nil && x.NextPaginationToken != nil {
		return *x.NextPaginationToken
	}
	return ""
}

type ListLikedYouResponse_Liker struct {
	ActorId       string `json:"actor_id"`
	UnixTimestamp uint64 `json:"unix_timestamp"`
	Viewed        bool   `json:"viewed"`
}

type CountLikedYouRequest struct {
	RecipientUserId string `json:"recipient_user_id"`
}

func (x *CountLikedYouRequest) GetRecipientUserId() string {
	if x != nil {
		return x.RecipientUserId
	}
	return ""
}

type CountLikedYouResponse struct {
	Count uint64 `json:"count"`
}

type MarkViewedRequest struct {
	RecipientUserId string `json:"recipient_user_id"`
	ActorUserId     string `json:"actor_user_id"`
}

func (x *MarkViewedRequest) GetRecipientUserId() string {
	if x != nil {
		return x.RecipientUserId
	}
	return ""
}

func (x *MarkViewedRequest) GetActorUserId() string {
	if x != nil {
		return x.ActorUserId
	}
	return ""
}

type MarkViewedResponse struct {
	Found bool `json:"found"`
}

type ListMatchesRequest struct {
	UserId string `json:"user_id"`
	Limit  uint32 `json:"limit,omitempty"`
}

func (x *ListMatchesRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

func (x *ListMatchesRequest) GetLimit() uint32 {
	if x != nil {
		return x.Limit
	}
	return 0
}

type ListMatchesResponse struct {
	Matches []*ListMatchesResponse_Match `json:"matches"`
}

type ListMatchesResponse_Match struct {
	MatchId       string `json:"match_id"`
	PartnerId     string `json:"partner_id"`
	UnixTimestamp uint64 `json:"unix_timestamp"`
}

type RecomputePriorityRequest struct {
	UserId string `json:"user_id"`
}

func (x *RecomputePriorityRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

type RecomputePriorityResponse struct {
	PriorityCoefficient float64 `json:"priority_coefficient"`
}

type GetPriorityRequest struct {
	UserId string `json:"user_id"`
}

func (x *GetPriorityRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

type GetPriorityResponse struct {
	PriorityCoefficient float64 `json:"priority_coefficient"`
}
