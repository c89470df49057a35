package services

import (
	"gorm.io/gorm"

	"github.com/campuspulse/campuspulse/internal/cache"
	"github.com/campuspulse/campuspulse/internal/config"
	"github.com/campuspulse/campuspulse/internal/repositories"
)

// Engine bundles the matching services over one database handle. Embedding
// applications construct it once and call into the services directly.
type Engine struct {
	Scoring         *ScoringService
	Friendships     *FriendshipService
	Recommendations *RecommendationService
	Invitations     *InvitationService
	Bookmarks       *BookmarkService
}

// NewEngine wires every repository and service. The suggestion cache may be
// nil, in which case recommendation feeds are computed fresh on each call.
func NewEngine(db *gorm.DB, suggestions *cache.SuggestionCache, cfg *config.Config) *Engine {
	userRepo := repositories.NewUserRepository(db)
	friendshipRepo := repositories.NewFriendshipRepository(db)
	engagementRepo := repositories.NewEngagementRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	invitationRepo := repositories.NewInvitationRepository(db)
	savedUserRepo := repositories.NewSavedUserRepository(db)

	scoring := NewScoringService(userRepo, engagementRepo, cfg)

	return &Engine{
		Scoring:         scoring,
		Friendships:     NewFriendshipService(friendshipRepo, scoring, cfg),
		Recommendations: NewRecommendationService(userRepo, friendshipRepo, suggestions, cfg),
		Invitations:     NewInvitationService(invitationRepo, eventRepo, scoring, cfg.InviteRewardPerUser),
		Bookmarks:       NewBookmarkService(savedUserRepo, userRepo),
	}
}
