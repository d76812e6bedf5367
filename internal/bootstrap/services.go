package bootstrap

import (
	"context"

	"github.com/moto-tune/suspension-backend/config"
	"github.com/moto-tune/suspension-backend/internal/api/http/middleware"
	authrepo "github.com/moto-tune/suspension-backend/internal/auth/repository"
	authservice "github.com/moto-tune/suspension-backend/internal/auth/service"
	convrepo "github.com/moto-tune/suspension-backend/internal/conversation/repository"
	convservice "github.com/moto-tune/suspension-backend/internal/conversation/service"
	garagerepo "github.com/moto-tune/suspension-backend/internal/garage/repository"
	garageservice "github.com/moto-tune/suspension-backend/internal/garage/service"
	"github.com/moto-tune/suspension-backend/internal/llm"
	"github.com/moto-tune/suspension-backend/internal/logging"
	socialrepo "github.com/moto-tune/suspension-backend/internal/social/repository"
	socialservice "github.com/moto-tune/suspension-backend/internal/social/service"
)

// Services are the application services shared by the router and jobs.
type Services struct {
	Auth   *authservice.AuthService
	Garage *garageservice.GarageService
	Chat   *convservice.ChatService
	Social *socialservice.SocialService
	Graph  *socialrepo.GraphRepository

	ChatLimiter *middleware.RateLimiter
}

func NewServices(cfg *config.Config, stores *Stores) *Services {
	users := authrepo.NewUserRepository(stores.SQL)

	garage := garageservice.NewGarageService(
		garagerepo.NewMotoRepository(stores.SQL),
		garagerepo.NewKitRepository(stores.SQL),
		garagerepo.NewConfigRepository(stores.SQL),
	)

	graph := socialrepo.NewGraphRepository(stores.Redis)
	garage.OnConfigDeleted(func(ctx context.Context, id string) {
		if err := graph.Forget(ctx, id); err != nil {
			logging.New(ctx).With("config_id", id).Warn("forget config", err)
		}
	})

	chat := convservice.NewChatService(
		convrepo.NewConversationRepository(stores.PG.Pool),
		llm.New(cfg.LLM),
		garage,
		nil,
	)

	return &Services{
		Auth:   authservice.NewAuthService(users),
		Garage: garage,
		Chat:   chat,
		Social: socialservice.NewSocialService(graph, socialrepo.NewMessageRepository(stores.SQL), garage, users),
		Graph:  graph,

		ChatLimiter: middleware.NewRateLimiter(cfg.RateLimit.ChatPerMinute, cfg.RateLimit.Burst),
	}
}
