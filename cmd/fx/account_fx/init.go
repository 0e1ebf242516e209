package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"itinera/internal/config"
	"itinera/internal/repositories"
	"itinera/internal/services"
	mem "itinera/pkg/memcache"
	"itinera/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo, provideTokenManager)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideTokenManager(cfg *config.Config) *utils.TokenManager {
	return utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
}

func provideAccountService(
	cfg *config.Config,
	accountRepo repositories.AccountRepository,
	otpStore mem.OtpStore,
	mailService services.MailServiceInterface,
	sms services.NotificationProvider,
	tokens *utils.TokenManager,
	logger *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(services.AccountServiceDeps{
		AccountRepo:        accountRepo,
		OtpStore:           otpStore,
		Mailer:             mailService,
		SMS:                sms,
		Tokens:             tokens,
		AppName:            cfg.MailFromName,
		DefaultCountryCode: cfg.DefaultCountryCode,
		Logger:             logger.Named("account"),
	})
}
