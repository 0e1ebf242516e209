package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"itinera/internal/models/db_models"
	"itinera/internal/models/request_models"
	resp "itinera/internal/models/response_models"
	"itinera/internal/repositories"
	mem "itinera/pkg/memcache"
	"itinera/pkg/utils"
)

const (
	OtpLength        = 6
	OtpTTL           = 5 * time.Minute
	OtpResendWindow  = 60 * time.Second
	OtpVerifiedTTL   = 10 * time.Minute
	OtpTypeEmail     = "email"
	OtpTypePhone     = "phone"
	minPasswordChars = 6
)

type AccountServiceInterface interface {
	Signup(ctx context.Context, req request_models.SignUpRequest) (*resp.AccountResponse, error)
	Login(ctx context.Context, req request_models.LoginRequest) (*resp.LoginResponse, error)
	SendOtp(ctx context.Context, req request_models.SendOtpRequest) error
	VerifyOtp(ctx context.Context, req request_models.VerifyOtpRequest) error
	ResetPassword(ctx context.Context, req request_models.ResetPasswordRequest) error
}

type AccountService struct {
	accountRepo        repositories.AccountRepository
	otpStore           mem.OtpStore
	mailer             MailServiceInterface
	sms                NotificationProvider
	tokens             *utils.TokenManager
	appName            string
	defaultCountryCode string
	logger             *zap.Logger
}

type AccountServiceDeps struct {
	AccountRepo        repositories.AccountRepository
	OtpStore           mem.OtpStore
	Mailer             MailServiceInterface
	SMS                NotificationProvider
	Tokens             *utils.TokenManager
	AppName            string
	DefaultCountryCode string
	Logger             *zap.Logger
}

func NewAccountService(deps AccountServiceDeps) AccountServiceInterface {
	return &AccountService{
		accountRepo:        deps.AccountRepo,
		otpStore:           deps.OtpStore,
		mailer:             deps.Mailer,
		sms:                deps.SMS,
		tokens:             deps.Tokens,
		appName:            deps.AppName,
		defaultCountryCode: deps.DefaultCountryCode,
		logger:             deps.Logger,
	}
}

func (a *AccountService) Signup(ctx context.Context, req request_models.SignUpRequest) (*resp.AccountResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	if name == "" || email == "" || strings.TrimSpace(req.Phone) == "" || password == "" {
		return nil, utils.ValidationError("all fields required")
	}
	if len(password) < minPasswordChars {
		return nil, utils.ValidationError("password must be at least %d characters", minPasswordChars)
	}
	phone, err := utils.NormalizePhone(req.Phone, a.defaultCountryCode)
	if err != nil {
		return nil, utils.ValidationError("invalid phone number")
	}

	exists, err := a.accountRepo.ExistsByEmailOrPhone(ctx, email, phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if exists {
		return nil, utils.ValidationError("user already exists")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &db_models.Account{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
	}
	if err := a.accountRepo.InsertAccount(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ValidationError("user already exists")
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	a.logger.Info("account created", zap.String("account_id", account.ID.String()))
	out := toAccountResponse(account)
	return &out, nil
}

func (a *AccountService) Login(ctx context.Context, req request_models.LoginRequest) (*resp.LoginResponse, error) {
	account, err := a.lookup(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(account.PasswordHash, strings.TrimSpace(req.Password)); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := a.tokens.CreateToken(account.ID)
	if err != nil {
		return nil, err
	}
	return &resp.LoginResponse{Token: token, User: toAccountResponse(account)}, nil
}

func (a *AccountService) SendOtp(ctx context.Context, req request_models.SendOtpRequest) error {
	otpType := strings.ToLower(strings.TrimSpace(req.Type))
	if otpType != OtpTypeEmail && otpType != OtpTypePhone {
		return utils.ValidationError("type must be email or phone")
	}

	account, err := a.lookup(ctx, req.Value)
	if err != nil {
		return err
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}
	key := a.otpKey(req.Value)

	ok, err := a.otpStore.AcquireCooldown(ctx, key, OtpResendWindow)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: wait before requesting another OTP", utils.ErrTooManyRequests)
	}

	code, err := utils.GenerateOtpCode(OtpLength)
	if err != nil {
		return err
	}
	if err := a.otpStore.SaveOtp(ctx, key, code, OtpTTL); err != nil {
		return err
	}

	if otpType == OtpTypeEmail {
		if err := a.mailer.SendOtpMail(ctx, account.Email, code); err != nil {
			return fmt.Errorf("%w: email OTP: %v", utils.ErrProvider, err)
		}
	} else {
		body := fmt.Sprintf("%s OTP: %s\nValid for 5 minutes only.", a.appName, code)
		if res := a.sms.Send(ctx, account.Phone, body, ""); !res.Success {
			return fmt.Errorf("%w: phone OTP: %s", utils.ErrProvider, res.Error)
		}
	}

	a.logger.Info("otp sent", zap.String("account_id", account.ID.String()), zap.String("type", otpType))
	return nil
}

func (a *AccountService) VerifyOtp(ctx context.Context, req request_models.VerifyOtpRequest) error {
	key := a.otpKey(req.Value)
	ok, err := a.otpStore.ConsumeOtp(ctx, key, strings.TrimSpace(req.Otp))
	if err != nil {
		return err
	}
	if !ok {
		return utils.ValidationError("Invalid or expired OTP")
	}
	return a.otpStore.MarkVerified(ctx, key, OtpVerifiedTTL)
}

func (a *AccountService) ResetPassword(ctx context.Context, req request_models.ResetPasswordRequest) error {
	password := strings.TrimSpace(req.Password)
	if len(password) < minPasswordChars {
		return utils.ValidationError("password must be at least %d characters", minPasswordChars)
	}

	account, err := a.lookup(ctx, req.Value)
	if err != nil {
		return err
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}

	ok, err := a.otpStore.ConsumeVerified(ctx, a.otpKey(req.Value))
	if err != nil {
		return err
	}
	if !ok {
		return utils.ValidationError("Complete OTP verification first")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	if err := a.accountRepo.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	a.logger.Info("password reset", zap.String("account_id", account.ID.String()))
	return nil
}

func (a *AccountService) lookup(ctx context.Context, identifier string) (*db_models.Account, error) {
	key := a.otpKey(identifier)
	if key == "" {
		return nil, nil
	}
	account, err := a.accountRepo.FindByEmailOrPhone(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return account, nil
}

// otpKey canonicalizes an email or phone identifier: lower case, no
// whitespace, and phones in E.164.
func (a *AccountService) otpKey(identifier string) string {
	id := strings.ToLower(strings.Join(strings.Fields(identifier), ""))
	if strings.Contains(id, "@") {
		return id
	}
	if phone, err := utils.NormalizePhone(id, a.defaultCountryCode); err == nil {
		return phone
	}
	return id
}

func toAccountResponse(a *db_models.Account) resp.AccountResponse {
	return resp.AccountResponse{
		ID:    a.ID.String(),
		Name:  a.Name,
		Email: a.Email,
		Phone: a.Phone,
	}
}
