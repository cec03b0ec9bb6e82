package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"streamflix/internal/models/db_models"
	"streamflix/internal/models/request_models"
	"streamflix/internal/models/response_models"
	"streamflix/internal/repositories"
	"streamflix/pkg/metrics"
	"streamflix/pkg/utils"
)

type AccountServiceInterface interface {
	Signup(ctx context.Context, request request_models.SignUpRequest) (*response_models.AuthResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*response_models.UserSummary, error)
}

type AccountService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	planRepo    repositories.IPlanRepository
	tokens      *utils.TokenManager
	metrics     *metrics.Metrics
	log         *logrus.Entry
}

func NewAccountService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	planRepo repositories.IPlanRepository,
	tokens *utils.TokenManager,
	m *metrics.Metrics,
	log *logrus.Entry,
) AccountServiceInterface {
	return &AccountService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		planRepo:    planRepo,
		tokens:      tokens,
		metrics:     m,
		log:         log.WithField("component", "account"),
	}
}

func dbError(err error) error {
	return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AccountService) Signup(ctx context.Context, request request_models.SignUpRequest) (resp *response_models.AuthResponse, err error) {
	defer func() { a.metrics.AuthEvents.WithLabelValues("signup", metrics.Result(err)).Inc() }()

	email := normalizeEmail(request.Email)

	planCode := strings.TrimSpace(request.Plan)
	if planCode == "" {
		planCode = db_models.DefaultPlanCode
	}
	plan, err := a.planRepo.FindByCode(ctx, planCode)
	if err != nil {
		return nil, dbError(err)
	}
	if plan == nil {
		return nil, utils.ErrUnknownPlan
	}

	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, dbError(err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &db_models.User{
		Email:            email,
		PasswordHash:     hashedPassword,
		SubscriptionPlan: plan.Code,
	}
	profile := db_models.NewDefaultProfile(uuid.Nil)

	if err := a.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, dbError(err)
	}

	token, err := a.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	a.log.WithField("user_id", user.ID).Info("account created")
	return &response_models.AuthResponse{
		AccessToken: token,
		User:        toUserSummary(*user, []db_models.Profile{*profile}),
	}, nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (resp *response_models.AuthResponse, err error) {
	defer func() { a.metrics.AuthEvents.WithLabelValues("login", metrics.Result(err)).Inc() }()

	account, err := a.userRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		return nil, dbError(err)
	}
	if account == nil {
		a.log.Debug("login for unknown email")
		return nil, utils.ErrInvalidCredentials
	}

	if !utils.PasswordMatches(account.PasswordHash, request.Password) {
		a.log.WithField("user_id", account.ID).Info("login with wrong password")
		return nil, utils.ErrInvalidCredentials
	}

	profiles, err := a.profileRepo.ListByOwner(ctx, account.ID)
	if err != nil {
		return nil, dbError(err)
	}

	token, err := a.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &response_models.AuthResponse{
		AccessToken: token,
		User:        toUserSummary(*account, profiles),
	}, nil
}

func (a *AccountService) Me(ctx context.Context, userID uuid.UUID) (*response_models.UserSummary, error) {
	account, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	profiles, err := a.profileRepo.ListByOwner(ctx, account.ID)
	if err != nil {
		return nil, dbError(err)
	}

	summary := toUserSummary(*account, profiles)
	return &summary, nil
}
