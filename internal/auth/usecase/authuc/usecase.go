package authuc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/code19m/pulsechat/internal/auth/domain"
	"github.com/code19m/pulsechat/internal/events"
	"github.com/code19m/pulsechat/pkg/errs"
	"github.com/code19m/pulsechat/pkg/hasher"
	"github.com/code19m/pulsechat/pkg/kafka"
	"github.com/code19m/pulsechat/pkg/token"
)

type useCase struct {
	userRepo       domain.UserRepository
	passwordHasher hasher.Hasher
	tokenService   *token.Service
	eventProducer  *kafka.Producer
}

func New(
	userRepo domain.UserRepository,
	passwordHasher hasher.Hasher,
	tokenService *token.Service,
	eventProducer *kafka.Producer,
) UseCase {
	return &useCase{
		userRepo:       userRepo,
		passwordHasher: passwordHasher,
		tokenService:   tokenService,
		eventProducer:  eventProducer,
	}
}

func (uc *useCase) Register(ctx context.Context, req RegisterReq) (*RegisterResp, error) {
	const op = "authuc.Register"

	if req.Username == domain.DeletedUsername {
		return nil, errs.NewConflictError("username", "username is reserved")
	}

	passwordHash, err := uc.passwordHasher.Hash(req.Password)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		Email:        req.Email,
		CreatedAt:    time.Now(),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, errs.ReplaceOn(
			err,
			errs.ErrAlreadyExists,
			errs.NewConflictError("username", "username already taken"),
		)
	}

	if req.Email != "" && uc.eventProducer != nil {
		event := events.UserRegisteredEvent{
			Email:    req.Email,
			Username: req.Username,
		}
		eventData, err := event.Marshal()
		if err != nil {
			slog.Error("marshal registration event", "error", err)
		} else if err := uc.eventProducer.SendMessage(ctx, &kafka.Message{
			Key:   []byte(req.Username),
			Value: eventData,
		}); err != nil {
			// Welcome email is best-effort; registration must not fail on it.
			slog.Error("publish registration event", "error", err)
		}
	}

	return &RegisterResp{UserID: user.ID}, nil
}

func (uc *useCase) Login(ctx context.Context, req LoginReq) (*LoginResp, error) {
	const op = "authuc.Login"

	user, err := uc.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, errs.ReplaceOn(err, errs.ErrNotFound, domain.ErrInvalidCredentials)
	}

	if user.IsDeleted() {
		return nil, domain.ErrInvalidCredentials
	}

	if err := uc.passwordHasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := uc.tokenService.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, errs.Wrap(op, fmt.Errorf("issue tokens: %w", err))
	}

	return &LoginResp{
		UserID:       user.ID,
		Username:     user.Username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (uc *useCase) Logout(ctx context.Context, req LogoutReq) error {
	if req.AccessToken == "" {
		return nil
	}
	if err := uc.tokenService.Revoke(ctx, req.AccessToken); err != nil {
		slog.Error("revoke token on logout", "error", err)
	}
	return nil
}
