package accountuc

import (
	"context"
	"sort"
	"sync"

	authdomain "github.com/code19m/pulsechat/internal/auth/domain"
	"github.com/code19m/pulsechat/internal/chat/domain"
	"github.com/code19m/pulsechat/internal/realtime"
	"github.com/code19m/pulsechat/pkg/errs"
	"github.com/code19m/pulsechat/pkg/token"
)

// userLocks serializes account-lifecycle operations per user so a concurrent
// request can't observe or create dangling memberships mid-deletion. Grounded
// in the same mutex-guarded-map idiom the realtime registry uses for online
// users, narrowed to one lock per user instead of one channel per user.
type userLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int]*sync.Mutex)}
}

func (u *userLocks) lock(userID int) func() {
	u.mu.Lock()
	l, ok := u.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		u.locks[userID] = l
	}
	u.mu.Unlock()

	l.Lock()
	return l.Unlock
}

type useCase struct {
	userRepo       authdomain.UserRepository
	chatRepo       domain.ChatRepository
	membershipRepo domain.MembershipRepository
	tokens         *token.Service
	registry       *realtime.Registry
	locks          *userLocks
}

func New(
	userRepo authdomain.UserRepository,
	chatRepo domain.ChatRepository,
	membershipRepo domain.MembershipRepository,
	tokens *token.Service,
	registry *realtime.Registry,
) UseCase {
	return &useCase{
		userRepo:       userRepo,
		chatRepo:       chatRepo,
		membershipRepo: membershipRepo,
		tokens:         tokens,
		registry:       registry,
		locks:          newUserLocks(),
	}
}

func (uc *useCase) DeleteMyAccount(ctx context.Context, req DeleteMyAccountReq) error {
	const op = "accountuc.DeleteMyAccount"

	unlock := uc.locks.lock(req.ActorID)
	defer unlock()

	memberships, err := uc.membershipRepo.FindByUser(ctx, req.ActorID)
	if err != nil {
		return errs.Wrap(op, err)
	}

	for _, m := range memberships {
		if m.Role != domain.RoleOwner {
			continue
		}

		if err := uc.reassignOrDeleteChat(ctx, m.ChatID, req.ActorID); err != nil {
			return errs.Wrap(op, err)
		}
	}

	for _, m := range memberships {
		if err := uc.membershipRepo.Delete(ctx, m.ChatID, req.ActorID); err != nil {
			return errs.Wrap(op, err)
		}
	}

	user, err := uc.userRepo.GetByID(ctx, req.ActorID)
	if err != nil {
		return errs.Wrap(op, err)
	}
	user.Username = authdomain.DeletedUsername
	user.PasswordHash = ""
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return errs.Wrap(op, err)
	}

	if err := uc.tokens.RevokeAllUserTokens(ctx, req.ActorID); err != nil {
		return errs.Wrap(op, err)
	}

	uc.registry.Notify(req.ActorID, realtime.ControlSignal{Kind: realtime.ControlShutdown})

	return nil
}

// reassignOrDeleteChat implements the Owner-exit half of account deletion:
// delete the chat outright if actorID is its sole member, otherwise transfer
// ownership to the most senior Admin, falling back to the most senior Member.
func (uc *useCase) reassignOrDeleteChat(ctx context.Context, chatID, actorID int) error {
	members, err := uc.membershipRepo.FindByChat(ctx, chatID)
	if err != nil {
		return err
	}

	if len(members) <= 1 {
		return uc.chatRepo.Delete(ctx, chatID)
	}

	successor := pickSuccessor(members, actorID)
	if successor == 0 {
		return uc.chatRepo.Delete(ctx, chatID)
	}

	return uc.membershipRepo.TransferOwnership(ctx, chatID, actorID, successor)
}

// pickSuccessor prefers the most senior Admin by member_since, falling back
// to the most senior Member; it never returns actorID itself.
func pickSuccessor(members []*domain.Membership, actorID int) int {
	var admins, others []*domain.Membership
	for _, m := range members {
		if m.UserID == actorID {
			continue
		}
		if m.Role == domain.RoleAdmin {
			admins = append(admins, m)
		} else {
			others = append(others, m)
		}
	}

	bySeniority := func(ms []*domain.Membership) int {
		if len(ms) == 0 {
			return 0
		}
		sort.Slice(ms, func(i, j int) bool { return ms[i].MemberSince.Before(ms[j].MemberSince) })
		return ms[0].UserID
	}

	if id := bySeniority(admins); id != 0 {
		return id
	}
	return bySeniority(others)
}
