package domain

import "github.com/code19m/pulsechat/pkg/errs"

// Domain-specific errors for the chat module. Each carries the errs.Kind the
// HTTP and realtime layers map to a status/response, so a bare errs.Wrap(op,
// err) at a usecase call site is enough to surface the right response
// instead of defaulting to KindInternal.
var (
	ErrNotMember             = errs.New(errs.KindForbidden, "user is not a member of this chat")
	ErrPrivateChatExists     = errs.New(errs.KindConflict, "a private chat between these users already exists")
	ErrCannotMessageSelf     = errs.New(errs.KindBadRequest, "cannot create a private chat with yourself")
	ErrInvitationNotPending  = errs.New(errs.KindConflict, "invitation is not pending")
	ErrInvitationExists      = errs.New(errs.KindConflict, "a pending invitation already exists for this user")
	ErrCannotGrantOwner      = errs.New(errs.KindBadRequest, "role cannot be changed to Owner; use ownership transfer")
	ErrNotAuthorizedForRole  = errs.New(errs.KindForbidden, "actor is not authorized to assign this role")
	ErrSoleOwnerMustTransfer = errs.New(errs.KindConflict, "owner must transfer ownership before leaving the chat")
	ErrNotGroupChat          = errs.New(errs.KindBadRequest, "operation is only valid for group chats")
)
