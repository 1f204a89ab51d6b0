package http

import (
	"net/http"

	authmw "github.com/code19m/pulsechat/internal/auth/middleware"
	"github.com/code19m/pulsechat/internal/chat/domain"
	"github.com/code19m/pulsechat/internal/chat/usecase/membershipuc"
	"github.com/code19m/pulsechat/internal/chat/usecase/messageuc"
	"github.com/code19m/pulsechat/internal/realtime"
)

type ctrl struct {
	mux    *http.ServeMux
	prefix string

	membershipUsecase membershipuc.UseCase
	messageUsecase    messageuc.UseCase
	realtimeHandler   *realtime.Handler

	auth *authmw.Auth
}

func Register(
	mux *http.ServeMux,
	prefix string,
	membershipUsecase membershipuc.UseCase,
	messageUsecase messageuc.UseCase,
	membershipRepo domain.MembershipRepository,
	realtimeHandler *realtime.Handler,
	auth *authmw.Auth,
) {
	c := &ctrl{
		mux:               mux,
		prefix:            prefix,
		membershipUsecase: membershipUsecase,
		messageUsecase:    messageUsecase,
		realtimeHandler:   realtimeHandler,
		auth:              auth,
	}

	memberOnly := authmw.RequireMembership(membershipRepo)
	adminOrOwner := authmw.RequireRole(domain.RoleOwner, domain.RoleAdmin)
	ownerOnly := authmw.RequireRole(domain.RoleOwner)

	c.register(http.MethodGet, "/chats", http.HandlerFunc(c.listChats), c.auth.RequireAuth)
	c.register(http.MethodPost, "/chats", http.HandlerFunc(c.createChat), c.auth.RequireAuth)

	c.register(
		http.MethodGet, "/chats/{chat_id}/messages", http.HandlerFunc(c.listMessages),
		c.auth.RequireAuth, memberOnly,
	)
	c.register(
		http.MethodGet, "/chats/{chat_id}/members", http.HandlerFunc(c.listMembers),
		c.auth.RequireAuth, memberOnly,
	)
	c.register(
		http.MethodPost, "/chats/{chat_id}/invite/{user_id}", http.HandlerFunc(c.inviteToChat),
		c.auth.RequireAuth, memberOnly, adminOrOwner,
	)
	c.register(
		http.MethodPatch, "/chats/{chat_id}/members/{user_id}/role", http.HandlerFunc(c.updateMemberRole),
		c.auth.RequireAuth, memberOnly, adminOrOwner,
	)
	c.register(
		http.MethodPatch, "/chats/{chat_id}/transfer_ownership/{new_owner_id}", http.HandlerFunc(c.transferOwnership),
		c.auth.RequireAuth, memberOnly, ownerOnly,
	)
	c.register(
		http.MethodDelete, "/chats/{chat_id}/members/{user_id}", http.HandlerFunc(c.removeMember),
		c.auth.RequireAuth, memberOnly, adminOrOwner,
	)
	c.register(
		http.MethodPost, "/chats/{chat_id}/leave", http.HandlerFunc(c.leaveChat),
		c.auth.RequireAuth, memberOnly,
	)

	c.register(http.MethodGet, "/invitations/pending", http.HandlerFunc(c.listPendingInvitations), c.auth.RequireAuth)
	c.register(http.MethodPost, "/invitations/{invitation_id}/{action}", http.HandlerFunc(c.respondToInvitation), c.auth.RequireAuth)

	c.register(http.MethodGet, "/ws", http.HandlerFunc(c.serveWs), c.auth.RequireAuth)
}

func (c *ctrl) register(
	method string,
	path string,
	handler http.Handler,
	middlewares ...func(http.Handler) http.Handler,
) {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	fullPath := c.prefix + path
	c.mux.Handle(method+" "+fullPath, handler)
}
