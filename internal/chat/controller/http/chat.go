package http

import (
	"net/http"

	authmw "github.com/code19m/pulsechat/internal/auth/middleware"
	"github.com/code19m/pulsechat/internal/chat/usecase/membershipuc"
	"github.com/code19m/pulsechat/pkg/httpx"
)

func (c *ctrl) listChats(w http.ResponseWriter, r *http.Request) {
	userID, _ := authmw.UserIDFromContext(r.Context())

	resp, err := c.membershipUsecase.ListMyChats(r.Context(), membershipuc.ListMyChatsReq{ActorID: userID})
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, resp)
}

func (c *ctrl) createChat(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[membershipuc.CreateChatReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	req.ActorID, _ = authmw.UserIDFromContext(r.Context())

	resp, err := c.membershipUsecase.CreateChat(r.Context(), req)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, resp)
}

func (c *ctrl) listMembers(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[membershipuc.ListMembersReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	req.ActorID, _ = authmw.UserIDFromContext(r.Context())

	resp, err := c.membershipUsecase.ListMembers(r.Context(), req)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, resp)
}

func (c *ctrl) inviteToChat(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[membershipuc.InviteToChatReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	req.ActorID, _ = authmw.UserIDFromContext(r.Context())

	resp, err := c.membershipUsecase.InviteToChat(r.Context(), req)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, resp)
}

func (c *ctrl) updateMemberRole(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[membershipuc.UpdateMemberRoleReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	req.ActorID, _ = authmw.UserIDFromContext(r.Context())

	if err := c.membershipUsecase.UpdateMemberRole(r.Context(), req); err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, nil)
}

func (c *ctrl) transferOwnership(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[membershipuc.TransferOwnershipReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	req.ActorID, _ = authmw.UserIDFromContext(r.Context())

	if err := c.membershipUsecase.TransferOwnership(r.Context(), req); err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, nil)
}

func (c *ctrl) removeMember(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[membershipuc.RemoveMemberReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	req.ActorID, _ = authmw.UserIDFromContext(r.Context())

	if err := c.membershipUsecase.RemoveMember(r.Context(), req); err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, nil)
}

func (c *ctrl) leaveChat(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[membershipuc.LeaveChatReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	req.ActorID, _ = authmw.UserIDFromContext(r.Context())

	if err := c.membershipUsecase.LeaveChat(r.Context(), req); err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, nil)
}

func (c *ctrl) listPendingInvitations(w http.ResponseWriter, r *http.Request) {
	userID, _ := authmw.UserIDFromContext(r.Context())

	resp, err := c.membershipUsecase.ListPendingInvitations(
		r.Context(), membershipuc.ListPendingInvitationsReq{ActorID: userID},
	)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, resp)
}

func (c *ctrl) respondToInvitation(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[membershipuc.RespondToInvitationReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	req.ActorID, _ = authmw.UserIDFromContext(r.Context())

	if err := c.membershipUsecase.RespondToInvitation(r.Context(), req); err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, nil)
}
