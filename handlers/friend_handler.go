package handlers

import (
	"net/http"

	"github.com/mabood2003/FairPlay/middleware"
	"github.com/mabood2003/FairPlay/services"
)

type FriendHandler struct {
	friendService services.FriendService
}

func NewFriendHandler(friendService services.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// Follow godoc
// @Summary      Follow a player
// @Tags         friends
// @Produce      json
// @Param        id path int true "Player ID to follow"
// @Success      201 {object} models.FriendConnection
// @Security     BearerAuth
// @Router       /players/{id}/follow [post]
func (h *FriendHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	followingID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := h.friendService.Follow(r.Context(), followerID, followingID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"connection": conn}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Unfollow godoc
// @Summary      Unfollow a player
// @Tags         friends
// @Param        id path int true "Player ID to unfollow"
// @Success      204
// @Security     BearerAuth
// @Router       /players/{id}/follow [delete]
func (h *FriendHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	followingID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.friendService.Unfollow(r.Context(), followerID, followingID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Following godoc
// @Summary      Players the authenticated player follows
// @Tags         friends
// @Produce      json
// @Success      200 {array} int
// @Security     BearerAuth
// @Router       /players/me/following [get]
func (h *FriendHandler) Following(w http.ResponseWriter, r *http.Request) {
	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	ids, err := h.friendService.Following(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"following": ids}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Followers godoc
// @Summary      Players following the authenticated player
// @Tags         friends
// @Produce      json
// @Success      200 {array} int
// @Security     BearerAuth
// @Router       /players/me/followers [get]
func (h *FriendHandler) Followers(w http.ResponseWriter, r *http.Request) {
	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	ids, err := h.friendService.Followers(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"followers": ids}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
