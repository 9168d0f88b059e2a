package handlers

import (
	"net/http"

	"github.com/mabood2003/FairPlay/middleware"
	"github.com/mabood2003/FairPlay/services"
)

// maxAvatarBytes caps avatar uploads at 5MB.
const maxAvatarBytes = 5 << 20

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(playerService services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

// GetProfile godoc
// @Summary      Get a player profile
// @Tags         players
// @Produce      json
// @Param        id path int true "Player ID"
// @Success      200 {object} services.PlayerProfile
// @Router       /players/{id} [get]
func (h *PlayerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.playerService.GetProfile(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetOwnProfile godoc
// @Summary      Get the authenticated player's profile
// @Tags         players
// @Produce      json
// @Success      200 {object} services.PlayerProfile
// @Security     BearerAuth
// @Router       /players/me [get]
func (h *PlayerHandler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	profile, err := h.playerService.GetProfile(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateProfile godoc
// @Summary      Update the authenticated player's profile
// @Tags         players
// @Accept       json
// @Produce      json
// @Param        input body services.UpdateProfileInput true "Profile fields"
// @Success      200 {object} models.Player
// @Security     BearerAuth
// @Router       /players/me [patch]
func (h *PlayerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.UpdateProfileInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.UpdateProfile(r.Context(), playerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadAvatar godoc
// @Summary      Upload the authenticated player's avatar
// @Tags         players
// @Accept       mpfd
// @Produce      json
// @Param        avatar formData file true "Avatar image (jpeg, png or webp)"
// @Success      200 {object} models.Player
// @Security     BearerAuth
// @Router       /players/me/avatar [put]
func (h *PlayerHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	player, err := h.playerService.UploadAvatar(r.Context(), playerID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
