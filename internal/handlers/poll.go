package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/LankyMoose/poller.pro/internal/live"
	"github.com/LankyMoose/poller.pro/internal/services"
	"github.com/LankyMoose/poller.pro/internal/utils"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	polls *services.PollService
	hub   *live.Hub
}

func NewPollHandler(polls *services.PollService, hub *live.Hub) *PollHandler {
	return &PollHandler{polls: polls, hub: hub}
}

// List returns the latest polls. Surfacing a poll to any client opens its
// topic so subsequent +sub frames have somewhere to attach.
func (h *PollHandler) List(c *gin.Context) {
	var userID uint
	if user, ok := CurrentUser(c); ok {
		userID = user.ID
	}

	polls, err := h.polls.ListLatest(userID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to list polls")
		return
	}
	for _, p := range polls {
		h.hub.CreateTopic(p.ID)
	}
	c.JSON(http.StatusOK, polls)
}

type createPollRequest struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

func (h *PollHandler) Create(c *gin.Context) {
	user, _ := CurrentUser(c)

	var req createPollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	text := utils.SanitizeText(req.Text)
	options := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		options = append(options, utils.SanitizeText(o))
	}

	poll, err := h.polls.Create(user, text, options)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingText), errors.Is(err, services.ErrTooFewOptions):
			jsonError(c, http.StatusBadRequest, err.Error())
		default:
			jsonError(c, http.StatusInternalServerError, "failed to create poll")
		}
		return
	}
	c.JSON(http.StatusCreated, poll)
}

type voteRequest struct {
	PollOptionID uint `json:"pollOptionId"`
}

// Vote applies the caller's vote; validation failures map to 400 with a
// reason, per the API contract.
func (h *PollHandler) Vote(c *gin.Context) {
	user, _ := CurrentUser(c)

	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PollOptionID == 0 {
		jsonError(c, http.StatusBadRequest, "pollOptionId is required")
		return
	}

	counts, err := h.polls.CastVote(pollID, user.ID, req.PollOptionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPollNotFound),
			errors.Is(err, services.ErrPollClosed),
			errors.Is(err, services.ErrOptionMismatch):
			jsonError(c, http.StatusBadRequest, err.Error())
		default:
			jsonError(c, http.StatusInternalServerError, "failed to cast vote")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"votes": counts})
}

func (h *PollHandler) Delete(c *gin.Context) {
	user, _ := CurrentUser(c)

	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	if err := h.polls.Delete(pollID, user); err != nil {
		switch {
		case errors.Is(err, services.ErrPollNotFound), errors.Is(err, services.ErrNotAllowed):
			jsonError(c, http.StatusBadRequest, err.Error())
		default:
			jsonError(c, http.StatusInternalServerError, "failed to delete poll")
		}
		return
	}
	c.Status(http.StatusOK)
}

func (h *PollHandler) Close(c *gin.Context) {
	user, _ := CurrentUser(c)

	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	if err := h.polls.Close(pollID, user); err != nil {
		switch {
		case errors.Is(err, services.ErrPollNotFound), errors.Is(err, services.ErrNotAllowed):
			jsonError(c, http.StatusBadRequest, err.Error())
		default:
			jsonError(c, http.StatusInternalServerError, "failed to close poll")
		}
		return
	}
	c.Status(http.StatusOK)
}

func pollIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		jsonError(c, http.StatusBadRequest, "invalid poll id")
		return 0, false
	}
	return uint(id), true
}
