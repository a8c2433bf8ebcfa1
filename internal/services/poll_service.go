package services

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/LankyMoose/poller.pro/internal/live"
	"github.com/LankyMoose/poller.pro/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const latestPollLimit = 20

// Publisher is the slice of the live hub the poll service needs: topic
// lifecycle plus fanout. *live.Hub satisfies it.
type Publisher interface {
	CreateTopic(pollID uint)
	DestroyTopic(pollID uint)
	Publish(pollID uint, msg any, personalize live.Personalizer)
}

// PollService owns poll reads and writes and propagates vote effects to the
// hub. The upsert-and-recount runs in a single transaction so a concurrent
// reader never sees a vote without its tally effect.
type PollService struct {
	db     *gorm.DB
	hub    Publisher
	logger *slog.Logger
}

func NewPollService(db *gorm.DB, hub Publisher, logger *slog.Logger) *PollService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PollService{db: db, hub: hub, logger: logger}
}

// PollUser is the owner info embedded in poll responses.
type PollUser struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

type PollOptionWithCount struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Count int64  `json:"count"`
}

// PollWithMeta is the API shape of a poll: owner, options with current
// counts, and the requesting user's own vote (nil for anonymous callers or
// users who have not voted).
type PollWithMeta struct {
	ID          uint                  `json:"id"`
	Text        string                `json:"text"`
	Closed      bool                  `json:"closed"`
	CreatedAt   time.Time             `json:"createdAt"`
	User        PollUser              `json:"user"`
	PollOptions []PollOptionWithCount `json:"pollOptions"`
	UserVote    *uint                 `json:"userVote"`
}

// ListLatest returns the newest non-deleted polls with tallies and, when
// userID is non-zero, the caller's own vote per poll.
func (s *PollService) ListLatest(userID uint) ([]PollWithMeta, error) {
	var polls []models.Poll
	err := s.db.
		Preload("User").
		Preload("Options").
		Where("deleted = ?", false).
		Order("created_at DESC").
		Limit(latestPollLimit).
		Find(&polls).Error
	if err != nil {
		return nil, err
	}
	if len(polls) == 0 {
		return []PollWithMeta{}, nil
	}

	pollIDs := make([]uint, 0, len(polls))
	for _, p := range polls {
		pollIDs = append(pollIDs, p.ID)
	}

	// One grouped count query for all listed polls.
	var rows []struct {
		OptionID uint
		Count    int64
	}
	err = s.db.Model(&models.PollVote{}).
		Select("option_id, COUNT(*) AS count").
		Where("poll_id IN ?", pollIDs).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.OptionID] = r.Count
	}

	userVotes := make(map[uint]uint)
	if userID != 0 {
		var votes []models.PollVote
		err = s.db.
			Where("user_id = ? AND poll_id IN ?", userID, pollIDs).
			Find(&votes).Error
		if err != nil {
			return nil, err
		}
		for _, v := range votes {
			userVotes[v.PollID] = v.OptionID
		}
	}

	out := make([]PollWithMeta, 0, len(polls))
	for _, p := range polls {
		meta := PollWithMeta{
			ID:        p.ID,
			Text:      p.Text,
			Closed:    p.Closed,
			CreatedAt: p.CreatedAt,
			User: PollUser{
				ID:        p.User.ID,
				Name:      p.User.Name,
				AvatarURL: p.User.AvatarURL,
			},
			PollOptions: make([]PollOptionWithCount, 0, len(p.Options)),
		}
		for _, o := range p.Options {
			meta.PollOptions = append(meta.PollOptions, PollOptionWithCount{
				ID:    o.ID,
				Text:  o.Text,
				Count: counts[o.ID],
			})
		}
		if optionID, ok := userVotes[p.ID]; ok {
			meta.UserVote = &optionID
		}
		out = append(out, meta)
	}
	return out, nil
}

// Create stores a poll and its options atomically and opens its topic.
// A poll is never created with fewer than two options.
func (s *PollService) Create(user *models.User, text string, options []string) (*models.Poll, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrMissingText
	}
	cleaned := make([]string, 0, len(options))
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) < 2 {
		return nil, ErrTooFewOptions
	}

	poll := models.Poll{UserID: user.ID, Text: text}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&poll).Error; err != nil {
			return err
		}
		for _, o := range cleaned {
			poll.Options = append(poll.Options, models.PollOption{PollID: poll.ID, Text: o})
		}
		return tx.Create(&poll.Options).Error
	})
	if err != nil {
		return nil, err
	}
	poll.User = *user

	s.hub.CreateTopic(poll.ID)
	s.logger.Info("poll created", "poll_id", poll.ID, "user_id", user.ID)
	return &poll, nil
}

// CastVote applies one vote and propagates its effect: validate, upsert the
// (poll, user) row, recount in the same transaction, then broadcast the new
// tally with the voter's own copies carrying userVote.
func (s *PollService) CastVote(pollID, userID, optionID uint) ([]live.OptionCount, error) {
	var counts []live.OptionCount
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var poll models.Poll
		if err := tx.First(&poll, pollID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPollNotFound
			}
			return err
		}
		if poll.Deleted {
			return ErrPollNotFound
		}
		if poll.Closed {
			return ErrPollClosed
		}

		var option models.PollOption
		err := tx.Where("id = ? AND poll_id = ?", optionID, pollID).First(&option).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOptionMismatch
			}
			return err
		}

		// Insert-or-overwrite keyed on (poll_id, user_id); the DB's
		// serialization of concurrent upserts decides the winner.
		vote := models.PollVote{PollID: pollID, UserID: userID, OptionID: optionID}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "poll_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"option_id": optionID}),
		}).Create(&vote).Error
		if err != nil {
			return err
		}

		counts, err = voteCounts(tx, pollID)
		return err
	})
	if err != nil {
		return nil, err
	}

	msg := live.NewVoteCountsMessage(pollID, counts)
	s.hub.Publish(pollID, msg, func(uid uint) any {
		if uid != userID {
			return nil
		}
		own := msg
		chosen := optionID
		own.UserVote = &chosen
		return own
	})

	s.logger.Info("vote cast", "poll_id", pollID, "user_id", userID, "option_id", optionID)
	return counts, nil
}

// VoteCounts recomputes the tally for a poll from current vote rows.
func (s *PollService) VoteCounts(pollID uint) ([]live.OptionCount, error) {
	return voteCounts(s.db, pollID)
}

// voteCounts is a full recount, not an incremental counter — drift-proof by
// construction. The LEFT JOIN keeps zero-vote options in the result.
func voteCounts(tx *gorm.DB, pollID uint) ([]live.OptionCount, error) {
	var counts []live.OptionCount
	err := tx.Model(&models.PollOption{}).
		Select("poll_options.id AS id, COUNT(poll_votes.id) AS count").
		Joins("LEFT JOIN poll_votes ON poll_votes.option_id = poll_options.id").
		Where("poll_options.poll_id = ?", pollID).
		Group("poll_options.id").
		Order("poll_options.id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Delete soft-deletes a poll. Only the owner or an admin may delete. On
// success subscribers are told the poll is gone, then the topic is
// destroyed so no further broadcasts are attempted against it.
func (s *PollService) Delete(pollID uint, user *models.User) error {
	var poll models.Poll
	if err := s.db.First(&poll, pollID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPollNotFound
		}
		return err
	}
	if poll.Deleted {
		return ErrPollNotFound
	}
	if poll.UserID != user.ID && !user.IsAdmin {
		return ErrNotAllowed
	}

	if err := s.db.Model(&poll).Update("deleted", true).Error; err != nil {
		return err
	}

	s.hub.Publish(pollID, live.NewPollDeletedMessage(pollID), nil)
	s.hub.DestroyTopic(pollID)
	s.logger.Info("poll deleted", "poll_id", pollID, "user_id", user.ID)
	return nil
}

// Close marks a poll closed; further votes are rejected. Owner or admin only.
func (s *PollService) Close(pollID uint, user *models.User) error {
	var poll models.Poll
	if err := s.db.First(&poll, pollID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPollNotFound
		}
		return err
	}
	if poll.Deleted {
		return ErrPollNotFound
	}
	if poll.UserID != user.ID && !user.IsAdmin {
		return ErrNotAllowed
	}

	if err := s.db.Model(&poll).Update("closed", true).Error; err != nil {
		return err
	}
	s.logger.Info("poll closed", "poll_id", pollID, "user_id", user.ID)
	return nil
}
