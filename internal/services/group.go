package services

import (
	"errors"
	"time"

	"github.com/aidosorynbay/powerbook/internal/apperr"
	"github.com/aidosorynbay/powerbook/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupService struct {
	db     *gorm.DB
	rounds *RoundService
}

func NewGroupService(db *gorm.DB, rounds *RoundService) *GroupService {
	return &GroupService{db: db, rounds: rounds}
}

func (s *GroupService) Get(groupID uuid.UUID) (*models.Group, error) {
	var g models.Group
	if err := s.db.First(&g, "id = ?", groupID).Error; err != nil {
		return nil, apperr.NotFound("group_not_found", "group not found")
	}
	return &g, nil
}

func (s *GroupService) GetBySlug(slug string) (*models.Group, error) {
	var g models.Group
	if err := s.db.Where("slug = ?", slug).First(&g).Error; err != nil {
		return nil, apperr.NotFound("group_not_found", "group not found")
	}
	return &g, nil
}

// Create makes a group and grants the owner an admin membership. The slug is
// immutable afterwards.
func (s *GroupService) Create(name, slug string, ownerUserID uuid.UUID, now time.Time) (*models.Group, error) {
	var existing models.Group
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("slug_taken", "slug already exists")
	}

	g := models.Group{Name: name, Slug: slug, OwnerUserID: ownerUserID}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&g).Error; err != nil {
			return err
		}
		member := models.GroupMember{
			GroupID:  g.ID,
			UserID:   ownerUserID,
			Role:     models.MemberRoleAdmin,
			Status:   models.MembershipActive,
			JoinedAt: &now,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CurrentRound is the group's round for the current calendar month (UTC).
func (s *GroupService) CurrentRound(groupID uuid.UUID, now time.Time) (*models.Round, error) {
	utc := now.UTC()
	return s.rounds.GetByGroupYearMonth(groupID, utc.Year(), int(utc.Month()))
}

type ParticipationInfo struct {
	IsParticipant bool       `json:"is_participant"`
	Status        string     `json:"status,omitempty"`
	JoinedAt      *time.Time `json:"joined_at,omitempty"`
}

type RoundSnapshot struct {
	models.Round
	EffectiveStatus string `json:"effective_status"`
}

type CurrentRoundStatus struct {
	GroupID               uuid.UUID          `json:"group_id"`
	GroupName             string             `json:"group_name"`
	Round                 *RoundSnapshot     `json:"round,omitempty"`
	Participation         *ParticipationInfo `json:"participation,omitempty"`
	DeadlineUTC           *time.Time         `json:"deadline_utc,omitempty"`
	CorrectionDeadlineUTC *time.Time         `json:"correction_deadline_utc,omitempty"`
	NextRound             *RoundSnapshot     `json:"next_round,omitempty"`
}

// CurrentRoundStatusBySlug is the dashboard snapshot: current round, the
// caller's participation, both last-day deadlines in UTC, and the next round
// if one is visible. When the request lands inside the next-round
// registration window the next round is created on first observation.
func (s *GroupService) CurrentRoundStatusBySlug(slug string, userID uuid.UUID, now time.Time) (*CurrentRoundStatus, error) {
	g, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	out := &CurrentRoundStatus{GroupID: g.ID, GroupName: g.Name}

	rnd, err := s.CurrentRound(g.ID, now)
	if err != nil {
		return nil, err
	}
	if rnd == nil {
		return out, nil
	}

	out.Round = &RoundSnapshot{Round: *rnd, EffectiveStatus: rnd.EffectiveStatus(now)}

	p, err := s.rounds.Participant(rnd.ID, userID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		out.Participation = &ParticipationInfo{IsParticipant: true, Status: p.Status, JoinedAt: &p.JoinedAt}
	} else {
		out.Participation = &ParticipationInfo{IsParticipant: false}
	}

	deadline := rnd.EndOfMonth().UTC()
	correction := rnd.CorrectionDeadline().UTC()
	out.DeadlineUTC = &deadline
	out.CorrectionDeadlineUTC = &correction

	nextYear, nextMonth := rnd.NextYearMonth()
	next, err := s.rounds.GetByGroupYearMonth(g.ID, nextYear, nextMonth)
	if err != nil {
		return nil, err
	}
	if next == nil && rnd.InNextRoundWindow(now) {
		next, err = s.rounds.EnsureNextRound(rnd)
		if err != nil {
			return nil, err
		}
	}
	if next != nil {
		out.NextRound = &RoundSnapshot{Round: *next, EffectiveStatus: next.EffectiveStatus(now)}
	}

	return out, nil
}

// ActiveMember reports whether the user holds an active membership in the group.
func (s *GroupService) ActiveMember(groupID, userID uuid.UUID) (bool, error) {
	var m models.GroupMember
	err := s.db.Where("group_id = ? AND user_id = ? AND status = ?",
		groupID, userID, models.MembershipActive).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
