package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HolesPerRound is the number of holes in a complete round
const HolesPerRound = 18

// Round is one played round. TotalScore and ParTotal are derived from its holes.
// ShotsChangedAt is stamped on every shot write; a value newer than UpdatedAt
// means the aggregates are behind the shot log.
type Round struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string      `gorm:"not null;index:idx_round_user_played,priority:1" json:"user_id"`
	CourseID       string      `gorm:"index" json:"course_id"`
	PlayedAt       time.Time   `gorm:"not null;index:idx_round_user_played,priority:2" json:"played_at"`
	TotalScore     int         `gorm:"default:0" json:"total_score"`
	ParTotal       int         `gorm:"default:0" json:"par_total"`
	Holes          []RoundHole `gorm:"foreignKey:RoundID" json:"holes,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	ShotsChangedAt *time.Time  `gorm:"index" json:"-"`
}

func (r *Round) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RoundHole is the derived aggregate for one hole of a round
type RoundHole struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	RoundID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_round_hole,priority:1" json:"round_id"`
	HoleNumber int       `gorm:"not null;uniqueIndex:idx_round_hole,priority:2" json:"hole_number"`
	Par        int       `gorm:"not null;default:4" json:"par"`
	Putts      int       `gorm:"default:0" json:"putts"`
	Penalties  int       `gorm:"default:0" json:"penalties"`
	GrossScore *int      `json:"gross_score"`
	FIR        bool      `gorm:"column:fir;default:false" json:"fir"`
	GIR        bool      `gorm:"column:gir;default:false" json:"gir"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CourseHole is reference data for a course's hole
type CourseHole struct {
	CourseID   string `gorm:"primaryKey" json:"course_id"`
	HoleNumber int    `gorm:"primaryKey;autoIncrement:false" json:"hole_number"`
	Par        int    `gorm:"not null" json:"par"`
	Yards      int    `json:"yards"`
}
