package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShotCategory classifies a stroke by where it is played from
type ShotCategory string

const (
	CategoryTee         ShotCategory = "tee"
	CategoryApproach    ShotCategory = "approach"
	CategoryAroundGreen ShotCategory = "around_green"
	CategoryPutt        ShotCategory = "putt"
)

// ParseShotCategory accepts canonical values plus the "short_game" alias
func ParseShotCategory(raw string) (ShotCategory, error) {
	switch canonicalToken(raw) {
	case "tee", "tee_shot", "drive":
		return CategoryTee, nil
	case "approach":
		return CategoryApproach, nil
	case "around_green", "short_game", "chip", "pitch":
		return CategoryAroundGreen, nil
	case "putt", "putting":
		return CategoryPutt, nil
	}
	return "", fmt.Errorf("unknown shot category %q", raw)
}

// Lie is the surface the ball rests on. Stored and compared in lowercase snake-case.
type Lie string

const (
	LieTeeBox          Lie = "tee_box"
	LieFairway         Lie = "fairway"
	LieFringe          Lie = "fringe"
	LieRough           Lie = "rough"
	LieHeavyRough      Lie = "heavy_rough"
	LieFairwayBunker   Lie = "fairway_bunker"
	LieGreensideBunker Lie = "greenside_bunker"
	LieRecovery        Lie = "recovery"
	LieHazard          Lie = "hazard"
	LieGreen           Lie = "green"
	LieHoled           Lie = "holed"
)

var lieAliases = map[string]Lie{
	"tee":              LieTeeBox,
	"tee_box":          LieTeeBox,
	"fairway":          LieFairway,
	"fringe":           LieFringe,
	"collar":           LieFringe,
	"rough":            LieRough,
	"first_cut":        LieRough,
	"light_rough":      LieRough,
	"heavy_rough":      LieHeavyRough,
	"deep_rough":       LieHeavyRough,
	"bunker":           LieGreensideBunker,
	"sand":             LieGreensideBunker,
	"fairway_bunker":   LieFairwayBunker,
	"greenside_bunker": LieGreensideBunker,
	"recovery":         LieRecovery,
	"trees":            LieRecovery,
	"hazard":           LieHazard,
	"water":            LieHazard,
	"penalty_area":     LieHazard,
	"green":            LieGreen,
	"holed":            LieHoled,
	"in_hole":          LieHoled,
}

// ParseLie normalizes any casing or spacing variant ("Fairway", "Heavy rough")
// to its canonical value. Unknown lies are kept in normalized form.
func ParseLie(raw string) Lie {
	token := canonicalToken(raw)
	if lie, ok := lieAliases[token]; ok {
		return lie
	}
	return Lie(token)
}

// IsTrouble reports lies that count as a recovery situation
func (l Lie) IsTrouble() bool {
	switch l {
	case LieRough, LieHeavyRough, LieFairwayBunker, LieGreensideBunker, LieRecovery:
		return true
	}
	return false
}

// IsBunker reports sand lies
func (l Lie) IsBunker() bool {
	return l == LieFairwayBunker || l == LieGreensideBunker
}

// Label renders a lie for user-facing text ("heavy rough")
func (l Lie) Label() string {
	return strings.ReplaceAll(string(l), "_", " ")
}

// ResultZone is the coarse outcome classification of a shot
type ResultZone string

const (
	ResultGood       ResultZone = "Good"
	ResultAcceptable ResultZone = "Acceptable"
	ResultPoor       ResultZone = "Poor"
	ResultOB         ResultZone = "OB"
	ResultHazard     ResultZone = "Hazard"
	ResultLostBall   ResultZone = "Lost Ball"
)

// IsPositive reports Good and Acceptable outcomes
func (r ResultZone) IsPositive() bool {
	return r == ResultGood || r == ResultAcceptable
}

// LateralMiss buckets the left/right outcome of a shot
type LateralMiss string

const (
	LateralFarLeft  LateralMiss = "Far left"
	LateralLeft     LateralMiss = "Left"
	LateralOnLine   LateralMiss = "On line"
	LateralRight    LateralMiss = "Right"
	LateralFarRight LateralMiss = "Far right"
)

// IsLeft includes both left buckets
func (m LateralMiss) IsLeft() bool {
	return m == LateralLeft || m == LateralFarLeft
}

// IsRight includes both right buckets
func (m LateralMiss) IsRight() bool {
	return m == LateralRight || m == LateralFarRight
}

// DistanceMiss buckets the long/short outcome of a shot
type DistanceMiss string

const (
	DistanceWayShort DistanceMiss = "Way short"
	DistanceShort    DistanceMiss = "Short"
	DistancePinHigh  DistanceMiss = "Pin high"
	DistanceLong     DistanceMiss = "Long"
	DistanceWayLong  DistanceMiss = "Way long"
)

// IsShort includes both short buckets
func (m DistanceMiss) IsShort() bool {
	return m == DistanceShort || m == DistanceWayShort
}

// IsLong includes both long buckets
func (m DistanceMiss) IsLong() bool {
	return m == DistanceLong || m == DistanceWayLong
}

// ShotDetails holds the optional descriptors a player may record for a shot.
// Nil means "not recorded"; use the accessors instead of dereferencing.
type ShotDetails struct {
	ShotShape      *string       `gorm:"column:shot_shape" json:"shot_shape,omitempty"`
	Trajectory     *string       `gorm:"column:trajectory" json:"trajectory,omitempty"`
	ContactQuality *string       `gorm:"column:contact_quality" json:"contact_quality,omitempty"`
	DistanceError  *DistanceMiss `gorm:"column:distance_error" json:"distance_error,omitempty"`
	LateralError   *LateralMiss  `gorm:"column:lateral_error" json:"lateral_error,omitempty"`
}

func (d ShotDetails) Lateral() (LateralMiss, bool) {
	if d.LateralError == nil || *d.LateralError == "" {
		return "", false
	}
	return *d.LateralError, true
}

func (d ShotDetails) Distance() (DistanceMiss, bool) {
	if d.DistanceError == nil || *d.DistanceError == "" {
		return "", false
	}
	return *d.DistanceError, true
}

// Shot is one recorded stroke. (RoundID, HoleNumber, ShotNumber) is unique and
// shot numbers within a hole run 1..n without gaps.
type Shot struct {
	ID                  uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              string       `gorm:"not null;index:idx_shot_user_created,priority:1" json:"user_id"`
	RoundID             uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_shot_key,priority:1" json:"round_id"`
	HoleNumber          int          `gorm:"not null;uniqueIndex:idx_shot_key,priority:2" json:"hole_number"`
	ShotNumber          int          `gorm:"not null;uniqueIndex:idx_shot_key,priority:3" json:"shot_number"`
	Category            ShotCategory `gorm:"type:varchar(20);not null" json:"category"`
	Club                string       `gorm:"type:varchar(40)" json:"club"`
	StartLie            Lie          `gorm:"type:varchar(30)" json:"start_lie"`
	StartDistanceToHole float64      `json:"start_distance_to_hole"`
	EndLie              Lie          `gorm:"type:varchar(30)" json:"end_lie"`
	EndDistanceToHole   float64      `json:"end_distance_to_hole"`
	ResultZone          ResultZone   `gorm:"type:varchar(20)" json:"result_zone"`
	PenaltyStrokes      *int         `json:"penalty_strokes,omitempty"`
	Holed               bool         `gorm:"default:false" json:"holed"`
	ShotDetails         `gorm:"embedded"`
	CreatedAt           time.Time `gorm:"index:idx_shot_user_created,priority:2" json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Normalize canonicalizes lies and enforces holed => end distance 0
func (s *Shot) Normalize() {
	s.StartLie = ParseLie(string(s.StartLie))
	s.EndLie = ParseLie(string(s.EndLie))
	if s.Holed {
		s.EndDistanceToHole = 0
	}
}

// Penalty returns penalty strokes with nil treated as zero
func (s Shot) Penalty() int {
	if s.PenaltyStrokes == nil {
		return 0
	}
	return *s.PenaltyStrokes
}

// DistanceGained is start minus end distance to the hole
func (s Shot) DistanceGained() float64 {
	return s.StartDistanceToHole - s.EndDistanceToHole
}

func (s *Shot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return s.Validate()
}

func (s *Shot) BeforeSave(tx *gorm.DB) error {
	s.Normalize()
	return nil
}

// Validate checks the key and the holed invariant
func (s *Shot) Validate() error {
	if s.HoleNumber < 1 || s.HoleNumber > HolesPerRound {
		return fmt.Errorf("%w: hole number %d out of range", ErrInvalidShot, s.HoleNumber)
	}
	if s.ShotNumber < 1 {
		return fmt.Errorf("%w: shot number must be positive", ErrInvalidShot)
	}
	if s.Holed && s.EndDistanceToHole != 0 {
		return fmt.Errorf("%w: holed shot must end at distance 0", ErrInvalidShot)
	}
	return nil
}

// ShotIntent is an already-parsed logging request (manual entry or transcribed voice)
type ShotIntent struct {
	UserID              string      `json:"user_id"`
	RoundID             uuid.UUID   `json:"round_id"`
	HoleNumber          int         `json:"hole_number"`
	Category            string      `json:"category"`
	Club                string      `json:"club"`
	StartLie            string      `json:"start_lie"`
	StartDistanceToHole float64     `json:"start_distance_to_hole"`
	EndLie              string      `json:"end_lie"`
	EndDistanceToHole   float64     `json:"end_distance_to_hole"`
	ResultZone          ResultZone  `json:"result_zone"`
	PenaltyStrokes      *int        `json:"penalty_strokes,omitempty"`
	Holed               bool        `json:"holed"`
	Details             ShotDetails `json:"details"`
}

// ToShot converts the intent into an unnumbered shot
func (i ShotIntent) ToShot() (Shot, error) {
	category, err := ParseShotCategory(i.Category)
	if err != nil {
		return Shot{}, fmt.Errorf("%w: %v", ErrInvalidShot, err)
	}
	if i.HoleNumber < 1 || i.HoleNumber > HolesPerRound {
		return Shot{}, fmt.Errorf("%w: hole number %d out of range", ErrInvalidShot, i.HoleNumber)
	}
	shot := Shot{
		UserID:              i.UserID,
		RoundID:             i.RoundID,
		HoleNumber:          i.HoleNumber,
		Category:            category,
		Club:                strings.TrimSpace(i.Club),
		StartLie:            Lie(i.StartLie),
		StartDistanceToHole: i.StartDistanceToHole,
		EndLie:              Lie(i.EndLie),
		EndDistanceToHole:   i.EndDistanceToHole,
		ResultZone:          i.ResultZone,
		PenaltyStrokes:      i.PenaltyStrokes,
		Holed:               i.Holed,
		ShotDetails:         i.Details,
	}
	shot.Normalize()
	return shot, nil
}

func canonicalToken(raw string) string {
	token := strings.ToLower(strings.TrimSpace(raw))
	token = strings.ReplaceAll(token, "-", "_")
	return strings.Join(strings.Fields(token), "_")
}
