package model

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "draft"
	ContractStatusCompleted ContractStatus = "completed"
)

// Contract is a single engagement contract. Dates and times of day are kept
// in their wire form ("2006-01-02", "15:04"); hour counts are decimal hours.
type Contract struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Status ContractStatus

	// Scale identification, keys into the scale registry.
	ApplicableLocal string
	ApplicableScale string

	EngagementDate  string
	StartTime       string
	EndTime         string
	LeaderName      string
	LeaderCardNo    string
	LeaderSSNEIN    string `gorm:"column:leader_ssn_ein"`
	LeaderAddress   string
	LeaderPhone     string
	BandName        string
	VenueName       string
	LocationBorough string
	EngagementType  string

	NumMusicians          int
	PreHeatHours          float64
	ActualHoursEngagement float64
	ActualHoursRehearsal  float64
	HasRehearsal          bool
	IsRecorded            bool
	LeaderIsIncorporated  bool

	LeaderInstrument string
	LeaderIsPlaying  bool
	LeaderIsDoubling bool
	LeaderHasCartage bool

	// Derived compensation, recomputed on every update.
	TotalGrossComp float64
	TotalWorkDues  float64
	TotalPension   float64
	TotalHealth    float64

	CreatedAt   time.Time
	LastSavedAt time.Time
}

// SideMusician is a performer entry attached to a contract. Position keeps
// the entry order from the draft.
type SideMusician struct {
	ID         uuid.UUID
	ContractID uuid.UUID
	Position   int
	Name       string
	CardNo     string
	TaxID      string
	Instrument string
	IsDoubling bool
	HasCartage bool
}
