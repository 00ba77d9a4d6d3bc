// Package draft implements the two-phase contract creation workflow used by
// Muse Contracts clients. A draft accumulates field values locally, obtains a
// server-assigned identifier through the contract store, and is persisted in
// full with a single update call.
package draft

import (
	"errors"
	"fmt"
	"strconv"
)

// Field names accepted by SetField. The set is closed: any other name is
// rejected so a typo cannot silently drop user input.
const (
	FieldEngagementDate        = "engagement_date"
	FieldStartTime             = "start_time"
	FieldEndTime               = "end_time"
	FieldLeaderName            = "leader_name"
	FieldLeaderCardNo          = "leader_card_no"
	FieldLeaderAddress         = "leader_address"
	FieldLeaderPhone           = "leader_phone"
	FieldLeaderSSNEIN          = "leader_ssn_ein"
	FieldBandName              = "band_name"
	FieldVenueName             = "venue_name"
	FieldLocationBorough       = "location_borough"
	FieldEngagementType        = "engagement_type"
	FieldPreHeatHours          = "pre_heat_hours"
	FieldActualHoursEngagement = "actual_hours_engagement"
	FieldActualHoursRehearsal  = "actual_hours_rehearsal"
	FieldNumMusicians          = "num_musicians"
	FieldHasRehearsal          = "has_rehearsal"
	FieldIsRecorded            = "is_recorded"
	FieldLeaderIsIncorporated  = "leader_is_incorporated"
)

// Side musician field names accepted by SetSideMusicianField.
const (
	MusicianFieldName       = "name"
	MusicianFieldInstrument = "instrument"
	MusicianFieldTaxID      = "tax_id"
	MusicianFieldCardNo     = "card_no"
	MusicianFieldIsDoubling = "is_doubling"
	MusicianFieldHasCartage = "has_cartage"
)

// ErrUnknownField is returned when a field name is outside the closed set.
var ErrUnknownField = errors.New("unknown field")

// SideMusician is a performer entry attached to a contract, distinct from the
// leader. Entries keep their insertion order.
type SideMusician struct {
	Name       string `json:"name"`
	Instrument string `json:"instrument"`
	TaxID      string `json:"tax_id"`
	CardNo     string `json:"card_no"`
	IsDoubling bool   `json:"is_doubling"`
	HasCartage bool   `json:"has_cartage"`
}

// ContractDraft holds the locally accumulated contract fields. Numeric values
// stay strings until the server parses them; no client-side validation is
// performed.
type ContractDraft struct {
	EngagementDate        string         `json:"engagement_date"`
	StartTime             string         `json:"start_time"`
	EndTime               string         `json:"end_time"`
	LeaderName            string         `json:"leader_name"`
	LeaderCardNo          string         `json:"leader_card_no"`
	LeaderAddress         string         `json:"leader_address"`
	LeaderPhone           string         `json:"leader_phone"`
	LeaderSSNEIN          string         `json:"leader_ssn_ein"`
	BandName              string         `json:"band_name"`
	VenueName             string         `json:"venue_name"`
	LocationBorough       string         `json:"location_borough"`
	EngagementType        string         `json:"engagement_type"`
	PreHeatHours          string         `json:"pre_heat_hours"`
	ActualHoursEngagement string         `json:"actual_hours_engagement"`
	ActualHoursRehearsal  string         `json:"actual_hours_rehearsal"`
	NumMusicians          string         `json:"num_musicians"`
	HasRehearsal          bool           `json:"has_rehearsal"`
	IsRecorded            bool           `json:"is_recorded"`
	LeaderIsIncorporated  bool           `json:"leader_is_incorporated"`
	SideMusicians         []SideMusician `json:"side_musicians"`
}

// NewContractDraft returns a draft with the documented defaults: hour fields
// "0", one musician (the leader), all flags false.
func NewContractDraft() ContractDraft {
	return ContractDraft{
		PreHeatHours:          "0",
		ActualHoursEngagement: "0",
		ActualHoursRehearsal:  "0",
		NumMusicians:          "1",
	}
}

func (d *ContractDraft) setField(name, value string) error {
	switch name {
	case FieldEngagementDate:
		d.EngagementDate = value
	case FieldStartTime:
		d.StartTime = value
	case FieldEndTime:
		d.EndTime = value
	case FieldLeaderName:
		d.LeaderName = value
	case FieldLeaderCardNo:
		d.LeaderCardNo = value
	case FieldLeaderAddress:
		d.LeaderAddress = value
	case FieldLeaderPhone:
		d.LeaderPhone = value
	case FieldLeaderSSNEIN:
		d.LeaderSSNEIN = value
	case FieldBandName:
		d.BandName = value
	case FieldVenueName:
		d.VenueName = value
	case FieldLocationBorough:
		d.LocationBorough = value
	case FieldEngagementType:
		d.EngagementType = value
	case FieldPreHeatHours:
		d.PreHeatHours = value
	case FieldActualHoursEngagement:
		d.ActualHoursEngagement = value
	case FieldActualHoursRehearsal:
		d.ActualHoursRehearsal = value
	case FieldNumMusicians:
		d.NumMusicians = value
	case FieldHasRehearsal:
		b, err := parseFlag(name, value)
		if err != nil {
			return err
		}
		d.HasRehearsal = b
	case FieldIsRecorded:
		b, err := parseFlag(name, value)
		if err != nil {
			return err
		}
		d.IsRecorded = b
	case FieldLeaderIsIncorporated:
		b, err := parseFlag(name, value)
		if err != nil {
			return err
		}
		d.LeaderIsIncorporated = b
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

func (m *SideMusician) setField(name, value string) error {
	switch name {
	case MusicianFieldName:
		m.Name = value
	case MusicianFieldInstrument:
		m.Instrument = value
	case MusicianFieldTaxID:
		m.TaxID = value
	case MusicianFieldCardNo:
		m.CardNo = value
	case MusicianFieldIsDoubling:
		b, err := parseFlag(name, value)
		if err != nil {
			return err
		}
		m.IsDoubling = b
	case MusicianFieldHasCartage:
		b, err := parseFlag(name, value)
		if err != nil {
			return err
		}
		m.HasCartage = b
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

func parseFlag(name, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("field %s: %q is not a boolean", name, value)
	}
	return b, nil
}

// clone returns a copy whose side musician slice does not alias the receiver.
func (d *ContractDraft) clone() ContractDraft {
	out := *d
	if d.SideMusicians != nil {
		out.SideMusicians = append([]SideMusician(nil), d.SideMusicians...)
	}
	return out
}
