package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/paulster44/Muse-Contracts/internal/config"
	"github.com/paulster44/Muse-Contracts/internal/model"
	"github.com/paulster44/Muse-Contracts/internal/repository"
	"github.com/paulster44/Muse-Contracts/internal/scale"
)

type PDFGenerator interface {
	Generate(doc model.ContractDocument) ([]byte, error)
}

type ExcelGenerator interface {
	Generate(contracts []model.Contract) ([]byte, error)
}

type ContractService struct {
	repo  *repository.ContractRepository
	pdf   PDFGenerator
	excel ExcelGenerator

	defaultLocal string
	defaultScale string
}

func NewContractService(repo *repository.ContractRepository, pdf PDFGenerator, excel ExcelGenerator, cfg *config.Config) *ContractService {
	return &ContractService{
		repo:         repo,
		pdf:          pdf,
		excel:        excel,
		defaultLocal: cfg.Contracts.DefaultLocal,
		defaultScale: cfg.Contracts.DefaultScale,
	}
}

// SideMusicianInput is one performer entry of an update payload, in draft
// entry order.
type SideMusicianInput struct {
	Name       string
	Instrument string
	TaxID      string
	CardNo     string
	IsDoubling bool
	HasCartage bool
}

// UpdateContractInput carries the full accumulated draft. Numeric values
// arrive as strings, exactly as the client collected them; parsing and
// validation happen here.
type UpdateContractInput struct {
	EngagementDate        string
	StartTime             string
	EndTime               string
	LeaderName            string
	LeaderCardNo          string
	LeaderSSNEIN          string
	LeaderAddress         string
	LeaderPhone           string
	BandName              string
	VenueName             string
	LocationBorough       string
	EngagementType        string
	PreHeatHours          string
	ActualHoursEngagement string
	ActualHoursRehearsal  string
	NumMusicians          string
	HasRehearsal          bool
	IsRecorded            bool
	LeaderIsIncorporated  bool

	LeaderInstrument string
	LeaderIsPlaying  *bool
	LeaderIsDoubling bool
	LeaderHasCartage bool

	SideMusicians []SideMusicianInput
}

// ContractDetail is a contract with its side musicians attached.
type ContractDetail struct {
	Contract  model.Contract
	Musicians []model.SideMusician
}

// ExportResult is a generated file ready to be sent to the client.
type ExportResult struct {
	FileName string
	Content  []byte
}

// CreateDraft registers an empty draft owned by the caller and returns its
// identifier. Nothing is validated here: the record exists only so the
// client has an identifier to accumulate against.
func (s *ContractService) CreateDraft(ctx context.Context, principal model.Principal) (uuid.UUID, error) {
	now := time.Now().UTC()
	c := &model.Contract{
		ID:              uuid.New(),
		UserID:          principal.UserID,
		Status:          model.ContractStatusDraft,
		ApplicableLocal: s.defaultLocal,
		ApplicableScale: s.defaultScale,
		LeaderIsPlaying: true,
		CreatedAt:       now,
		LastSavedAt:     now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return uuid.Nil, err
	}
	return c.ID, nil
}

// Update persists the full draft payload: parses and validates every field,
// replaces the side musicians, recomputes the scale compensation and saves
// the record in one transaction.
func (s *ContractService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateContractInput) (*ContractDetail, error) {
	c, err := s.getOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if c.Status == model.ContractStatusCompleted {
		return nil, ErrContractCompleted
	}

	if err := applyInput(c, input); err != nil {
		return nil, err
	}

	musicians := make([]model.SideMusician, 0, len(input.SideMusicians))
	for i, m := range input.SideMusicians {
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("%w: name required for side musician #%d", ErrInvalidInput, i+1)
		}
		if strings.TrimSpace(m.TaxID) == "" {
			return nil, fmt.Errorf("%w: tax id required for side musician #%d", ErrInvalidInput, i+1)
		}
		musicians = append(musicians, model.SideMusician{
			ID:         uuid.New(),
			ContractID: c.ID,
			Position:   i,
			Name:       strings.TrimSpace(m.Name),
			CardNo:     strings.TrimSpace(m.CardNo),
			TaxID:      strings.TrimSpace(m.TaxID),
			Instrument: strings.TrimSpace(m.Instrument),
			IsDoubling: m.IsDoubling,
			HasCartage: m.HasCartage,
		})
	}

	rates, err := scale.Lookup(c.ApplicableLocal, c.ApplicableScale)
	if err != nil {
		return nil, err
	}
	totals := scale.Calculate(c, musicians, rates)
	c.TotalGrossComp = totals.GrossComp
	c.TotalWorkDues = totals.WorkDues
	c.TotalPension = totals.Pension
	c.TotalHealth = totals.Health
	c.NumMusicians = totals.MusiciansPaid
	c.LastSavedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, c, musicians); err != nil {
		return nil, err
	}
	return &ContractDetail{Contract: *c, Musicians: musicians}, nil
}

func (s *ContractService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*ContractDetail, error) {
	c, err := s.getOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	musicians, err := s.repo.ListSideMusicians(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ContractDetail{Contract: *c, Musicians: musicians}, nil
}

// List returns the caller's contracts, most recently saved first.
func (s *ContractService) List(ctx context.Context, principal model.Principal) ([]model.Contract, error) {
	return s.repo.ListByUser(ctx, principal.UserID)
}

func (s *ContractService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, principal, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Finalize marks a draft as completed.
func (s *ContractService) Finalize(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	c, err := s.getOwned(ctx, principal, id)
	if err != nil {
		return err
	}
	if c.Status != model.ContractStatusDraft {
		return fmt.Errorf("%w: only draft contracts can be finalized", ErrInvalidInput)
	}
	return s.repo.UpdateStatus(ctx, id, model.ContractStatusCompleted)
}

// Reopen returns a completed contract to draft so it can be edited again.
func (s *ContractService) Reopen(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	c, err := s.getOwned(ctx, principal, id)
	if err != nil {
		return err
	}
	if c.Status != model.ContractStatusCompleted {
		return fmt.Errorf("%w: only completed contracts can be reopened", ErrInvalidInput)
	}
	return s.repo.UpdateStatus(ctx, id, model.ContractStatusDraft)
}

// ExportPDF renders the contract as a PDF document.
func (s *ContractService) ExportPDF(ctx context.Context, principal model.Principal, id uuid.UUID) (*ExportResult, error) {
	detail, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	scaleName := detail.Contract.ApplicableScale
	if rates, err := scale.Lookup(detail.Contract.ApplicableLocal, detail.Contract.ApplicableScale); err == nil {
		scaleName = rates.Name
	}
	content, err := s.pdf.Generate(model.ContractDocument{
		Contract:  detail.Contract,
		Musicians: detail.Musicians,
		ScaleName: scaleName,
	})
	if err != nil {
		return nil, err
	}
	name := detail.Contract.EngagementDate
	if name == "" {
		name = detail.Contract.ID.String()
	}
	return &ExportResult{
		FileName: fmt.Sprintf("contract-%s.pdf", name),
		Content:  content,
	}, nil
}

// ExportList renders the caller's contract list as a spreadsheet.
func (s *ContractService) ExportList(ctx context.Context, principal model.Principal) (*ExportResult, error) {
	contracts, err := s.repo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(contracts)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("contracts-%s.xlsx", time.Now().UTC().Format("20060102")),
		Content:  content,
	}, nil
}

// getOwned fetches a contract and hides its existence from anyone but the
// owner.
func (s *ContractService) getOwned(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Contract, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if c.UserID != principal.UserID {
		return nil, ErrNotFound
	}
	return c, nil
}

func applyInput(c *model.Contract, input UpdateContractInput) error {
	engagementDate := strings.TrimSpace(input.EngagementDate)
	if engagementDate == "" {
		return fmt.Errorf("%w: engagement date is required", ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02", engagementDate); err != nil {
		return fmt.Errorf("%w: engagement date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if strings.TrimSpace(input.LeaderName) == "" {
		return fmt.Errorf("%w: leader name is required", ErrInvalidInput)
	}

	startTime, err := parseClockTime("start time", input.StartTime)
	if err != nil {
		return err
	}
	endTime, err := parseClockTime("end time", input.EndTime)
	if err != nil {
		return err
	}

	preHeat, err := parseHours("pre-heat hours", input.PreHeatHours)
	if err != nil {
		return err
	}
	perfHours, err := parseHours("engagement hours", input.ActualHoursEngagement)
	if err != nil {
		return err
	}
	if perfHours <= 0 {
		return fmt.Errorf("%w: engagement hours must be positive", ErrInvalidInput)
	}
	rehHours := 0.0
	if input.HasRehearsal {
		rehHours, err = parseHours("rehearsal hours", input.ActualHoursRehearsal)
		if err != nil {
			return err
		}
		if rehHours <= 0 {
			return fmt.Errorf("%w: rehearsal hours must be positive when a rehearsal is included", ErrInvalidInput)
		}
	}

	if raw := strings.TrimSpace(input.NumMusicians); raw != "" {
		if _, err := strconv.Atoi(raw); err != nil {
			return fmt.Errorf("%w: musician count must be a whole number", ErrInvalidInput)
		}
	}

	c.EngagementDate = engagementDate
	c.StartTime = startTime
	c.EndTime = endTime
	c.LeaderName = strings.TrimSpace(input.LeaderName)
	c.LeaderCardNo = strings.TrimSpace(input.LeaderCardNo)
	c.LeaderSSNEIN = strings.TrimSpace(input.LeaderSSNEIN)
	c.LeaderAddress = strings.TrimSpace(input.LeaderAddress)
	c.LeaderPhone = strings.TrimSpace(input.LeaderPhone)
	c.BandName = strings.TrimSpace(input.BandName)
	c.VenueName = strings.TrimSpace(input.VenueName)
	c.LocationBorough = strings.TrimSpace(input.LocationBorough)
	c.EngagementType = strings.TrimSpace(input.EngagementType)
	c.PreHeatHours = preHeat
	c.ActualHoursEngagement = perfHours
	c.ActualHoursRehearsal = rehHours
	c.HasRehearsal = input.HasRehearsal
	c.IsRecorded = input.IsRecorded
	c.LeaderIsIncorporated = input.LeaderIsIncorporated
	c.LeaderInstrument = strings.TrimSpace(input.LeaderInstrument)
	c.LeaderIsPlaying = true
	if input.LeaderIsPlaying != nil {
		c.LeaderIsPlaying = *input.LeaderIsPlaying
	}
	c.LeaderIsDoubling = input.LeaderIsDoubling
	c.LeaderHasCartage = input.LeaderHasCartage
	return nil
}

func parseClockTime(label, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if _, err := time.Parse("15:04", raw); err != nil {
		return "", fmt.Errorf("%w: %s must be HH:MM", ErrInvalidInput, label)
	}
	return raw, nil
}

func parseHours(label, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidInput, label)
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: %s cannot be negative", ErrInvalidInput, label)
	}
	return value, nil
}
