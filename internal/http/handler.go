package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/paulster44/Muse-Contracts/internal/http/middleware"
	"github.com/paulster44/Muse-Contracts/internal/model"
	"github.com/paulster44/Muse-Contracts/internal/service"
)

type Handler struct {
	auth      *service.AuthService
	contracts *service.ContractService
	log       zerolog.Logger
	cookieTTL time.Duration
}

func NewHandler(auth *service.AuthService, contracts *service.ContractService, cookieTTL time.Duration, log zerolog.Logger) *Handler {
	return &Handler{auth: auth, contracts: contracts, cookieTTL: cookieTTL, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := router.Group("/api")

	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)

	protected := api.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/auth/logout", h.logout)
	protected.POST("/contracts", h.createDraft)
	protected.GET("/contracts", h.listContracts)
	protected.GET("/contracts/:id", h.getContract)
	protected.PUT("/contracts/:id", h.updateContract)
	protected.DELETE("/contracts/:id", h.deleteContract)
	protected.POST("/contracts/:id/finalize", h.finalizeContract)
	protected.POST("/contracts/:id/reopen", h.reopenContract)
	protected.GET("/contracts/:id/pdf", h.contractPDF)
	protected.GET("/exports/contracts", h.exportContracts)
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, token, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.setSessionCookie(c, token)
	h.log.Info().Str("email", user.Email).Msg("user registered")
	c.JSON(http.StatusCreated, authResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.setSessionCookie(c, token)
	h.log.Info().Str("email", user.Email).Msg("user logged in")
	c.JSON(http.StatusOK, authResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

func (h *Handler) logout(c *gin.Context) {
	// Tokens are stateless; logout just drops the cookie.
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.SessionCookie, token, int(h.cookieTTL.Seconds()), "/", "", false, true)
}

type sideMusicianPayload struct {
	Name       string `json:"name"`
	Instrument string `json:"instrument"`
	TaxID      string `json:"tax_id"`
	CardNo     string `json:"card_no"`
	IsDoubling bool   `json:"is_doubling"`
	HasCartage bool   `json:"has_cartage"`
}

type updateContractRequest struct {
	EngagementDate        string `json:"engagement_date"`
	StartTime             string `json:"start_time"`
	EndTime               string `json:"end_time"`
	LeaderName            string `json:"leader_name"`
	LeaderCardNo          string `json:"leader_card_no"`
	LeaderSSNEIN          string `json:"leader_ssn_ein"`
	LeaderAddress         string `json:"leader_address"`
	LeaderPhone           string `json:"leader_phone"`
	BandName              string `json:"band_name"`
	VenueName             string `json:"venue_name"`
	LocationBorough       string `json:"location_borough"`
	EngagementType        string `json:"engagement_type"`
	PreHeatHours          string `json:"pre_heat_hours"`
	ActualHoursEngagement string `json:"actual_hours_engagement"`
	ActualHoursRehearsal  string `json:"actual_hours_rehearsal"`
	NumMusicians          string `json:"num_musicians"`
	HasRehearsal          bool   `json:"has_rehearsal"`
	IsRecorded            bool   `json:"is_recorded"`
	LeaderIsIncorporated  bool   `json:"leader_is_incorporated"`

	LeaderInstrument string `json:"leader_instrument"`
	LeaderIsPlaying  *bool  `json:"leader_is_playing"`
	LeaderIsDoubling bool   `json:"leader_is_doubling"`
	LeaderHasCartage bool   `json:"leader_has_cartage"`

	SideMusicians []sideMusicianPayload `json:"side_musicians"`
}

type contractSummary struct {
	ID             uuid.UUID `json:"id"`
	Status         string    `json:"status"`
	EngagementDate string    `json:"engagement_date"`
	LeaderName     string    `json:"leader_name"`
	BandName       string    `json:"band_name"`
	VenueName      string    `json:"venue_name"`
	EngagementType string    `json:"engagement_type"`
	NumMusicians   int       `json:"num_musicians"`
	TotalGrossComp float64   `json:"total_gross_comp"`
	LastSavedAt    time.Time `json:"last_saved_at"`
}

type contractResponse struct {
	ID                    uuid.UUID             `json:"id"`
	Status                string                `json:"status"`
	ApplicableLocal       string                `json:"applicable_local"`
	ApplicableScale       string                `json:"applicable_scale"`
	EngagementDate        string                `json:"engagement_date"`
	StartTime             string                `json:"start_time"`
	EndTime               string                `json:"end_time"`
	LeaderName            string                `json:"leader_name"`
	LeaderCardNo          string                `json:"leader_card_no"`
	LeaderSSNEIN          string                `json:"leader_ssn_ein"`
	LeaderAddress         string                `json:"leader_address"`
	LeaderPhone           string                `json:"leader_phone"`
	BandName              string                `json:"band_name"`
	VenueName             string                `json:"venue_name"`
	LocationBorough       string                `json:"location_borough"`
	EngagementType        string                `json:"engagement_type"`
	NumMusicians          int                   `json:"num_musicians"`
	PreHeatHours          float64               `json:"pre_heat_hours"`
	ActualHoursEngagement float64               `json:"actual_hours_engagement"`
	ActualHoursRehearsal  float64               `json:"actual_hours_rehearsal"`
	HasRehearsal          bool                  `json:"has_rehearsal"`
	IsRecorded            bool                  `json:"is_recorded"`
	LeaderIsIncorporated  bool                  `json:"leader_is_incorporated"`
	TotalGrossComp        float64               `json:"total_gross_comp"`
	TotalWorkDues         float64               `json:"total_work_dues"`
	TotalPension          float64               `json:"total_pension"`
	TotalHealth           float64               `json:"total_health"`
	CreatedAt             time.Time             `json:"created_at"`
	LastSavedAt           time.Time             `json:"last_saved_at"`
	SideMusicians         []sideMusicianPayload `json:"side_musicians"`
}

func (h *Handler) createDraft(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := h.contracts.CreateDraft(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.log.Info().Str("contract_id", id.String()).Msg("draft created")
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) updateContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.UpdateContractInput{
		EngagementDate:        req.EngagementDate,
		StartTime:             req.StartTime,
		EndTime:               req.EndTime,
		LeaderName:            req.LeaderName,
		LeaderCardNo:          req.LeaderCardNo,
		LeaderSSNEIN:          req.LeaderSSNEIN,
		LeaderAddress:         req.LeaderAddress,
		LeaderPhone:           req.LeaderPhone,
		BandName:              req.BandName,
		VenueName:             req.VenueName,
		LocationBorough:       req.LocationBorough,
		EngagementType:        req.EngagementType,
		PreHeatHours:          req.PreHeatHours,
		ActualHoursEngagement: req.ActualHoursEngagement,
		ActualHoursRehearsal:  req.ActualHoursRehearsal,
		NumMusicians:          req.NumMusicians,
		HasRehearsal:          req.HasRehearsal,
		IsRecorded:            req.IsRecorded,
		LeaderIsIncorporated:  req.LeaderIsIncorporated,
		LeaderInstrument:      req.LeaderInstrument,
		LeaderIsPlaying:       req.LeaderIsPlaying,
		LeaderIsDoubling:      req.LeaderIsDoubling,
		LeaderHasCartage:      req.LeaderHasCartage,
	}
	for _, m := range req.SideMusicians {
		input.SideMusicians = append(input.SideMusicians, service.SideMusicianInput{
			Name:       m.Name,
			Instrument: m.Instrument,
			TaxID:      m.TaxID,
			CardNo:     m.CardNo,
			IsDoubling: m.IsDoubling,
			HasCartage: m.HasCartage,
		})
	}

	detail, err := h.contracts.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.log.Info().Str("contract_id", id.String()).Msg("contract saved")
	c.JSON(http.StatusOK, toContractResponse(detail))
}

func (h *Handler) listContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	contracts, err := h.contracts.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	summaries := make([]contractSummary, 0, len(contracts))
	for _, contract := range contracts {
		summaries = append(summaries, contractSummary{
			ID:             contract.ID,
			Status:         string(contract.Status),
			EngagementDate: contract.EngagementDate,
			LeaderName:     contract.LeaderName,
			BandName:       contract.BandName,
			VenueName:      contract.VenueName,
			EngagementType: contract.EngagementType,
			NumMusicians:   contract.NumMusicians,
			TotalGrossComp: contract.TotalGrossComp,
			LastSavedAt:    contract.LastSavedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"contracts": summaries})
}

func (h *Handler) getContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	detail, err := h.contracts.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(detail))
}

func (h *Handler) deleteContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	if err := h.contracts.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	h.log.Info().Str("contract_id", id.String()).Msg("contract deleted")
	c.Status(http.StatusNoContent)
}

func (h *Handler) finalizeContract(c *gin.Context) {
	h.changeStatus(c, h.contracts.Finalize, "contract finalized")
}

func (h *Handler) reopenContract(c *gin.Context) {
	h.changeStatus(c, h.contracts.Reopen, "contract reopened")
}

func (h *Handler) changeStatus(c *gin.Context, op func(ctx context.Context, principal model.Principal, id uuid.UUID) error, message string) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	if err := op(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	h.log.Info().Str("contract_id", id.String()).Msg(message)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) contractPDF(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	result, err := h.contracts.ExportPDF(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) exportContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	result, err := h.contracts.ExportList(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrContractCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Param("id")))
}

func toContractResponse(detail *service.ContractDetail) contractResponse {
	contract := detail.Contract
	musicians := make([]sideMusicianPayload, 0, len(detail.Musicians))
	for _, m := range detail.Musicians {
		musicians = append(musicians, sideMusicianPayload{
			Name:       m.Name,
			Instrument: m.Instrument,
			TaxID:      m.TaxID,
			CardNo:     m.CardNo,
			IsDoubling: m.IsDoubling,
			HasCartage: m.HasCartage,
		})
	}
	return contractResponse{
		ID:                    contract.ID,
		Status:                string(contract.Status),
		ApplicableLocal:       contract.ApplicableLocal,
		ApplicableScale:       contract.ApplicableScale,
		EngagementDate:        contract.EngagementDate,
		StartTime:             contract.StartTime,
		EndTime:               contract.EndTime,
		LeaderName:            contract.LeaderName,
		LeaderCardNo:          contract.LeaderCardNo,
		LeaderSSNEIN:          contract.LeaderSSNEIN,
		LeaderAddress:         contract.LeaderAddress,
		LeaderPhone:           contract.LeaderPhone,
		BandName:              contract.BandName,
		VenueName:             contract.VenueName,
		LocationBorough:       contract.LocationBorough,
		EngagementType:        contract.EngagementType,
		NumMusicians:          contract.NumMusicians,
		PreHeatHours:          contract.PreHeatHours,
		ActualHoursEngagement: contract.ActualHoursEngagement,
		ActualHoursRehearsal:  contract.ActualHoursRehearsal,
		HasRehearsal:          contract.HasRehearsal,
		IsRecorded:            contract.IsRecorded,
		LeaderIsIncorporated:  contract.LeaderIsIncorporated,
		TotalGrossComp:        contract.TotalGrossComp,
		TotalWorkDues:         contract.TotalWorkDues,
		TotalPension:          contract.TotalPension,
		TotalHealth:           contract.TotalHealth,
		CreatedAt:             contract.CreatedAt,
		LastSavedAt:           contract.LastSavedAt,
		SideMusicians:         musicians,
	}
}
