package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/paulster44/Muse-Contracts/internal/model"
)

const contractColumns = `
	id,
	user_id,
	status,
	applicable_local,
	applicable_scale,
	engagement_date,
	start_time,
	end_time,
	leader_name,
	leader_card_no,
	leader_ssn_ein,
	leader_address,
	leader_phone,
	band_name,
	venue_name,
	location_borough,
	engagement_type,
	num_musicians,
	pre_heat_hours,
	actual_hours_engagement,
	actual_hours_rehearsal,
	has_rehearsal,
	is_recorded,
	leader_is_incorporated,
	leader_instrument,
	leader_is_playing,
	leader_is_doubling,
	leader_has_cartage,
	total_gross_comp,
	total_work_dues,
	total_pension,
	total_health,
	created_at,
	last_saved_at`

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, c *model.Contract) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO contracts (
			id, user_id, status, applicable_local, applicable_scale,
			leader_is_playing, created_at, last_saved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID, c.UserID, c.Status, c.ApplicableLocal, c.ApplicableScale,
		c.LeaderIsPlaying, c.CreatedAt, c.LastSavedAt,
	).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+contractColumns+`
		FROM contracts
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&contract).Error
	if err != nil {
		return nil, err
	}
	if contract.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &contract, nil
}

func (r *ContractRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+contractColumns+`
		FROM contracts
		WHERE user_id = ?
		ORDER BY last_saved_at DESC
	`, userID).Scan(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

// Update persists the full contract record and replaces its side musicians in
// one transaction, keeping the draft's entry order through the position
// column.
func (r *ContractRepository) Update(ctx context.Context, c *model.Contract, musicians []model.SideMusician) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`
			UPDATE contracts SET
				status = ?,
				applicable_local = ?,
				applicable_scale = ?,
				engagement_date = ?,
				start_time = ?,
				end_time = ?,
				leader_name = ?,
				leader_card_no = ?,
				leader_ssn_ein = ?,
				leader_address = ?,
				leader_phone = ?,
				band_name = ?,
				venue_name = ?,
				location_borough = ?,
				engagement_type = ?,
				num_musicians = ?,
				pre_heat_hours = ?,
				actual_hours_engagement = ?,
				actual_hours_rehearsal = ?,
				has_rehearsal = ?,
				is_recorded = ?,
				leader_is_incorporated = ?,
				leader_instrument = ?,
				leader_is_playing = ?,
				leader_is_doubling = ?,
				leader_has_cartage = ?,
				total_gross_comp = ?,
				total_work_dues = ?,
				total_pension = ?,
				total_health = ?,
				last_saved_at = ?
			WHERE id = ?
		`,
			c.Status, c.ApplicableLocal, c.ApplicableScale,
			c.EngagementDate, c.StartTime, c.EndTime,
			c.LeaderName, c.LeaderCardNo, c.LeaderSSNEIN,
			c.LeaderAddress, c.LeaderPhone, c.BandName,
			c.VenueName, c.LocationBorough, c.EngagementType,
			c.NumMusicians, c.PreHeatHours, c.ActualHoursEngagement,
			c.ActualHoursRehearsal, c.HasRehearsal, c.IsRecorded,
			c.LeaderIsIncorporated, c.LeaderInstrument, c.LeaderIsPlaying,
			c.LeaderIsDoubling, c.LeaderHasCartage,
			c.TotalGrossComp, c.TotalWorkDues, c.TotalPension, c.TotalHealth,
			c.LastSavedAt, c.ID,
		).Error
		if err != nil {
			return err
		}

		if err := tx.Exec(`DELETE FROM side_musicians WHERE contract_id = ?`, c.ID).Error; err != nil {
			return err
		}
		for _, m := range musicians {
			err := tx.Exec(`
				INSERT INTO side_musicians (
					id, contract_id, position, name, card_no, tax_id,
					instrument, is_doubling, has_cartage
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				m.ID, m.ContractID, m.Position, m.Name, m.CardNo, m.TaxID,
				m.Instrument, m.IsDoubling, m.HasCartage,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ContractRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContractStatus) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE contracts SET status = ? WHERE id = ?
	`, status, id).Error
}

// Delete removes the contract and its side musicians. The musicians are
// removed explicitly so the behavior does not depend on foreign keys being
// enforced.
func (r *ContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM side_musicians WHERE contract_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM contracts WHERE id = ?`, id).Error
	})
}

func (r *ContractRepository) ListSideMusicians(ctx context.Context, contractID uuid.UUID) ([]model.SideMusician, error) {
	var musicians []model.SideMusician
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, contract_id, position, name, card_no, tax_id,
			instrument, is_doubling, has_cartage
		FROM side_musicians
		WHERE contract_id = ?
		ORDER BY position ASC
	`, contractID).Scan(&musicians).Error
	if err != nil {
		return nil, err
	}
	return musicians, nil
}
