package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cicero-foco/cicero/internal/domain/entities"
)

// CouncilMemberRepository handles council member reference data
type CouncilMemberRepository struct {
	db *gorm.DB
}

// NewCouncilMemberRepository creates a new council member repository
func NewCouncilMemberRepository(db *gorm.DB) *CouncilMemberRepository {
	return &CouncilMemberRepository{db: db}
}

// ListActive retrieves sitting council members ordered by role then name
func (r *CouncilMemberRepository) ListActive(ctx context.Context) ([]entities.CouncilMember, error) {
	var members []entities.CouncilMember
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("role ASC, name ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// GetByName retrieves a council member by exact name
func (r *CouncilMemberRepository) GetByName(ctx context.Context, name string) (*entities.CouncilMember, error) {
	var member entities.CouncilMember
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}
