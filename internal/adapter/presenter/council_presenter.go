package presenter

import (
	"github.com/cicero-foco/cicero/internal/adapter/dto/council"
	"github.com/cicero-foco/cicero/internal/domain/entities"
)

// ToCouncilMemberResponse converts a CouncilMember entity to its API representation
func ToCouncilMemberResponse(m *entities.CouncilMember) *council.MemberResponse {
	if m == nil {
		return nil
	}

	return &council.MemberResponse{
		ID:       m.ID.String(),
		Name:     m.Name,
		Role:     string(m.Role),
		District: m.District,
	}
}

// ToCouncilMemberListResponse converts the active roster
func ToCouncilMemberListResponse(members []entities.CouncilMember) *council.MemberListResponse {
	responses := make([]*council.MemberResponse, len(members))
	for i := range members {
		responses[i] = ToCouncilMemberResponse(&members[i])
	}
	return &council.MemberListResponse{
		Members: responses,
		Total:   len(responses),
	}
}
