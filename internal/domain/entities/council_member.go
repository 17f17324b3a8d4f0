package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CouncilRole is a council member's seat
type CouncilRole string

const (
	CouncilRoleMayor         CouncilRole = "mayor"
	CouncilRoleMayorProTem   CouncilRole = "mayor_pro_tem"
	CouncilRoleCouncilMember CouncilRole = "council_member"
)

// CouncilMember is reference data used to enrich speaker attribution in
// generated summaries. Never mutated by the pipeline.
type CouncilMember struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string      `json:"name" gorm:"type:varchar(255);not null;index"`
	Role      CouncilRole `json:"role" gorm:"type:varchar(20);not null"`
	District  *int        `json:"district,omitempty"`
	Email     string      `json:"email" gorm:"type:varchar(320);not null"`
	IsActive  bool        `json:"is_active" gorm:"default:true;index"`
	CreatedAt time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (CouncilMember) TableName() string {
	return "council_members"
}

// RoleTitle renders the role the way it appears in meeting transcripts
func (m *CouncilMember) RoleTitle() string {
	switch m.Role {
	case CouncilRoleMayor:
		return "Mayor"
	case CouncilRoleMayorProTem:
		return "Mayor Pro Tem"
	default:
		return "Council Member"
	}
}

// MatchesSpeaker reports whether a model-attributed speaker name refers to
// this member. Model output usually carries a title prefix, so containment
// in either direction counts.
func (m *CouncilMember) MatchesSpeaker(speakerName string) bool {
	speaker := strings.ToLower(strings.TrimSpace(speakerName))
	name := strings.ToLower(m.Name)
	if speaker == "" || name == "" {
		return false
	}
	return strings.Contains(speaker, name) || strings.Contains(name, speaker)
}
