package council

// MemberResponse is the API representation of a council member
type MemberResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	District *int   `json:"district,omitempty"`
}

// MemberListResponse wraps the active roster
type MemberListResponse struct {
	Members []*MemberResponse `json:"members"`
	Total   int               `json:"total"`
}
