package dto

// CreatePlaybookRequest represents the strategy-tag creation payload
type CreatePlaybookRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UpdatePlaybookRequest carries partial playbook changes
type UpdatePlaybookRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// PlaybookListQuery selects the listing view and filters
type PlaybookListQuery struct {
	View   string `query:"view" validate:"omitempty,oneof=basic detailed"`
	Search string `query:"search" validate:"omitempty,min=1"`
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Size   int    `query:"size" validate:"omitempty,min=1,max=50"`
}

// Normalize applies listing defaults
func (q *PlaybookListQuery) Normalize() {
	if q.View == "" {
		q.View = "basic"
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = 10
	}
}
