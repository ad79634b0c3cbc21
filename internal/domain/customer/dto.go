// internal/domain/customer/dto.go
package customer

type SearchRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// Search result statuses returned by the search endpoint.
const (
	SearchFound    = "FOUND"
	SearchNotFound = "NOT_FOUND"
)

type SearchResponse struct {
	Status string            `json:"status"`
	Data   *AssignmentDetail `json:"data,omitempty"`
}

type CreateAssignmentRequest struct {
	// Customer fields
	Name        string   `json:"name" binding:"required,max=255"`
	Contact     string   `json:"contact" binding:"required,max=20"`
	Location    string   `json:"location" binding:"max=255"`
	Pincode     string   `json:"pincode" binding:"max=10"`
	Profession  string   `json:"profession" binding:"max=255"`
	Designation string   `json:"designation" binding:"max=255"`
	Email       string   `json:"email" binding:"omitempty,email,max=255"`
	Preferences []string `json:"preferences"`

	// Lead fields
	Source        string `json:"source" binding:"max=255"`
	Rating        string `json:"rating" binding:"max=50"`
	Budget        string `json:"budget" binding:"max=100"`
	Configuration string `json:"configuration" binding:"max=255"`
	Purpose       string `json:"purpose" binding:"max=255"`
	StatusCode    string `json:"status_code" binding:"required,max=100"`
	FollowUpDate  string `json:"follow_up_date"`
	FollowUpTime  string `json:"follow_up_time"`
	Remark        string `json:"remark"`
}

type CreateAssignmentResponse struct {
	AssignmentID int64 `json:"agent_customer_id"`
}

// UpdateAssignmentRequest uses pointers so absent fields are left untouched;
// demographic fields, when present, propagate to the linked customer row.
type UpdateAssignmentRequest struct {
	// Lead fields
	Source        *string `json:"source" binding:"omitempty,max=255"`
	Rating        *string `json:"rating" binding:"omitempty,max=50"`
	Budget        *string `json:"budget" binding:"omitempty,max=100"`
	Configuration *string `json:"configuration" binding:"omitempty,max=255"`
	Purpose       *string `json:"purpose" binding:"omitempty,max=255"`
	StatusCode    *string `json:"status_code" binding:"omitempty,max=100"`
	FollowUpDate  *string `json:"follow_up_date"`
	FollowUpTime  *string `json:"follow_up_time"`
	Remark        *string `json:"remark"`

	// Customer demographics
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Location    *string `json:"location" binding:"omitempty,max=255"`
	Pincode     *string `json:"pincode" binding:"omitempty,max=10"`
	Profession  *string `json:"profession" binding:"omitempty,max=255"`
	Designation *string `json:"designation" binding:"omitempty,max=255"`
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
}

// HasDemographics reports whether any customer-side field is present.
func (r *UpdateAssignmentRequest) HasDemographics() bool {
	return r.Name != nil || r.Location != nil || r.Pincode != nil ||
		r.Profession != nil || r.Designation != nil || r.Email != nil
}

type CompleteResponse struct {
	Success bool `json:"success"`
}
