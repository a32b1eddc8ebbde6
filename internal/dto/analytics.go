package dto

// UpdateFilterRequest merges into the current analytics filter. Nil fields
// are left untouched; use Reset to clear everything before applying the
// provided fields. Dates are ISO YYYY-MM-DD, Month is 0-11.
type UpdateFilterRequest struct {
	Reset        bool    `json:"reset"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Month        *int    `json:"month"`
	Year         *int    `json:"year"`
	CategoryID   *string `json:"categoryId"`
	SpecificDate *string `json:"specificDate"`
}
