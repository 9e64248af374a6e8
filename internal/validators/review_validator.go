package validators

type ReviewAspectsRequest struct {
	Cleanliness int `json:"cleanliness" validate:"omitempty,min=1,max=5"`
	Comfort     int `json:"comfort" validate:"omitempty,min=1,max=5"`
	Performance int `json:"performance" validate:"omitempty,min=1,max=5"`
	Value       int `json:"value" validate:"omitempty,min=1,max=5"`
}

type ReviewImageRequest struct {
	URL     string `json:"url" validate:"required,url"`
	Caption string `json:"caption" validate:"omitempty,max=200"`
}

type CreateReviewRequest struct {
	BookingID string                `json:"booking_id" validate:"required,object_id"`
	Rating    int                   `json:"rating" validate:"required,min=1,max=5"`
	Title     string                `json:"title" validate:"omitempty,max=100"`
	Comment   string                `json:"comment" validate:"required,min=10,max=2000"`
	Aspects   *ReviewAspectsRequest `json:"aspects" validate:"omitempty"`
	Images    []ReviewImageRequest  `json:"images" validate:"omitempty,max=5,dive"`
}

type ReviewResponseRequest struct {
	Comment string `json:"comment" validate:"required,min=2,max=1000"`
}

func ValidateCreateReviewRequest(req *CreateReviewRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateReviewResponseRequest(req *ReviewResponseRequest) ValidationErrors {
	return ValidateStruct(req)
}
