package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/storage"
)

var validate = validator.New()

type RatingsRequest struct {
	Stress int `json:"stress" validate:"required,gte=1,lte=10"`
	Energy int `json:"energy" validate:"required,gte=1,lte=10"`
	Mood   int `json:"mood" validate:"required,gte=1,lte=10"`
	Focus  int `json:"focus" validate:"required,gte=1,lte=10"`
}

type CheckInRequest struct {
	Date    string           `json:"date" validate:"required,datetime=2006-01-02"`
	Ratings RatingsRequest   `json:"ratings"`
	Prompts internal.Prompts `json:"prompts" validate:"max=20,dive"`
}

func ValidateCheckInRequest(body *CheckInRequest) error {
	return validate.Struct(body)
}

// SaveCheckIn writes the user's entry for body.Date, replacing any earlier
// one for the same date.
func SaveCheckIn(ctx context.Context, repo storage.CheckInRepository, user *internal.User, body *CheckInRequest) (*internal.CheckIn, error) {
	now := time.Now().UTC()
	prompts := body.Prompts
	if prompts == nil {
		prompts, _ = internal.NormalizePrompts(nil)
	}
	checkIn := &internal.CheckIn{
		UserID: user.ID,
		Date:   body.Date,
		Ratings: internal.Ratings{
			Stress: body.Ratings.Stress,
			Energy: body.Ratings.Energy,
			Mood:   body.Ratings.Mood,
			Focus:  body.Ratings.Focus,
		},
		Prompts:   prompts,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.SaveCheckIn(ctx, checkIn); err != nil {
		return nil, err
	}
	return checkIn, nil
}
