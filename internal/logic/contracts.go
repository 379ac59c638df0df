package logic

import (
	"strings"
	"unicode/utf8"

	"apisagro-backend/internal/common"
	"apisagro-backend/internal/db"
)

// ChatCreate is the POST /chat body. IsUser is decoded loosely so that a
// non-boolean value can be rejected as invalid input instead of a decode error.
type ChatCreate struct {
	Message string `json:"message"`
	IsUser  any    `json:"is_user"`
}

func (r ChatCreate) Validate() (bool, error) {
	if strings.TrimSpace(r.Message) == "" {
		return false, invalidInput("message is required")
	}
	isUser, ok := r.IsUser.(bool)
	if !ok {
		return false, invalidInput("is_user must be a boolean")
	}
	return isUser, nil
}

type BeeTrafficCreate struct {
	Level string `json:"level" binding:"required"`
}

func (r BeeTrafficCreate) Validate() error {
	if utf8.RuneCountInString(r.Level) > common.MaxLevelLength {
		return invalidInput("level must be at most 50 characters")
	}
	return nil
}

// CropRotationCreate is the POST /crop-rotation body. A missing or empty
// plan, or "auto", asks for a generated plan.
type CropRotationCreate struct {
	Crop     string `json:"crop" binding:"required"`
	Soil     string `json:"soil" binding:"required"`
	Duration string `json:"duration" binding:"required"`
	Plan     string `json:"plan"`
}

func (r CropRotationCreate) Validate() error {
	for name, v := range map[string]string{"crop": r.Crop, "soil": r.Soil, "duration": r.Duration} {
		if utf8.RuneCountInString(v) > common.MaxCropField {
			return invalidInput(name + " must be at most 100 characters")
		}
	}
	return nil
}

func (r CropRotationCreate) WantsGeneratedPlan() bool {
	return IsAutoPlan(r.Plan)
}

// IsAutoPlan reports whether plan is empty or the keyword "auto", ignoring
// case and surrounding whitespace.
func IsAutoPlan(plan string) bool {
	p := strings.TrimSpace(plan)
	return p == "" || strings.EqualFold(p, common.AutoPlanKeyword)
}

type CropRotationSaved struct {
	Message string          `json:"message"`
	Data    db.CropRotation `json:"data"`
}
