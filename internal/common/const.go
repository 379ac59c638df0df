package common

import "fmt"

const (
	ChatPromptTemplate = "Provide a short and concise one-paragraph reply to: %s"

	CropRotationPromptTemplate = "Suggest a crop rotation plan for growing %s in %s soil for %s months. " +
		"Provide a short and concise farmer-friendly explanation without using any symbols or bold text."

	CropRotationSavedMessage = "Crop rotation plan saved successfully."

	// AutoPlanKeyword asks the backend to generate the plan text.
	AutoPlanKeyword = "auto"

	MaxLevelLength = 50
	MaxCropField   = 100
)

// ChatPrompt 聊天回复提示词
func ChatPrompt(message string) string {
	return fmt.Sprintf(ChatPromptTemplate, message)
}

func CropRotationPrompt(crop, soil, duration string) string {
	return fmt.Sprintf(CropRotationPromptTemplate, crop, soil, duration)
}
