package structs

type EvaluateEssayRequest struct {
	EssayText  string `json:"essayText" binding:"required"`
	SourceText string `json:"sourceText"`
}

type GenerateEssayRequest struct {
	SourceText string `json:"sourceText" binding:"required"`
}
