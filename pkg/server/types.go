package server

// AnalyzeRequest is the JSON body of /analyze_image_with_base64.
type AnalyzeRequest struct {
	ImageBase64 string `json:"image_base64"`
	BotID       string `json:"bot_id"`
}

type BotResponse struct {
	ImageDescription   string `json:"image_description"`
	ImageSummary       string `json:"image_summary"`
	FinalResponse      string `json:"final_response"`
	BotUsed            string `json:"bot_used"`
	ImageBase64Preview string `json:"image_base64_preview"`
}

type RootResponse struct {
	Message       string   `json:"message"`
	Description   string   `json:"description"`
	AvailableBots []string `json:"available_bots"`
}

type BotsResponse struct {
	AvailableBots []string `json:"available_bots"`
	TotalCount    int      `json:"total_count"`
	Usage         string   `json:"usage"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	BotsLoaded int    `json:"bots_loaded"`
}

type ErrorResponse struct {
	Detail        string   `json:"detail"`
	AvailableBots []string `json:"available_bots,omitempty"`
}
