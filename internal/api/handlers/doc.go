package handlers

// StatusResponse is the liveness response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadinessResponse is the readiness response body. Failed lists the
// dependencies that did not answer.
type ReadinessResponse struct {
	Status string   `json:"status"           example:"unavailable"`
	Failed []string `json:"failed,omitempty" example:"redis"`
}
