package api

// ChatResponse is the body returned by POST /chat on success.
type ChatResponse struct {
	Response string `json:"response"`
}

// StatusResponse is the static body returned by GET /.
type StatusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ErrorResponse is the uniform failure body. The frontend reads `detail`.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
