package dto

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username     string `json:"username" validate:"required,max=64"`
	ClientSecret string `json:"client_secret" validate:"required,max=256"`
}

func (r *TokenRequest) Validate() error {
	return validateStruct(r)
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type EndpointInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

type IndexResponse struct {
	Service   string         `json:"service"`
	Endpoints []EndpointInfo `json:"endpoints"`
}
