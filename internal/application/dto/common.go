package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UploadResponse respuesta de la carga de imágenes.
type UploadResponse struct {
	ID string `json:"id"`
}
