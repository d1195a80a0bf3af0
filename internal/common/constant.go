package common

const (
	// AuthorizationHeaderName carries the bearer access token on API requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token value in AuthorizationHeaderName.
	BearerPrefix = "Bearer "

	// PDFMimeType is the content type the intake endpoint stores uploads with.
	PDFMimeType = "application/pdf"

	// PDFExtension is the file suffix accepted in place of a PDF MIME type.
	PDFExtension = ".pdf"

	// UploadFormField is the multipart field name holding the exam file.
	UploadFormField = "file"

	// DigestHeaderName returns the server-side content digest of an intake.
	DigestHeaderName = "X-Content-Digest"
)
