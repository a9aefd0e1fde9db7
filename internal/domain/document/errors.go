package document

import "errors"

var (
	ErrUnknownKind       = errors.New("unknown document kind")
	ErrDocumentNotFound  = errors.New("signed document not found")
	ErrSignatureRequired = errors.New("signature is required")
	ErrInvalidSignature  = errors.New("signature is not a valid image")
	ErrUnknownField      = errors.New("unknown document field")
	ErrInvalidFieldValue = errors.New("invalid document field value")
	ErrSignDateInFuture  = errors.New("sign date cannot be in the future")
)
