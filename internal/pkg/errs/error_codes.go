/*
Package errs defines the application's error type and error code constants.

Codes identify specific business or system failures both internally and in
responses to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates an unsupported Content-Type header.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates a malformed JSON request body.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing content after the JSON document.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates the request rate exceeded the limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Account and Contact Errors
const (
	// ErrInvalidEmail indicates the supplied email address is not valid.
	ErrInvalidEmail = 2001

	// ErrInvalidPassword indicates the supplied password fails the policy.
	ErrInvalidPassword = 2002

	// ErrUserAlreadyExists indicates the email is already registered.
	ErrUserAlreadyExists = 2003

	// ErrUserNotFound indicates no account exists for the identifier.
	ErrUserNotFound = 2004

	// ErrInvalidCredentials indicates an email/password mismatch on login.
	ErrInvalidCredentials = 2005

	// ErrProfileIncomplete indicates required profile fields are missing.
	ErrProfileIncomplete = 2006

	// ErrSearchTermRequired indicates a contact search without a term.
	ErrSearchTermRequired = 2101
)

// 3xxx: Session and Security Errors
const (
	// ErrUnauthorized indicates the request lacks a valid session.
	ErrUnauthorized = 3001
)

// 4xxx: Message and File Errors
const (
	// ErrMessagePeerRequired indicates a history request without the peer id.
	ErrMessagePeerRequired = 4001

	// ErrFileTypeInvalid indicates a disallowed attachment type.
	ErrFileTypeInvalid = 4101

	// ErrFileSizeTooLarge indicates the attachment exceeds the size limit.
	ErrFileSizeTooLarge = 4102

	// ErrFileStorageFailed indicates the storage backend rejected the operation.
	ErrFileStorageFailed = 4103
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal error.
	ErrUnknown = 5000
)
