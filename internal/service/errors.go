package service

import "go.mongodb.org/mongo-driver/bson/primitive"

// Kind classifies a request failure so the transport layer can pick a status
// code without inspecting message text.
type Kind int

const (
	KindInvalid Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a request failure with a client-safe message. Anything that is not
// a *Error is treated as an infrastructure failure: logged and surfaced as a
// generic 500.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Invalid(msg string) error      { return &Error{Kind: KindInvalid, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) error    { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) error     { return &Error{Kind: KindConflict, Message: msg} }

// parseObjectID converts a hex path parameter, turning malformed ids into the
// same not-found error the caller would return for a missing document.
func parseObjectID(hex, notFoundMsg string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, NotFound(notFoundMsg)
	}
	return oid, nil
}
