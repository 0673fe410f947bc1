package usecase

// Códigos de erro de domínio expostos pela API.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeLeadNotFound       = "LEAD_NOT_FOUND"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeOwnerNotFound      = "OWNER_NOT_FOUND"
	CodeEmailInUse         = "EMAIL_IN_USE"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) (*DomainError, bool) {
	derr, ok := err.(*DomainError)
	return derr, ok
}

// TechnicalError cobre falhas de infraestrutura (banco indisponível etc).
// Analytics reporta qualquer falha de persistência como um único TechnicalError,
// nunca resultado parcial.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) (*TechnicalError, bool) {
	terr, ok := err.(*TechnicalError)
	return terr, ok
}
