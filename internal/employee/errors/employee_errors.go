package employeeerrors

import (
	"net/http"

	"github.com/alechulkin/modfac/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrPhoneNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same phone number already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrSearchTermTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"Search name must be at least 3 characters",
		http.StatusBadRequest,
	)
)
