package errors

import "net/http"

var (
	ErrInvalidDocumentType = &DomainError{
		Code:    "INVALID_DOCUMENT_TYPE",
		Message: "invalid document type or side",
		Status:  http.StatusBadRequest,
	}
	ErrFileRequired = &DomainError{
		Code:    "FILE_REQUIRED",
		Message: "no file uploaded",
		Status:  http.StatusBadRequest,
	}
	ErrFileTooLarge = &DomainError{
		Code:    "FILE_TOO_LARGE",
		Message: "file exceeds the maximum allowed size",
		Status:  http.StatusBadRequest,
	}
	ErrUnsupportedFileType = &DomainError{
		Code:    "UNSUPPORTED_FILE_TYPE",
		Message: "only JPEG, PNG and PDF files are allowed",
		Status:  http.StatusBadRequest,
	}
	ErrActiveSubmission = &DomainError{
		Code:    "ACTIVE_SUBMISSION_EXISTS",
		Message: "an active submission already exists for this document",
		Status:  http.StatusConflict,
	}
	ErrUploadRateLimited = &DomainError{
		Code:    "UPLOAD_RATE_LIMITED",
		Message: "too many uploads, please try again later",
		Status:  http.StatusTooManyRequests,
	}
	ErrDocumentNotFound = &DomainError{
		Code:    "DOCUMENT_NOT_FOUND",
		Message: "document not found",
		Status:  http.StatusNotFound,
	}
	ErrDocumentAccessDenied = &DomainError{
		Code:    "DOCUMENT_ACCESS_DENIED",
		Message: "access to this document is not allowed",
		Status:  http.StatusForbidden,
	}
	ErrDocumentFinalized = &DomainError{
		Code:    "DOCUMENT_FINALIZED",
		Message: "document has already been reviewed",
		Status:  http.StatusConflict,
	}
	ErrCommentRequired = &DomainError{
		Code:    "COMMENT_REQUIRED",
		Message: "a rejection comment is required",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidDecision = &DomainError{
		Code:    "INVALID_DECISION",
		Message: "decision must be approve or reject",
		Status:  http.StatusBadRequest,
	}
	ErrStorageFailure = &DomainError{
		Code:    "STORAGE_FAILURE",
		Message: "failed to store document",
		Status:  http.StatusInternalServerError,
	}

	ErrProfileNotFound = &DomainError{
		Code:    "PROFILE_NOT_FOUND",
		Message: "KYC profile not found",
		Status:  http.StatusNotFound,
	}
	ErrProfileLocked = &DomainError{
		Code:    "PROFILE_LOCKED",
		Message: "profile can no longer be edited",
		Status:  http.StatusConflict,
	}
	ErrProfileAlreadySubmitted = &DomainError{
		Code:    "PROFILE_ALREADY_SUBMITTED",
		Message: "profile has already been submitted",
		Status:  http.StatusConflict,
	}
	ErrProfileNotSubmitted = &DomainError{
		Code:    "PROFILE_NOT_SUBMITTED",
		Message: "profile is not awaiting review",
		Status:  http.StatusConflict,
	}
	ErrInvalidProfile = &DomainError{
		Code:    "INVALID_PROFILE",
		Message: "profile data is invalid",
		Status:  http.StatusBadRequest,
	}
)
