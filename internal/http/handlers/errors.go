// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them while the
// accompanying message is meant for display. Generic codes mirror HTTP status
// semantics; domain-specific ones name the operation that failed.
//
// Example response:
//
//	{
//	  "success": false,
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "validation_failed",
//	  "message": "Tous les champs sont obligatoires"
//	}
package handlers

const (
	ErrCodeBadRequest      = "bad_request"
	ErrCodeNotFound        = "not_found"
	ErrCodePayloadTooLarge = "payload_too_large"
	ErrCodeRateLimited     = "too_many_requests"
	ErrCodeInternal        = "internal_error"

	// Domain-specific:
	ErrCodeValidation   = "validation_failed"
	ErrCodeSubmitFailed = "submit_failed"
	ErrCodeListFailed   = "list_failed"
	ErrCodeBadIdemKey   = "bad_idempotency_key"
	ErrCodeIdemReused   = "idempotency_key_reused"
	ErrCodeInvalidLimit = "invalid_limit"
	ErrCodeEmptyQuery   = "empty_query"
)

// User-facing messages.
const (
	MsgMissingFields   = "Tous les champs sont obligatoires"
	MsgInvalidEmail    = "Adresse email invalide"
	MsgContactAccepted = "Message envoyé avec succès! Je vous répondrai rapidement."
	MsgSubmitFailed    = "Erreur serveur lors du traitement de votre message"
	MsgListFailed      = "Erreur lors de la récupération des messages"
	MsgRouteNotFound   = "Route non trouvée"
	MsgBadBody         = "Corps de requête invalide"
	MsgBodyTooLarge    = "Corps de requête trop volumineux"
	MsgInvalidLimit    = "Le paramètre limit doit être un entier positif"
	MsgEmptyQuery      = "Le paramètre q est obligatoire"
	MsgIdemKeyReused   = "Cette clé d'idempotence a déjà servi pour un autre message"
	MsgInternal        = "Erreur interne du serveur"
)
