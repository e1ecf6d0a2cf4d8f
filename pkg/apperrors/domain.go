package apperrors

import (
	"net/http"
)

/*
Предопределенные ошибки домена отзывов.
*/

// ErrReviewNotFound - отзыв не существует (404).
var ErrReviewNotFound = New(
	CodeNotFound,
	"review",
	"Review not found",
	http.StatusNotFound,
)

// ErrReviewNotFoundOrForbidden - self-service удаление: "не существует" и
// "не твой" намеренно неразличимы, чтобы не раскрывать существование
// чужих записей. Код и тело совпадают с ErrReviewNotFound.
var ErrReviewNotFoundOrForbidden = New(
	CodeNotFound,
	"review",
	"Review not found",
	http.StatusNotFound,
)

// ErrCommentThreadAccessDenied - тред комментариев доступен только
// автору отзыва и администратору.
var ErrCommentThreadAccessDenied = New(
	CodeForbidden,
	"review",
	"Access to review comments denied",
	http.StatusForbidden,
)

// ErrInsufficientPermissions - не-админ пытается выполнить админ-действие.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrInvalidReviewStatus - в БД оказался неизвестный статус.
// В нормальной работе недостижимо.
var ErrInvalidReviewStatus = New(
	CodeInvalidStatus,
	"review",
	"Invalid review status",
	http.StatusConflict,
)
