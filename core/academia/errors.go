package academia

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies engine errors so the boundary layer can map each one to a distinct response.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindRoleMismatch
	KindStudentNotInCourse
	KindDuplicateEvaluation
	KindDeletionBlocked
	KindInvalidField
	KindStorageFailure
)

var kindNames = map[Kind]string{
	KindUnknown:             "Unknown",
	KindNotFound:            "NotFound",
	KindRoleMismatch:        "RoleMismatch",
	KindStudentNotInCourse:  "StudentNotInCourse",
	KindDuplicateEvaluation: "DuplicateEvaluation",
	KindDeletionBlocked:     "DeletionBlocked",
	KindInvalidField:        "InvalidField",
	KindStorageFailure:      "StorageFailure",
}

func (k Kind) String() string { return kindNames[k] }

// Reason codes reported per entry by batch operations.
const (
	CodeInvalidField        = "invalid_field"
	CodeInvalidGrade        = "invalid_grade"
	CodeNotFound            = "not_found"
	CodeExamNotFound        = "exam_not_found"
	CodeStudentNotFound     = "student_not_found"
	CodeEvaluationNotFound  = "evaluation_not_found"
	CodeRoleMismatch        = "role_mismatch"
	CodeStudentNotInCourse  = "student_not_in_course"
	CodeDuplicateEvaluation = "duplicate_evaluation"
	CodeDeletionBlocked     = "deletion_blocked"
	CodeStorageFailure      = "storage_failure"
)

// Storage sentinels returned by Repository implementations.
var (
	ErrNoRows              = errors.New("no rows in result set")
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")
)

// Error is the typed error returned by every engine operation.
type Error struct {
	Kind    Kind
	Code    string
	Entity  EntityKind
	Field   string
	ID      int64
	Reasons []string // DeletionBlocked only
	Msg     string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else {
		b.WriteString(e.Kind.String())
	}
	if len(e.Reasons) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Reasons, ", "))
	}
	if e.Err != nil && e.Kind == KindStorageFailure {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Errors is returned when more than one check failed at once.
type Errors []*Error

func (errs Errors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func (errs Errors) Unwrap() []error {
	out := make([]error, 0, len(errs))
	for _, e := range errs {
		out = append(out, e)
	}
	return out
}

// orNil collapses an empty list to a nil error and a single one to *Error.
func (errs Errors) orNil() error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errs
	}
}

// KindOf returns the Kind of the first engine error found in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the reason code of the first engine error found in err's chain.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStorageFailure
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

// Constructors

func notFound(entity EntityKind, id int64) *Error {
	code := CodeNotFound
	switch entity {
	case EntityExamen:
		code = CodeExamNotFound
	case EntityEvaluacion:
		code = CodeEvaluationNotFound
	}
	return &Error{
		Kind:   KindNotFound,
		Code:   code,
		Entity: entity,
		ID:     id,
		Msg:    fmt.Sprintf("%s %d not found", entity, id),
	}
}

// referenceNotFound reports a foreign reference `field` pointing to nothing.
func referenceNotFound(field string, entity EntityKind, id int64) *Error {
	e := notFound(entity, id)
	e.Field = field
	if field == "alumnoId" {
		e.Code = CodeStudentNotFound
	}
	e.Msg = fmt.Sprintf("%s: %s %d not found", field, entity, id)
	return e
}

func roleMismatch(field string, dni int64, want Tipo) *Error {
	return &Error{
		Kind:   KindRoleMismatch,
		Code:   CodeRoleMismatch,
		Entity: EntityPersona,
		Field:  field,
		ID:     dni,
		Msg:    fmt.Sprintf("%s: persona %d is not a %s", field, dni, want),
	}
}

func studentNotInCourse(dni, examenID int64) *Error {
	return &Error{
		Kind:   KindStudentNotInCourse,
		Code:   CodeStudentNotInCourse,
		Entity: EntityPersona,
		Field:  "alumnoId",
		ID:     dni,
		Msg:    fmt.Sprintf("alumno %d does not belong to the curso of examen %d", dni, examenID),
	}
}

func duplicateEvaluation(examenID, dni int64, cause error) *Error {
	return &Error{
		Kind:   KindDuplicateEvaluation,
		Code:   CodeDuplicateEvaluation,
		Entity: EntityEvaluacion,
		Msg:    fmt.Sprintf("an evaluacion already exists for examen %d and alumno %d", examenID, dni),
		Err:    cause,
	}
}

func deletionBlocked(entity EntityKind, id int64, reasons []string) *Error {
	return &Error{
		Kind:    KindDeletionBlocked,
		Code:    CodeDeletionBlocked,
		Entity:  entity,
		ID:      id,
		Reasons: reasons,
		Msg:     fmt.Sprintf("%s %d cannot be deleted", entity, id),
	}
}

// invalidField wraps err (validator.ValidationErrors or *core.ValidationError) as InvalidField.
func invalidField(entity EntityKind, field string, err error) *Error {
	code := CodeInvalidField
	if field == "nota" {
		code = CodeInvalidGrade
	}
	return &Error{
		Kind:   KindInvalidField,
		Code:   code,
		Entity: entity,
		Field:  field,
		Msg:    err.Error(),
		Err:    err,
	}
}

func storageFailure(err error, msg string) *Error {
	return &Error{
		Kind: KindStorageFailure,
		Code: CodeStorageFailure,
		Msg:  msg,
		Err:  err,
	}
}

// trapStorage keeps engine errors as they are and wraps anything else as StorageFailure.
func trapStorage(err error, msg string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return storageFailure(err, msg)
}
