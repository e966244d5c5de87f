package inventory

import (
	"errors"
	"fmt"
)

// Code classifies an Error so callers can tell a validation failure from a
// missing record or an unreachable backend.
type Code string

const (
	CodeValidation  Code = "validation"
	CodeConflict    Code = "conflict"
	CodeNotFound    Code = "not_found"
	CodeUnavailable Code = "unavailable"
)

type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

var (
	ErrEmptyBranchName  = &Error{CodeValidation, "Informe o nome da filial"}
	ErrDuplicateBranch  = &Error{CodeConflict, "Filial já existe"}
	ErrLastBranch       = &Error{CodeConflict, "Não é possível excluir a única filial"}
	ErrBranchNotFound   = &Error{CodeNotFound, "Filial não encontrada"}
	ErrEmptyProductName = &Error{CodeValidation, "Informe o nome do produto"}
	ErrNegativeQuantity = &Error{CodeValidation, "Quantidade não pode ser negativa"}
	ErrNoNameColumn     = &Error{CodeValidation, "Coluna 'Nome' ou 'Nome do Produto' não encontrada"}
	ErrNoQuantityColumn = &Error{CodeValidation, "Coluna 'Quantidade' não encontrada"}
	ErrNoValidRows      = &Error{CodeValidation, "Nenhum registro válido encontrado no arquivo"}
	ErrUnreadableFile   = &Error{CodeValidation, "Erro ao ler arquivo"}
	ErrUnavailable      = &Error{CodeUnavailable, "Armazenamento indisponível"}
)

// CodeOf returns the Code of the first *Error in err's chain, or "" for
// untyped errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// storeErr keeps typed errors from a Store and marks everything else as a
// backend failure.
func storeErr(err error) error {
	if CodeOf(err) != "" {
		return err
	}
	return unavailable(err)
}
