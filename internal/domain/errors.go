package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidStatus     = errors.New("estado desconocido")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrRPCUnavailable    = errors.New("procedimiento remoto no disponible")
	ErrRemote            = errors.New("error en procedimiento remoto")
	ErrLocked            = errors.New("recurso bloqueado por otra operación")
)

// ValidationError lista todas las reglas violadas, no solo la primera.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validación: " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// StockError describe los faltantes detectados al verificar disponibilidad.
type StockError struct {
	Shortfalls []entity.Shortfall
}

func (e *StockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		name := s.ProductName
		if name == "" {
			name = s.ProductID
		}
		if s.Reason == entity.ShortfallNotFound {
			parts = append(parts, fmt.Sprintf("%s no encontrado", name))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (disponible: %d, solicitado: %d)", name, s.Available, s.Requested))
	}
	return "Stock insuficiente: " + strings.Join(parts, "; ")
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// RPCError error devuelto por un procedimiento almacenado (success=false o sin flag).
type RPCError struct {
	Function string
	Message  string
}

func (e *RPCError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: respuesta sin éxito", e.Function)
	}
	return fmt.Sprintf("%s: %s", e.Function, e.Message)
}

func (e *RPCError) Unwrap() error { return ErrRemote }
