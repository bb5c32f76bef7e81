package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
)

// undefined_function: el procedimiento no existe en la base.
const codeUndefinedFunction = "42883"

// Param argumento nombrado de un procedimiento remoto (notación p_nombre => valor).
type Param struct {
	Name  string
	Value any
}

// RPCClient invoca procedimientos almacenados que devuelven jsonb {success, error, ...}.
type RPCClient struct {
	q Querier
}

// NewRPCClient construye el cliente. Pasar pool o tx (Querier).
func NewRPCClient(q Querier) *RPCClient {
	return &RPCClient{q: q}
}

type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func callSQL(fn string, params []Param) (string, []any) {
	parts := make([]string, len(params))
	args := make([]any, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s => $%d", ident(p.Name), i+1)
		args[i] = p.Value
	}
	return fmt.Sprintf("SELECT %s(%s)", ident(fn), strings.Join(parts, ", ")), args
}

// Call ejecuta fn y devuelve el jsonb completo. Un resultado sin success=true se devuelve
// como *domain.RPCError; un procedimiento inexistente como domain.ErrRPCUnavailable.
func (c *RPCClient) Call(ctx context.Context, fn string, params ...Param) (json.RawMessage, error) {
	sql, args := callSQL(fn, params)
	var raw []byte
	if err := c.q.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return nil, rpcError(fn, err)
	}
	if err := checkEnvelope(fn, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func rpcError(fn string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUndefinedFunction {
		return fmt.Errorf("%s: %w", fn, domain.ErrRPCUnavailable)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.RPCError{Function: fn}
	}
	return fmt.Errorf("rpc %s: %w", fn, err)
}

// checkEnvelope exige success=true; la ausencia del flag cuenta como fallo.
func checkEnvelope(fn string, raw []byte) error {
	if len(raw) == 0 {
		return &domain.RPCError{Function: fn}
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &domain.RPCError{Function: fn, Message: "respuesta no es un objeto JSON"}
	}
	if env.Success == nil || !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return &domain.RPCError{Function: fn, Message: msg}
	}
	return nil
}
