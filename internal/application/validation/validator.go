// Package validation valida DTOs de entrada con go-playground/validator y traduce
// cada regla violada a un mensaje en castellano. Siempre se informan todas, no solo la primera.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// Validator envuelve validator.Validate con los tags propios del dominio (telefono).
type Validator struct {
	v      *validator.Validate
	region string
}

// New construye el validador. region es el código ISO por defecto para teléfonos sin prefijo internacional.
func New(phoneRegion string) *Validator {
	if phoneRegion == "" {
		phoneRegion = "AR"
	}
	val := &Validator{v: validator.New(), region: strings.ToUpper(phoneRegion)}

	// Nombres de campo tomados del tag json para que los mensajes coincidan con el payload.
	val.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// decimal.Decimal se valida como float64 (gte=0, gt=0 en montos).
	val.v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	mustRegister(val.v, "telefono", val.phone)
	return val
}

// mustRegister registra un tag propio; un fallo es un error de programación y aborta el arranque.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: registrar tag %q: %v", tag, err))
	}
}

// ValidPhone indica si el número es válido para la región configurada (o por su prefijo internacional).
func (val *Validator) ValidPhone(number string) bool {
	p, err := libphonenumber.Parse(number, val.region)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(p)
}

func (val *Validator) phone(fl validator.FieldLevel) bool {
	return val.ValidPhone(fl.Field().String())
}

// Check devuelve un mensaje por cada regla violada; nil si s es válido.
func (val *Validator) Check(s interface{}) []string {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return msgs
}

// Struct como Check pero devuelve *domain.ValidationError (o nil).
func (val *Validator) Struct(s interface{}) error {
	if msgs := val.Check(s); len(msgs) > 0 {
		return &domain.ValidationError{Errors: msgs}
	}
	return nil
}

// fieldName quita el nombre del struct raíz: "CreateOrderRequest.items[0].cantidad" -> "items[0].cantidad".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", field)
	case "gte":
		if fe.Param() == "0" {
			return fmt.Sprintf("%s no puede ser negativo", field)
		}
		return fmt.Sprintf("%s debe ser mayor o igual a %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s debe ser mayor a %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s debe tener al menos %s elemento(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s supera el máximo de %s caracteres", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s no es un email válido", field)
	case "telefono":
		return fmt.Sprintf("%s no es un teléfono válido", field)
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s no cumple la regla %s", field, fe.Tag())
	}
}
