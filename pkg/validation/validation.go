package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New cria um validador que usa os nomes das tags json nas mensagens
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Message converte os erros do validador em uma mensagem em português
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("o campo %s é obrigatório", fe.Field())
	case "max":
		return fmt.Sprintf("o campo %s deve ter no máximo %s caracteres", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("o campo %s deve ter no mínimo %s caracteres", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("o campo %s deve ser um e-mail válido", fe.Field())
	case "oneof":
		return fmt.Sprintf("o campo %s deve ser um de: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("o campo %s é inválido", fe.Field())
	}
}
