package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/scopesignals/coverage/internal/domain"
)

const maxBodyBytes = 1 << 16

// createSessionRequest starts a session. An empty module means the
// configured default.
type createSessionRequest struct {
	Module string `json:"module" validate:"omitempty,module"`
}

// moduleRequest switches a session's module.
type moduleRequest struct {
	Module string `json:"module" validate:"required,module"`
}

// hoverRequest names the hovered entity. Both fields empty clears hover.
type hoverRequest struct {
	GroupID string `json:"group_id" validate:"excluded_with=Zip,max=64"`
	Zip     string `json:"zip" validate:"max=10"`
}

// selectRequest names the clicked entity, by group id or by ZIP.
type selectRequest struct {
	GroupID string `json:"group_id" validate:"required_without=Zip,excluded_with=Zip,max=64"`
	Zip     string `json:"zip" validate:"max=10"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	err := v.RegisterValidation("module", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseModule(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(fmt.Sprintf("register module validation: %v", err))
	}
	return v
}

// decodeBody decodes an optional JSON body into dst and validates it. An
// empty body leaves dst at its zero value.
func (s *Server) decodeBody(r *http.Request, w http.ResponseWriter, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
