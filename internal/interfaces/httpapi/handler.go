package httpapi

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
	"github.com/riskibarqy/laliga-scout/internal/usecase"
)

type Handler struct {
	clubService        *usecase.ClubService
	squadService       *usecase.SquadService
	careerService      *usecase.CareerService
	marketValueService *usecase.MarketValueService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	clubService *usecase.ClubService,
	squadService *usecase.SquadService,
	careerService *usecase.CareerService,
	marketValueService *usecase.MarketValueService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		clubService:        clubService,
		squadService:       squadService,
		careerService:      careerService,
		marketValueService: marketValueService,
		logger:             logger,
		validator:          newQueryValidator(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// newQueryValidator reports failing fields by their query parameter name.
func newQueryValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// validateQuery expects string fields already trimmed, so blank input fails "required".
func (h *Handler) validateQuery(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateQuery")
	defer span.End()

	err := h.validator.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	missing := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		missing = append(missing, fieldErr.Field())
	}
	return usecase.MissingParameters(missing...)
}

func queryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}
