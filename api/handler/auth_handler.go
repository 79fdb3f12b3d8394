package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"phonebook/api/middleware"
	"phonebook/internal/dto"
	"phonebook/internal/service"
	"phonebook/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	msgVerified         = "Verification successful"
	msgVerificationSent = "Verification email sent"
	msgInternal         = "internal server error"
	msgInvalidBody      = "request body must be a JSON object"
)

var errInvalidBody = errors.New(msgInvalidBody)

type AuthHandler struct {
	Service *service.AuthService
	Logger  logrus.FieldLogger
}

func NewAuthHandler(svc *service.AuthService, logger logrus.FieldLogger) *AuthHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthHandler{Service: svc, Logger: logger}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	fields, err := decodeFields(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	user, err := h.Service.Signup(c.Request().Context(), fields)
	if err != nil {
		return h.writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.SignupResponseFromEntity(user))
}

func (h *AuthHandler) Login(c echo.Context) error {
	fields, err := decodeFields(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Service.Login(c.Request().Context(), fields)
	if err != nil {
		return h.writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.LoginResponseFromResult(result))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return h.writeServiceError(c, service.ErrUnauthorized)
	}
	if err := h.Service.Logout(c.Request().Context(), identity.ID); err != nil {
		return h.writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Current(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return h.writeServiceError(c, service.ErrUnauthorized)
	}
	user, err := h.Service.Current(c.Request().Context(), identity.ID)
	if err != nil {
		return h.writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *AuthHandler) UpdateSubscription(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return h.writeServiceError(c, service.ErrUnauthorized)
	}
	fields, err := decodeFields(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	user, err := h.Service.UpdateSubscription(c.Request().Context(), identity.ID, fields)
	if err != nil {
		return h.writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SubscriptionResponse{User: dto.UserResponseFromEntity(user)})
}

func (h *AuthHandler) Verify(c echo.Context) error {
	if err := h.Service.Activate(c.Request().Context(), c.Param("token")); err != nil {
		return h.writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: msgVerified})
}

func (h *AuthHandler) Reverify(c echo.Context) error {
	fields, err := decodeFields(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.Reverify(c.Request().Context(), fields); err != nil {
		return h.writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: msgVerificationSent})
}

// decodeFields reads the body as a JSON object. Unknown fields are left for
// the validation engine to strip; an empty body is an empty object.
func decodeFields(c echo.Context) (validation.Fields, error) {
	fields := validation.Fields{}
	decoder := json.NewDecoder(c.Request().Body)
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return validation.Fields{}, nil
		}
		return nil, errInvalidBody
	}
	if fields == nil {
		return nil, errInvalidBody
	}
	return fields, nil
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, dto.MessageResponse{Message: err.Error()})
}

func (h *AuthHandler) writeServiceError(c echo.Context, err error) error {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.WithError(err).
			WithField("method", c.Request().Method).
			WithField("path", c.Path()).
			Error("request failed")
	}
	return c.JSON(status, dto.MessageResponse{Message: message})
}

func statusFor(err error) (int, string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, service.ErrAlreadyVerified):
		return http.StatusBadRequest, "Verification has already been passed"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusBadRequest, "This token not exist or has been expired"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Email or password is wrong"
	case errors.Is(err, service.ErrEmailNotVerified):
		return http.StatusUnauthorized, "Email not verified, request a new verification email with POST /users/verify"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "Not authorized"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		return http.StatusConflict, "Email in use"
	}
	return http.StatusInternalServerError, msgInternal
}
