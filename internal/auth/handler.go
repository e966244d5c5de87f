package auth

import (
	"errors"
	"strings"

	"estoque-backend/internal/config"
	"estoque-backend/internal/logger"
	"estoque-backend/internal/models"
	"estoque-backend/internal/request"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Username string           `json:"username" validate:"required,min=3,max=100"`
	Password string           `json:"password" validate:"required,min=6"`
	Level    models.UserLevel `json:"level" validate:"omitempty,oneof=admin operador"`
}

type UserResponse struct {
	ID       uint             `json:"id"`
	Username string           `json:"username"`
	Level    models.UserLevel `json:"level"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Level: u.Level}
}

func LoginHandler(cfg *config.Config, users *UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		body.Username = strings.TrimSpace(body.Username)
		log := logger.FromFiber(c)

		user, err := users.FindByUsername(c.UserContext(), body.Username)
		if errors.Is(err, ErrUserNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuário ou senha incorretos")
		}
		if err != nil {
			log.Error("user lookup failed", zap.Error(err))
			return fiber.NewError(fiber.StatusServiceUnavailable, "Banco de dados indisponível")
		}

		ok, needsRehash := CheckPassword(user.PasswordHash, body.Password)
		if !ok {
			log.Info("login rejected", zap.String("username", body.Username))
			return fiber.NewError(fiber.StatusUnauthorized, "Usuário ou senha incorretos")
		}

		if needsRehash {
			if hash, err := HashPassword(body.Password); err == nil {
				if err := users.UpdatePasswordHash(c.UserContext(), user.ID, hash); err != nil {
					log.Warn("legacy password rehash failed", zap.Uint("user_id", user.ID), zap.Error(err))
				} else {
					log.Info("legacy password rehashed", zap.Uint("user_id", user.ID))
				}
			}
		}

		token, err := GenerateToken(cfg.JWTSecret, user, cfg.JWTTTL)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  toUserResponse(user),
		})
	}
}

func MeHandler(users *UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Não autenticado")
		}

		user, err := users.FindByID(c.UserContext(), id.UserID)
		if err != nil {
			// token is still valid, answer from its claims
			return c.JSON(UserResponse{ID: id.UserID, Username: id.Username, Level: id.Level})
		}
		return c.JSON(toUserResponse(user))
	}
}

func CreateUserHandler(users *UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		body.Username = strings.TrimSpace(body.Username)
		if body.Level == "" {
			body.Level = models.LevelOperator
		}

		_, err := users.FindByUsername(c.UserContext(), body.Username)
		if err == nil {
			return fiber.NewError(fiber.StatusConflict, "Usuário já existe")
		}
		if !errors.Is(err, ErrUserNotFound) {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Banco de dados indisponível")
		}

		hash, err := HashPassword(body.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível processar a senha")
		}

		user := &models.User{
			Username:     body.Username,
			PasswordHash: hash,
			Level:        body.Level,
		}
		if err := users.Create(c.UserContext(), user); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o usuário")
		}

		logger.FromFiber(c).Info("user created",
			zap.String("username", user.Username),
			zap.String("level", string(user.Level)))
		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
	}
}
