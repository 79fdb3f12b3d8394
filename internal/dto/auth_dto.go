package dto

import (
	"phonebook/internal/entity"
	"phonebook/internal/service"
)

type SignupResponse struct {
	Email            string `json:"email"`
	SubscriptionTier string `json:"subscriptionTier"`
}

type UserResponse struct {
	Email            string `json:"email"`
	SubscriptionTier string `json:"subscriptionTier"`
	Avatar           string `json:"avatar"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type SubscriptionResponse struct {
	User UserResponse `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func SignupResponseFromEntity(user *entity.User) SignupResponse {
	return SignupResponse{
		Email:            user.Email,
		SubscriptionTier: string(user.SubscriptionTier),
	}
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	return UserResponse{
		Email:            user.Email,
		SubscriptionTier: string(user.SubscriptionTier),
		Avatar:           user.AvatarURL,
	}
}

func LoginResponseFromResult(result *service.LoginResult) LoginResponse {
	if result == nil || result.User == nil {
		return LoginResponse{}
	}
	return LoginResponse{
		Token: result.Token,
		User:  UserResponseFromEntity(result.User),
	}
}
