package entity

import "errors"

var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleAlreadyExists = errors.New("role already exists for this user")
)
