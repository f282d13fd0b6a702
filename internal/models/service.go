package models

import "time"

type ServiceStatus string

const (
	ServiceActive   ServiceStatus = "ACTIVE"
	ServiceInactive ServiceStatus = "INACTIVE"
)

type Service struct {
	ID        int64         `json:"id"`
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	Status    ServiceStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type CreateServiceRequest struct {
	Code   string `json:"code" validate:"required,alphanum,max=10"`
	Name   string `json:"name" validate:"required,max=255"`
	Status string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

type UpdateServiceRequest struct {
	Code   string `json:"code" validate:"omitempty,alphanum,max=10"`
	Name   string `json:"name" validate:"omitempty,max=255"`
	Status string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}
