package models

import "time"

type Visitor struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	Age         int       `json:"age"`
	Institution string    `json:"institution,omitempty"`
	Gender      string    `json:"gender"`
	Education   string    `json:"education,omitempty"`
	Occupation  string    `json:"occupation,omitempty"`
	Purpose     string    `json:"purpose"`
	CreatedAt   time.Time `json:"created_at"`
}

// VisitorForm is the intake payload shared by the staff guest form and the
// self-service visitor form.
type VisitorForm struct {
	Name        string `json:"name" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"required,max=16,phone"`
	Email       string `json:"email" validate:"omitempty,email,max=100"`
	Address     string `json:"address" validate:"omitempty,max=255"`
	Age         int    `json:"age" validate:"required,min=1,max=120"`
	Institution string `json:"institution" validate:"omitempty,max=150"`
	Gender      string `json:"gender" validate:"required,oneof=L P"`
	Education   string `json:"education" validate:"omitempty,max=50"`
	Occupation  string `json:"occupation" validate:"omitempty,max=100"`
	Purpose     string `json:"purpose" validate:"required,max=255"`
	ServiceID   int64  `json:"service_id" validate:"required,min=1"`
}

func (f VisitorForm) Visitor() Visitor {
	return Visitor{
		Name:        f.Name,
		Phone:       f.Phone,
		Email:       f.Email,
		Address:     f.Address,
		Age:         f.Age,
		Institution: f.Institution,
		Gender:      f.Gender,
		Education:   f.Education,
		Occupation:  f.Occupation,
		Purpose:     f.Purpose,
	}
}
