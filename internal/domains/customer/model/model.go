package model

import (
	"hotel/shared/model"
	"strings"
	"time"
)

const (
	TableName  = "customers"
	EntityName = "customer"

	FieldID          = "id"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldAddress     = "address"
	FieldDateOfBirth = "date_of_birth"
)

type Customer struct {
	ID          int64      `db:"id"            insert:"false"`
	FirstName   string     `db:"first_name"`
	LastName    string     `db:"last_name"`
	Email       string     `db:"email"`
	Phone       string     `db:"phone"`
	Address     string     `db:"address"`
	DateOfBirth *time.Time `db:"date_of_birth"`
	model.Metadata
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
