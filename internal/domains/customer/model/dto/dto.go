package dto

import (
	"hotel/internal/domains/customer/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"strings"
	"time"
)

type CreateCustomerRequest struct {
	FirstName   string `json:"first_name"    validate:"required,max=100"`
	LastName    string `json:"last_name"     validate:"required,max=100"`
	Email       string `json:"email"         validate:"required,email,max=255"`
	Phone       string `json:"phone"         validate:"omitempty,max=20,phone"`
	Address     string `json:"address"       validate:"omitempty,max=255"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,date"`
}

func (c *CreateCustomerRequest) ToModel(user string) model.Customer {
	return model.Customer{
		FirstName:   strings.TrimSpace(c.FirstName),
		LastName:    strings.TrimSpace(c.LastName),
		Email:       strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:       c.Phone,
		Address:     c.Address,
		DateOfBirth: parseBirthDate(c.DateOfBirth),
		Metadata:    gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateCustomerRequest struct {
	FirstName   string     `db:"first_name"    json:"first_name"    validate:"omitempty,max=100"`
	LastName    string     `db:"last_name"     json:"last_name"     validate:"omitempty,max=100"`
	Email       string     `db:"email"         json:"email"         validate:"omitempty,email,max=255"`
	Phone       *string    `db:"phone"         json:"phone"         validate:"omitempty,max=20,phone"`
	Address     *string    `db:"address"       json:"address"       validate:"omitempty,max=255"`
	DateOfBirth string     `db:"-"             json:"date_of_birth" validate:"omitempty,date"`
	BirthDate   *time.Time `db:"date_of_birth" json:"-"`
}

// Normalize lowercases the email and resolves DateOfBirth into BirthDate.
func (u *UpdateCustomerRequest) Normalize() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.BirthDate = parseBirthDate(u.DateOfBirth)
}

func parseBirthDate(value string) *time.Time {
	if value == constant.Empty {
		return nil
	}

	date, err := timezone.ParseDate(value)
	if err != nil {
		return nil
	}

	return &date
}

// SearchFilter matches the search term against name and email.
func SearchFilter(search string) gDto.FilterGroup {
	if search == constant.Empty {
		return gDto.FilterGroup{}
	}

	fields := []string{model.FieldFirstName, model.FieldLastName, model.FieldEmail}
	filters := make([]any, 0, len(fields))

	for _, field := range fields {
		filters = append(filters, gDto.Filter{
			ArgName:  "search_" + field,
			Field:    field,
			Operator: gDto.FilterOperatorLike,
			Value:    search,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorOr}
}

type CustomerResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	gDto.Metadata
}

func (r *CustomerResponse) FromModel(model model.Customer) {
	r.ID = model.ID
	r.FirstName = model.FirstName
	r.LastName = model.LastName
	r.FullName = model.FullName()
	r.Email = model.Email
	r.Phone = model.Phone
	r.Address = model.Address
	r.DateOfBirth = constant.Empty

	if model.DateOfBirth != nil {
		r.DateOfBirth = model.DateOfBirth.Format(constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetCustomersResponse) FromModels(models []model.Customer, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Customers = make([]CustomerResponse, len(models))
	for i, mod := range models {
		r.Customers[i].FromModel(mod)
	}
}
