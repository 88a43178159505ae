package dto

import (
	"hotel/internal/domains/staff/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"strings"
	"time"
)

type CreateStaffRequest struct {
	Email    string `json:"email"     validate:"required,email,max=255"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Role     string `json:"role"      validate:"omitempty,oneof=admin receptionist"`
}

func (r *CreateStaffRequest) ToModel(user, hashedPassword string) model.Staff {
	role := r.Role
	if role == constant.Empty {
		role = constant.RoleReceptionist
	}

	return model.Staff{
		Email:    strings.ToLower(strings.TrimSpace(r.Email)),
		Password: hashedPassword,
		FullName: strings.TrimSpace(r.FullName),
		Role:     role,
		Active:   true,
		Metadata: gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateStaffRequest struct {
	FullName *string `db:"full_name" json:"full_name,omitempty" validate:"omitempty,max=100"`
	Role     *string `db:"role"      json:"role,omitempty"      validate:"omitempty,oneof=admin receptionist"`
	Active   *bool   `db:"active"    json:"active,omitempty"`
}

type StaffResponse struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      string     `json:"role"`
	Active    bool       `json:"active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *StaffResponse) FromModel(staff model.Staff) {
	r.ID = staff.ID
	r.Email = staff.Email
	r.FullName = staff.FullName
	r.Role = staff.Role
	r.Active = staff.Active
	r.LastLogin = staff.LastLogin
	r.Metadata.FromModel(staff.Metadata)
}

type GetStaffResponse struct {
	Staff     []StaffResponse `json:"staff"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetStaffResponse) FromModels(models []model.Staff, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Staff = make([]StaffResponse, len(models))
	for i, mod := range models {
		r.Staff[i].FromModel(mod)
	}
}

// EmailFilter matches the account registered under email, case-insensitively.
func EmailFilter(email string) gDto.FilterGroup {
	return gDto.NewFilterGroup(gDto.Filter{
		Field:    model.FieldEmail,
		Operator: gDto.FilterOperatorEq,
		Value:    strings.ToLower(strings.TrimSpace(email)),
		Table:    model.TableName,
	})
}
