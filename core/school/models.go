package school

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/tdkhoa/sodiem/core"
)

type SchoolYear struct {
	ID      ID     `json:"id"`
	Name    string `json:"TenNienKhoa"`
	Current bool   `json:"is_current"`
}

type GradeLevel struct {
	ID   ID     `json:"id"`
	Name string `json:"TenKhoi"`
}

type Term struct {
	ID   ID     `json:"id"`
	Name string `json:"TenHocKy"`
}

type Subject struct {
	ID   ID     `json:"id"`
	Name string `json:"TenMonHoc"`
}

type Class struct {
	ID      ID     `json:"id"`
	Name    string `json:"TenLop"`
	Size    int    `json:"SiSo"`
	YearID  ID     `json:"IDNienKhoa"`
	GradeID ID     `json:"IDKhoi"`
}

type Student struct {
	ID              ID          `json:"id"`
	FamilyName      string      `json:"Ho"`
	GivenName       string      `json:"Ten"`
	Gender          string      `json:"GioiTinh"`
	BirthDate       time.Time   `json:"NgaySinh"`
	Address         null.String `json:"DiaChi,omitempty"`
	Email           null.String `json:"Email,omitempty"`
	AdmissionYearID ID          `json:"IDNienKhoaTiepNhan"`
	ExpectedGradeID ID          `json:"KhoiDuKien"`
	// Deletable is computed server-side: a student already placed in a class
	// cannot be removed from the records.
	Deletable bool `json:"is_deletable"`
}

func (s Student) FullName() string {
	if s.FamilyName == "" {
		return s.GivenName
	}
	return s.FamilyName + " " + s.GivenName
}

type Account struct {
	ID       ID          `json:"id"`
	Username string      `json:"username"`
	FullName string      `json:"HoTen"`
	Email    null.String `json:"Email,omitempty"`
	Role     string      `json:"role"`
	Active   bool        `json:"is_active"`
}

// Settings are the school-wide parameters maintained by the administration:
// the subject pass threshold and the default class capacity.
type Settings struct {
	PassThreshold   float64 `json:"DiemDatMon"`
	DefaultCapacity int     `json:"SiSoToiDa"`
}

// SettingsService supplies the current Settings; polled once per screen load.
type SettingsService interface {
	Latest(ctx context.Context) (Settings, error)
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	FamilyName      string    `json:"Ho" validate:"required"`
	GivenName       string    `json:"Ten" validate:"required"`
	Gender          string    `json:"GioiTinh" validate:"required"`
	BirthDate       time.Time `json:"NgaySinh" validate:"required"`
	Address         string    `json:"DiaChi"`
	Email           string    `json:"Email" validate:"omitempty,email"`
	AdmissionYearID ID        `json:"IDNienKhoaTiepNhan" validate:"required"`
	ExpectedGradeID ID        `json:"KhoiDuKien" validate:"required"`
}

func (ns *NewStudent) Validate() error {
	ns.FamilyName = core.CleanString(ns.FamilyName)
	ns.GivenName = core.CleanString(ns.GivenName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return core.Validate.Struct(ns)
}

// Record produces the optimistic Student shown while the create call is in
// flight, carrying a fresh synthetic id.
func (ns NewStudent) Record(id ID) Student {
	return Student{
		ID:              id,
		FamilyName:      ns.FamilyName,
		GivenName:       ns.GivenName,
		Gender:          ns.Gender,
		BirthDate:       ns.BirthDate,
		Address:         null.NewString(ns.Address, ns.Address != ""),
		Email:           null.NewString(ns.Email, ns.Email != ""),
		AdmissionYearID: ns.AdmissionYearID,
		ExpectedGradeID: ns.ExpectedGradeID,
		Deletable:       true,
	}
}
