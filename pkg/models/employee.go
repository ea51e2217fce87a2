package models

import "fmt"

// EmployeeRecord is the profile shape materialized during name search.
// The master API is not consistent about field spellings across
// tenants, so each attribute is resolved from an ordered alias list,
// first present-and-non-empty wins.
type EmployeeRecord struct {
	EmployeeID  string `json:"employee_id"`
	FullName    string `json:"full_name"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Designation string `json:"designation,omitempty"`
	Department  string `json:"department,omitempty"`
	OfficeCity  string `json:"office_city,omitempty"`
	Status      string `json:"employee_status,omitempty"`
	Company     string `json:"company,omitempty"`
	JoiningDate string `json:"joining_date,omitempty"`
}

// Summary is the bounded form returned for disambiguation lists.
func (e EmployeeRecord) Summary() map[string]string {
	return map[string]string{
		"employee_id": e.EmployeeID,
		"full_name":   e.FullName,
		"designation": e.Designation,
	}
}

var fieldAliases = map[string][]string{
	"employee_id": {"employee_number", "employeeNumber", "emp_id"},
	"full_name":   {"full_name", "employee_name", "name"},
	"first_name":  {"first_name", "firstName"},
	"last_name":   {"last_name", "lastName"},
	"email":       {"company_email_id", "email", "companyEmail"},
	"designation": {"designation_name", "designation", "role"},
	"department":  {"department_name", "department", "function"},
	"office_city": {"office_city", "city", "location"},
	"status":      {"employee_status", "status"},
	"company":     {"company_name", "company"},
	"joining":     {"date_of_joining", "joiningDate"},
}

// PickField resolves one logical attribute from a raw backend record
// using its alias list. Absent and empty values are skipped.
func PickField(raw map[string]any, attribute string) string {
	for _, key := range fieldAliases[attribute] {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		s := fmt.Sprintf("%v", v)
		if s != "" && s != "none" {
			return s
		}
	}
	return ""
}

// ExtractEmployee builds an EmployeeRecord from a heterogeneous raw
// roster entry.
func ExtractEmployee(raw map[string]any) EmployeeRecord {
	return EmployeeRecord{
		EmployeeID:  PickField(raw, "employee_id"),
		FullName:    PickField(raw, "full_name"),
		FirstName:   PickField(raw, "first_name"),
		LastName:    PickField(raw, "last_name"),
		Email:       PickField(raw, "email"),
		Designation: PickField(raw, "designation"),
		Department:  PickField(raw, "department"),
		OfficeCity:  PickField(raw, "office_city"),
		Status:      PickField(raw, "status"),
		Company:     PickField(raw, "company"),
		JoiningDate: PickField(raw, "joining"),
	}
}
